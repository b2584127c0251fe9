// Package render turns computed graph layouts into visual outputs.
//
// # Overview
//
// The package provides two rendering paths:
//
//   - Native SVG ([RenderSVG]): draws the positioned nodes and routed edges
//     produced by [layout.Compute] directly, with status and type styling
//     from the [styles] subpackage. This is the primary path and the one the
//     interactive viewer uses, since its viewBox can be driven by a
//     [viewport.Controller] window.
//   - Graphviz ([ToDOT] plus [RenderDOT]): emits DOT and lets Graphviz do
//     its own layout. Useful for comparing against the native layout or for
//     piping into other Graphviz tooling.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg). They work on the output of either
// rendering path.
//
//	svg := render.RenderSVG(computed)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [layout.Compute]: github.com/tomhaller/depview/pkg/layout
// [viewport.Controller]: github.com/tomhaller/depview/pkg/viewport
// [styles]: github.com/tomhaller/depview/pkg/render/styles
package render
