package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tomhaller/depview/pkg/geom"
	"github.com/tomhaller/depview/pkg/layout"
	"github.com/tomhaller/depview/pkg/render/styles"
)

const (
	nodeCornerRadius = 8.0
	accentWidth      = 4.0
	edgeColor        = "#94a3b8"
	edgeWidth        = 1.5
	arrowSize        = 8.0
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

// WithViewWindow overrides the SVG viewBox with a viewport window, so the
// output shows exactly the slice of content a viewport controller is looking
// at instead of the whole canvas.
func WithViewWindow(w geom.Rect) SVGOption {
	return func(r *svgRenderer) { r.window = &w }
}

// WithBackground sets a solid background color. The default is transparent.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

type svgRenderer struct {
	window     *geom.Rect
	background string
}

// RenderSVG draws a computed layout as a standalone SVG document. Edges are
// drawn first so nodes sit on top of their connector lines; both are emitted
// in the deterministic order the layout produced them.
func RenderSVG(cg layout.ComputedGraph, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	view := geom.Rect{Width: cg.Width, Height: cg.Height}
	if r.window != nil {
		view = *r.window
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		view.X, view.Y, view.Width, view.Height, cg.Width, cg.Height)

	renderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			view.X, view.Y, view.Width, view.Height, r.background)
	}

	for _, e := range cg.Edges {
		renderEdge(&buf, e)
	}
	for _, n := range cg.Nodes {
		renderNode(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="%.0f" markerHeight="%.0f" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/>
    </marker>
  </defs>
`, arrowSize, arrowSize, edgeColor)
}

func renderEdge(buf *bytes.Buffer, e layout.RoutedEdge) {
	if len(e.Points) < 2 {
		return
	}
	points := make([]string, len(e.Points))
	for i, p := range e.Points {
		points[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	fmt.Fprintf(buf, `  <polyline id="edge-%s-%s" points="%s" fill="none" stroke="%s" stroke-width="%.1f" marker-end="url(#arrow)"/>`+"\n",
		styles.EscapeXML(e.From), styles.EscapeXML(e.To), strings.Join(points, " "), edgeColor, edgeWidth)
}

func renderNode(buf *bytes.Buffer, n layout.PositionedNode) {
	left := n.X - n.Width/2
	top := n.Y - n.Height/2
	palette := styles.PaletteFor(n.Task.Status)

	fmt.Fprintf(buf, `  <g id="node-%s" class="node">`+"\n", styles.EscapeXML(n.ID))
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.1f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		left, top, n.Width, n.Height, nodeCornerRadius, palette.Fill, palette.Border)

	if accent := styles.AccentFor(n.Task.Type); accent != "" {
		fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.1f" height="%.2f" rx="%.1f" fill="%s"/>`+"\n",
			left, top, accentWidth, n.Height, accentWidth/2, accent)
	}

	title := styles.Truncate(n.Task.Title, styles.MaxLabelChars)
	size := styles.FontSizeFor(n.Width-2*accentWidth, n.Height/2, len(title))
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
		n.X, n.Y, size, palette.Text, styles.EscapeXML(title))
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" fill="%s" opacity="0.7">%s</text>`+"\n",
		n.X, n.Y+size+2, size*0.8, palette.Text, styles.EscapeXML(n.ID))
	buf.WriteString("  </g>\n")
}
