package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/tomhaller/depview/pkg/layout"
	"github.com/tomhaller/depview/pkg/render/styles"
)

// DOTOptions configures DOT emission.
type DOTOptions struct {
	// Detailed includes status and type lines in node labels.
	// When false, only the truncated title is shown.
	Detailed bool
}

// ToDOT converts a computed graph to Graphviz DOT format. Graphviz does its
// own layout, so only the node set, edge set and styling carry over; the
// computed positions are ignored. The resulting string can be rendered with
// [RenderDOT].
func ToDOT(cg layout.ComputedGraph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tasks {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range cg.Nodes {
		label := dotLabel(n, opts.Detailed)
		palette := styles.PaletteFor(n.Task.Status)
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q, color=%q, fontcolor=%q];\n",
			n.ID, label, palette.Fill, palette.Border, palette.Text)
	}

	buf.WriteString("\n")
	for _, e := range cg.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n layout.PositionedNode, detailed bool) string {
	title := styles.Truncate(n.Task.Title, styles.MaxLabelChars)
	if !detailed {
		return title
	}
	parts := []string{title, "status: " + string(n.Task.Status)}
	if n.Task.Type != "" {
		parts = append(parts, "type: "+string(n.Task.Type))
	}
	return strings.Join(parts, "\n")
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [ToPDF] or [ToPNG].
func RenderDOT(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's svg element to a zero-origin viewBox
// with explicit pixel dimensions, which the interactive viewer and the rsvg
// converters both expect.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
