package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/skillweave/pkg/layout"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node type and ID under each label.
	// When false, only the label is shown.
	Detailed bool
}

// shapes gives control nodes a silhouette distinct from skills.
var shapes = map[string]string{
	layout.TypeSkill:    "box",
	layout.TypeSequence: "box",
	layout.TypeParallel: "parallelogram",
	layout.TypeBranch:   "diamond",
}

// ToDOT converts a positioned composition to Graphviz DOT format.
// Node IDs match the layout, so a node selected in the terminal diagram is
// the same node in the export. Edges follow the layout's connectors: a
// sequence chains its steps, parallel and branch nodes fan out.
//
// Hydrated nodes get a bold outline, the selected node a thick dark one.
func ToDOT(g *layout.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, c := range g.Connectors {
		fmt.Fprintf(&buf, "  %q -> %q;\n", c.FromID, c.ToID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n layout.PositionedNode, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\n%s #%s", n.Label, n.Type, n.ID)
}

func fmtAttrs(n layout.PositionedNode, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	if shape := shapes[n.Type]; shape != "box" && shape != "" {
		attrs = append(attrs, "shape="+shape, "style=filled")
	}
	if n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Color))
	}
	switch {
	case n.Selected:
		attrs = append(attrs, "penwidth=3", "color=\"#111827\"")
	case n.Hydrated:
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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

// normalizeViewBox replaces Graphviz's point-based svg tag with one that
// scales from a zero-origin viewBox.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
