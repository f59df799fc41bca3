// Package nodelink renders composition trees as Graphviz node-link diagrams.
//
// # Overview
//
// The terminal diagram from [textgrid] is the primary view of a
// composition. This package exports the same positioned graph to DOT so it
// can be rendered with Graphviz, embedded in documentation, or processed by
// other tools.
//
// # Usage
//
// Lay out the tree, convert it to DOT, then render to SVG:
//
//	g := layout.Compute(root, layout.Options{})
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes filled with the layout theme colors. Parallel nodes are drawn
// as parallelograms and branches as diamonds.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
//
// [textgrid]: github.com/matzehuels/skillweave/pkg/render/textgrid
package nodelink
