// Package render groups the output renderers for positioned compositions.
//
// Both renderers consume a [layout.Graph]:
//
//   - [textgrid] paints boxes and connectors into a character buffer for
//     terminals, with plain and ANSI-colored output.
//   - [nodelink] exports the graph to Graphviz DOT and SVG.
//
//	g := layout.Compute(root, layout.Options{Selected: "n3"})
//	fmt.Print(textgrid.Render(g).String())
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{}))
//
// [layout.Graph]: github.com/matzehuels/skillweave/pkg/layout#Graph
// [textgrid]: github.com/matzehuels/skillweave/pkg/render/textgrid
// [nodelink]: github.com/matzehuels/skillweave/pkg/render/nodelink
package render
