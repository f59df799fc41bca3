package layout

import (
	"fmt"

	"github.com/matzehuels/skillweave/pkg/compose"
)

// Box geometry and spacing, in terminal cells.
const (
	BoxWidth  = 24
	BoxHeight = 5
	HSpacing  = 3
	VSpacing  = 2
)

// Node types carried by positioned boxes.
const (
	TypeSkill    = "skill"
	TypeSequence = "sequence"
	TypeParallel = "parallel"
	TypeBranch   = "branch"
)

// Options control a [Compute] call.
type Options struct {
	Selected string      // ID of the selected node, "" for none
	IDs      IDGenerator // nil means a fresh Counter per call
	Theme    Theme       // zero value means DefaultTheme
}

// Graph is a positioned composition tree.
type Graph struct {
	Nodes      []PositionedNode `json:"nodes"`
	Connectors []Connector      `json:"connectors"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
}

// PositionedNode is a box at a fixed grid position.
type PositionedNode struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Color    string   `json:"color"`
	Selected bool     `json:"selected,omitempty"`
	Hydrated bool     `json:"hydrated,omitempty"`
	BoxLines []string `json:"box_lines"`
}

// CenterX returns the column of the box's horizontal center.
func (n PositionedNode) CenterX() int { return n.X + n.Width/2 }

// Connector is the path from a parent box to a child box.
type Connector struct {
	FromID string  `json:"from"`
	ToID   string  `json:"to"`
	Points []Point `json:"points"`
}

// Find returns the node with the given ID.
func (g *Graph) Find(id string) (*PositionedNode, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Order returns node IDs in pre-order, the order used for keyboard
// navigation.
func (g *Graph) Order() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return len(g.Nodes) == 0 }

// Compute lays out root. It never fails; a nil root yields an empty graph.
func Compute(root compose.Node, opts Options) *Graph {
	g := &Graph{Nodes: []PositionedNode{}, Connectors: []Connector{}}
	if root == nil {
		return g
	}
	ids := opts.IDs
	if ids == nil {
		ids = NewCounter("")
	}
	e := &engine{
		g:        g,
		ids:      ids,
		selected: opts.Selected,
		theme:    opts.Theme.withDefaults(),
		extents:  make(map[compose.Node]extent),
	}
	ext := e.measure(root)
	e.place(root, 0, 0, false)
	g.Width, g.Height = ext.w, ext.h
	return g
}

type extent struct{ w, h int }

type engine struct {
	g        *Graph
	ids      IDGenerator
	selected string
	theme    Theme
	extents  map[compose.Node]extent
}

// measure returns the width and height of the subtree rooted at n.
func (e *engine) measure(n compose.Node) extent {
	if ext, ok := e.extents[n]; ok {
		return ext
	}
	var ext extent
	switch v := n.(type) {
	case *compose.Skill:
		ext = extent{BoxWidth, BoxHeight}

	case *compose.Sequence:
		ext = extent{BoxWidth, BoxHeight}
		for _, c := range v.Children() {
			ce := e.measure(c)
			ext.w = max(ext.w, ce.w)
			ext.h += ce.h + VSpacing
		}

	case *compose.Concurrent:
		ext = e.row(v.Children())

	case *compose.Branch:
		children := []compose.Node{v.Then()}
		if v.Else() != nil {
			children = append(children, v.Else())
		}
		ext = e.row(children)

	case *compose.Hydrated:
		ext = e.measure(v.Child())
	}
	e.extents[n] = ext
	return ext
}

// row measures a box with children placed side by side below it.
func (e *engine) row(children []compose.Node) extent {
	w, h := e.rowSize(children)
	return extent{max(BoxWidth, w), BoxHeight + VSpacing + h}
}

func (e *engine) rowSize(children []compose.Node) (w, h int) {
	for i, c := range children {
		ce := e.measure(c)
		if i > 0 {
			w += HSpacing
		}
		w += ce.w
		h = max(h, ce.h)
	}
	return w, h
}

// place positions the subtree rooted at n with its top-left corner at
// (x, y) and returns the index of the box that represents it.
func (e *engine) place(n compose.Node, x, y int, hydrated bool) int {
	ext := e.measure(n)
	switch v := n.(type) {
	case *compose.Hydrated:
		return e.place(v.Child(), x, y, true)

	case *compose.Skill:
		return e.box(TypeSkill, v.Name(), x, y, ext.w, hydrated)

	case *compose.Sequence:
		idx := e.box(TypeSequence, plural(v.Len(), "step"), x, y, ext.w, hydrated)
		prev, prevBottom := idx, y+BoxHeight
		cy := y + BoxHeight + VSpacing
		for _, c := range v.Children() {
			ce := e.measure(c)
			ci := e.place(c, x+(ext.w-ce.w)/2, cy, false)
			e.connect(prev, prevBottom, ci)
			prev, prevBottom = ci, cy+ce.h
			cy += ce.h + VSpacing
		}
		return idx

	case *compose.Concurrent:
		idx := e.box(TypeParallel, plural(v.Len(), "task"), x, y, ext.w, hydrated)
		e.fanOut(idx, v.Children(), x, y, ext.w)
		return idx

	case *compose.Branch:
		idx := e.box(TypeBranch, v.When(), x, y, ext.w, hydrated)
		children := []compose.Node{v.Then()}
		if v.Else() != nil {
			children = append(children, v.Else())
		}
		e.fanOut(idx, children, x, y, ext.w)
		return idx
	}
	panic(fmt.Sprintf("layout: unexpected node type %T", n))
}

// fanOut places children left to right one level below the parent box and
// connects the parent to each of them.
func (e *engine) fanOut(parent int, children []compose.Node, x, y, width int) {
	total, _ := e.rowSize(children)
	cx := x + (width-total)/2
	cy := y + BoxHeight + VSpacing
	for _, c := range children {
		ce := e.measure(c)
		ci := e.place(c, cx, cy, false)
		e.connect(parent, y+BoxHeight, ci)
		cx += ce.w + HSpacing
	}
}

// box appends a positioned box centered in a subtree of the given width.
func (e *engine) box(nodeType, label string, x, y, width int, hydrated bool) int {
	id := e.ids.Next()
	selected := id == e.selected
	e.g.Nodes = append(e.g.Nodes, PositionedNode{
		ID:       id,
		Type:     nodeType,
		Label:    label,
		X:        x + (width-BoxWidth)/2,
		Y:        y,
		Width:    BoxWidth,
		Height:   BoxHeight,
		Color:    e.theme.Color(nodeType),
		Selected: selected,
		Hydrated: hydrated,
		BoxLines: BoxLines(nodeType, label, selected),
	})
	return len(e.g.Nodes) - 1
}

func (e *engine) connect(from, startY, to int) {
	p, c := e.g.Nodes[from], e.g.Nodes[to]
	e.g.Connectors = append(e.g.Connectors, Connector{
		FromID: p.ID,
		ToID:   c.ID,
		Points: route(p.CenterX(), startY, c.CenterX(), c.Y, p.Color, c.Color),
	})
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
