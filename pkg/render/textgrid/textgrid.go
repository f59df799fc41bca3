// Package textgrid flattens a positioned [layout.Graph] into rows of
// terminal cells.
//
// Connectors are drawn first and boxes second, so a box always overdraws any
// connector cell it shares. The resulting [Buffer] is the drawing surface
// handed to the terminal: [Buffer.String] for plain text and
// [Buffer.WriteANSI] for colored output.
package textgrid

import (
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/matzehuels/skillweave/pkg/layout"
)

// Margin is the number of blank cells added to the right of and below the
// graph's bounding box.
const Margin = 1

// Buffer is a rendered graph. Rows has one string per output row, each
// exactly Width cells wide. Colors holds the "#RRGGBB" color of every cell
// ("" for the default color), indexed [row][column].
type Buffer struct {
	Rows   []string
	Colors [][]string
	Width  int
	Height int

	cells [][]cell
}

type cell struct {
	ch    rune
	color string
	cont  bool // right half of a wide rune
}

// Render draws g into a new buffer. A nil or empty graph yields a buffer
// of Margin x Margin blank cells.
func Render(g *layout.Graph) *Buffer {
	w, h := Margin, Margin
	if g != nil {
		w, h = g.Width+Margin, g.Height+Margin
	}
	b := &Buffer{Width: w, Height: h, cells: make([][]cell, h)}
	for y := range b.cells {
		row := make([]cell, w)
		for x := range row {
			row[x].ch = ' '
		}
		b.cells[y] = row
	}

	if g != nil {
		for _, c := range g.Connectors {
			for _, p := range c.Points {
				b.set(p.X, p.Y, p.Char, p.Color)
			}
		}
		for _, n := range g.Nodes {
			b.blit(n)
		}
	}
	b.flatten()
	return b
}

func (b *Buffer) blit(n layout.PositionedNode) {
	for dy, line := range n.BoxLines {
		x := n.X
		for _, r := range line {
			cw := layout.RuneCells(r)
			if cw == 0 {
				continue
			}
			b.set(x, n.Y+dy, r, n.Color)
			if cw == 2 && b.inside(x+1, n.Y+dy) {
				b.cells[n.Y+dy][x+1] = cell{color: n.Color, cont: true}
			}
			x += cw
		}
	}
}

func (b *Buffer) set(x, y int, r rune, color string) {
	if !b.inside(x, y) {
		return
	}
	row := b.cells[y]
	// Overwriting half of a wide rune blanks the other half.
	if row[x].cont && x > 0 {
		row[x-1] = cell{ch: ' '}
	}
	if x+1 < len(row) && row[x+1].cont {
		row[x+1] = cell{ch: ' '}
	}
	row[x] = cell{ch: r, color: color}
}

func (b *Buffer) inside(x, y int) bool {
	return y >= 0 && y < b.Height && x >= 0 && x < b.Width
}

func (b *Buffer) flatten() {
	b.Rows = make([]string, b.Height)
	b.Colors = make([][]string, b.Height)
	var sb strings.Builder
	for y, row := range b.cells {
		sb.Reset()
		colors := make([]string, b.Width)
		for x, c := range row {
			colors[x] = c.color
			if !c.cont {
				sb.WriteRune(c.ch)
			}
		}
		b.Rows[y] = sb.String()
		b.Colors[y] = colors
	}
}

// String returns the rows joined by newlines, without color.
func (b *Buffer) String() string {
	return strings.Join(b.Rows, "\n")
}

// WriteANSI writes the rows to w, coloring runs of equal color with the
// given terminal profile. termenv.Ascii produces the same text as String
// plus a trailing newline per row.
func (b *Buffer) WriteANSI(w io.Writer, profile termenv.Profile) error {
	var sb strings.Builder
	for _, row := range b.cells {
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(profile.String(run.String()).Foreground(profile.Color(runColor)).String())
			}
			run.Reset()
		}
		for _, c := range row {
			if c.cont {
				continue
			}
			if c.color != runColor {
				flush()
				runColor = c.color
			}
			run.WriteRune(c.ch)
		}
		flush()
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Lines returns the colored rows as strings, one per row, for hosts that
// place them into their own view (the interactive viewer does).
func (b *Buffer) Lines(profile termenv.Profile) []string {
	var sb strings.Builder
	_ = b.WriteANSI(&sb, profile)
	return strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
}
