package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// cells measures display width independent of the user's locale, so boxes
// are the same width everywhere.
var cells = &runewidth.Condition{EastAsianWidth: false}

type borderSet struct {
	topLeft, topRight, bottomLeft, bottomRight, horizontal, vertical string
}

var (
	singleBorder = borderSet{"┌", "┐", "└", "┘", "─", "│"}
	doubleBorder = borderSet{"╔", "╗", "╚", "╝", "═", "║"}
)

var icons = map[string]string{
	TypeSkill:    "◆",
	TypeSequence: "↓",
	TypeParallel: "⇉",
	TypeBranch:   "◇",
}

// BoxLines renders the fixed five-line box of a node: border, icon and type
// row, blank row, label row, border. Every line is [BoxWidth] cells wide.
// Selected boxes use a double-line border. Labels wider than the interior
// are truncated with an ellipsis.
func BoxLines(nodeType, label string, selected bool) []string {
	b := singleBorder
	if selected {
		b = doubleBorder
	}
	inner := BoxWidth - 2
	edge := strings.Repeat(b.horizontal, inner)
	row := func(text string) string {
		text = cells.Truncate(text, inner-2, "…")
		return b.vertical + cells.FillRight(" "+text, inner) + b.vertical
	}

	icon, ok := icons[nodeType]
	if !ok {
		icon = icons[TypeSkill]
	}
	return []string{
		b.topLeft + edge + b.topRight,
		row(icon + " " + strings.ToUpper(nodeType)),
		row(""),
		row(label),
		b.bottomLeft + edge + b.bottomRight,
	}
}

// CellWidth returns the display width of s in terminal cells.
func CellWidth(s string) int { return cells.StringWidth(s) }

// RuneCells returns the display width of r in terminal cells.
func RuneCells(r rune) int { return cells.RuneWidth(r) }
