package layout

import "encoding/json"

// Connector glyphs.
const (
	GlyphVertical   = '│'
	GlyphHorizontal = '─'
	GlyphUpRight    = '└'
	GlyphUpLeft     = '┘'
	GlyphLeftDown   = '┐'
	GlyphRightDown  = '┌'
	GlyphArrow      = '▼'
)

// Point is one cell of a connector path.
type Point struct {
	X     int
	Y     int
	Char  rune
	Color string
}

type pointJSON struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Char  string `json:"char"`
	Color string `json:"color"`
}

// MarshalJSON encodes Char as a one-character string.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointJSON{X: p.X, Y: p.Y, Char: string(p.Char), Color: p.Color})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (p *Point) UnmarshalJSON(data []byte) error {
	var v pointJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Point{X: v.X, Y: v.Y, Color: v.Color}
	for _, r := range v.Char {
		p.Char = r
		break
	}
	return nil
}

// route builds the path from (fx, fy) down to a child box whose top-center
// is (tx, ty). The vertical run stops at the turn row two rows above the
// child, where a dogleg bends toward the child's column; the arrow sits on
// the row right above the child box.
func route(fx, fy, tx, ty int, fromColor, toColor string) []Point {
	turn := ty - 2
	var pts []Point
	for y := fy; y < turn; y++ {
		pts = append(pts, Point{X: fx, Y: y, Char: GlyphVertical})
	}

	switch {
	case tx == fx:
		pts = append(pts, Point{X: fx, Y: turn, Char: GlyphVertical})
	case tx > fx:
		pts = append(pts, Point{X: fx, Y: turn, Char: GlyphUpRight})
		for x := fx + 1; x < tx; x++ {
			pts = append(pts, Point{X: x, Y: turn, Char: GlyphHorizontal})
		}
		pts = append(pts, Point{X: tx, Y: turn, Char: GlyphLeftDown})
	default:
		pts = append(pts, Point{X: fx, Y: turn, Char: GlyphUpLeft})
		for x := fx - 1; x > tx; x-- {
			pts = append(pts, Point{X: x, Y: turn, Char: GlyphHorizontal})
		}
		pts = append(pts, Point{X: tx, Y: turn, Char: GlyphRightDown})
	}
	pts = append(pts, Point{X: tx, Y: ty - 1, Char: GlyphArrow})

	for i, c := range Gradient(fromColor, toColor, len(pts)) {
		pts[i].Color = c
	}
	return pts
}
