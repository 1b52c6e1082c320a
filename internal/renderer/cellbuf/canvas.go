package cellbuf

import "github.com/dshills/casement/internal/renderer/core"

// Border holds the runes used to draw a box.
type Border struct {
	Horizontal, Vertical                       rune
	TopLeft, TopRight, BottomLeft, BottomRight rune
}

// Predefined borders.
var (
	SingleBorder = Border{'─', '│', '┌', '┐', '└', '┘'}
	DoubleBorder = Border{'═', '║', '╔', '╗', '╚', '╝'}
	ASCIIBorder  = Border{'-', '|', '+', '+', '+', '+'}
)

// Canvas is a clipped view of a Buffer. All writes outside the clip are
// dropped.
type Canvas struct {
	buf  *Buffer
	clip core.ScreenRect
}

// Clip returns the canvas clip rectangle.
func (c Canvas) Clip() core.ScreenRect { return c.clip }

// Buffer returns the underlying buffer.
func (c Canvas) Buffer() *Buffer { return c.buf }

// Narrow returns a canvas whose clip is further intersected with r.
func (c Canvas) Narrow(r core.ScreenRect) Canvas {
	return Canvas{buf: c.buf, clip: c.clip.Intersection(r)}
}

// Set writes a cell if (x, y) lies inside the clip.
func (c Canvas) Set(x, y int, cell core.Cell) {
	if !c.clip.ContainsPoint(x, y) {
		return
	}
	c.buf.Set(x, y, cell)
}

// SetCell writes a character with the given colors.
func (c Canvas) SetCell(x, y int, r rune, fg, bg core.Color) {
	c.Set(x, y, core.NewStyledCell(r, core.NewStyle(fg, bg)))
}

// FillRect fills r with ch.
func (c Canvas) FillRect(r core.ScreenRect, ch rune, fg, bg core.Color) {
	r = r.Intersection(c.clip)
	cell := core.NewStyledCell(ch, core.NewStyle(fg, bg))
	for y := r.Top; y < r.Bottom; y++ {
		for x := r.Left; x < r.Right; x++ {
			c.buf.Set(x, y, cell)
		}
	}
}

// HLine draws length copies of ch to the right of (x, y).
func (c Canvas) HLine(x, y, length int, ch rune, fg, bg core.Color) {
	c.FillRect(core.RectFromSize(y, x, 1, length), ch, fg, bg)
}

// VLine draws length copies of ch below (x, y).
func (c Canvas) VLine(x, y, length int, ch rune, fg, bg core.Color) {
	c.FillRect(core.RectFromSize(y, x, length, 1), ch, fg, bg)
}

// Box draws border around the edge of r. The interior is left untouched.
func (c Canvas) Box(r core.ScreenRect, border Border, fg, bg core.Color) {
	if r.Width() < 2 || r.Height() < 2 {
		return
	}
	right, bottom := r.Right-1, r.Bottom-1
	c.HLine(r.Left+1, r.Top, r.Width()-2, border.Horizontal, fg, bg)
	c.HLine(r.Left+1, bottom, r.Width()-2, border.Horizontal, fg, bg)
	c.VLine(r.Left, r.Top+1, r.Height()-2, border.Vertical, fg, bg)
	c.VLine(right, r.Top+1, r.Height()-2, border.Vertical, fg, bg)
	c.SetCell(r.Left, r.Top, border.TopLeft, fg, bg)
	c.SetCell(right, r.Top, border.TopRight, fg, bg)
	c.SetCell(r.Left, bottom, border.BottomLeft, fg, bg)
	c.SetCell(right, bottom, border.BottomRight, fg, bg)
}

// SetString writes s from (x, y) and returns the number of columns consumed.
// Wide runes occupy two columns, the second holding a continuation cell.
func (c Canvas) SetString(x, y int, s string, style core.Style) int {
	col := x
	for _, r := range s {
		w := core.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.Set(col, y, core.Cell{Rune: r, Width: w, Style: style})
		if w == 2 {
			c.Set(col+1, y, core.ContinuationCell(style))
		}
		col += w
	}
	return col - x
}

// Glyph is one decorated character produced by a text source.
type Glyph struct {
	Rune rune
	Fg   core.Color
	Bg   core.Color
}

// SetGlyphs writes a run of glyphs from (x, y). Default glyph colors fall
// back to base. It returns the number of columns consumed.
func (c Canvas) SetGlyphs(x, y int, glyphs []Glyph, base core.Style) int {
	col := x
	for _, g := range glyphs {
		w := core.RuneWidth(g.Rune)
		if w == 0 {
			continue
		}
		style := base
		if !g.Fg.IsDefault() {
			style.Foreground = g.Fg
		}
		if !g.Bg.IsDefault() {
			style.Background = g.Bg
		}
		c.Set(col, y, core.Cell{Rune: g.Rune, Width: w, Style: style})
		if w == 2 {
			c.Set(col+1, y, core.ContinuationCell(style))
		}
		col += w
	}
	return col - x
}
