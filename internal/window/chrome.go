package window

import (
	"github.com/dshills/casement/internal/renderer/cellbuf"
	"github.com/dshills/casement/internal/renderer/core"
)

// Zone is the part of a window under a screen position.
type Zone uint8

// Zones.
const (
	ZoneNone Zone = iota
	ZoneContent
	ZoneTitle
	ZoneClose
	ZoneMaximize
	ZoneMinimize
	ZoneResize
)

// Edge is a set of window edges grabbed by a resize.
type Edge uint8

// Edges.
const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Has returns true if the set contains e.
func (e Edge) Has(x Edge) bool { return e&x != 0 }

// Button glyphs and their offsets from the right edge of the title row.
const (
	closeGlyph    = "[X]"
	maximizeGlyph = "[+]"
	restoreGlyph  = "[=]"
	minimizeGlyph = "[_]"

	closeOffset    = 4
	maximizeOffset = 7
	minimizeOffset = 10
)

// ChromeStyle holds the colors used to draw window decorations.
type ChromeStyle struct {
	Border       core.Color
	ActiveBorder core.Color
	Title        core.Color
	ActiveTitle  core.Color
	Button       core.Color
}

// DefaultChromeStyle returns the built-in decoration colors.
func DefaultChromeStyle() ChromeStyle {
	return ChromeStyle{
		Border:       core.ColorGray,
		ActiveBorder: core.ColorCyan,
		Title:        core.ColorGray,
		ActiveTitle:  core.ColorWhite,
		Button:       core.ColorYellow,
	}
}

func (w *Window) buttonRect(offset int) core.ScreenRect {
	r := core.RectFromSize(w.rect.Top, w.rect.Right-offset, 1, 3)
	if r.Left <= w.rect.Left {
		return core.ScreenRect{}
	}
	return r
}

// CloseRect returns the close button area, empty if the window cannot close.
func (w *Window) CloseRect() core.ScreenRect {
	if !w.caps.Has(CanClose) {
		return core.ScreenRect{}
	}
	return w.buttonRect(closeOffset)
}

// MaximizeRect returns the maximize button area.
func (w *Window) MaximizeRect() core.ScreenRect {
	if !w.caps.Has(CanMaximize) {
		return core.ScreenRect{}
	}
	return w.buttonRect(maximizeOffset)
}

// MinimizeRect returns the minimize button area.
func (w *Window) MinimizeRect() core.ScreenRect {
	if !w.caps.Has(CanMinimize) {
		return core.ScreenRect{}
	}
	return w.buttonRect(minimizeOffset)
}

// HitZone classifies a screen position. For ZoneResize the grabbed edges
// are returned as well. The top row is the title bar: only its corner
// cells start a resize, so the rest of it stays draggable.
func (w *Window) HitZone(x, y int) (Zone, Edge) {
	r := w.rect
	if !r.ContainsPoint(x, y) {
		return ZoneNone, 0
	}
	switch {
	case w.CloseRect().ContainsPoint(x, y):
		return ZoneClose, 0
	case w.MaximizeRect().ContainsPoint(x, y):
		return ZoneMaximize, 0
	case w.MinimizeRect().ContainsPoint(x, y):
		return ZoneMinimize, 0
	}

	if w.caps.Has(CanResize) && w.state != StateMaximized {
		var e Edge
		left, right := x == r.Left, x == r.Right-1
		switch {
		case y == r.Top:
			if left {
				e = EdgeTop | EdgeLeft
			} else if right {
				e = EdgeTop | EdgeRight
			}
		case y == r.Bottom-1:
			e = EdgeBottom
			if left {
				e |= EdgeLeft
			} else if right {
				e |= EdgeRight
			}
		case left:
			e = EdgeLeft
		case right:
			e = EdgeRight
		}
		if e != 0 {
			return ZoneResize, e
		}
	}

	if y == r.Top {
		return ZoneTitle, 0
	}
	if w.ContentRect().ContainsPoint(x, y) {
		return ZoneContent, 0
	}
	return ZoneNone, 0
}

// DrawChrome paints the border, title and buttons into c, which is in
// screen coordinates.
func (w *Window) DrawChrome(c cellbuf.Canvas, style ChromeStyle) {
	bg := w.Background()
	border, title := style.Border, style.Title
	b := cellbuf.SingleBorder
	if w.active {
		border, title = style.ActiveBorder, style.ActiveTitle
		b = cellbuf.DoubleBorder
	}
	c.Box(w.rect, b, border, bg)

	limit := w.rect.Right - 2
	for _, br := range []core.ScreenRect{w.MinimizeRect(), w.MaximizeRect(), w.CloseRect()} {
		if !br.IsEmpty() {
			limit = min(limit, br.Left-1)
		}
	}
	if w.title != "" {
		avail := limit - (w.rect.Left + 2)
		if avail > 2 {
			text := " " + core.Truncate(w.title, avail-2) + " "
			ts := core.NewStyle(title, bg)
			if w.active {
				ts = ts.Bold()
			}
			c.SetString(w.rect.Left+2, w.rect.Top, text, ts)
		}
	}

	bs := core.NewStyle(style.Button, bg)
	if r := w.MinimizeRect(); !r.IsEmpty() {
		c.SetString(r.Left, r.Top, minimizeGlyph, bs)
	}
	if r := w.MaximizeRect(); !r.IsEmpty() {
		glyph := maximizeGlyph
		if w.state == StateMaximized {
			glyph = restoreGlyph
		}
		c.SetString(r.Left, r.Top, glyph, bs)
	}
	if r := w.CloseRect(); !r.IsEmpty() {
		c.SetString(r.Left, r.Top, closeGlyph, bs)
	}
}
