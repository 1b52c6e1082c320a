package compositor

import (
	"sort"

	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/dirty"
	"github.com/dshills/casement/internal/window"
)

// WindowAtPoint returns the topmost visible window containing (x, y). A
// window whose modal child also contains the point is never returned.
func (c *Compositor) WindowAtPoint(x, y int) *window.Window {
	var hits []*window.Window
	for _, w := range c.windows {
		if w.IsVisible() && w.Rect().ContainsPoint(x, y) {
			hits = append(hits, w)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Z() < hits[j].Z() })
	for i := len(hits) - 1; i >= 0; i-- {
		cand := hits[i]
		blocked := false
		for _, o := range hits {
			if o.IsModal() && o.Parent() == cand {
				blocked = true
				break
			}
		}
		if !blocked {
			return cand
		}
	}
	return nil
}

// IsCompletelyCovered reports whether a visible window with a higher
// z-index fully contains w.
func (c *Compositor) IsCompletelyCovered(w *window.Window) bool {
	r := w.Rect()
	for _, o := range c.windows {
		if o != w && o.IsVisible() && o.Z() > w.Z() && o.Rect().ContainsRect(r) {
			return true
		}
	}
	return false
}

// RedrawSet returns the windows that must repaint this frame: dirty
// windows that are not completely covered, plus every uncovered window
// overlapping a member of the set with an equal or higher z-index.
func (c *Compositor) RedrawSet() []*window.Window {
	var candidates []*window.Window
	for _, w := range c.windows {
		if w.IsVisible() && !c.IsCompletelyCovered(w) {
			candidates = append(candidates, w)
		}
	}
	in := make(map[*window.Window]bool, len(candidates))
	queue := make([]*window.Window, 0, len(candidates))
	for _, w := range candidates {
		if w.IsDirty() {
			in[w] = true
			queue = append(queue, w)
		}
	}
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		for _, w := range candidates {
			if !in[w] && w.Z() >= d.Z() && w.Rect().Intersects(d.Rect()) {
				in[w] = true
				queue = append(queue, w)
			}
		}
	}
	out := make([]*window.Window, 0, len(in))
	for _, w := range candidates {
		if in[w] {
			out = append(out, w)
		}
	}
	return out
}

// RenderOrder returns the redraw set in paint order: ordinary windows by
// ascending z-index, then always-on-top windows by ascending z-index.
func (c *Compositor) RenderOrder() []*window.Window {
	set := c.RedrawSet()
	var normal, top []*window.Window
	for _, w := range set {
		if w.AlwaysOnTop() {
			top = append(top, w)
		} else {
			normal = append(normal, w)
		}
	}
	byZ := func(ws []*window.Window) {
		sort.SliceStable(ws, func(i, j int) bool { return ws[i].Z() < ws[j].Z() })
	}
	byZ(normal)
	byZ(top)
	return append(normal, top...)
}

// above reports whether o paints over w.
func above(o, w *window.Window) bool {
	if o.AlwaysOnTop() != w.AlwaysOnTop() {
		return o.AlwaysOnTop()
	}
	return o.Z() > w.Z()
}

// VisibleRegions returns the parts of w on the desktop that no window
// painted above it covers.
func (c *Compositor) VisibleRegions(w *window.Window) []core.ScreenRect {
	if !w.IsVisible() {
		return nil
	}
	r := w.Rect().Intersection(c.desktop)
	if r.IsEmpty() {
		return nil
	}
	var cuts []core.ScreenRect
	for _, o := range c.windows {
		if o != w && o.IsVisible() && above(o, w) && o.Rect().Intersects(r) {
			cuts = append(cuts, o.Rect())
		}
	}
	return dirty.SubtractAll([]core.ScreenRect{r}, cuts...)
}

// NeedsRender reports whether Compose has anything to draw.
func (c *Compositor) NeedsRender() bool {
	return c.tracker.IsDirty() || len(c.RedrawSet()) > 0
}

// Compose repaints exposed desktop areas and every window in the redraw
// set onto the screen buffer. It returns the windows that were rendered.
func (c *Compositor) Compose() []*window.Window {
	if c.tracker.NeedsFullRedraw() {
		for _, w := range c.windows {
			w.Invalidate()
		}
	}
	c.paintDesktop(c.tracker.Flush())

	order := c.RenderOrder()
	for _, w := range order {
		c.paintWindow(w)
		w.ClearDirty()
	}
	return order
}

func (c *Compositor) paintDesktop(exposed []core.ScreenRect) {
	if len(exposed) == 0 {
		return
	}
	var cuts []core.ScreenRect
	for _, w := range c.windows {
		if w.IsVisible() {
			cuts = append(cuts, w.Rect())
		}
	}
	d := c.opts.Desktop
	for _, r := range dirty.SubtractAll(exposed, cuts...) {
		c.screen.FillRect(r, d.Char, d.Fg, d.Bg)
	}
}

func (c *Compositor) paintWindow(w *window.Window) {
	regions := c.VisibleRegions(w)
	if len(regions) == 0 {
		return
	}
	r := c.renderers[w]
	r.Render(regions)
	cr := w.ContentRect()
	origin := core.ScreenPos{Row: cr.Top, Col: cr.Left}
	for _, rg := range regions {
		w.DrawChrome(c.screen.Canvas(rg), c.opts.Chrome)
		c.screen.Blit(r.Buffer(), origin, rg.Intersection(cr))
	}
}

// CursorStyle returns the cursor shape for the active window's focused
// control.
func (c *Compositor) CursorStyle() backend.CursorStyle {
	if c.active == nil {
		return backend.CursorDefault
	}
	return c.renderers[c.active].CursorStyle()
}

// Cursor returns the screen position of the active window's text cursor.
// The cursor is hidden when that position is covered by another window.
func (c *Compositor) Cursor() (x, y int, ok bool) {
	w := c.active
	if w == nil || !w.IsVisible() {
		return 0, 0, false
	}
	x, y, ok = c.renderers[w].Cursor()
	if !ok || c.WindowAtPoint(x, y) != w {
		return 0, 0, false
	}
	return x, y, true
}
