package compositor

import (
	"github.com/dshills/casement/internal/event"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/window"
)

// clampRect enforces the minimum window size and keeps r fully on the
// desktop. A desktop smaller than the minimum pins the window at the
// origin.
func (c *Compositor) clampRect(r core.ScreenRect) core.ScreenRect {
	d := c.desktop
	w := max(window.MinWidth, min(r.Width(), d.Width()))
	h := max(window.MinHeight, min(r.Height(), d.Height()))
	left := core.Clamp(r.Left, d.Left, max(d.Left, d.Right-w))
	top := core.Clamp(r.Top, d.Top, max(d.Top, d.Bottom-h))
	return core.RectFromSize(top, left, h, w)
}

// expose invalidates every window stacked below w that overlapped old, and
// queues the part of old that w no longer covers for a desktop repaint.
// covered is empty when w has been hidden or is being removed.
func (c *Compositor) expose(w *window.Window, old, covered core.ScreenRect) {
	for _, o := range c.windows {
		if o != w && o.IsVisible() && o.Z() < w.Z() && o.Rect().Intersects(old) {
			o.Invalidate()
		}
	}
	c.tracker.MarkExposed(old, covered)
}

// setRect applies a clamped rectangle and handles the exposed area. It
// reports whether the rectangle changed.
func (c *Compositor) setRect(w *window.Window, r core.ScreenRect) bool {
	r = c.clampRect(r)
	old := w.Rect()
	if r.Equals(old) {
		return false
	}
	w.SetRect(r)
	c.expose(w, old, r)
	return true
}

// MoveWindowTo moves w so its top-left corner is at (left, top), clamped so
// the window stays on the desktop. Maximized windows do not move.
func (c *Compositor) MoveWindowTo(w *window.Window, left, top int) {
	if !c.Contains(w) || w.State() == window.StateMaximized {
		return
	}
	old := w.Rect()
	if c.setRect(w, core.RectFromSize(top, left, old.Height(), old.Width())) {
		c.publish(event.TopicWindowMoved, w, old)
	}
}

// MoveWindowBy moves w by a delta.
func (c *Compositor) MoveWindowBy(w *window.Window, dx, dy int) {
	if !c.Contains(w) {
		return
	}
	r := w.Rect()
	c.MoveWindowTo(w, r.Left+dx, r.Top+dy)
}

// ResizeWindow changes the size of w keeping its top-left corner. The size
// is clamped to the minimum and to the desktop.
func (c *Compositor) ResizeWindow(w *window.Window, width, height int) {
	if !c.Contains(w) {
		return
	}
	r := w.Rect()
	c.SetWindowRect(w, core.RectFromSize(r.Top, r.Left, height, width))
}

// SetWindowRect replaces the rectangle of w, clamped like ResizeWindow.
// Maximized windows keep filling the desktop.
func (c *Compositor) SetWindowRect(w *window.Window, r core.ScreenRect) {
	if !c.Contains(w) || w.State() == window.StateMaximized {
		return
	}
	old := w.Rect()
	if !c.setRect(w, r) {
		return
	}
	topic := event.TopicWindowResized
	if w.Rect().Size() == old.Size() {
		topic = event.TopicWindowMoved
	}
	c.publish(topic, w, old)
}

// Minimize hides w. Windows underneath are invalidated and, if w was
// active, the next window is activated. Windows without the minimize
// capability are left alone, as are modal windows and windows with an
// open modal child, so a modal can never be hidden while it blocks.
func (c *Compositor) Minimize(w *window.Window) bool {
	if !c.Contains(w) || !w.Caps().Has(window.CanMinimize) || w.State() == window.StateMinimized {
		return false
	}
	if w.IsModal() || len(c.modalChildren(w)) > 0 {
		return false
	}
	c.minimizedFrom[w] = w.State()
	w.SetState(window.StateMinimized)
	c.expose(w, w.Rect(), core.ScreenRect{})
	c.cancelGesture(w)
	c.publish(event.TopicWindowMinimized, w, w.Rect())
	if c.active == w {
		w.SetActive(false)
		w.ClearFocus()
		c.active = nil
		c.activateNext(w)
	}
	return true
}

// Maximize makes w fill the desktop, remembering its rectangle for
// Restore.
func (c *Compositor) Maximize(w *window.Window) bool {
	if !c.Contains(w) || !w.Caps().Has(window.CanMaximize) || w.State() == window.StateMaximized {
		return false
	}
	if w.State() == window.StateMinimized {
		w.SetState(window.StateNormal)
		delete(c.minimizedFrom, w)
	}
	old := w.Rect()
	w.SetRestoreRect(old)
	w.SetRect(c.clampRect(c.desktop))
	w.SetState(window.StateMaximized)
	c.expose(w, old, w.Rect())
	c.publish(event.TopicWindowMaximized, w, old)
	c.Activate(w)
	return true
}

// Restore returns a minimized window to the state it had before, or a
// maximized window to its remembered rectangle.
func (c *Compositor) Restore(w *window.Window) bool {
	if !c.Contains(w) {
		return false
	}
	old := w.Rect()
	switch w.State() {
	case window.StateMinimized:
		prev := c.minimizedFrom[w]
		delete(c.minimizedFrom, w)
		w.SetState(prev)
		if prev == window.StateMaximized {
			w.SetRect(c.clampRect(c.desktop))
		}
		w.Invalidate()
	case window.StateMaximized:
		w.SetState(window.StateNormal)
		w.SetRect(c.clampRect(w.RestoreRect()))
		c.expose(w, old, w.Rect())
	default:
		return false
	}
	c.publish(event.TopicWindowRestored, w, old)
	return true
}

// ToggleMaximize maximizes a normal window and restores a maximized one.
func (c *Compositor) ToggleMaximize(w *window.Window) bool {
	if w != nil && w.State() == window.StateMaximized {
		return c.Restore(w)
	}
	return c.Maximize(w)
}

// CloseWindow unregisters w together with its modal descendants. If w was
// active, its parent is reactivated when w was modal, otherwise the
// topmost remaining window. Windows without the close capability stay
// open.
func (c *Compositor) CloseWindow(w *window.Window) bool {
	if !c.Contains(w) || !w.Caps().Has(window.CanClose) {
		return false
	}
	c.RemoveWindow(w)
	return true
}

// RemoveWindow unregisters w regardless of its capabilities.
func (c *Compositor) RemoveWindow(w *window.Window) {
	if !c.Contains(w) {
		return
	}
	for _, m := range append([]*window.Window(nil), c.modals...) {
		if m.Parent() == w {
			c.RemoveWindow(m)
		}
	}

	wasActive := c.active == w
	old := w.Rect()
	c.expose(w, old, core.ScreenRect{})
	c.cancelGesture(w)

	c.windows = remove(c.windows, w)
	c.modals = remove(c.modals, w)
	delete(c.renderers, w)
	delete(c.minimizedFrom, w)
	if _, ok := c.flashes[w]; ok {
		w.SetFlash(false, c.opts.Flash.Color)
		delete(c.flashes, w)
	}
	w.SetActive(false)
	w.ClearFocus()
	c.restack()
	c.publish(event.TopicWindowClosed, w, old)
	c.log.Debug("window %s closed", w.ID())

	if wasActive {
		c.active = nil
		if p := w.Parent(); w.IsModal() && c.Contains(p) && p.IsVisible() {
			c.Activate(p)
			return
		}
		c.activateNext(nil)
	}
}

func remove(ws []*window.Window, w *window.Window) []*window.Window {
	for i, x := range ws {
		if x == w {
			return append(ws[:i:i], ws[i+1:]...)
		}
	}
	return ws
}

// SetDesktopSize resizes the desktop, pulls every window back onto it and
// schedules a full redraw.
func (c *Compositor) SetDesktopSize(width, height int) {
	c.desktop = core.RectFromSize(0, 0, height, width)
	c.screen.Resize(width, height)
	c.tracker.SetScreenSize(width, height)
	for _, w := range c.windows {
		if w.State() == window.StateMaximized {
			w.SetRect(c.clampRect(c.desktop))
			continue
		}
		w.SetRect(c.clampRect(w.Rect()))
	}
	c.InvalidateAll()
}

// InvalidateAll marks every window and the whole desktop for repaint.
func (c *Compositor) InvalidateAll() {
	for _, w := range c.windows {
		w.Invalidate()
	}
	c.tracker.MarkFull()
}
