package compositor

import (
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/window"
)

// GestureKind is the pointer interaction in progress.
type GestureKind int

// Gesture kinds.
const (
	GestureNone GestureKind = iota
	GestureDrag
	GestureResize
)

// String returns a readable name.
func (k GestureKind) String() string {
	switch k {
	case GestureDrag:
		return "drag"
	case GestureResize:
		return "resize"
	default:
		return "idle"
	}
}

// gesture records a drag or resize from the press that started it. There
// is at most one per compositor.
type gesture struct {
	kind      GestureKind
	win       *window.Window
	edge      window.Edge
	startX    int
	startY    int
	startRect core.ScreenRect
	// pressed tracks the primary button between press and release.
	pressed bool
}

// Gesture returns the interaction in progress and its window.
func (c *Compositor) Gesture() (GestureKind, *window.Window) {
	return c.gesture.kind, c.gesture.win
}

func (c *Compositor) cancelGesture(w *window.Window) {
	if c.gesture.win == w {
		c.gesture = gesture{pressed: c.gesture.pressed}
	}
}

// HandleMouse routes a mouse event: primary presses, motion and releases
// drive PointerDown, PointerMove and PointerUp, and the wheel scrolls the
// window under the pointer.
func (c *Compositor) HandleMouse(ev backend.Event) {
	x, y := ev.MouseX, ev.MouseY
	switch {
	case ev.Buttons.Has(backend.MouseWheelUp):
		c.Scroll(x, y, -1)
	case ev.Buttons.Has(backend.MouseWheelDown):
		c.Scroll(x, y, 1)
	case ev.Buttons.Has(backend.MousePrimary):
		if c.gesture.pressed {
			c.PointerMove(x, y)
			return
		}
		c.PointerDown(x, y, ev.Buttons)
	case ev.Buttons == 0:
		if c.gesture.pressed {
			c.PointerUp(x, y)
		}
	}
}

// PointerDown handles a primary button press. In priority order it
// presses a chrome button, starts a drag or resize, or activates the window
// and forwards the click to its content. A press on the bare desktop
// deactivates the active window.
func (c *Compositor) PointerDown(x, y int, buttons backend.MouseButton) {
	c.gesture.pressed = true
	if c.gesture.kind != GestureNone {
		return
	}
	w := c.WindowAtPoint(x, y)
	if w == nil {
		c.Deactivate()
		return
	}
	if c.BlockingModal(w) != nil {
		c.Activate(w)
		return
	}

	zone, edge := w.HitZone(x, y)
	switch zone {
	case window.ZoneClose:
		c.CloseWindow(w)
	case window.ZoneMaximize:
		c.ToggleMaximize(w)
	case window.ZoneMinimize:
		c.Minimize(w)
	case window.ZoneTitle:
		c.Activate(w)
		if w.Caps().Has(window.CanMove) && w.State() != window.StateMaximized {
			c.begin(GestureDrag, w, 0, x, y)
		}
	case window.ZoneResize:
		c.Activate(w)
		c.begin(GestureResize, w, edge, x, y)
	case window.ZoneContent:
		c.Activate(w)
		c.click(w, x, y, buttons)
	default:
		c.Activate(w)
	}
}

func (c *Compositor) begin(kind GestureKind, w *window.Window, edge window.Edge, x, y int) {
	c.gesture = gesture{
		kind:      kind,
		win:       w,
		edge:      edge,
		startX:    x,
		startY:    y,
		startRect: w.Rect(),
		pressed:   true,
	}
	c.log.Debug("%s start on %s", kind, w.ID())
}

// PointerMove updates the window of an active drag or resize. Without a
// gesture it does nothing.
func (c *Compositor) PointerMove(x, y int) {
	g := c.gesture
	if g.kind == GestureNone || !c.Contains(g.win) {
		return
	}
	dx, dy := x-g.startX, y-g.startY
	switch g.kind {
	case GestureDrag:
		c.MoveWindowTo(g.win, g.startRect.Left+dx, g.startRect.Top+dy)
	case GestureResize:
		c.SetWindowRect(g.win, resized(g.startRect, g.edge, dx, dy).Intersection(c.desktop))
	}
}

// PointerUp ends any gesture.
func (c *Compositor) PointerUp(x, y int) {
	if c.gesture.kind != GestureNone {
		c.log.Debug("%s end at %d,%d", c.gesture.kind, x, y)
	}
	c.gesture = gesture{}
}

// resized moves the grabbed edges of r by the pointer delta. An edge is
// never pushed past the point where the window would drop below its
// minimum size, so the opposite edge stays put.
func resized(r core.ScreenRect, edge window.Edge, dx, dy int) core.ScreenRect {
	if edge.Has(window.EdgeLeft) {
		r.Left = min(r.Left+dx, r.Right-window.MinWidth)
	}
	if edge.Has(window.EdgeRight) {
		r.Right = max(r.Right+dx, r.Left+window.MinWidth)
	}
	if edge.Has(window.EdgeTop) {
		r.Top = min(r.Top+dy, r.Bottom-window.MinHeight)
	}
	if edge.Has(window.EdgeBottom) {
		r.Bottom = max(r.Bottom+dy, r.Top+window.MinHeight)
	}
	return r
}

// click forwards a press in the content area to the innermost clickable
// control, or focuses the innermost focusable one.
func (c *Compositor) click(w *window.Window, x, y int, buttons backend.MouseButton) {
	r := c.renderers[w]
	cr := w.ContentRect()
	cx, cy := x-cr.Left, y-cr.Top

	ctrl, b := r.ControlAt(cx, cy, func(v any) bool {
		_, ok := v.(window.Clickable)
		return ok
	})
	if cl, ok := ctrl.(window.Clickable); ok {
		handled := cl.Click(&window.ClickContext{
			Context: window.Context{Window: w, Bounds: b},
			X:       cx - b.Left,
			Y:       cy - b.Top,
			Buttons: buttons,
		})
		if handled {
			return
		}
	}
	ctrl, _ = r.ControlAt(cx, cy, func(v any) bool {
		f, ok := v.(window.Focusable)
		return ok && f.CanFocus()
	})
	if ctrl != nil {
		w.Focus(ctrl)
	}
}

// Scroll scrolls the content under (x, y) by delta lines: the innermost
// scrollable control if there is one, otherwise the window's content root.
func (c *Compositor) Scroll(x, y, delta int) {
	w := c.WindowAtPoint(x, y)
	if w == nil || c.BlockingModal(w) != nil {
		return
	}
	cr := w.ContentRect()
	if !cr.ContainsPoint(x, y) {
		return
	}
	r := c.renderers[w]
	ctrl, _ := r.ControlAt(x-cr.Left, y-cr.Top, func(v any) bool {
		_, ok := v.(window.Scrollable)
		return ok
	})
	if s, ok := ctrl.(window.Scrollable); ok && s.ScrollBy(delta) {
		return
	}
	r.Scroller().ScrollBy(delta)
}
