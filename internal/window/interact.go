package window

import (
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/core"
)

// Focusable controls can receive keyboard focus.
type Focusable interface {
	CanFocus() bool
	SetFocused(focused bool)
}

// Context is passed to controls handling input.
type Context struct {
	Window *Window
	// Bounds is the control's rectangle in window content coordinates.
	Bounds core.ScreenRect
}

// KeyHandler controls consume key events while focused.
type KeyHandler interface {
	HandleKey(ctx *Context, ev backend.Event) bool
}

// ClickContext describes a pointer press on a control.
type ClickContext struct {
	Context
	// X and Y are relative to the control's top-left corner.
	X, Y    int
	Buttons backend.MouseButton
}

// Clickable controls react to pointer presses.
type Clickable interface {
	Click(ctx *ClickContext) bool
}

// CursorOwner controls display the terminal cursor while focused.
type CursorOwner interface {
	// CursorPosition returns the cursor relative to the control's top-left
	// corner.
	CursorPosition() (x, y int, ok bool)
}

// CursorShaper is implemented by cursor owners that want a specific cursor
// shape. Other owners get the terminal default.
type CursorShaper interface {
	CursorStyle() backend.CursorStyle
}

// Focused returns the control holding focus, or nil.
func (w *Window) Focused() any { return w.focused }

// Focus moves focus to c. Controls that are not focusable are ignored.
func (w *Window) Focus(c any) bool {
	f, ok := c.(Focusable)
	if !ok || !f.CanFocus() {
		return false
	}
	if w.focused == c {
		return true
	}
	w.ClearFocus()
	w.focused = c
	f.SetFocused(true)
	w.Invalidate()
	return true
}

// ClearFocus removes focus from the focused control.
func (w *Window) ClearFocus() {
	if w.focused == nil {
		return
	}
	if f, ok := w.focused.(Focusable); ok {
		f.SetFocused(false)
	}
	w.focused = nil
	w.Invalidate()
}

// FocusNext moves focus through order, which lists candidate controls in
// tab order. reverse walks backwards. It reports whether focus moved.
func (w *Window) FocusNext(order []any, reverse bool) bool {
	var candidates []any
	for _, c := range order {
		if f, ok := c.(Focusable); ok && f.CanFocus() {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	cur := -1
	for i, c := range candidates {
		if c == w.focused {
			cur = i
			break
		}
	}
	var next int
	switch {
	case cur < 0 && reverse:
		next = len(candidates) - 1
	case cur < 0:
		next = 0
	case reverse:
		next = (cur - 1 + len(candidates)) % len(candidates)
	default:
		next = (cur + 1) % len(candidates)
	}
	return w.Focus(candidates[next])
}

// Scrollable controls consume wheel and paging input themselves.
type Scrollable interface {
	ScrollBy(delta int) bool
}
