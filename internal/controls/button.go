package controls

import (
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/window"
)

// Button is a focusable, clickable text button.
type Button struct {
	base
	label   string
	focused bool
	// OnClick runs when the button is pressed by pointer or Enter/Space.
	OnClick func(ctx *window.Context)
}

// NewButton creates a button.
func NewButton(label string, onClick func(ctx *window.Context)) *Button {
	return &Button{label: label, OnClick: onClick}
}

// Label returns the button text.
func (b *Button) Label() string { return b.label }

// Measure implements layout.Measurer.
func (b *Button) Measure(c core.Constraints) core.Size {
	return core.Size{Width: core.StringWidth(b.label) + 4, Height: 1}
}

// Paint implements layout.Painter.
func (b *Button) Paint(ctx *layout.PaintContext) {
	style := ctx.Style()
	if b.focused {
		style = style.Reverse()
	}
	text := "[ " + core.Truncate(b.label, max(0, ctx.Bounds.Width()-4)) + " ]"
	ctx.Canvas.SetString(ctx.Bounds.Left, ctx.Bounds.Top, text, style)
}

// CanFocus implements window.Focusable.
func (b *Button) CanFocus() bool { return true }

// SetFocused implements window.Focusable.
func (b *Button) SetFocused(focused bool) {
	b.focused = focused
	b.invalidatePaint()
}

// Click implements window.Clickable.
func (b *Button) Click(ctx *window.ClickContext) bool {
	ctx.Window.Focus(b)
	b.press(&ctx.Context)
	return true
}

// HandleKey implements window.KeyHandler.
func (b *Button) HandleKey(ctx *window.Context, ev backend.Event) bool {
	if ev.Key == backend.KeyEnter || (ev.Key == backend.KeyRune && ev.Rune == ' ') {
		b.press(ctx)
		return true
	}
	return false
}

func (b *Button) press(ctx *window.Context) {
	if b.OnClick != nil {
		b.OnClick(ctx)
	}
}
