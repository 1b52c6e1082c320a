package controls

import (
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/window"
)

// DefaultInputWidth is the natural width of an Input.
const DefaultInputWidth = 20

// Input is a single-line text field.
type Input struct {
	base
	text    []rune
	cursor  int
	scroll  int
	focused bool
	// OnChange runs after every edit.
	OnChange func(text string)
}

// NewInput creates an empty input.
func NewInput() *Input {
	return &Input{}
}

// Text returns the current contents.
func (in *Input) Text() string { return string(in.text) }

// SetText replaces the contents and moves the cursor to the end.
func (in *Input) SetText(s string) {
	in.text = []rune(s)
	in.cursor = len(in.text)
	in.invalidatePaint()
}

// Measure implements layout.Measurer.
func (in *Input) Measure(c core.Constraints) core.Size {
	return core.Size{Width: DefaultInputWidth, Height: 1}
}

// Paint implements layout.Painter.
func (in *Input) Paint(ctx *layout.PaintContext) {
	b := ctx.Bounds
	style := ctx.Style().WithAttributes(core.AttrUnderline)
	if in.focused {
		style = style.Bold()
	}
	in.adjustScroll(b.Width())
	ctx.Canvas.HLine(b.Left, b.Top, b.Width(), ' ', style.Foreground, style.Background)
	end := min(len(in.text), in.scroll+b.Width())
	ctx.Canvas.SetString(b.Left, b.Top, string(in.text[in.scroll:end]), style)
}

func (in *Input) adjustScroll(width int) {
	if width <= 0 {
		return
	}
	if in.cursor < in.scroll {
		in.scroll = in.cursor
	}
	if in.cursor >= in.scroll+width {
		in.scroll = in.cursor - width + 1
	}
}

// CanFocus implements window.Focusable.
func (in *Input) CanFocus() bool { return true }

// SetFocused implements window.Focusable.
func (in *Input) SetFocused(focused bool) {
	in.focused = focused
	in.invalidatePaint()
}

// Click implements window.Clickable.
func (in *Input) Click(ctx *window.ClickContext) bool {
	ctx.Window.Focus(in)
	in.cursor = core.Clamp(in.scroll+ctx.X, 0, len(in.text))
	in.invalidatePaint()
	return true
}

// CursorPosition implements window.CursorOwner.
func (in *Input) CursorPosition() (int, int, bool) {
	if !in.focused {
		return 0, 0, false
	}
	return in.cursor - in.scroll, 0, true
}

// CursorStyle implements window.CursorShaper.
func (in *Input) CursorStyle() backend.CursorStyle { return backend.CursorBar }

// HandleKey implements window.KeyHandler.
func (in *Input) HandleKey(ctx *window.Context, ev backend.Event) bool {
	changed := false
	switch ev.Key {
	case backend.KeyRune:
		if ev.Mod.Has(backend.ModCtrl) || ev.Mod.Has(backend.ModAlt) {
			return false
		}
		in.text = append(in.text[:in.cursor], append([]rune{ev.Rune}, in.text[in.cursor:]...)...)
		in.cursor++
		changed = true
	case backend.KeyBackspace:
		if in.cursor == 0 {
			return true
		}
		in.text = append(in.text[:in.cursor-1], in.text[in.cursor:]...)
		in.cursor--
		changed = true
	case backend.KeyDelete:
		if in.cursor >= len(in.text) {
			return true
		}
		in.text = append(in.text[:in.cursor], in.text[in.cursor+1:]...)
		changed = true
	case backend.KeyLeft:
		in.cursor = max(0, in.cursor-1)
	case backend.KeyRight:
		in.cursor = min(len(in.text), in.cursor+1)
	case backend.KeyHome:
		in.cursor = 0
	case backend.KeyEnd:
		in.cursor = len(in.text)
	default:
		return false
	}
	in.adjustScroll(ctx.Bounds.Width())
	in.invalidatePaint()
	if changed && in.OnChange != nil {
		in.OnChange(in.Text())
	}
	return true
}
