package controls

import (
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/window"
)

// ScrollPanel is a self-painting container. Its children live in a private
// layout tree that it measures, arranges and clips itself, so they never
// appear in the window's shared tree.
type ScrollPanel struct {
	base
	inner   *layout.Node
	stack   *layout.VerticalStack
	items   []any
	offset  int
	content int
	height  int
	focused bool
}

// NewScrollPanel creates a panel showing children in a vertical column.
func NewScrollPanel(children ...any) *ScrollPanel {
	p := &ScrollPanel{stack: &layout.VerticalStack{}}
	p.items = append(p.items, children...)
	p.props.VAlign = layout.AlignFill
	p.props.HAlign = layout.AlignFill
	return p
}

func (p *ScrollPanel) tree() *layout.Node {
	if p.inner != nil {
		return p.inner
	}
	p.inner = layout.NewNode(nil, p.stack)
	p.inner.SetInvalidator(layout.InvalidatorFunc(func(n *layout.Node, kind layout.Invalidation) {
		if kind == layout.InvalidMeasure {
			p.invalidateMeasure()
			return
		}
		p.invalidatePaint()
	}))
	for _, c := range p.items {
		p.inner.AddChild(layout.Build(c))
	}
	return p.inner
}

// Add appends a child.
func (p *ScrollPanel) Add(child any) {
	p.items = append(p.items, child)
	if p.inner != nil {
		p.inner.AddChild(layout.Build(child))
	}
}

// Children returns the child controls.
func (p *ScrollPanel) Children() []any { return p.items }

// Offset returns the scroll offset.
func (p *ScrollPanel) Offset() int { return p.offset }

// ScrollBy implements window.Scrollable.
func (p *ScrollPanel) ScrollBy(delta int) bool {
	next := core.Clamp(p.offset+delta, 0, max(0, p.content-p.height))
	if next == p.offset {
		return false
	}
	p.offset = next
	p.invalidatePaint()
	return true
}

// Measure implements layout.Measurer. The panel takes all offered width and
// as much height as its content, up to the constraint.
func (p *ScrollPanel) Measure(c core.Constraints) core.Size {
	w := c.MaxWidth
	if w >= core.Unbounded/2 {
		w = 0
	}
	sz := p.tree().Measure(core.Constraints{MaxWidth: max(0, w-1), MaxHeight: core.Unbounded})
	p.content = sz.Height
	if w == 0 {
		w = sz.Width + 1
	}
	return core.Size{Width: w, Height: sz.Height}
}

// Paint implements layout.Painter. Children are arranged against the
// panel's bounds shifted by the scroll offset and clipped to the panel.
func (p *ScrollPanel) Paint(ctx *layout.PaintContext) {
	b := ctx.Bounds
	p.height = b.Height()
	p.offset = core.Clamp(p.offset, 0, max(0, p.content-p.height))

	ctx.Canvas.FillRect(b, ' ', ctx.Fg, ctx.Bg)
	inner := p.tree()
	inner.Arrange(core.RectFromSize(b.Top-p.offset, b.Left, p.content, max(0, b.Width()-1)))
	inner.Paint(ctx.Canvas.Buffer(), ctx.Clip.Intersection(core.RectFromSize(b.Top, b.Left, b.Height(), b.Width()-1)), ctx.Fg, ctx.Bg)

	p.paintScrollbar(ctx)
}

func (p *ScrollPanel) paintScrollbar(ctx *layout.PaintContext) {
	b := ctx.Bounds
	x := b.Right - 1
	if p.content <= p.height || p.height <= 0 {
		return
	}
	ctx.Canvas.VLine(x, b.Top, p.height, '│', ctx.Fg, ctx.Bg)
	thumb := max(1, p.height*p.height/p.content)
	pos := 0
	if span := p.content - p.height; span > 0 {
		pos = (p.height - thumb) * p.offset / span
	}
	ctx.Canvas.VLine(x, b.Top+pos, thumb, '█', ctx.Fg, ctx.Bg)
}

// HitTest returns the child control at a position relative to the panel.
func (p *ScrollPanel) HitTest(x, y int, bounds core.ScreenRect) (any, core.ScreenRect) {
	if p.inner == nil {
		return nil, core.ScreenRect{}
	}
	n := p.inner.HitTest(bounds.Left+x, bounds.Top+y)
	if n == nil || n == p.inner {
		return nil, core.ScreenRect{}
	}
	return n.Control(), n.AbsoluteBounds()
}

// CanFocus implements window.Focusable.
func (p *ScrollPanel) CanFocus() bool { return p.content > p.height }

// SetFocused implements window.Focusable.
func (p *ScrollPanel) SetFocused(focused bool) {
	p.focused = focused
	p.invalidatePaint()
}

// Click implements window.Clickable. Presses are forwarded to the child
// under the pointer.
func (p *ScrollPanel) Click(ctx *window.ClickContext) bool {
	ctrl, r := p.HitTest(ctx.X, ctx.Y, ctx.Bounds)
	if c, ok := ctrl.(window.Clickable); ok {
		return c.Click(&window.ClickContext{
			Context: window.Context{Window: ctx.Window, Bounds: r},
			X:       ctx.Bounds.Left + ctx.X - r.Left,
			Y:       ctx.Bounds.Top + ctx.Y - r.Top,
			Buttons: ctx.Buttons,
		})
	}
	return ctx.Window.Focus(p)
}

// HandleKey implements window.KeyHandler.
func (p *ScrollPanel) HandleKey(ctx *window.Context, ev backend.Event) bool {
	switch ev.Key {
	case backend.KeyUp:
		p.ScrollBy(-1)
	case backend.KeyDown:
		p.ScrollBy(1)
	case backend.KeyPageUp:
		p.ScrollBy(-max(1, p.height))
	case backend.KeyPageDown:
		p.ScrollBy(max(1, p.height))
	case backend.KeyHome:
		p.ScrollBy(-p.offset)
	case backend.KeyEnd:
		p.ScrollBy(p.content)
	default:
		return false
	}
	return true
}

// Locate returns the bounds of a child control from the last paint.
func (p *ScrollPanel) Locate(control any) (core.ScreenRect, bool) {
	if p.inner == nil {
		return core.ScreenRect{}, false
	}
	n := p.inner.Find(control)
	if n == nil {
		return core.ScreenRect{}, false
	}
	return n.AbsoluteBounds(), true
}
