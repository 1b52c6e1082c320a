package controls

import (
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/renderer/overlay"
	"github.com/dshills/casement/internal/window"
)

// List is a vertical list of selectable items.
type List struct {
	base
	items    []string
	selected int
	top      int
	height   int
	focused  bool
	// OnSelect runs when an item is activated by click or Enter.
	OnSelect func(ctx *window.Context, index int)
}

// NewList creates a list.
func NewList(items ...string) *List {
	return &List{items: items}
}

// Items returns the list items.
func (l *List) Items() []string { return l.items }

// SetItems replaces the items and resets the selection.
func (l *List) SetItems(items []string) {
	l.items = items
	l.selected, l.top = 0, 0
	l.invalidateMeasure()
}

// Selected returns the selected index, or -1 for an empty list.
func (l *List) Selected() int {
	if len(l.items) == 0 {
		return -1
	}
	return l.selected
}

// Select moves the selection, clamped to the items.
func (l *List) Select(i int) {
	if len(l.items) == 0 {
		return
	}
	i = core.Clamp(i, 0, len(l.items)-1)
	if i == l.selected {
		return
	}
	l.selected = i
	l.reveal()
	l.invalidatePaint()
}

func (l *List) reveal() {
	if l.height <= 0 {
		return
	}
	if l.selected < l.top {
		l.top = l.selected
	}
	if l.selected >= l.top+l.height {
		l.top = l.selected - l.height + 1
	}
}

// Measure implements layout.Measurer.
func (l *List) Measure(c core.Constraints) core.Size {
	w := 0
	for _, it := range l.items {
		w = max(w, core.StringWidth(it))
	}
	return core.Size{Width: w + 2, Height: len(l.items)}
}

// Paint implements layout.Painter.
func (l *List) Paint(ctx *layout.PaintContext) {
	b := ctx.Bounds
	l.height = b.Height()
	l.top = core.Clamp(l.top, 0, max(0, len(l.items)-l.height))
	l.reveal()

	normal := ctx.Style()
	ctx.Canvas.FillRect(b, ' ', normal.Foreground, normal.Background)
	for row := 0; row < l.height; row++ {
		i := l.top + row
		if i >= len(l.items) {
			break
		}
		style := normal
		if i == l.selected {
			style = style.Reverse()
		}
		ctx.Canvas.HLine(b.Left, b.Top+row, b.Width(), ' ', style.Foreground, style.Background)
		ctx.Canvas.Narrow(b).SetString(b.Left+1, b.Top+row, l.items[i], style)
	}
}

// CanFocus implements window.Focusable.
func (l *List) CanFocus() bool { return len(l.items) > 0 }

// SetFocused implements window.Focusable.
func (l *List) SetFocused(focused bool) {
	l.focused = focused
	l.invalidatePaint()
}

// Click implements window.Clickable.
func (l *List) Click(ctx *window.ClickContext) bool {
	i := l.top + ctx.Y
	if i < 0 || i >= len(l.items) {
		return false
	}
	ctx.Window.Focus(l)
	l.Select(i)
	l.activate(&ctx.Context)
	return true
}

// ScrollBy implements window.Scrollable by moving the selection.
func (l *List) ScrollBy(delta int) bool {
	before := l.selected
	l.Select(l.selected + delta)
	return l.selected != before
}

// HandleKey implements window.KeyHandler.
func (l *List) HandleKey(ctx *window.Context, ev backend.Event) bool {
	switch ev.Key {
	case backend.KeyUp:
		l.Select(l.selected - 1)
	case backend.KeyDown:
		l.Select(l.selected + 1)
	case backend.KeyPageUp:
		l.Select(l.selected - max(1, l.height))
	case backend.KeyPageDown:
		l.Select(l.selected + max(1, l.height))
	case backend.KeyHome:
		l.Select(0)
	case backend.KeyEnd:
		l.Select(len(l.items) - 1)
	case backend.KeyEnter:
		l.activate(ctx)
	default:
		return false
	}
	return true
}

func (l *List) activate(ctx *window.Context) {
	if l.OnSelect != nil && len(l.items) > 0 {
		l.OnSelect(ctx, l.selected)
	}
}

// DropdownMaxRows bounds the height of an open dropdown list.
const DropdownMaxRows = 8

// Dropdown shows the selected item and opens a list in a portal when
// pressed. The list floats above other content and is placed below the
// control, or above it when there is more room there.
type Dropdown struct {
	base
	list     *List
	portalID string
	focused  bool
	// OnChange runs after the selection changes.
	OnChange func(index int)
}

// NewDropdown creates a dropdown over items.
func NewDropdown(items ...string) *Dropdown {
	d := &Dropdown{list: NewList(items...)}
	d.list.OnSelect = func(ctx *window.Context, i int) {
		d.close(ctx.Window)
		if d.OnChange != nil {
			d.OnChange(i)
		}
		d.invalidatePaint()
	}
	return d
}

// Selected returns the selected index.
func (d *Dropdown) Selected() int { return d.list.Selected() }

// Value returns the selected item.
func (d *Dropdown) Value() string {
	if i := d.list.Selected(); i >= 0 {
		return d.list.items[i]
	}
	return ""
}

// IsOpen reports whether the list portal is showing.
func (d *Dropdown) IsOpen() bool { return d.portalID != "" }

// Measure implements layout.Measurer.
func (d *Dropdown) Measure(c core.Constraints) core.Size {
	return core.Size{Width: d.list.Measure(c).Width + 3, Height: 1}
}

// Paint implements layout.Painter.
func (d *Dropdown) Paint(ctx *layout.PaintContext) {
	b := ctx.Bounds
	style := ctx.Style()
	if d.focused {
		style = style.Reverse()
	}
	ctx.Canvas.HLine(b.Left, b.Top, b.Width(), ' ', style.Foreground, style.Background)
	ctx.Canvas.Narrow(b).SetString(b.Left+1, b.Top, d.Value(), style)
	arrow := '▼'
	if d.IsOpen() {
		arrow = '▲'
	}
	ctx.Canvas.Set(b.Right-1, b.Top, core.NewStyledCell(arrow, style))
}

// CanFocus implements window.Focusable.
func (d *Dropdown) CanFocus() bool { return true }

// SetFocused implements window.Focusable.
func (d *Dropdown) SetFocused(focused bool) {
	d.focused = focused
	d.invalidatePaint()
}

// Click implements window.Clickable.
func (d *Dropdown) Click(ctx *window.ClickContext) bool {
	ctx.Window.Focus(d)
	d.toggle(&ctx.Context)
	return true
}

// HandleKey implements window.KeyHandler. While open, keys drive the list.
func (d *Dropdown) HandleKey(ctx *window.Context, ev backend.Event) bool {
	if d.IsOpen() {
		if ev.Key == backend.KeyEscape {
			d.close(ctx.Window)
			return true
		}
		return d.list.HandleKey(ctx, ev)
	}
	if ev.Key == backend.KeyEnter || ev.Key == backend.KeyDown {
		d.toggle(ctx)
		return true
	}
	return false
}

func (d *Dropdown) toggle(ctx *window.Context) {
	if d.IsOpen() {
		d.close(ctx.Window)
		return
	}
	rows := min(len(d.list.items), DropdownMaxRows)
	d.portalID = ctx.Window.OpenPortal(&overlay.Portal{
		Anchor:    ctx.Bounds,
		Size:      core.Size{Width: ctx.Bounds.Width(), Height: rows},
		Placement: overlay.PlaceBelowOrAbove,
		Priority:  overlay.PriorityHigh,
		Content:   d.list,
	})
	d.invalidatePaint()
}

func (d *Dropdown) close(w *window.Window) {
	if d.portalID == "" {
		return
	}
	w.ClosePortal(d.portalID)
	d.portalID = ""
	d.invalidatePaint()
}
