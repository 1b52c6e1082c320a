package controls

import (
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/window"
)

// group is the shared child list of container controls.
type group struct {
	base
	children []any
}

// LayoutChildren implements layout.Container.
func (g *group) LayoutChildren() []any { return g.children }

// Children returns the child controls.
func (g *group) Children() []any { return g.children }

// Add appends child. If the container is already laid out, the child's
// subtree is built and attached immediately.
func (g *group) Add(child any) {
	if child == nil {
		return
	}
	g.children = append(g.children, child)
	if g.node != nil {
		g.node.AddChild(layout.Build(child))
	}
}

// Remove detaches child.
func (g *group) Remove(child any) bool {
	for i, c := range g.children {
		if c != child {
			continue
		}
		g.children = append(g.children[:i], g.children[i+1:]...)
		if g.node != nil {
			for _, n := range g.node.Children() {
				if n.Control() == child {
					g.node.RemoveChild(n)
					break
				}
			}
		}
		return true
	}
	return false
}

// Stack arranges children vertically.
type Stack struct {
	group
	strategy *layout.VerticalStack
}

// NewStack creates a vertical stack.
func NewStack(spacing int, children ...any) *Stack {
	s := &Stack{strategy: &layout.VerticalStack{Spacing: spacing}}
	s.children = append(s.children, children...)
	return s
}

// LayoutStrategy implements layout.Container.
func (s *Stack) LayoutStrategy() layout.Strategy { return s.strategy }

// Flow arranges children horizontally.
type Flow struct {
	group
	strategy *layout.HorizontalFlow
}

// NewFlow creates a horizontal flow.
func NewFlow(spacing int, children ...any) *Flow {
	f := &Flow{strategy: &layout.HorizontalFlow{Spacing: spacing}}
	f.children = append(f.children, children...)
	return f
}

// LayoutStrategy implements layout.Container.
func (f *Flow) LayoutStrategy() layout.Strategy { return f.strategy }

// Tabs shows one child at a time under a header of tab titles.
type Tabs struct {
	group
	titles   []string
	strategy *layout.Tabbed
	focused  bool
	// OnChange runs after the active tab changes.
	OnChange func(index int)
}

// NewTabs creates an empty tab container.
func NewTabs() *Tabs {
	return &Tabs{strategy: &layout.Tabbed{}}
}

// AddTab appends a page.
func (t *Tabs) AddTab(title string, content any) {
	t.titles = append(t.titles, title)
	t.Add(content)
}

// LayoutStrategy implements layout.Container.
func (t *Tabs) LayoutStrategy() layout.Strategy { return t.strategy }

// Active returns the active tab index.
func (t *Tabs) Active() int { return t.strategy.Active }

// SetActive switches tabs. Out-of-range indexes are ignored.
func (t *Tabs) SetActive(i int) {
	if i < 0 || i >= len(t.children) || i == t.strategy.Active {
		return
	}
	t.strategy.Active = i
	t.invalidateMeasure()
	if t.OnChange != nil {
		t.OnChange(i)
	}
}

// tabSpans returns the header column range of each tab, relative to the
// control's left edge.
func (t *Tabs) tabSpans() [][2]int {
	spans := make([][2]int, len(t.titles))
	x := 0
	for i, title := range t.titles {
		w := core.StringWidth(title) + 2
		spans[i] = [2]int{x, x + w}
		x += w + 1
	}
	return spans
}

// Paint implements layout.Painter. Only the header row is drawn here; the
// active page paints itself.
func (t *Tabs) Paint(ctx *layout.PaintContext) {
	b := ctx.Bounds
	hdr := ctx.Style()
	ctx.Canvas.HLine(b.Left, b.Top, b.Width(), '─', hdr.Foreground, hdr.Background)
	for i, span := range t.tabSpans() {
		style := hdr
		if i == t.strategy.Active {
			style = style.Reverse()
			if t.focused {
				style = style.Bold()
			}
		}
		ctx.Canvas.Narrow(b).SetString(b.Left+span[0], b.Top, " "+t.titles[i]+" ", style)
	}
}

// CanFocus implements window.Focusable.
func (t *Tabs) CanFocus() bool { return len(t.titles) > 1 }

// SetFocused implements window.Focusable.
func (t *Tabs) SetFocused(focused bool) {
	t.focused = focused
	t.invalidatePaint()
}

// Click implements window.Clickable. Only header clicks are consumed.
func (t *Tabs) Click(ctx *window.ClickContext) bool {
	if ctx.Y >= layout.TabHeaderHeight {
		return false
	}
	for i, span := range t.tabSpans() {
		if ctx.X >= span[0] && ctx.X < span[1] {
			ctx.Window.Focus(t)
			t.SetActive(i)
			return true
		}
	}
	return false
}

// HandleKey implements window.KeyHandler.
func (t *Tabs) HandleKey(ctx *window.Context, ev backend.Event) bool {
	switch ev.Key {
	case backend.KeyLeft:
		t.SetActive(t.strategy.Active - 1)
	case backend.KeyRight:
		t.SetActive(t.strategy.Active + 1)
	default:
		return false
	}
	return true
}
