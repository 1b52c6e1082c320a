package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/casement/internal/renderer/core"
)

func heights(ns []*Node) []int {
	out := make([]int, len(ns))
	for i, n := range ns {
		out[i] = n.AbsoluteBounds().Height()
	}
	return out
}

func TestVerticalStackFillRemainder(t *testing.T) {
	root := NewNode(nil, &VerticalStack{})
	root.AddChild(leaf(2, 1, Props{}))
	fills := []*Node{
		leaf(1, 1, Props{VAlign: AlignFill}),
		leaf(1, 1, Props{VAlign: AlignFill}),
		leaf(1, 1, Props{VAlign: AlignFill}),
	}
	for _, f := range fills {
		root.AddChild(f)
	}

	root.Measure(core.Loose(core.Size{Width: 10, Height: 11}))
	got := []int{fills[0].DesiredSize().Height, fills[1].DesiredSize().Height, fills[2].DesiredSize().Height}
	if diff := cmp.Diff([]int{4, 3, 3}, got); diff != "" {
		t.Errorf("fill shares mismatch (-want +got):\n%s", diff)
	}

	root.Arrange(core.RectFromSize(0, 0, 11, 10))
	if diff := cmp.Diff([]int{1, 4, 3, 3}, heights(root.Children())); diff != "" {
		t.Errorf("arranged heights mismatch (-want +got):\n%s", diff)
	}
	if got := fills[2].AbsoluteBounds().Bottom; got != 11 {
		t.Errorf("last fill should end at 11, got %d", got)
	}
}

func TestVerticalStackAlignment(t *testing.T) {
	root := NewNode(nil, &VerticalStack{})
	c := leaf(4, 1, Props{HAlign: AlignCenter})
	e := leaf(4, 1, Props{HAlign: AlignEnd})
	f := leaf(4, 1, Props{HAlign: AlignFill})
	root.AddChild(c)
	root.AddChild(e)
	root.AddChild(f)
	root.Measure(core.Loose(core.Size{Width: 10, Height: 3}))
	root.Arrange(core.RectFromSize(0, 0, 3, 10))

	if got := c.Bounds().Left; got != 3 {
		t.Errorf("centered left = %d, want 3", got)
	}
	if got := e.Bounds().Left; got != 6 {
		t.Errorf("end left = %d, want 6", got)
	}
	if got := f.Bounds().Width(); got != 10 {
		t.Errorf("fill width = %d, want 10", got)
	}
}

func TestHorizontalFlowFlex(t *testing.T) {
	root := NewNode(nil, &HorizontalFlow{})
	fixed := leaf(4, 1, Props{})
	one := leaf(1, 1, Props{Flex: 1})
	two := leaf(1, 1, Props{Flex: 2})
	root.AddChild(fixed)
	root.AddChild(one)
	root.AddChild(two)

	root.Measure(core.Loose(core.Size{Width: 10, Height: 1}))
	if got := []int{one.DesiredSize().Width, two.DesiredSize().Width}; got[0] != 2 || got[1] != 4 {
		t.Errorf("flex widths = %v, want [2 4]", got)
	}

	root.Arrange(core.RectFromSize(0, 0, 1, 10))
	wantLeft := []int{0, 4, 6}
	for i, c := range root.Children() {
		if c.Bounds().Left != wantLeft[i] {
			t.Errorf("child %d left = %d, want %d", i, c.Bounds().Left, wantLeft[i])
		}
	}
}

func TestHorizontalFlowZeroFlexKeepsNaturalWidth(t *testing.T) {
	root := NewNode(nil, &HorizontalFlow{Spacing: 1})
	ok := leaf(3, 1, Props{})
	cancel := leaf(5, 1, Props{})
	fill := leaf(1, 1, Props{Flex: 1})
	root.AddChild(ok)
	root.AddChild(cancel)
	root.Measure(core.Loose(core.Size{Width: 40, Height: 1}))
	if ok.DesiredSize().Width != 3 || cancel.DesiredSize().Width != 5 {
		t.Fatalf("widths = %d,%d, want 3,5", ok.DesiredSize().Width, cancel.DesiredSize().Width)
	}

	root.AddChild(fill)
	root.Measure(core.Loose(core.Size{Width: 40, Height: 1}))
	root.Arrange(core.RectFromSize(0, 0, 1, 40))
	if got := fill.Bounds().Width(); got != 40-3-5-2 {
		t.Errorf("flex child width = %d, want %d", got, 40-3-5-2)
	}
	if ok.Bounds().Width() != 3 || cancel.Bounds().Width() != 5 {
		t.Error("fixed children changed width when a flex child was added")
	}
}

func TestHorizontalFlowExplicitWidthIsFixed(t *testing.T) {
	root := NewNode(nil, &HorizontalFlow{Spacing: 1})
	a := leaf(1, 1, Props{Width: 5, Flex: 3})
	b := leaf(1, 1, Props{Flex: 1})
	root.AddChild(a)
	root.AddChild(b)
	root.Measure(core.Loose(core.Size{Width: 20, Height: 1}))
	if a.DesiredSize().Width != 5 {
		t.Errorf("explicit width should win over flex, got %d", a.DesiredSize().Width)
	}
	if b.DesiredSize().Width != 14 {
		t.Errorf("flex child should take the rest, got %d", b.DesiredSize().Width)
	}
}

func TestTabbedArrangesOnlyActive(t *testing.T) {
	tabs := &Tabbed{Active: 1}
	root := NewNode(nil, tabs)
	a, b, c := leaf(3, 3, Props{}), leaf(3, 3, Props{}), leaf(3, 3, Props{})
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)

	size := root.Measure(core.Loose(core.Size{Width: 20, Height: 10}))
	if size.Height != 4 {
		t.Errorf("height should include header, got %d", size.Height)
	}
	root.Arrange(core.RectFromSize(0, 0, 10, 20))

	if got := b.Bounds(); got != core.RectFromSize(1, 0, 9, 20) {
		t.Errorf("active bounds = %+v", got)
	}
	for _, n := range []*Node{a, c} {
		if !n.Bounds().IsEmpty() {
			t.Errorf("inactive child should collapse, got %+v", n.Bounds())
		}
	}

	tabs.Active = 0
	root.InvalidateMeasure()
	root.Measure(core.Loose(core.Size{Width: 20, Height: 10}))
	root.Arrange(core.RectFromSize(0, 0, 10, 20))
	if a.Bounds().IsEmpty() || !b.Bounds().IsEmpty() {
		t.Error("switching tabs should swap arranged child")
	}
}

func TestStickyScrollViewportHeight(t *testing.T) {
	st := &StickyScroll{}
	root := NewNode(nil, st)
	header := leaf(5, 1, Props{Sticky: StickyTop})
	body := leaf(5, 1, Props{VAlign: AlignFill})
	root.AddChild(header)
	root.AddChild(body)

	root.Measure(core.Loose(core.Size{Width: 20, Height: 10}))
	if got := body.DesiredSize().Height; got != 9 {
		t.Errorf("fill viewport height = %d, want 9", got)
	}
	root.Arrange(core.RectFromSize(0, 0, 10, 20))
	if got := st.ViewportHeight(); got != 9 {
		t.Errorf("viewport = %d, want 9", got)
	}
}

func TestStickyScrollOffset(t *testing.T) {
	st := &StickyScroll{}
	root := NewNode(nil, st)
	header := leaf(5, 1, Props{Sticky: StickyTop})
	footer := leaf(5, 1, Props{Sticky: StickyBottom})
	content := leaf(5, 30, Props{})
	root.AddChild(header)
	root.AddChild(content)
	root.AddChild(footer)

	layoutPass := func() {
		root.Measure(core.Loose(core.Size{Width: 20, Height: 10}))
		root.Arrange(core.RectFromSize(0, 0, 10, 20))
	}
	layoutPass()

	if st.ContentHeight() != 30 {
		t.Fatalf("content height = %d, want 30", st.ContentHeight())
	}
	if st.MaxOffset() != 22 {
		t.Fatalf("max offset = %d, want 22", st.MaxOffset())
	}

	tests := []struct {
		name   string
		op     func() bool
		offset int
	}{
		{"scroll to beyond end clamps", func() bool { return st.ScrollTo(100) }, 22},
		{"home", st.Home, 0},
		{"negative clamps", func() bool { return st.ScrollBy(-5) }, 0},
		{"page down", st.PageDown, 8},
		{"ensure visible below", func() bool { return st.EnsureVisible(20) }, 13},
		{"ensure visible inside is a no-op", func() bool { return st.EnsureVisible(15) }, 13},
		{"ensure visible above", func() bool { return st.EnsureVisible(2) }, 2},
		{"page up", st.PageUp, 0},
		{"end", st.End, 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.op()
			layoutPass()
			if st.Offset() != tt.offset {
				t.Errorf("offset = %d, want %d", st.Offset(), tt.offset)
			}
			if header.AbsoluteBounds().Top != 0 {
				t.Error("sticky header must not scroll")
			}
			if footer.AbsoluteBounds().Top != 9 {
				t.Errorf("sticky footer top = %d, want 9", footer.AbsoluteBounds().Top)
			}
			if got := content.AbsoluteBounds().Top; got != 1-tt.offset {
				t.Errorf("content top = %d, want %d", got, 1-tt.offset)
			}
		})
	}
}

func TestStickyScrollClipsScrollable(t *testing.T) {
	st := &StickyScroll{}
	root := NewNode(nil, st)
	header := leaf(5, 1, Props{Sticky: StickyTop})
	content := leaf(5, 30, Props{})
	root.AddChild(header)
	root.AddChild(content)
	root.Measure(core.Loose(core.Size{Width: 5, Height: 5}))
	root.Arrange(core.RectFromSize(0, 0, 5, 5))
	st.ScrollTo(3)
	root.Arrange(core.RectFromSize(0, 0, 5, 5))

	clip := st.ChildClip(root, content, root.AbsoluteBounds())
	if clip != core.RectFromSize(1, 0, 4, 5) {
		t.Errorf("scrollable clip = %+v", clip)
	}
	if got := root.HitTest(2, 0); got != header {
		t.Error("header row should hit the sticky header, not scrolled content")
	}
}
