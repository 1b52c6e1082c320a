package layout

import "github.com/dshills/casement/internal/renderer/core"

// StickyScroll is the window content root strategy. Children marked sticky
// top or bottom are pinned to the edges; everything else forms a scrollable
// column between them that is shifted by the scroll offset.
//
// Fill children of the scrollable column share the viewport height; other
// scrollable children are measured with unbounded height so the true
// content height is known.
type StickyScroll struct {
	offset   int
	content  int
	viewport core.ScreenRect
	node     *Node
}

// Offset returns the current scroll offset.
func (s *StickyScroll) Offset() int { return s.offset }

// ContentHeight returns the measured height of the scrollable column.
func (s *StickyScroll) ContentHeight() int { return s.content }

// ViewportHeight returns the height available to the scrollable column.
func (s *StickyScroll) ViewportHeight() int { return s.viewport.Height() }

// Viewport returns the scrollable area in the node's local space.
func (s *StickyScroll) Viewport() core.ScreenRect { return s.viewport }

// MaxOffset returns the largest valid scroll offset.
func (s *StickyScroll) MaxOffset() int {
	return max(0, s.content-s.viewport.Height())
}

func partition(n *Node) (tops, scrolls, bottoms []*Node) {
	for _, c := range visibleChildren(n) {
		switch c.props.Sticky {
		case StickyTop:
			tops = append(tops, c)
		case StickyBottom:
			bottoms = append(bottoms, c)
		default:
			scrolls = append(scrolls, c)
		}
	}
	return tops, scrolls, bottoms
}

// Measure implements Strategy.
func (s *StickyScroll) Measure(n *Node, c core.Constraints) core.Size {
	tops, scrolls, bottoms := partition(n)

	width, sticky := 0, 0
	for _, group := range [][]*Node{tops, bottoms} {
		for _, k := range group {
			sz := k.Measure(c.Loosen().WithMaxHeight(c.MaxHeight - sticky))
			sticky += sz.Height
			width = max(width, sz.Width)
		}
	}
	viewport := max(0, c.MaxHeight-sticky)

	var fills []*Node
	content := 0
	for _, k := range scrolls {
		if k.props.VAlign == AlignFill {
			fills = append(fills, k)
			continue
		}
		sz := k.Measure(c.Loosen().WithMaxHeight(core.Unbounded))
		content += sz.Height
		width = max(width, sz.Width)
	}
	for i, h := range shares(viewport-content, len(fills)) {
		sz := fills[i].Measure(core.Constraints{MaxWidth: c.MaxWidth, MinHeight: h, MaxHeight: h})
		content += sz.Height
		width = max(width, sz.Width)
	}
	s.content = content

	return core.Size{Width: width, Height: sticky + content}
}

// Arrange implements Strategy.
func (s *StickyScroll) Arrange(n *Node, rect core.ScreenRect) {
	s.node = n
	tops, scrolls, bottoms := partition(n)

	y := rect.Top
	for _, k := range tops {
		h := min(k.desired.Height, max(0, rect.Bottom-y))
		x, w := place(k.props.HAlign, k.desired.Width, rect.Width())
		k.Arrange(core.RectFromSize(y, rect.Left+x, h, w))
		y += h
	}

	bottomH := 0
	for _, k := range bottoms {
		bottomH += k.desired.Height
	}
	by := max(y, rect.Bottom-bottomH)
	s.viewport = core.NewScreenRect(y, rect.Left, by, rect.Right)
	s.offset = core.Clamp(s.offset, 0, s.MaxOffset())

	sy := y - s.offset
	for _, k := range scrolls {
		x, w := place(k.props.HAlign, k.desired.Width, rect.Width())
		k.Arrange(core.RectFromSize(sy, rect.Left+x, k.desired.Height, w))
		sy += k.desired.Height
	}

	for _, k := range bottoms {
		h := min(k.desired.Height, max(0, rect.Bottom-by))
		x, w := place(k.props.HAlign, k.desired.Width, rect.Width())
		k.Arrange(core.RectFromSize(by, rect.Left+x, h, w))
		by += h
	}

	for _, c := range n.children {
		if !c.visible {
			c.collapse(rect.Top, rect.Left)
		}
	}
}

// ChildClip confines scrollable children to the viewport.
func (s *StickyScroll) ChildClip(n, child *Node, clip core.ScreenRect) core.ScreenRect {
	if child.props.Sticky != StickyNone {
		return clip
	}
	return clip.Intersection(s.viewport.Offset(n.abs.Left, n.abs.Top))
}

// ScrollTo sets the offset, clamped to the valid range. It reports whether
// the offset changed; a change invalidates the arrangement.
func (s *StickyScroll) ScrollTo(y int) bool {
	y = core.Clamp(y, 0, s.MaxOffset())
	if y == s.offset {
		return false
	}
	s.offset = y
	if s.node != nil {
		s.node.InvalidateArrange()
	}
	return true
}

// ScrollBy moves the offset by delta lines.
func (s *StickyScroll) ScrollBy(delta int) bool {
	return s.ScrollTo(s.offset + delta)
}

// EnsureVisible scrolls the minimum amount to bring content line y into the
// viewport.
func (s *StickyScroll) EnsureVisible(y int) bool {
	vh := s.viewport.Height()
	switch {
	case vh <= 0:
		return false
	case y < s.offset:
		return s.ScrollTo(y)
	case y >= s.offset+vh:
		return s.ScrollTo(y - vh + 1)
	}
	return false
}

// PageUp scrolls up by one viewport height.
func (s *StickyScroll) PageUp() bool {
	return s.ScrollBy(-max(1, s.viewport.Height()))
}

// PageDown scrolls down by one viewport height.
func (s *StickyScroll) PageDown() bool {
	return s.ScrollBy(max(1, s.viewport.Height()))
}

// Home scrolls to the top.
func (s *StickyScroll) Home() bool {
	return s.ScrollTo(0)
}

// End scrolls to the bottom.
func (s *StickyScroll) End() bool {
	return s.ScrollTo(s.MaxOffset())
}
