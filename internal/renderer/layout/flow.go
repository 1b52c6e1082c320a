package layout

import "github.com/dshills/casement/internal/renderer/core"

// HorizontalFlow places children left to right. A child is fixed-width when
// it has an explicit width or a zero flex factor, and takes its natural
// width. The remaining width is divided among the other children in
// proportion to their flex factors.
type HorizontalFlow struct {
	Spacing int
}

func isFlexible(n *Node) bool {
	return n.props.Width <= 0 && n.props.Flex > 0
}

// Measure implements Strategy.
func (s *HorizontalFlow) Measure(n *Node, c core.Constraints) core.Size {
	kids := visibleChildren(n)
	avail := max(0, c.MaxWidth-gaps(len(kids), s.Spacing))

	height, used, totalFlex := 0, 0, 0
	for _, k := range kids {
		if isFlexible(k) {
			totalFlex += k.props.Flex
			continue
		}
		sz := k.Measure(c.Loosen().WithMaxWidth(avail - used))
		used += sz.Width
		height = max(height, sz.Height)
	}

	remaining := max(0, avail-used)
	for _, k := range kids {
		if !isFlexible(k) {
			continue
		}
		var sz core.Size
		if unbounded(remaining) {
			sz = k.Measure(c.Loosen().WithMaxWidth(core.Unbounded))
		} else {
			w := remaining * k.props.Flex / totalFlex
			sz = k.Measure(core.Constraints{MinWidth: w, MaxWidth: w, MaxHeight: c.MaxHeight})
		}
		used += sz.Width
		height = max(height, sz.Height)
	}

	return core.Size{Width: used + gaps(len(kids), s.Spacing), Height: height}
}

// Arrange implements Strategy. Flexible children are re-divided against the
// final width so a wider arrangement than measured is filled.
func (s *HorizontalFlow) Arrange(n *Node, rect core.ScreenRect) {
	kids := visibleChildren(n)
	fixed, totalFlex := gaps(len(kids), s.Spacing), 0
	for _, k := range kids {
		if isFlexible(k) {
			totalFlex += k.props.Flex
		} else {
			fixed += k.desired.Width
		}
	}
	remaining := max(0, rect.Width()-fixed)

	x := rect.Left
	for _, c := range n.children {
		if !c.visible {
			c.collapse(rect.Top, x)
			continue
		}
		w := c.desired.Width
		if isFlexible(c) {
			w = remaining * c.props.Flex / totalFlex
		}
		y, h := place(c.props.VAlign, c.desired.Height, rect.Height())
		c.Arrange(core.RectFromSize(rect.Top+y, x, h, w))
		x += w + s.Spacing
	}
}
