package layout

import "github.com/dshills/casement/internal/renderer/core"

// VerticalStack places children top to bottom. Its width is the widest
// child and its height the sum of child heights plus spacing. Children with
// VAlign fill divide the height left over by the others.
type VerticalStack struct {
	Spacing int
}

// Measure implements Strategy.
func (s *VerticalStack) Measure(n *Node, c core.Constraints) core.Size {
	kids := visibleChildren(n)
	avail := max(0, c.MaxHeight-gaps(len(kids), s.Spacing))

	var fills []*Node
	width, used := 0, 0
	for _, k := range kids {
		if k.props.VAlign == AlignFill {
			fills = append(fills, k)
			continue
		}
		sz := k.Measure(c.Loosen().WithMaxHeight(avail - used))
		used += sz.Height
		width = max(width, sz.Width)
	}

	if len(fills) > 0 {
		if unbounded(avail) {
			for _, f := range fills {
				sz := f.Measure(c.Loosen().WithMaxHeight(core.Unbounded))
				used += sz.Height
				width = max(width, sz.Width)
			}
		} else {
			for i, h := range shares(avail-used, len(fills)) {
				sz := fills[i].Measure(core.Constraints{MaxWidth: c.MaxWidth, MinHeight: h, MaxHeight: h})
				used += sz.Height
				width = max(width, sz.Width)
			}
		}
	}

	return core.Size{Width: width, Height: used + gaps(len(kids), s.Spacing)}
}

// Arrange implements Strategy. Space beyond the measured total goes to the
// fill children.
func (s *VerticalStack) Arrange(n *Node, rect core.ScreenRect) {
	kids := visibleChildren(n)
	total := gaps(len(kids), s.Spacing)
	fillCount := 0
	for _, k := range kids {
		total += k.desired.Height
		if k.props.VAlign == AlignFill {
			fillCount++
		}
	}
	extra := shares(rect.Height()-total, fillCount)

	y, fi := rect.Top, 0
	for _, c := range n.children {
		if !c.visible {
			c.collapse(y, rect.Left)
			continue
		}
		h := c.desired.Height
		if c.props.VAlign == AlignFill {
			h += extra[fi]
			fi++
		}
		x, w := place(c.props.HAlign, c.desired.Width, rect.Width())
		c.Arrange(core.RectFromSize(y, rect.Left+x, h, w))
		y += h + s.Spacing
	}
}
