package layout

import "github.com/dshills/casement/internal/renderer/core"

// TabHeaderHeight is the number of rows reserved above the active tab.
const TabHeaderHeight = 1

// Tabbed shows one child at a time below a fixed header row. Inactive
// children keep their state but are arranged to an empty rectangle.
type Tabbed struct {
	Active int
}

// ActiveChild returns the visible child at the active index, or nil.
func (s *Tabbed) ActiveChild(n *Node) *Node {
	if s.Active < 0 || s.Active >= len(n.children) {
		return nil
	}
	if c := n.children[s.Active]; c.visible {
		return c
	}
	return nil
}

// Measure implements Strategy.
func (s *Tabbed) Measure(n *Node, c core.Constraints) core.Size {
	size := core.Size{Height: TabHeaderHeight}
	if a := s.ActiveChild(n); a != nil {
		sz := a.Measure(core.Constraints{
			MaxWidth:  c.MaxWidth,
			MaxHeight: max(0, c.MaxHeight-TabHeaderHeight),
		})
		size.Width = sz.Width
		size.Height += sz.Height
	}
	return size
}

// Arrange implements Strategy.
func (s *Tabbed) Arrange(n *Node, rect core.ScreenRect) {
	active := s.ActiveChild(n)
	body := core.RectFromSize(rect.Top+TabHeaderHeight, rect.Left,
		rect.Height()-TabHeaderHeight, rect.Width())
	for _, c := range n.children {
		if c == active {
			c.Arrange(body)
			continue
		}
		c.collapse(body.Top, body.Left)
	}
}
