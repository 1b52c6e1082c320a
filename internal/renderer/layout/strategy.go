package layout

import "github.com/dshills/casement/internal/renderer/core"

// Strategy decides how a node's children are measured and positioned.
type Strategy interface {
	// Measure measures the children of n under c and returns the size n
	// wants.
	Measure(n *Node, c core.Constraints) core.Size
	// Arrange positions the children of n inside rect, which is in n's
	// local space (origin at n's top-left corner).
	Arrange(n *Node, rect core.ScreenRect)
}

// ChildClipper is implemented by strategies that restrict where a child may
// paint, beyond the parent's own bounds.
type ChildClipper interface {
	ChildClip(n, child *Node, clip core.ScreenRect) core.ScreenRect
}

var defaultStrategy Strategy = &VerticalStack{}

func visibleChildren(n *Node) []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if c.visible {
			out = append(out, c)
		}
	}
	return out
}

func gaps(count, spacing int) int {
	if count < 2 {
		return 0
	}
	return spacing * (count - 1)
}

// shares splits total into n parts, giving the remainder one unit at a
// time to the leading parts.
func shares(total, n int) []int {
	out := make([]int, n)
	if n == 0 || total <= 0 {
		return out
	}
	each, extra := total/n, total%n
	for i := range out {
		out[i] = each
		if i < extra {
			out[i]++
		}
	}
	return out
}

func unbounded(v int) bool {
	return v >= core.Unbounded/2
}

// place positions a child of natural length want inside avail according to
// align. It returns the offset and the length.
func place(align Align, want, avail int) (int, int) {
	if avail <= 0 {
		return 0, 0
	}
	if align == AlignFill {
		return 0, avail
	}
	want = min(want, avail)
	switch align {
	case AlignCenter:
		return (avail - want) / 2, want
	case AlignEnd:
		return avail - want, want
	default:
		return 0, want
	}
}
