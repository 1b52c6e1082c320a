package overlay

import "github.com/dshills/casement/internal/renderer/core"

// Place positions a rectangle of the given size next to anchor inside
// bounds. For flip placements the alternate side is used when the preferred
// side would lose more area to clamping. The chosen rectangle is then
// clamped into bounds: along the placement axis the edge away from the
// anchor is pulled in, and across it the rectangle is shifted and, if still
// too large, shrunk.
func Place(anchor core.ScreenRect, size core.Size, p Placement, bounds core.ScreenRect) Result {
	pref, alt, flip := p.sides()
	side := pref
	if flip {
		if loss(candidate(anchor, size, pref), pref, bounds) > loss(candidate(anchor, size, alt), alt, bounds) {
			side = alt
		}
	}
	raw := candidate(anchor, size, side)
	r := clampSide(raw, side, bounds)
	return Result{Rect: r, Side: side, Clamped: r != raw}
}

func candidate(anchor core.ScreenRect, size core.Size, side Side) core.ScreenRect {
	switch side {
	case SideAbove:
		return core.RectFromSize(anchor.Top-size.Height, anchor.Left, size.Height, size.Width)
	case SideRight:
		return core.RectFromSize(anchor.Top, anchor.Right, size.Height, size.Width)
	case SideLeft:
		return core.RectFromSize(anchor.Top, anchor.Left-size.Width, size.Height, size.Width)
	default:
		return core.RectFromSize(anchor.Bottom, anchor.Left, size.Height, size.Width)
	}
}

func loss(r core.ScreenRect, side Side, bounds core.ScreenRect) int {
	return r.Area() - clampSide(r, side, bounds).Area()
}

func clampSide(r core.ScreenRect, side Side, bounds core.ScreenRect) core.ScreenRect {
	switch side {
	case SideBelow, SideAbove:
		left, w := shiftInto(r.Left, r.Width(), bounds.Left, bounds.Right)
		top, bottom := max(r.Top, bounds.Top), min(r.Bottom, bounds.Bottom)
		return core.NewScreenRect(top, left, max(top, bottom), left+w)
	default:
		top, h := shiftInto(r.Top, r.Height(), bounds.Top, bounds.Bottom)
		left, right := max(r.Left, bounds.Left), min(r.Right, bounds.Right)
		return core.NewScreenRect(top, left, top+h, max(left, right))
	}
}

// shiftInto moves a span of length n starting at pos into [lo, hi),
// shrinking it when it does not fit.
func shiftInto(pos, n, lo, hi int) (int, int) {
	n = min(n, max(0, hi-lo))
	pos = max(lo, min(pos, hi-n))
	return pos, n
}
