// Package dirty tracks screen areas that need repainting outside of any
// window, and provides the rectangle arithmetic used to compute visible and
// exposed regions.
package dirty

import (
	"github.com/dshills/casement/internal/renderer/core"
)

// Subtract returns the parts of r not covered by cut, as at most four
// non-overlapping rectangles: a full-width band above, a full-width band
// below, then the left and right strips beside cut.
func Subtract(r, cut core.ScreenRect) []core.ScreenRect {
	if r.IsEmpty() {
		return nil
	}
	inter := r.Intersection(cut)
	if inter.IsEmpty() {
		return []core.ScreenRect{r}
	}
	out := make([]core.ScreenRect, 0, 4)
	if inter.Top > r.Top {
		out = append(out, core.NewScreenRect(r.Top, r.Left, inter.Top, r.Right))
	}
	if inter.Bottom < r.Bottom {
		out = append(out, core.NewScreenRect(inter.Bottom, r.Left, r.Bottom, r.Right))
	}
	if inter.Left > r.Left {
		out = append(out, core.NewScreenRect(inter.Top, r.Left, inter.Bottom, inter.Left))
	}
	if inter.Right < r.Right {
		out = append(out, core.NewScreenRect(inter.Top, inter.Right, inter.Bottom, r.Right))
	}
	return out
}

// SubtractAll removes every rectangle in cuts from each rectangle in rs.
func SubtractAll(rs []core.ScreenRect, cuts ...core.ScreenRect) []core.ScreenRect {
	for _, cut := range cuts {
		if cut.IsEmpty() {
			continue
		}
		next := make([]core.ScreenRect, 0, len(rs))
		for _, r := range rs {
			next = append(next, Subtract(r, cut)...)
		}
		rs = next
		if len(rs) == 0 {
			break
		}
	}
	return rs
}

// Bounds returns the smallest rectangle enclosing every rectangle in rs.
func Bounds(rs []core.ScreenRect) core.ScreenRect {
	var out core.ScreenRect
	for _, r := range rs {
		out = out.Union(r)
	}
	return out
}

// Area sums the area of rs. Overlaps are counted twice.
func Area(rs []core.ScreenRect) int {
	n := 0
	for _, r := range rs {
		n += r.Area()
	}
	return n
}

// mergeable reports whether a and b overlap or share a full edge, so that
// their union covers no extra cells.
func mergeable(a, b core.ScreenRect) bool {
	if a.ContainsRect(b) || b.ContainsRect(a) {
		return true
	}
	sameCols := a.Left == b.Left && a.Right == b.Right
	sameRows := a.Top == b.Top && a.Bottom == b.Bottom
	if sameCols && a.Top <= b.Bottom && b.Top <= a.Bottom {
		return true
	}
	if sameRows && a.Left <= b.Right && b.Left <= a.Right {
		return true
	}
	return false
}

// Coalesce merges rectangles whose union is exact and drops empty ones.
func Coalesce(rs []core.ScreenRect) []core.ScreenRect {
	out := make([]core.ScreenRect, 0, len(rs))
	for _, r := range rs {
		if !r.IsEmpty() {
			out = append(out, r)
		}
	}
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(out) && !merged; i++ {
			for j := i + 1; j < len(out); j++ {
				if mergeable(out[i], out[j]) {
					out[i] = out[i].Union(out[j])
					out = append(out[:j], out[j+1:]...)
					merged = true
					break
				}
			}
		}
	}
	return out
}
