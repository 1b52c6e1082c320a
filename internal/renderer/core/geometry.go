package core

// ScreenPos represents a position on the screen.
type ScreenPos struct {
	Row int
	Col int
}

// ScreenRect represents a rectangular region on the screen.
// Bottom and Right are exclusive.
type ScreenRect struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// NewScreenRect creates a new screen rectangle.
func NewScreenRect(top, left, bottom, right int) ScreenRect {
	return ScreenRect{
		Top:    top,
		Left:   left,
		Bottom: bottom,
		Right:  right,
	}
}

// RectFromSize creates a rectangle from a position and dimensions.
func RectFromSize(top, left, height, width int) ScreenRect {
	if height < 0 {
		height = 0
	}
	if width < 0 {
		width = 0
	}
	return ScreenRect{
		Top:    top,
		Left:   left,
		Bottom: top + height,
		Right:  left + width,
	}
}

// Width returns the width of the rectangle.
func (r ScreenRect) Width() int {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r ScreenRect) Height() int {
	return r.Bottom - r.Top
}

// Size returns the dimensions of the rectangle.
func (r ScreenRect) Size() Size {
	if r.IsEmpty() {
		return Size{}
	}
	return Size{Width: r.Width(), Height: r.Height()}
}

// Area returns the number of cells covered by the rectangle.
func (r ScreenRect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// IsEmpty returns true if the rectangle has zero area.
func (r ScreenRect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains returns true if the position is within the rectangle.
func (r ScreenRect) Contains(pos ScreenPos) bool {
	return pos.Row >= r.Top && pos.Row < r.Bottom &&
		pos.Col >= r.Left && pos.Col < r.Right
}

// ContainsPoint is Contains with x/y arguments.
func (r ScreenRect) ContainsPoint(x, y int) bool {
	return r.Contains(ScreenPos{Row: y, Col: x})
}

// ContainsRect returns true if other is entirely within r.
func (r ScreenRect) ContainsRect(other ScreenRect) bool {
	if other.IsEmpty() {
		return true
	}
	return other.Top >= r.Top && other.Bottom <= r.Bottom &&
		other.Left >= r.Left && other.Right <= r.Right
}

// Intersects returns true if the rectangles overlap.
func (r ScreenRect) Intersects(other ScreenRect) bool {
	return r.Left < other.Right && r.Right > other.Left &&
		r.Top < other.Bottom && r.Bottom > other.Top
}

// Intersection returns the overlapping region of two rectangles.
// Returns an empty rectangle if they don't overlap.
func (r ScreenRect) Intersection(other ScreenRect) ScreenRect {
	if !r.Intersects(other) {
		return ScreenRect{}
	}
	return ScreenRect{
		Top:    max(r.Top, other.Top),
		Left:   max(r.Left, other.Left),
		Bottom: min(r.Bottom, other.Bottom),
		Right:  min(r.Right, other.Right),
	}
}

// Union returns the smallest rectangle containing both rectangles.
func (r ScreenRect) Union(other ScreenRect) ScreenRect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return ScreenRect{
		Top:    min(r.Top, other.Top),
		Left:   min(r.Left, other.Left),
		Bottom: max(r.Bottom, other.Bottom),
		Right:  max(r.Right, other.Right),
	}
}

// Offset returns the rectangle translated by (dx, dy).
func (r ScreenRect) Offset(dx, dy int) ScreenRect {
	return ScreenRect{
		Top:    r.Top + dy,
		Left:   r.Left + dx,
		Bottom: r.Bottom + dy,
		Right:  r.Right + dx,
	}
}

// Inset returns a rectangle shrunk by the given amount on all sides.
func (r ScreenRect) Inset(n int) ScreenRect {
	out := ScreenRect{
		Top:    r.Top + n,
		Left:   r.Left + n,
		Bottom: r.Bottom - n,
		Right:  r.Right - n,
	}
	if out.Bottom < out.Top {
		out.Bottom = out.Top
	}
	if out.Right < out.Left {
		out.Right = out.Left
	}
	return out
}

// Expand returns a rectangle grown by the given amount on all sides.
func (r ScreenRect) Expand(n int) ScreenRect {
	return r.Inset(-n)
}

// ClampInto shifts r so that it lies inside bounds, shrinking it only when
// it is larger than bounds.
func (r ScreenRect) ClampInto(bounds ScreenRect) ScreenRect {
	w, h := min(r.Width(), bounds.Width()), min(r.Height(), bounds.Height())
	left := max(bounds.Left, min(r.Left, bounds.Right-w))
	top := max(bounds.Top, min(r.Top, bounds.Bottom-h))
	return RectFromSize(top, left, h, w)
}

// Equals returns true if two rectangles are identical.
func (r ScreenRect) Equals(other ScreenRect) bool {
	return r == other
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

// IsZero reports whether either dimension is zero or negative.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Unbounded stands in for an infinite constraint.
const Unbounded = 1 << 30

// Constraints bound a measured size. Min values are never greater than the
// matching max values.
type Constraints struct {
	MinWidth  int
	MaxWidth  int
	MinHeight int
	MaxHeight int
}

// Tight returns constraints that admit only s.
func Tight(s Size) Constraints {
	return Constraints{MinWidth: s.Width, MaxWidth: s.Width, MinHeight: s.Height, MaxHeight: s.Height}
}

// Loose returns constraints from zero up to s.
func Loose(s Size) Constraints {
	return Constraints{MaxWidth: max(s.Width, 0), MaxHeight: max(s.Height, 0)}
}

// Normalize repairs negative or inverted bounds.
func (c Constraints) Normalize() Constraints {
	c.MinWidth = max(c.MinWidth, 0)
	c.MinHeight = max(c.MinHeight, 0)
	c.MaxWidth = max(c.MaxWidth, c.MinWidth)
	c.MaxHeight = max(c.MaxHeight, c.MinHeight)
	return c
}

// Constrain clamps s into the constraint range.
func (c Constraints) Constrain(s Size) Size {
	c = c.Normalize()
	return Size{
		Width:  clamp(s.Width, c.MinWidth, c.MaxWidth),
		Height: clamp(s.Height, c.MinHeight, c.MaxHeight),
	}
}

// WithMaxHeight returns a copy with MaxHeight replaced, lowering MinHeight if needed.
func (c Constraints) WithMaxHeight(h int) Constraints {
	c.MaxHeight = max(h, 0)
	c.MinHeight = min(c.MinHeight, c.MaxHeight)
	return c
}

// WithMaxWidth returns a copy with MaxWidth replaced, lowering MinWidth if needed.
func (c Constraints) WithMaxWidth(w int) Constraints {
	c.MaxWidth = max(w, 0)
	c.MinWidth = min(c.MinWidth, c.MaxWidth)
	return c
}

// Loosen drops the minimums.
func (c Constraints) Loosen() Constraints {
	c.MinWidth, c.MinHeight = 0, 0
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp bounds v to [lo, hi]. If hi < lo, lo wins.
func Clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return clamp(v, lo, hi)
}
