// Package overlay positions floating content (dropdowns, menus, tooltips)
// relative to an anchor and tracks the portals open in a window.
package overlay

import (
	"github.com/dshills/casement/internal/renderer/core"
)

// Side is the side of the anchor a portal was placed on.
type Side uint8

// Sides.
const (
	SideBelow Side = iota
	SideAbove
	SideRight
	SideLeft
)

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case SideBelow:
		return "below"
	case SideAbove:
		return "above"
	case SideRight:
		return "right"
	case SideLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Placement is a placement request: a single side, or a preferred side
// with a fallback.
type Placement uint8

// Placements.
const (
	PlaceBelow Placement = iota
	PlaceAbove
	PlaceRight
	PlaceLeft
	PlaceBelowOrAbove
	PlaceAboveOrBelow
	PlaceRightOrLeft
	PlaceLeftOrRight
)

// sides returns the preferred side and, for flip placements, the alternate.
func (p Placement) sides() (Side, Side, bool) {
	switch p {
	case PlaceAbove:
		return SideAbove, SideAbove, false
	case PlaceRight:
		return SideRight, SideRight, false
	case PlaceLeft:
		return SideLeft, SideLeft, false
	case PlaceBelowOrAbove:
		return SideBelow, SideAbove, true
	case PlaceAboveOrBelow:
		return SideAbove, SideBelow, true
	case PlaceRightOrLeft:
		return SideRight, SideLeft, true
	case PlaceLeftOrRight:
		return SideLeft, SideRight, true
	default:
		return SideBelow, SideBelow, false
	}
}

// Priority orders portals. Higher priority portals paint on top.
type Priority uint8

// Priorities.
const (
	PriorityLow      Priority = 50
	PriorityNormal   Priority = 100
	PriorityHigh     Priority = 150
	PriorityCritical Priority = 200
)

// Result is a resolved placement.
type Result struct {
	Rect    core.ScreenRect
	Side    Side
	Clamped bool
}
