package dirty

import (
	"sync"

	"github.com/dshills/casement/internal/renderer/core"
)

// Tracker accumulates screen rectangles that must be repainted from the
// desktop background, typically areas exposed by a window moving, resizing,
// closing or minimizing.
type Tracker struct {
	mu sync.Mutex

	// regions contains the current dirty regions.
	regions []core.ScreenRect

	// fullRedraw indicates the entire screen needs redrawing.
	fullRedraw bool

	// maxRegions is the maximum number of regions before forcing full redraw.
	maxRegions int

	screen core.ScreenRect

	// coalesceThreshold is the fraction of the screen that triggers full redraw.
	coalesceThreshold float64
}

// NewTracker creates a new tracker. Negative dimensions are treated as zero.
func NewTracker(screenWidth, screenHeight int) *Tracker {
	return &Tracker{
		regions:           make([]core.ScreenRect, 0, 16),
		maxRegions:        32,
		screen:            core.RectFromSize(0, 0, screenHeight, screenWidth),
		coalesceThreshold: 0.5,
		fullRedraw:        true,
	}
}

// SetScreenSize updates the screen dimensions and forces a full redraw.
func (t *Tracker) SetScreenSize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen = core.RectFromSize(0, 0, height, width)
	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// Screen returns the tracked screen rectangle.
func (t *Tracker) Screen() core.ScreenRect {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen
}

// Mark records r as needing a repaint. The rectangle is clipped to the screen.
func (t *Tracker) Mark(r core.ScreenRect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fullRedraw {
		return
	}
	r = r.Intersection(t.screen)
	if r.IsEmpty() {
		return
	}
	t.regions = Coalesce(append(t.regions, r))
	if len(t.regions) > t.maxRegions ||
		float64(Area(t.regions)) >= t.coalesceThreshold*float64(t.screen.Area()) {
		t.fullRedraw = true
		t.regions = t.regions[:0]
	}
}

// MarkExposed records the part of old not covered by cur.
func (t *Tracker) MarkExposed(old, cur core.ScreenRect) {
	for _, r := range Subtract(old, cur) {
		t.Mark(r)
	}
}

// MarkFull requests a full-screen repaint.
func (t *Tracker) MarkFull() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fullRedraw = true
	t.regions = t.regions[:0]
}

// IsDirty reports whether anything is pending.
func (t *Tracker) IsDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fullRedraw || len(t.regions) > 0
}

// NeedsFullRedraw reports whether the entire screen is pending.
func (t *Tracker) NeedsFullRedraw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fullRedraw
}

// Flush returns the pending regions and resets the tracker. A full redraw
// is returned as a single screen-sized rectangle.
func (t *Tracker) Flush() []core.ScreenRect {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []core.ScreenRect
	if t.fullRedraw {
		if !t.screen.IsEmpty() {
			out = []core.ScreenRect{t.screen}
		}
	} else {
		out = append(out, t.regions...)
	}
	t.fullRedraw = false
	t.regions = t.regions[:0]
	return out
}
