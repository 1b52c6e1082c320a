// Package window defines the Window model managed by the compositor: its
// geometry, stacking attributes, capabilities, controls and chrome.
package window

import (
	"github.com/google/uuid"

	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/renderer/overlay"
)

// Minimum window dimensions, including chrome.
const (
	MinWidth  = 10
	MinHeight = 3
)

// Mode distinguishes ordinary windows from modal ones.
type Mode uint8

// Modes.
const (
	ModeNormal Mode = iota
	ModeModal
)

// State is the display state of a window.
type State uint8

// States.
const (
	StateNormal State = iota
	StateMinimized
	StateMaximized
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	default:
		return "unknown"
	}
}

// Caps is a set of user-facing capabilities.
type Caps uint8

// Capabilities.
const (
	CanClose Caps = 1 << iota
	CanResize
	CanMove
	CanMinimize
	CanMaximize

	CapsAll = CanClose | CanResize | CanMove | CanMinimize | CanMaximize
)

// Has returns true if the set contains c.
func (c Caps) Has(x Caps) bool {
	return c&x != 0
}

// Config holds the construction parameters of a window.
type Config struct {
	Title       string
	Rect        core.ScreenRect
	Mode        Mode
	Parent      *Window
	AlwaysOnTop bool
	// Caps defaults to CapsAll when zero. Use NoCaps for none.
	Caps Caps
	Fg   core.Color
	Bg   core.Color
}

// NoCaps requests a window without any capability.
const NoCaps Caps = 1 << 7

// Window is a rectangular, stackable container of controls.
//
// Geometry, z-order and activation are mutated by the compositor. Content
// mutators mark the window dirty so the next frame repaints it.
type Window struct {
	id          string
	title       string
	rect        core.ScreenRect
	restore     core.ScreenRect
	z           int
	mode        Mode
	state       State
	parent      *Window
	dirty       bool
	active      bool
	alwaysOnTop bool
	caps        Caps

	controls []any
	focused  any
	version  uint64

	fg, bg  core.Color
	flashBg core.Color
	flashOn bool

	portals *overlay.Manager
}

// New creates a window. Geometry smaller than the minimum size is grown.
func New(cfg Config) *Window {
	caps := cfg.Caps
	switch caps {
	case 0:
		caps = CapsAll
	case NoCaps:
		caps = 0
	}
	fg, bg := cfg.Fg, cfg.Bg
	if fg == (core.Color{}) {
		fg = core.ColorDefault
	}
	if bg == (core.Color{}) {
		bg = core.ColorDefault
	}
	r := cfg.Rect
	r = core.RectFromSize(r.Top, r.Left, max(r.Height(), MinHeight), max(r.Width(), MinWidth))
	return &Window{
		id:          uuid.NewString(),
		title:       cfg.Title,
		rect:        r,
		restore:     r,
		mode:        cfg.Mode,
		parent:      cfg.Parent,
		alwaysOnTop: cfg.AlwaysOnTop,
		caps:        caps,
		fg:          fg,
		bg:          bg,
		dirty:       true,
		portals:     overlay.NewManager(),
	}
}

// ID returns the unique window identifier.
func (w *Window) ID() string { return w.id }

// Title returns the window title.
func (w *Window) Title() string { return w.title }

// SetTitle changes the title.
func (w *Window) SetTitle(title string) {
	if w.title == title {
		return
	}
	w.title = title
	w.Invalidate()
}

// Rect returns the outer rectangle in screen coordinates.
func (w *Window) Rect() core.ScreenRect { return w.rect }

// SetRect replaces the outer rectangle without validation. The compositor
// clamps before calling it.
func (w *Window) SetRect(r core.ScreenRect) {
	if w.rect == r {
		return
	}
	w.rect = r
	w.Invalidate()
}

// RestoreRect returns the rectangle used when leaving the maximized state.
func (w *Window) RestoreRect() core.ScreenRect { return w.restore }

// SetRestoreRect records the rectangle to return to on restore.
func (w *Window) SetRestoreRect(r core.ScreenRect) { w.restore = r }

// ContentRect returns the area inside the chrome, in screen coordinates.
func (w *Window) ContentRect() core.ScreenRect { return w.rect.Inset(1) }

// ContentSize returns the dimensions of the content area.
func (w *Window) ContentSize() core.Size { return w.ContentRect().Size() }

// Z returns the stacking index.
func (w *Window) Z() int { return w.z }

// SetZ sets the stacking index.
func (w *Window) SetZ(z int) { w.z = z }

// Mode returns the window mode.
func (w *Window) Mode() Mode { return w.mode }

// IsModal reports whether the window is modal.
func (w *Window) IsModal() bool { return w.mode == ModeModal }

// State returns the display state.
func (w *Window) State() State { return w.state }

// SetState sets the display state.
func (w *Window) SetState(s State) {
	if w.state == s {
		return
	}
	w.state = s
	w.Invalidate()
}

// IsVisible reports whether the window takes part in rendering and
// hit-testing.
func (w *Window) IsVisible() bool { return w.state != StateMinimized }

// Parent returns the owning window, or nil.
func (w *Window) Parent() *Window { return w.parent }

// IsDescendantOf reports whether anc is reachable through parent links.
func (w *Window) IsDescendantOf(anc *Window) bool {
	for p := w.parent; p != nil; p = p.parent {
		if p == anc {
			return true
		}
	}
	return false
}

// IsActive reports whether the window is the active one.
func (w *Window) IsActive() bool { return w.active }

// SetActive updates the active flag.
func (w *Window) SetActive(active bool) {
	if w.active == active {
		return
	}
	w.active = active
	w.Invalidate()
}

// AlwaysOnTop reports whether the window stacks above ordinary windows.
func (w *Window) AlwaysOnTop() bool { return w.alwaysOnTop }

// SetAlwaysOnTop changes the stacking layer.
func (w *Window) SetAlwaysOnTop(v bool) {
	if w.alwaysOnTop == v {
		return
	}
	w.alwaysOnTop = v
	w.Invalidate()
}

// Caps returns the capability set.
func (w *Window) Caps() Caps { return w.caps }

// IsDirty reports whether the window must be repainted.
func (w *Window) IsDirty() bool { return w.dirty }

// Invalidate marks the window for repaint.
func (w *Window) Invalidate() { w.dirty = true }

// ClearDirty is called after the window has been rendered.
func (w *Window) ClearDirty() { w.dirty = false }

// Invalidate implements layout.Invalidator.
func (w *windowInvalidator) Invalidate(n *layout.Node, kind layout.Invalidation) {
	(*Window)(w).dirty = true
}

type windowInvalidator Window

// Invalidator returns the layout invalidation target for this window.
func (w *Window) Invalidator() layout.Invalidator {
	return (*windowInvalidator)(w)
}

// Foreground returns the default text color.
func (w *Window) Foreground() core.Color { return w.fg }

// Background returns the current background color, including any flash.
func (w *Window) Background() core.Color {
	if w.flashOn {
		return w.flashBg
	}
	return w.bg
}

// BaseBackground returns the background color ignoring any flash.
func (w *Window) BaseBackground() core.Color { return w.bg }

// SetFlash swaps the background for c while on is true.
func (w *Window) SetFlash(on bool, c core.Color) {
	if w.flashOn == on && w.flashBg == c {
		return
	}
	w.flashOn, w.flashBg = on, c
	w.Invalidate()
}

// Flashing reports whether the flash background is showing.
func (w *Window) Flashing() bool { return w.flashOn }

// SetColors changes the default colors.
func (w *Window) SetColors(fg, bg core.Color) {
	w.fg, w.bg = fg, bg
	w.Invalidate()
}

// Controls returns the top-level controls.
func (w *Window) Controls() []any { return w.controls }

// StructureVersion changes whenever the control list changes.
func (w *Window) StructureVersion() uint64 { return w.version }

// AddControl appends a top-level control.
func (w *Window) AddControl(c any) {
	if c == nil {
		return
	}
	w.controls = append(w.controls, c)
	w.version++
	w.Invalidate()
}

// RemoveControl removes a top-level control.
func (w *Window) RemoveControl(c any) bool {
	for i, x := range w.controls {
		if x == c {
			w.controls = append(w.controls[:i], w.controls[i+1:]...)
			if w.focused == c {
				w.ClearFocus()
			}
			w.version++
			w.Invalidate()
			return true
		}
	}
	return false
}

// Portals returns the window's portal registry.
func (w *Window) Portals() *overlay.Manager { return w.portals }

// OpenPortal registers a portal and marks the window dirty.
func (w *Window) OpenPortal(p *overlay.Portal) string {
	id := w.portals.Open(p)
	w.Invalidate()
	return id
}

// ClosePortal closes a portal by ID.
func (w *Window) ClosePortal(id string) {
	if w.portals.Close(id) {
		w.Invalidate()
	}
}
