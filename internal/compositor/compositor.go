// Package compositor manages the windows of a terminal desktop: stacking,
// activation with modal blocking, hit-testing, occlusion, pointer driven
// move and resize, and composition of window buffers onto the screen.
//
// A Compositor is not safe for concurrent use. It is driven from the render
// loop, which is also where time-based effects such as the modal flash are
// advanced through Tick.
package compositor

import (
	"sort"
	"time"

	"github.com/dshills/casement/internal/event"
	"github.com/dshills/casement/internal/renderer/cellbuf"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/dirty"
	"github.com/dshills/casement/internal/renderer/pipeline"
	"github.com/dshills/casement/internal/window"
)

// Logger receives diagnostic messages.
type Logger interface {
	Debug(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// DesktopStyle describes the background shown where no window is.
type DesktopStyle struct {
	Char rune
	Fg   core.Color
	Bg   core.Color
}

// FlashTarget selects which window flashes when activation is blocked by a
// modal.
type FlashTarget int

const (
	// FlashBlocked flashes the window the user tried to activate.
	FlashBlocked FlashTarget = iota
	// FlashModal flashes the modal that blocked it.
	FlashModal
)

// FlashOptions configures the modal attention cue.
type FlashOptions struct {
	Duration time.Duration
	// Toggles is the number of on/off phases.
	Toggles int
	Color   core.Color
	Target  FlashTarget
}

// Options configures a Compositor.
type Options struct {
	Desktop DesktopStyle
	Chrome  window.ChromeStyle
	Flash   FlashOptions
	Bus     *event.Bus
	Logger  Logger
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the built-in configuration.
func DefaultOptions() Options {
	return Options{
		Desktop: DesktopStyle{Char: '░', Fg: core.ColorGray, Bg: core.ColorBlack},
		Chrome:  window.DefaultChromeStyle(),
		Flash: FlashOptions{
			Duration: 600 * time.Millisecond,
			Toggles:  6,
			Color:    core.ColorRed,
		},
	}
}

// Compositor owns the window collection of one desktop.
type Compositor struct {
	opts Options
	bus  *event.Bus
	log  Logger
	now  func() time.Time

	desktop core.ScreenRect
	screen  *cellbuf.Buffer
	tracker *dirty.Tracker

	windows   []*window.Window
	renderers map[*window.Window]*pipeline.Renderer
	active    *window.Window
	// modals lists modal windows in the order they were shown.
	modals []*window.Window
	// minimizedFrom remembers the state a window left when minimized.
	minimizedFrom map[*window.Window]window.State

	flashes map[*window.Window]*flash
	gesture gesture
}

// New creates a compositor for a desktop of the given size.
func New(width, height int, opts Options) *Compositor {
	c := &Compositor{
		opts:          withDefaults(opts),
		bus:           opts.Bus,
		log:           opts.Logger,
		now:           opts.Now,
		desktop:       core.RectFromSize(0, 0, height, width),
		screen:        cellbuf.New(width, height),
		tracker:       dirty.NewTracker(width, height),
		renderers:     make(map[*window.Window]*pipeline.Renderer),
		minimizedFrom: make(map[*window.Window]window.State),
		flashes:       make(map[*window.Window]*flash),
	}
	if c.bus == nil {
		c.bus = event.NewBus()
	}
	if c.log == nil {
		c.log = nopLogger{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Desktop.Char == 0 {
		opts.Desktop = def.Desktop
	}
	if opts.Chrome == (window.ChromeStyle{}) {
		opts.Chrome = def.Chrome
	}
	if opts.Flash.Toggles <= 0 {
		opts.Flash.Toggles = def.Flash.Toggles
	}
	if opts.Flash.Duration <= 0 {
		opts.Flash.Duration = def.Flash.Duration
	}
	if opts.Flash.Color == (core.Color{}) {
		opts.Flash.Color = def.Flash.Color
	}
	return opts
}

// Options returns the effective configuration.
func (c *Compositor) Options() Options { return c.opts }

// SetAppearance replaces the desktop, chrome and flash settings and
// schedules a full repaint. Flashes already running keep their timing.
func (c *Compositor) SetAppearance(desktop DesktopStyle, chrome window.ChromeStyle, flash FlashOptions) {
	opts := c.opts
	opts.Desktop, opts.Chrome, opts.Flash = desktop, chrome, flash
	c.opts = withDefaults(opts)
	c.InvalidateAll()
}

// Bus returns the bus window events are published on.
func (c *Compositor) Bus() *event.Bus { return c.bus }

// Desktop returns the desktop rectangle.
func (c *Compositor) Desktop() core.ScreenRect { return c.desktop }

// Screen returns the composed screen buffer.
func (c *Compositor) Screen() *cellbuf.Buffer { return c.screen }

// Tracker returns the exposed-region tracker.
func (c *Compositor) Tracker() *dirty.Tracker { return c.tracker }

// Windows returns the registered windows in ascending z-order.
func (c *Compositor) Windows() []*window.Window {
	out := make([]*window.Window, len(c.windows))
	copy(out, c.windows)
	return out
}

// Active returns the active window, or nil.
func (c *Compositor) Active() *window.Window { return c.active }

// Renderer returns the render pipeline of a registered window.
func (c *Compositor) Renderer(w *window.Window) *pipeline.Renderer {
	return c.renderers[w]
}

// Contains reports whether w is registered.
func (c *Compositor) Contains(w *window.Window) bool {
	_, ok := c.renderers[w]
	return ok
}

// AddOption configures AddWindow.
type AddOption func(*addConfig)

type addConfig struct {
	activate bool
}

// WithoutActivation registers the window without activating it.
func WithoutActivation() AddOption {
	return func(a *addConfig) { a.activate = false }
}

// AddWindow registers w on top of the stack and activates it. A modal
// window joins the modal stack of its parent. Registering a window twice
// is a no-op. A nil window violates the contract and panics.
func (c *Compositor) AddWindow(w *window.Window, opts ...AddOption) {
	if w == nil {
		panic(&ArgumentError{Op: "AddWindow", Err: ErrNilWindow})
	}
	if c.Contains(w) {
		return
	}
	cfg := addConfig{activate: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	w.SetRect(c.clampRect(w.Rect()))
	w.SetZ(c.topZ() + 1)
	c.windows = append(c.windows, w)
	c.renderers[w] = pipeline.New(w)
	if w.IsModal() {
		c.modals = append(c.modals, w)
	}
	c.restack()
	w.Invalidate()
	c.publish(event.TopicWindowAdded, w, w.Rect())
	c.log.Debug("window %s added at %v z=%d", w.ID(), w.Rect(), w.Z())

	if cfg.activate {
		c.Activate(w)
	}
}

func (c *Compositor) topZ() int {
	z := -1
	for _, w := range c.windows {
		z = max(z, w.Z())
	}
	return z
}

// restack orders windows by layer then z and renumbers z densely, so
// always-on-top windows always stack above ordinary ones.
func (c *Compositor) restack() {
	sort.SliceStable(c.windows, func(i, j int) bool {
		a, b := c.windows[i], c.windows[j]
		if a.AlwaysOnTop() != b.AlwaysOnTop() {
			return !a.AlwaysOnTop()
		}
		return a.Z() < b.Z()
	})
	for i, w := range c.windows {
		w.SetZ(i)
	}
}

// BringToFront raises w to the top of its layer.
func (c *Compositor) BringToFront(w *window.Window) {
	if !c.Contains(w) {
		return
	}
	if w.Z() == c.topZ() {
		return
	}
	w.SetZ(c.topZ() + 1)
	c.restack()
	w.Invalidate()
}

// SetAlwaysOnTop moves w between the ordinary and the always-on-top layer.
func (c *Compositor) SetAlwaysOnTop(w *window.Window, on bool) {
	if !c.Contains(w) || w.AlwaysOnTop() == on {
		return
	}
	w.SetAlwaysOnTop(on)
	if !on {
		w.SetZ(c.topZ() + 1)
	}
	c.restack()
	c.expose(w, w.Rect(), w.Rect())
}

func (c *Compositor) publish(t event.Topic, w *window.Window, prev core.ScreenRect) {
	c.publishChange(t, event.WindowChange{
		WindowID: w.ID(),
		Title:    w.Title(),
		Rect:     w.Rect(),
		Previous: prev,
	})
}

func (c *Compositor) publishChange(t event.Topic, ch event.WindowChange) {
	if err := c.bus.Publish(event.NewEvent(t, ch, "compositor")); err != nil {
		c.log.Debug("publish %s: %v", t, err)
	}
}
