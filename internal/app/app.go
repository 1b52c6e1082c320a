// Package app runs the casement desktop: it owns the backend and the
// compositor and drives them from a single-threaded render loop that drains
// input, advances timed effects, renders dirty windows and paces itself to
// the configured frame rate.
package app

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/casement/internal/compositor"
	"github.com/dshills/casement/internal/config"
	"github.com/dshills/casement/internal/event"
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/window"
)

// Application ties a backend, a compositor and configuration together.
//
// Everything except Shutdown, IsRunning and Metrics must be called from the
// goroutine that calls Run, or before Run starts.
type Application struct {
	backend  backend.Backend
	comp     *compositor.Compositor
	config   *config.Config
	watcher  *config.Watcher
	settings config.Settings
	logger   *Logger
	metrics  *Metrics

	now   func() time.Time
	fixed bool // desktop size was set explicitly

	subs        []*event.Subscription
	needSync    bool
	cursorStyle backend.CursorStyle
	lastMetrics time.Time

	mu      sync.Mutex
	running atomic.Bool
	quit    atomic.Bool
	done    chan struct{}
}

// Options configures the application.
type Options struct {
	// Backend is the terminal to draw to. Required.
	Backend backend.Backend

	// Config supplies settings. Nil uses the built-in defaults.
	Config *config.Config

	// Watcher delivers reloaded settings to the loop. Optional.
	Watcher *config.Watcher

	// Logger receives diagnostics. Nil discards them.
	Logger *Logger

	// Metrics collects loop statistics. Nil allocates a private set.
	Metrics *Metrics

	// Width and Height give the desktop size before the backend starts.
	// Zero falls back to the desktop section of the configuration, then
	// to the backend's reported size.
	Width, Height int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// New creates an Application. The backend is not started until Run.
func New(opts Options) (*Application, error) {
	if opts.Backend == nil {
		return nil, &InitError{Component: "backend", Err: ErrNoBackend}
	}
	app := &Application{
		backend: opts.Backend,
		config:  opts.Config,
		watcher: opts.Watcher,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
	}
	if app.config == nil {
		app.config = config.New(config.WithoutEnv())
	}
	if app.logger == nil {
		app.logger = NullLogger
	}
	if app.metrics == nil {
		app.metrics = NewMetrics()
	}
	if app.now == nil {
		app.now = time.Now
	}
	app.settings = app.config.Settings()

	width, height := opts.Width, opts.Height
	if d := app.settings.Desktop; width <= 0 || height <= 0 {
		width, height = d.Width, d.Height
	}
	app.fixed = width > 0 && height > 0
	if !app.fixed {
		width, height = app.backend.Size()
	}
	if width <= 0 || height <= 0 {
		width, height = 80, 24
	}

	desktop, chrome, flash := appearance(app.settings)
	app.comp = compositor.New(width, height, compositor.Options{
		Desktop: desktop,
		Chrome:  chrome,
		Flash:   flash,
		Logger:  app.logger.WithComponent("compositor"),
		Now:     app.now,
	})

	if err := app.subscribe(); err != nil {
		return nil, &InitError{Component: "event bus", Err: err}
	}
	app.logger.Info("desktop %dx%d", width, height)
	return app, nil
}

// appearance maps configuration sections onto compositor styles.
func appearance(s config.Settings) (compositor.DesktopStyle, window.ChromeStyle, compositor.FlashOptions) {
	target := compositor.FlashBlocked
	if s.Flash.Target == "modal" {
		target = compositor.FlashModal
	}
	return compositor.DesktopStyle{
			Char: s.Desktop.Char,
			Fg:   s.Desktop.Fg,
			Bg:   s.Desktop.Bg,
		}, window.ChromeStyle{
			Border:       s.Window.Border,
			ActiveBorder: s.Window.ActiveBorder,
			Title:        s.Window.Title,
			ActiveTitle:  s.Window.ActiveTitle,
			Button:       s.Window.Button,
		}, compositor.FlashOptions{
			Duration: s.Flash.Duration,
			Toggles:  s.Flash.Toggles,
			Color:    s.Flash.Color,
			Target:   target,
		}
}

// NewWindow creates a window using the configured default colors for any
// color cfg leaves unset. The window still has to be added to the
// compositor.
func (app *Application) NewWindow(cfg window.Config) *window.Window {
	if cfg.Fg == (core.Color{}) {
		cfg.Fg = app.settings.Window.Fg
	}
	if cfg.Bg == (core.Color{}) {
		cfg.Bg = app.settings.Window.Bg
	}
	return window.New(cfg)
}

// Run starts the backend and runs the render loop until Shutdown is called
// or the user quits. An Application runs once. The backend is always shut down before Run returns.
// A panic inside the loop is recovered, logged and returned as a
// *FaultError.
func (app *Application) Run() (err error) {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	app.mu.Lock()
	app.done = make(chan struct{})
	done := app.done
	app.mu.Unlock()
	defer close(done)

	defer func() {
		if r := recover(); r != nil {
			fault := NewFaultError(r, string(debug.Stack()))
			app.logger.Error("render loop fault: %v\n%s", r, fault.Stack)
			err = fault
		}
	}()

	if !app.fixed {
		if w, h := app.backend.Size(); w > 0 && h > 0 {
			app.resize(w, h)
		}
	}
	app.comp.InvalidateAll()
	app.lastMetrics = app.now()

	app.logger.Info("render loop started")
	err = app.loop(app.startInputPolling(done))
	app.logger.Info("render loop stopped")
	return err
}

// Shutdown asks the loop to stop. It is safe to call from any goroutine
// and more than once.
func (app *Application) Shutdown() {
	if app.quit.Swap(true) {
		return
	}
	if app.running.Load() {
		// Wake the input poller and the loop's wait.
		app.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
	}
}

// Close releases resources owned by the application: event subscriptions
// and the configuration watcher.
func (app *Application) Close() error {
	app.unsubscribe()
	if app.watcher != nil {
		return app.watcher.Close()
	}
	return nil
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Compositor returns the desktop's window manager.
func (app *Application) Compositor() *compositor.Compositor {
	return app.comp
}

// Backend returns the terminal backend.
func (app *Application) Backend() backend.Backend {
	return app.backend
}

// Config returns the configuration system.
func (app *Application) Config() *config.Config {
	return app.config
}

// Settings returns the settings currently in effect.
func (app *Application) Settings() config.Settings {
	return app.settings
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
