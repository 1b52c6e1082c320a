package app

import (
	"errors"
	"slices"
	"time"

	"github.com/dshills/casement/internal/compositor"
	"github.com/dshills/casement/internal/config"
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/window"
)

// inputQueueSize bounds the events buffered between the poller and the
// loop.
const inputQueueSize = 100

// loop is the render loop. Each iteration drains queued input without
// blocking, applies reloaded settings, advances timed effects, renders when
// something is dirty or metrics are due, then waits for the next frame.
func (app *Application) loop(events <-chan backend.Event) error {
	for !app.quit.Load() {
		start := app.now()
		if err := app.drainInput(events); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
		app.Frame()

		busy := app.comp.NeedsRender() || app.comp.HasPendingTicks()
		if kind, _ := app.comp.Gesture(); kind != compositor.GestureNone {
			busy = true
		}
		wait := app.waitDuration(busy, app.now().Sub(start))
		app.metrics.RecordIteration(!busy)

		if ev, ok := app.wait(events, wait); ok {
			if err := app.Dispatch(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}
		}
	}
	return nil
}

// waitDuration is the pause after an iteration: what is left of the frame
// budget while there is work, the idle period otherwise, never less than
// the configured minimum sleep.
func (app *Application) waitDuration(busy bool, spent time.Duration) time.Duration {
	r := app.settings.Render
	d := r.IdleTime()
	if busy {
		d = r.FrameTime() - spent
	}
	return max(d, r.BusySleep)
}

// wait sleeps for d, returning early with the event that interrupted it.
func (app *Application) wait(events <-chan backend.Event, d time.Duration) (backend.Event, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case ev, ok := <-events:
		return ev, ok
	case <-timer.C:
		return backend.Event{}, false
	}
}

// drainInput dispatches every event already queued. It never blocks.
func (app *Application) drainInput(events <-chan backend.Event) error {
	for i := 0; i < cap(events); i++ {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.Dispatch(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// Frame runs the non-input half of one loop iteration: reloaded settings,
// timed effects and, when needed, a render pass.
func (app *Application) Frame() {
	app.applyConfigUpdates()

	now := app.now()
	app.comp.Tick(now)

	metricsDue := false
	if iv := app.settings.Render.MetricsInterval; iv > 0 && now.Sub(app.lastMetrics) >= iv {
		app.lastMetrics = now
		metricsDue = true
		app.logMetrics()
	}
	if app.comp.NeedsRender() || metricsDue || app.needSync {
		app.render()
	}
}

// render composes the screen, writes the changed cells to the backend and
// commits the frame.
func (app *Application) render() {
	timer := startTimer(app.now)

	rendered := app.comp.Compose()
	screen := app.comp.Screen()
	changes := screen.GetChanges()
	for _, ch := range changes {
		app.backend.SetCell(ch.X, ch.Y, ch.Cell)
	}
	screen.Commit()

	if x, y, ok := app.comp.Cursor(); ok {
		if style := app.comp.CursorStyle(); style != app.cursorStyle {
			app.backend.SetCursorStyle(style)
			app.cursorStyle = style
		}
		app.backend.ShowCursor(x, y)
	} else {
		app.backend.HideCursor()
	}

	if app.needSync {
		app.backend.Sync()
		app.needSync = false
	} else {
		app.backend.Show()
	}
	app.metrics.RecordFrame(timer.Elapsed(), len(rendered), len(changes))
}

func (app *Application) logMetrics() {
	app.metrics.SampleMemory()
	s := app.metrics.Snapshot()
	app.logger.WithComponent("metrics").Debug(
		"frames=%d fps=%.1f avg=%v cells/frame=%.1f idle=%.0f%% input=%d dropped=%d heap=%.1fMB",
		s.FrameCount, s.FPS(), s.AvgFrameTime(), s.CellsPerFrame(), s.IdleRate(),
		s.InputCount, s.InputDropped, s.HeapMB())
}

// applyConfigUpdates takes the newest settings from the watcher, if any.
func (app *Application) applyConfigUpdates() {
	if app.watcher == nil {
		return
	}
	select {
	case s := <-app.watcher.Updates():
		app.ApplySettings(s)
	case err := <-app.watcher.Errors():
		app.logger.WithComponent("config").Warn("reload rejected: %v", err)
	default:
	}
}

// ApplySettings puts new settings into effect. The desktop size override
// is only read at startup.
func (app *Application) ApplySettings(s config.Settings) {
	app.settings = s
	app.logger.SetLevel(ParseLogLevel(s.Log.Level))
	desktop, chrome, flash := appearance(s)
	app.comp.SetAppearance(desktop, chrome, flash)
	app.logger.Info("settings reloaded")
}

// Dispatch routes one backend event. It returns ErrQuit when the user asks
// to leave.
func (app *Application) Dispatch(ev backend.Event) error {
	timer := startTimer(app.now)
	defer func() { app.metrics.RecordInput(timer.Elapsed()) }()

	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev)
	case backend.EventMouse:
		app.comp.HandleMouse(ev)
	case backend.EventResize:
		if !app.fixed {
			app.resize(ev.Width, ev.Height)
		}
	case backend.EventFocus:
		if ev.Focused {
			app.comp.InvalidateAll()
			app.needSync = true
		}
	}
	return nil
}

func (app *Application) resize(width, height int) {
	if d := app.comp.Desktop(); d.Width() == width && d.Height() == height {
		return
	}
	app.comp.SetDesktopSize(width, height)
	app.needSync = true
	app.logger.Debug("desktop resized to %dx%d", width, height)
}

// handleKey applies the global bindings, then offers the key to the
// focused control of the active window, then to the window's scroller.
func (app *Application) handleKey(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyCtrlQ:
		return ErrQuit
	case backend.KeyF6:
		app.comp.CycleActive()
		return nil
	}

	w := app.comp.Active()
	if w == nil {
		return nil
	}
	r := app.comp.Renderer(w)

	switch ev.Key {
	case backend.KeyTab, backend.KeyBacktab:
		reverse := ev.Key == backend.KeyBacktab || ev.Mod.Has(backend.ModShift)
		w.FocusNext(r.FocusOrder(), reverse)
		app.revealFocus(w)
		return nil
	case backend.KeyCtrlW:
		app.comp.CloseWindow(w)
		return nil
	}

	if focused := w.Focused(); focused != nil {
		if h, ok := focused.(window.KeyHandler); ok {
			bounds, _ := r.BoundsOf(focused)
			if h.HandleKey(&window.Context{Window: w, Bounds: bounds}, ev) {
				app.revealFocus(w)
				return nil
			}
		}
	}

	scroller := r.Scroller()
	switch ev.Key {
	case backend.KeyPageUp:
		scroller.PageUp()
	case backend.KeyPageDown:
		scroller.PageDown()
	case backend.KeyHome:
		scroller.Home()
	case backend.KeyEnd:
		scroller.End()
	case backend.KeyEscape:
		if w.IsModal() {
			app.comp.CloseWindow(w)
		}
	}
	return nil
}

// revealFocus scrolls the window so the focused control's first row is in
// view. Sticky and portal content never scrolls.
func (app *Application) revealFocus(w *window.Window) {
	r := app.comp.Renderer(w)
	root := r.Root()
	n := root.Find(w.Focused())
	if n == nil || n == root {
		return
	}
	top := n.AbsoluteBounds().Top
	for n.Parent() != nil && n.Parent() != root {
		n = n.Parent()
	}
	if n.Props().Sticky != layout.StickyNone || slices.Contains(root.Portals(), n) {
		return
	}
	s := r.Scroller()
	s.EnsureVisible(top - s.Viewport().Top + s.Offset())
}

// startInputPolling starts a goroutine that polls for input events.
// Events are sent to the returned channel.
//
// PollEvent is blocking, so the goroutine only notices done after the
// next event. Run shuts the backend down on exit, which unblocks it.
func (app *Application) startInputPolling(done <-chan struct{}) <-chan backend.Event {
	events := make(chan backend.Event, inputQueueSize)

	go func() {
		for {
			ev := app.backend.PollEvent()

			select {
			case <-done:
				return
			default:
			}
			if ev.Type == backend.EventNone {
				continue
			}

			select {
			case events <- ev:
			case <-done:
				return
			default:
				// The loop is far behind; drop rather than block the
				// terminal reader.
				app.metrics.RecordInputDropped()
			}
		}
	}()

	return events
}
