package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/casement/internal/config"
	"github.com/dshills/casement/internal/controls"
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/core"
	"github.com/dshills/casement/internal/renderer/layout"
	"github.com/dshills/casement/internal/window"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestApp(t *testing.T, width, height int) (*Application, *backend.NullBackend, *clock) {
	t.Helper()
	b := backend.NewNullBackend(width, height)
	clk := &clock{t: time.Unix(1700000000, 0)}
	app, err := New(Options{Backend: b, Now: clk.now})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app, b, clk
}

func addWindow(app *Application, title string, top, left, height, width int, ctrls ...any) *window.Window {
	w := app.NewWindow(window.Config{Title: title, Rect: core.RectFromSize(top, left, height, width)})
	for _, c := range ctrls {
		w.AddControl(c)
	}
	app.Compositor().AddWindow(w)
	return w
}

func key(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func TestNewRequiresBackend(t *testing.T) {
	_, err := New(Options{})
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("New() error = %v, want ErrNoBackend", err)
	}
	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "backend" {
		t.Errorf("New() error = %#v, want *InitError for backend", err)
	}
}

func TestNewDesktopSize(t *testing.T) {
	tests := []struct {
		name         string
		opts         Options
		wantW, wantH int
	}{
		{"from backend", Options{}, 40, 12},
		{"explicit", Options{Width: 50, Height: 20}, 50, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Backend = backend.NewNullBackend(40, 12)
			app, err := New(tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			d := app.Compositor().Desktop()
			if d.Width() != tt.wantW || d.Height() != tt.wantH {
				t.Errorf("desktop = %dx%d, want %dx%d", d.Width(), d.Height(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFrameWritesChangedCells(t *testing.T) {
	app, b, _ := newTestApp(t, 30, 8)
	addWindow(app, "Notes", 1, 1, 5, 20, controls.NewLabel("hello"))

	app.Frame()
	if got := b.Text(0); strings.Trim(got, "░") != "" {
		t.Errorf("desktop row = %q", got)
	}
	if got := b.Text(1); !strings.Contains(got, " Notes ") {
		t.Errorf("title row = %q", got)
	}
	if got := b.Text(2); !strings.Contains(got, "hello") {
		t.Errorf("content row = %q", got)
	}

	shows, writes := b.Stats()
	if shows != 1 || writes == 0 {
		t.Errorf("first frame: shows=%d writes=%d", shows, writes)
	}

	app.Frame()
	if s2, w2 := b.Stats(); s2 != shows || w2 != writes {
		t.Errorf("idle frame rendered: shows=%d writes=%d", s2, w2)
	}

	snap := app.Metrics().Snapshot()
	if snap.FrameCount != 1 || snap.CellsWritten != uint64(writes) {
		t.Errorf("metrics = %+v", snap)
	}
}

func TestDispatchQuit(t *testing.T) {
	app, _, _ := newTestApp(t, 30, 8)
	if err := app.Dispatch(key(backend.KeyCtrlQ)); !errors.Is(err, ErrQuit) {
		t.Errorf("Dispatch(Ctrl+Q) = %v, want ErrQuit", err)
	}
	if err := app.Dispatch(key(backend.KeyF1)); err != nil {
		t.Errorf("Dispatch(F1) = %v", err)
	}
}

func TestTabCyclesFocus(t *testing.T) {
	app, _, _ := newTestApp(t, 40, 12)
	first := controls.NewButton("One", nil)
	second := controls.NewButton("Two", nil)
	w := addWindow(app, "Form", 0, 0, 8, 30, first, second)
	app.Frame()

	steps := []struct {
		ev   backend.Event
		want any
	}{
		{key(backend.KeyTab), first},
		{key(backend.KeyTab), second},
		{key(backend.KeyTab), first},
		{key(backend.KeyBacktab), second},
	}
	for i, s := range steps {
		if err := app.Dispatch(s.ev); err != nil {
			t.Fatal(err)
		}
		if w.Focused() != s.want {
			t.Fatalf("step %d: focused %v, want %v", i, w.Focused(), s.want)
		}
	}
}

func TestKeysReachFocusedInput(t *testing.T) {
	app, b, _ := newTestApp(t, 40, 12)
	in := controls.NewInput()
	addWindow(app, "Edit", 1, 1, 5, 30, in)
	app.Frame()

	_ = app.Dispatch(key(backend.KeyTab))
	_ = app.Dispatch(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'h'})
	_ = app.Dispatch(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'i'})
	if in.Text() != "hi" {
		t.Fatalf("input text = %q, want %q", in.Text(), "hi")
	}

	app.Frame()
	x, y, visible := b.CursorPosition()
	if !visible || x != 4 || y != 2 {
		t.Errorf("cursor = (%d,%d,%v), want (4,2,true)", x, y, visible)
	}
}

func TestInputSetsBarCursor(t *testing.T) {
	app, b, _ := newTestApp(t, 40, 12)
	in := controls.NewInput()
	addWindow(app, "Edit", 1, 1, 5, 30, in, controls.NewButton("ok", nil))
	app.Frame()
	if got := b.CursorStyleValue(); got != backend.CursorDefault {
		t.Fatalf("cursor style before focus = %v, want default", got)
	}

	_ = app.Dispatch(key(backend.KeyTab))
	app.Frame()
	if got := b.CursorStyleValue(); got != backend.CursorBar {
		t.Errorf("cursor style = %v, want bar", got)
	}

	_ = app.Dispatch(key(backend.KeyTab))
	app.Frame()
	if _, _, visible := b.CursorPosition(); visible {
		t.Error("cursor visible with a button focused")
	}
}

func TestF6CyclesActiveWindow(t *testing.T) {
	app, _, _ := newTestApp(t, 40, 12)
	a := addWindow(app, "a", 0, 0, 5, 15)
	bw := addWindow(app, "b", 5, 20, 5, 15)
	if app.Compositor().Active() != bw {
		t.Fatal("last added window is not active")
	}
	_ = app.Dispatch(key(backend.KeyF6))
	if app.Compositor().Active() != a {
		t.Errorf("active = %v after F6, want a", app.Compositor().Active().Title())
	}
}

func TestEscapeClosesModal(t *testing.T) {
	app, _, _ := newTestApp(t, 40, 12)
	parent := addWindow(app, "main", 0, 0, 10, 30)
	modal := app.NewWindow(window.Config{
		Title:  "confirm",
		Rect:   core.RectFromSize(2, 5, 5, 20),
		Mode:   window.ModeModal,
		Parent: parent,
	})
	app.Compositor().AddWindow(modal)

	_ = app.Dispatch(key(backend.KeyEscape))
	if app.Compositor().Contains(modal) {
		t.Fatal("modal still open after Escape")
	}
	if app.Compositor().Active() != parent {
		t.Error("parent not reactivated")
	}

	_ = app.Dispatch(key(backend.KeyEscape))
	if !app.Compositor().Contains(parent) {
		t.Error("Escape closed a normal window")
	}
}

func TestMouseDragMovesWindow(t *testing.T) {
	app, _, _ := newTestApp(t, 60, 20)
	w := addWindow(app, "drag", 2, 5, 6, 20)

	for _, ev := range []backend.Event{
		{Type: backend.EventMouse, MouseX: 8, MouseY: 2, Buttons: backend.MousePrimary},
		{Type: backend.EventMouse, MouseX: 12, MouseY: 4, Buttons: backend.MousePrimary},
		{Type: backend.EventMouse, MouseX: 12, MouseY: 4},
	} {
		if err := app.Dispatch(ev); err != nil {
			t.Fatal(err)
		}
	}
	if r := w.Rect(); r.Left != 9 || r.Top != 4 {
		t.Errorf("rect = %+v, want left 9 top 4", r)
	}
}

func TestResizeEvent(t *testing.T) {
	app, _, _ := newTestApp(t, 40, 12)
	w := addWindow(app, "big", 0, 0, 10, 38)
	app.Frame()

	_ = app.Dispatch(backend.Event{Type: backend.EventResize, Width: 30, Height: 8})
	d := app.Compositor().Desktop()
	if d.Width() != 30 || d.Height() != 8 {
		t.Fatalf("desktop = %dx%d, want 30x8", d.Width(), d.Height())
	}
	if !d.ContainsRect(w.Rect()) {
		t.Errorf("window %+v left off the desktop", w.Rect())
	}

	fixed, err := New(Options{Backend: backend.NewNullBackend(40, 12), Width: 50, Height: 20})
	if err != nil {
		t.Fatal(err)
	}
	_ = fixed.Dispatch(backend.Event{Type: backend.EventResize, Width: 30, Height: 8})
	if fixed.Compositor().Desktop().Width() != 50 {
		t.Error("explicit desktop size followed the terminal")
	}
}

func TestApplySettings(t *testing.T) {
	app, b, _ := newTestApp(t, 20, 4)
	app.Frame()

	s := app.Settings()
	s.Desktop.Char = '.'
	s.Log.Level = "debug"
	app.ApplySettings(s)
	app.Frame()

	if got := b.Text(0); got != strings.Repeat(".", 20) {
		t.Errorf("desktop row = %q", got)
	}
	if app.Settings().Desktop.Char != '.' {
		t.Error("settings not stored")
	}
}

func TestConfigFileDrivesStartup(t *testing.T) {
	cfg := config.New(config.WithFile(t.TempDir()+"/absent.toml"), config.WithoutEnv())
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	app, err := New(Options{
		Backend: backend.NewNullBackend(20, 5),
		Config:  cfg,
		Logger:  NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if app.Settings().Render.MaxFPS != 60 {
		t.Errorf("MaxFPS = %d", app.Settings().Render.MaxFPS)
	}
	addWindow(app, "log me", 0, 0, 4, 15)
	if !strings.Contains(buf.String(), `window.added "log me"`) {
		t.Errorf("window event not logged:\n%s", buf.String())
	}
}

func TestWaitDuration(t *testing.T) {
	app, _, _ := newTestApp(t, 20, 5)
	r := app.Settings().Render

	tests := []struct {
		name  string
		busy  bool
		spent time.Duration
		want  time.Duration
	}{
		{"idle", false, 0, r.IdleTime()},
		{"busy", true, 0, r.FrameTime()},
		{"busy part spent", true, 5 * time.Millisecond, r.FrameTime() - 5*time.Millisecond},
		{"over budget", true, time.Second, r.BusySleep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := app.waitDuration(tt.busy, tt.spent); got != tt.want {
				t.Errorf("waitDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func runAsync(app *Application) <-chan error {
	done := make(chan error, 1)
	go func() { done <- app.Run() }()
	return done
}

func awaitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRunQuitsOnCtrlQ(t *testing.T) {
	b := backend.NewNullBackend(20, 5)
	app, err := New(Options{Backend: b})
	if err != nil {
		t.Fatal(err)
	}
	b.PostEvent(key(backend.KeyCtrlQ))

	if err := awaitRun(t, runAsync(app)); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if app.IsRunning() {
		t.Error("IsRunning after Run returned")
	}
	if ev := b.PollEvent(); ev.Type != backend.EventInterrupt {
		t.Error("backend was not shut down")
	}
}

func TestRunStopsOnShutdown(t *testing.T) {
	b := backend.NewNullBackend(20, 5)
	app, err := New(Options{Backend: b})
	if err != nil {
		t.Fatal(err)
	}
	done := runAsync(app)

	deadline := time.Now().Add(5 * time.Second)
	for !app.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	app.Shutdown()
	app.Shutdown()

	if err := awaitRun(t, done); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	// Shutdown is sticky: a later Run returns at once.
	if err := awaitRun(t, runAsync(app)); err != nil {
		t.Errorf("second Run() = %v", err)
	}
}

type brokenControl struct{}

func (brokenControl) Measure(c core.Constraints) core.Size { return core.Size{Width: 1, Height: 1} }
func (brokenControl) Paint(*layout.PaintContext)           { panic("paint failed") }

func TestRunRecoversFault(t *testing.T) {
	b := backend.NewNullBackend(30, 8)
	var buf bytes.Buffer
	app, err := New(Options{Backend: b, Logger: NewLogger(LoggerConfig{Output: &buf})})
	if err != nil {
		t.Fatal(err)
	}
	addWindow(app, "bad", 0, 0, 5, 20, brokenControl{})

	err = awaitRun(t, runAsync(app))
	var fault *FaultError
	if !errors.As(err, &fault) {
		t.Fatalf("Run() = %v, want *FaultError", err)
	}
	if fault.Value != "paint failed" || fault.Stack == "" {
		t.Errorf("fault = %v", fault.Value)
	}
	if ev := b.PollEvent(); ev.Type != backend.EventInterrupt {
		t.Error("backend was not shut down after a fault")
	}
	if !strings.Contains(buf.String(), "render loop fault") {
		t.Errorf("fault not logged:\n%s", buf.String())
	}
}
