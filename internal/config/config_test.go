package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/casement/internal/renderer/core"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(s), nil
}

func TestDefaults(t *testing.T) {
	c := New(WithoutEnv())
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s := c.Settings()

	want := RenderConfig{MaxFPS: 60, IdleFPS: 20, BusySleep: time.Millisecond, MetricsInterval: time.Second}
	if diff := cmp.Diff(want, s.Render); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
	if s.Desktop.Char != '░' || !s.Desktop.Bg.Equals(core.ColorBlack) {
		t.Errorf("Desktop = %+v", s.Desktop)
	}
	if s.Flash.Duration != 600*time.Millisecond || s.Flash.Toggles != 6 || s.Flash.Target != "blocked" {
		t.Errorf("Flash = %+v", s.Flash)
	}
	if !s.Window.Fg.IsDefault() || !s.Window.ActiveBorder.Equals(core.ColorCyan) {
		t.Errorf("Window = %+v", s.Window)
	}
	if s.Log.Level != "info" || s.Log.File != filepath.Join(os.TempDir(), "casement.log") {
		t.Errorf("Log = %+v", s.Log)
	}
	if s.Render.FrameTime() != time.Second/60 || s.Render.IdleTime() != 50*time.Millisecond {
		t.Errorf("frame/idle time = %v/%v", s.Render.FrameTime(), s.Render.IdleTime())
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	tests := []struct {
		name, path, content string
	}{
		{"toml", "/c.toml", "[render]\nmax_fps = 30\n[flash]\ntarget = \"modal\"\ncolor = \"#0f0\"\n"},
		{"yaml", "/c.yaml", "render:\n  max_fps: 30\nflash:\n  target: modal\n  color: \"#0f0\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithFile(tt.path), WithFS(memFS{tt.path: tt.content}), WithoutEnv())
			if err := c.Load(context.Background()); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got := c.Render().MaxFPS; got != 30 {
				t.Errorf("MaxFPS = %d, want 30", got)
			}
			if got := c.Render().IdleFPS; got != 20 {
				t.Errorf("IdleFPS = %d, default lost", got)
			}
			f := c.Flash()
			if f.Target != "modal" || !f.Color.Equals(core.ColorGreen) {
				t.Errorf("Flash = %+v", f)
			}
		})
	}
}

func TestMissingFileUsesDefaults(t *testing.T) {
	c := New(WithFile("/absent.toml"), WithFS(memFS{}), WithoutEnv())
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Render().MaxFPS != 60 {
		t.Error("defaults not in effect")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("CASEMENT_RENDER_MAX_FPS", "15")
	t.Setenv("CASEMENT_FLASH_DURATION", "1s")
	c := New(WithFile("/c.toml"), WithFS(memFS{"/c.toml": "[render]\nmax_fps = 30\n"}))
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := c.Render().MaxFPS; got != 15 {
		t.Errorf("MaxFPS = %d, want 15", got)
	}
	if got := c.Flash().Duration; got != time.Second {
		t.Errorf("Flash.Duration = %v, want 1s", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	c := New(WithFile("/c.toml"), WithFS(memFS{"/c.toml": "[render]\nmax_fps = 0\n[bogus]\nx = 1\n"}), WithoutEnv())
	err := c.Load(context.Background())
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Load() error = %v, want ErrValidationFailed", err)
	}
	if c.Render().MaxFPS != 60 {
		t.Error("invalid file replaced the effective values")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	c := New(WithFile("/c.json"), WithFS(memFS{"/c.json": "{}"}), WithoutEnv())
	if err := c.Load(context.Background()); err == nil {
		t.Error("Load() accepted a .json file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      map[string]any
		wantCode ValidationErrorCode
		wantPath string
	}{
		{"unknown section key", map[string]any{"render": map[string]any{"vsync": true}}, ErrCodeUnknownSetting, "render.vsync"},
		{"section not table", map[string]any{"log": "debug"}, ErrCodeTypeMismatch, "log"},
		{"fps too high", map[string]any{"render": map[string]any{"max_fps": int64(5000)}}, ErrCodeOutOfRange, "render.max_fps"},
		{"fps not int", map[string]any{"render": map[string]any{"max_fps": "fast"}}, ErrCodeTypeMismatch, "render.max_fps"},
		{"bad duration", map[string]any{"flash": map[string]any{"duration": "soon"}}, ErrCodeTypeMismatch, "flash.duration"},
		{"negative duration", map[string]any{"flash": map[string]any{"duration": "-1s"}}, ErrCodeOutOfRange, "flash.duration"},
		{"bad color", map[string]any{"window": map[string]any{"bg": "#zzzzzz"}}, ErrCodeTypeMismatch, "window.bg"},
		{"wide char", map[string]any{"desktop": map[string]any{"char": "ab"}}, ErrCodeOutOfRange, "desktop.char"},
		{"bad target", map[string]any{"flash": map[string]any{"target": "both"}}, ErrCodeInvalidEnum, "flash.target"},
		{"bad level", map[string]any{"log": map[string]any{"level": "trace"}}, ErrCodeInvalidEnum, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Code != tt.wantCode || ve.Path != tt.wantPath {
				t.Errorf("got %s at %s, want %s at %s", ve.Code, ve.Path, tt.wantCode, tt.wantPath)
			}
		})
	}

	if err := Validate(defaultConfig()); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestTypedGetters(t *testing.T) {
	c := New(WithoutEnv())
	if _, err := c.GetInt("log.level"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetInt(log.level) error = %v", err)
	}
	if _, err := c.GetString("render.nope"); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("GetString(missing) error = %v", err)
	}
	if d, err := c.GetDuration("render.busy_sleep"); err != nil || d != time.Millisecond {
		t.Errorf("GetDuration = %v, %v", d, err)
	}

	merged := c.Merged()
	merged["render"].(map[string]any)["max_fps"] = int64(1)
	if c.Render().MaxFPS != 60 {
		t.Error("Merged() returned shared state")
	}
}

func TestReloadKeepsEnv(t *testing.T) {
	t.Setenv("CASEMENT_LOG_LEVEL", "debug")
	fsys := memFS{"/c.toml": "[render]\nidle_fps = 5\n"}
	c := New(WithFile("/c.toml"), WithFS(fsys))
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	fsys["/c.toml"] = "[render]\nidle_fps = 7\n"
	if err := c.Reload(); err != nil {
		t.Fatal(err)
	}
	if c.Render().IdleFPS != 7 || c.Log().Level != "debug" {
		t.Errorf("after Reload: idle=%d level=%s", c.Render().IdleFPS, c.Log().Level)
	}
}
