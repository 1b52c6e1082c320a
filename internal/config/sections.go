package config

import (
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/dshills/casement/internal/renderer/core"
)

// RenderConfig controls frame pacing.
type RenderConfig struct {
	// MaxFPS caps the frame rate while windows are dirty.
	MaxFPS int
	// IdleFPS sets the polling rate when nothing needs drawing.
	IdleFPS int
	// BusySleep is the shortest pause between loop iterations.
	BusySleep time.Duration
	// MetricsInterval is how often frame metrics are logged and refreshed.
	MetricsInterval time.Duration
}

// FrameTime returns the minimum time between rendered frames.
func (r RenderConfig) FrameTime() time.Duration {
	return time.Second / time.Duration(max(r.MaxFPS, 1))
}

// IdleTime returns the pause between iterations while idle.
func (r RenderConfig) IdleTime() time.Duration {
	return time.Second / time.Duration(max(r.IdleFPS, 1))
}

// DesktopConfig describes the desktop background and an optional size
// override.
type DesktopConfig struct {
	Char rune
	Fg   core.Color
	Bg   core.Color
	// Width and Height replace the terminal size when positive.
	Width, Height int
}

// WindowConfig holds default window colors.
type WindowConfig struct {
	Fg           core.Color
	Bg           core.Color
	Border       core.Color
	ActiveBorder core.Color
	Title        core.Color
	ActiveTitle  core.Color
	Button       core.Color
}

// FlashConfig configures the cue shown when a modal blocks activation.
type FlashConfig struct {
	Duration time.Duration
	Toggles  int
	Color    core.Color
	// Target is "blocked" or "modal".
	Target string
}

// LogConfig configures the application log.
type LogConfig struct {
	Level string
	// File is the log destination. Empty selects casement.log in the
	// temporary directory.
	File string
}

// Settings is a typed snapshot of every section.
type Settings struct {
	Render  RenderConfig
	Desktop DesktopConfig
	Window  WindowConfig
	Flash   FlashConfig
	Log     LogConfig
}

// Settings returns a typed snapshot of the effective configuration.
func (c *Config) Settings() Settings {
	return Settings{
		Render:  c.Render(),
		Desktop: c.Desktop(),
		Window:  c.Window(),
		Flash:   c.Flash(),
		Log:     c.Log(),
	}
}

// Render returns the render section.
func (c *Config) Render() RenderConfig {
	return RenderConfig{
		MaxFPS:          c.getIntOr("render.max_fps", 60),
		IdleFPS:         c.getIntOr("render.idle_fps", 20),
		BusySleep:       c.getDurationOr("render.busy_sleep", time.Millisecond),
		MetricsInterval: c.getDurationOr("render.metrics_interval", time.Second),
	}
}

// Desktop returns the desktop section.
func (c *Config) Desktop() DesktopConfig {
	ch := '░'
	if s, err := c.GetString("desktop.char"); err == nil {
		if r, _ := utf8.DecodeRuneInString(s); r != utf8.RuneError {
			ch = r
		}
	}
	return DesktopConfig{
		Char:   ch,
		Fg:     c.getColorOr("desktop.fg", core.ColorGray),
		Bg:     c.getColorOr("desktop.bg", core.ColorBlack),
		Width:  c.getIntOr("desktop.width", 0),
		Height: c.getIntOr("desktop.height", 0),
	}
}

// Window returns the window section.
func (c *Config) Window() WindowConfig {
	return WindowConfig{
		Fg:           c.getColorOr("window.fg", core.ColorDefault),
		Bg:           c.getColorOr("window.bg", core.ColorDefault),
		Border:       c.getColorOr("window.border", core.ColorGray),
		ActiveBorder: c.getColorOr("window.active_border", core.ColorCyan),
		Title:        c.getColorOr("window.title", core.ColorGray),
		ActiveTitle:  c.getColorOr("window.active_title", core.ColorWhite),
		Button:       c.getColorOr("window.button", core.ColorYellow),
	}
}

// Flash returns the flash section.
func (c *Config) Flash() FlashConfig {
	return FlashConfig{
		Duration: c.getDurationOr("flash.duration", 600*time.Millisecond),
		Toggles:  c.getIntOr("flash.toggles", 6),
		Color:    c.getColorOr("flash.color", core.ColorRed),
		Target:   c.getStringOr("flash.target", "blocked"),
	}
}

// Log returns the log section.
func (c *Config) Log() LogConfig {
	file := c.getStringOr("log.file", "")
	if file == "" {
		file = filepath.Join(os.TempDir(), "casement.log")
	}
	return LogConfig{
		Level: c.getStringOr("log.level", "info"),
		File:  file,
	}
}

func (c *Config) getStringOr(path, def string) string {
	if s, err := c.GetString(path); err == nil {
		return s
	}
	return def
}

func (c *Config) getIntOr(path string, def int) int {
	if n, err := c.GetInt(path); err == nil {
		return n
	}
	return def
}

func (c *Config) getDurationOr(path string, def time.Duration) time.Duration {
	if d, err := c.GetDuration(path); err == nil {
		return d
	}
	return def
}

func (c *Config) getColorOr(path string, def core.Color) core.Color {
	s, err := c.GetString(path)
	if err != nil {
		return def
	}
	col, err := parseColor(s)
	if err != nil {
		return def
	}
	return col
}
