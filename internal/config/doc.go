// Package config provides the configuration system for casement.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← CASEMENT_SECTION_KEY, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .toml, .yaml or .yml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← lowest priority
//	└─────────────────────────────┘
//
// Layers are nested maps merged with loader.DeepMerge and validated as a
// whole; a source that fails validation leaves the previous values in
// effect.
//
// # Sections
//
//	[render]   max_fps, idle_fps, busy_sleep, metrics_interval
//	[desktop]  char, fg, bg, width, height
//	[window]   fg, bg, border, active_border, title, active_title, button
//	[flash]    duration, toggles, color, target ("blocked" or "modal")
//	[log]      level, file
//
// Colors are "#rrggbb", "#rgb" or "default". Durations are Go duration
// strings such as "600ms".
//
// # Usage
//
//	cfg := config.New(config.WithFile(path))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	s := cfg.Settings()
//
// # Live Reload
//
// Watch follows the file with fsnotify and delivers a fresh Settings value
// on Updates after each successful reload.
package config
