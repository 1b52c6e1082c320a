package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dshills/casement/internal/config/loader"
)

// Config holds the layered casement configuration: built-in defaults, an
// optional TOML or YAML file, and CASEMENT_* environment variables, in
// increasing precedence.
type Config struct {
	mu sync.RWMutex

	fs        loader.FileSystem
	path      string
	envPrefix string
	useEnv    bool

	defaults map[string]any
	file     map[string]any
	env      map[string]any
	merged   map[string]any
}

// Option configures a Config instance.
type Option func(*Config)

// WithFile sets the configuration file. The format follows the extension.
func WithFile(path string) Option {
	return func(c *Config) { c.path = path }
}

// WithFS reads the configuration file through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(c *Config) { c.fs = fsys }
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) { c.envPrefix = prefix }
}

// WithoutEnv ignores the environment.
func WithoutEnv() Option {
	return func(c *Config) { c.useEnv = false }
}

// New creates a Config holding only the built-in defaults. Call Load to
// read the other sources.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		useEnv:    true,
		defaults:  defaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.merged = loader.Clone(c.defaults)
	return c
}

// Load reads the file and the environment and validates the result. On
// error the previously loaded values stay in effect.
func (c *Config) Load(_ context.Context) error {
	file, err := c.readFile()
	if err != nil {
		return err
	}
	var env map[string]any
	if c.useEnv {
		if env, err = loader.NewEnvLoader(c.envPrefix).Load(); err != nil {
			return err
		}
	}
	return c.apply(file, env)
}

// Reload re-reads the configuration file, keeping the environment layer.
func (c *Config) Reload() error {
	file, err := c.readFile()
	if err != nil {
		return err
	}
	c.mu.RLock()
	env := c.env
	c.mu.RUnlock()
	return c.apply(file, env)
}

func (c *Config) readFile() (map[string]any, error) {
	if c.path == "" {
		return nil, nil
	}
	l, err := loader.ForPath(c.fs, c.path)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

func (c *Config) apply(file, env map[string]any) error {
	merged := loader.Clone(c.defaults)
	merged = loader.DeepMerge(merged, file)
	merged = loader.DeepMerge(merged, env)
	if err := Validate(merged); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.file, c.env, c.merged = file, env, merged
	return nil
}

// Path returns the configuration file path, or "".
func (c *Config) Path() string { return c.path }

// Merged returns a copy of the effective configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// Get returns the value at the given dotted path.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	n, ok := toInt(v)
	if !ok {
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
	return n, nil
}

// GetDuration returns a duration at the given path. Strings are parsed
// with time.ParseDuration; bare integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSettingNotFound, path)
	}
	d, ok := toDuration(v)
	if !ok {
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
	return d, nil
}

func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val != float64(int(val)) {
			return 0, false
		}
		return int(val), true
	default:
		return 0, false
	}
}

func toDuration(v any) (time.Duration, bool) {
	switch val := v.(type) {
	case time.Duration:
		return val, true
	case string:
		d, err := time.ParseDuration(val)
		return d, err == nil
	default:
		if n, ok := toInt(v); ok {
			return time.Duration(n) * time.Millisecond, true
		}
		return 0, false
	}
}

// defaultConfig returns the built-in configuration.
func defaultConfig() map[string]any {
	return map[string]any{
		"render": map[string]any{
			"max_fps":          int64(60),
			"idle_fps":         int64(20),
			"busy_sleep":       "1ms",
			"metrics_interval": "1s",
		},
		"desktop": map[string]any{
			"char":   "░",
			"fg":     "#808080",
			"bg":     "#000000",
			"width":  int64(0),
			"height": int64(0),
		},
		"window": map[string]any{
			"fg":            "default",
			"bg":            "default",
			"border":        "#808080",
			"active_border": "#00ffff",
			"title":         "#808080",
			"active_title":  "#ffffff",
			"button":        "#ffff00",
		},
		"flash": map[string]any{
			"duration": "600ms",
			"toggles":  int64(6),
			"color":    "#ff0000",
			"target":   "blocked",
		},
		"log": map[string]any{
			"level": "info",
			"file":  "",
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var current any = m
	for _, part := range strings.Split(path, ".") {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int, int64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
