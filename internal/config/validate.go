package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"unicode/utf8"

	"github.com/dshills/casement/internal/renderer/core"
)

type valueKind uint8

const (
	kindInt valueKind = iota
	kindDuration
	kindColor
	kindChar
	kindEnum
	kindString
)

type rule struct {
	kind     valueKind
	min, max int
	enum     []string
}

func intRule(lo, hi int) rule { return rule{kind: kindInt, min: lo, max: hi} }

// rules lists every recognized setting.
var rules = map[string]rule{
	"render.max_fps":          intRule(1, 1000),
	"render.idle_fps":         intRule(1, 1000),
	"render.busy_sleep":       {kind: kindDuration},
	"render.metrics_interval": {kind: kindDuration},

	"desktop.char":   {kind: kindChar},
	"desktop.fg":     {kind: kindColor},
	"desktop.bg":     {kind: kindColor},
	"desktop.width":  intRule(0, math.MaxInt16),
	"desktop.height": intRule(0, math.MaxInt16),

	"window.fg":            {kind: kindColor},
	"window.bg":            {kind: kindColor},
	"window.border":        {kind: kindColor},
	"window.active_border": {kind: kindColor},
	"window.title":         {kind: kindColor},
	"window.active_title":  {kind: kindColor},
	"window.button":        {kind: kindColor},

	"flash.duration": {kind: kindDuration},
	"flash.toggles":  intRule(1, 100),
	"flash.color":    {kind: kindColor},
	"flash.target":   {kind: kindEnum, enum: []string{"blocked", "modal"}},

	"log.level": {kind: kindEnum, enum: []string{"debug", "info", "warn", "error"}},
	"log.file":  {kind: kindString},
}

// Validate checks a merged configuration map against the known settings.
// Every problem is reported; the result wraps ErrValidationFailed.
func Validate(m map[string]any) error {
	var errs []error
	sections := make([]string, 0, len(m))
	for name := range m {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	for _, name := range sections {
		section, ok := m[name].(map[string]any)
		if !ok {
			errs = append(errs, &ValidationError{Path: name, Message: "expected a table", Value: m[name], Code: ErrCodeTypeMismatch})
			continue
		}
		keys := make([]string, 0, len(section))
		for k := range section {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			path := name + "." + k
			r, known := rules[path]
			if !known {
				errs = append(errs, &ValidationError{Path: path, Message: "unknown setting", Code: ErrCodeUnknownSetting})
				continue
			}
			if err := r.check(path, section[k]); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (r rule) check(path string, v any) error {
	mismatch := func(want string) error {
		return &ValidationError{
			Path:    path,
			Message: fmt.Sprintf("expected %s, got %s", want, typeName(v)),
			Value:   v,
			Code:    ErrCodeTypeMismatch,
		}
	}
	switch r.kind {
	case kindInt:
		n, ok := toInt(v)
		if !ok {
			return mismatch("int")
		}
		if n < r.min || n > r.max {
			return &ValidationError{Path: path, Message: fmt.Sprintf("must be between %d and %d", r.min, r.max), Value: v, Code: ErrCodeOutOfRange}
		}
	case kindDuration:
		d, ok := toDuration(v)
		if !ok {
			return mismatch("duration")
		}
		if d < 0 {
			return &ValidationError{Path: path, Message: "must not be negative", Value: v, Code: ErrCodeOutOfRange}
		}
	case kindColor:
		s, ok := v.(string)
		if !ok {
			return mismatch("color string")
		}
		if _, err := parseColor(s); err != nil {
			return &ValidationError{Path: path, Message: err.Error(), Value: v, Code: ErrCodeTypeMismatch}
		}
	case kindChar:
		s, ok := v.(string)
		if !ok {
			return mismatch("string")
		}
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || core.RuneWidth(r) != 1 {
			return &ValidationError{Path: path, Message: "must be a single narrow character", Value: v, Code: ErrCodeOutOfRange}
		}
	case kindEnum:
		s, ok := v.(string)
		if !ok {
			return mismatch("string")
		}
		if !slices.Contains(r.enum, s) {
			return &ValidationError{Path: path, Message: fmt.Sprintf("must be one of %v", r.enum), Value: v, Code: ErrCodeInvalidEnum}
		}
	case kindString:
		if _, ok := v.(string); !ok {
			return mismatch("string")
		}
	}
	return nil
}

// parseColor accepts "default" or a hex color.
func parseColor(s string) (core.Color, error) {
	return core.ColorFromHex(s)
}
