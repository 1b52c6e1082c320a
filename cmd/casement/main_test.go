package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dshills/casement/internal/config"
)

func TestSnapshotRendersDemo(t *testing.T) {
	var out bytes.Buffer
	err := snapshot(&out, config.New(config.WithoutEnv()), options{width: 80, height: 24})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 24 {
		t.Fatalf("got %d lines, want 24", len(lines))
	}
	for _, title := range []string{"Files", "Settings", "Help", "Pinned"} {
		if !strings.Contains(out.String(), title) {
			t.Errorf("snapshot missing window %q", title)
		}
	}
	if strings.Contains(out.String(), "\x1b[1;1H") {
		t.Error("non-terminal output should not carry cursor positioning")
	}
}

func TestSnapshotDefaultsSize(t *testing.T) {
	var out bytes.Buffer
	if err := snapshot(&out, config.New(config.WithoutEnv()), options{}); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if n := strings.Count(out.String(), "\n"); n < 1 {
		t.Errorf("got %d lines", n)
	}
}
