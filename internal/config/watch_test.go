package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRequiresFile(t *testing.T) {
	if _, err := Watch(New(WithoutEnv())); !errors.Is(err, ErrNoFile) {
		t.Errorf("Watch() error = %v, want ErrNoFile", err)
	}
}

func TestWatchDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "casement.toml")
	if err := os.WriteFile(path, []byte("[render]\nmax_fps = 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(WithFile(path), WithoutEnv())
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	w, err := Watch(c, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[render]\nmax_fps = 24\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A truncating write can surface as more than one reload.
	timeout := time.After(5 * time.Second)
	for got := 0; got != 24; {
		select {
		case s := <-w.Updates():
			got = s.Render.MaxFPS
		case err := <-w.Errors():
			t.Fatalf("watch error: %v", err)
		case <-timeout:
			t.Fatal("no update after writing the file")
		}
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestWatchReportsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "casement.yaml")
	if err := os.WriteFile(path, []byte("render:\n  max_fps: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(WithFile(path), WithoutEnv())
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	w, err := Watch(c)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("render:\n  max_fps: -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-w.Errors():
		if !errors.Is(err, ErrValidationFailed) {
			t.Errorf("error = %v, want ErrValidationFailed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no error for an invalid file")
	}
	if got := c.Render().MaxFPS; got < 1 {
		t.Errorf("MaxFPS = %d, invalid reload was applied", got)
	}
}
