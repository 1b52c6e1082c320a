package config

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNoFile is returned by Watch when the Config has no file.
var ErrNoFile = errors.New("config has no file to watch")

// Watcher reloads a Config when its file changes and delivers the new
// settings over a channel. Consumers read Updates from their own loop, so
// a reload never mutates state they own.
type Watcher struct {
	cfg      *Config
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration

	updates chan Settings
	errors  chan error

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long the file must stay quiet before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// Watch starts watching the file of cfg. The directory is watched rather
// than the file so editors that replace the file on save are followed.
func Watch(cfg *Config, opts ...WatchOption) (*Watcher, error) {
	if cfg.Path() == "" {
		return nil, ErrNoFile
	}
	path, err := filepath.Abs(cfg.Path())
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		path:     path,
		debounce: 100 * time.Millisecond,
		updates:  make(chan Settings, 1),
		errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Updates delivers the settings after each successful reload. Only the
// newest pending value is kept.
func (w *Watcher) Updates() <-chan Settings { return w.updates }

// Errors delivers reload and watch failures.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		w.wg.Wait()
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) reload() {
	if err := w.cfg.Reload(); err != nil {
		w.sendError(err)
		return
	}
	s := w.cfg.Settings()
	// Replace a value the consumer has not read yet.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- s:
	default:
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
