// Package main is the entry point for the casement terminal desktop.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/casement/internal/app"
	"github.com/dshills/casement/internal/config"
	"github.com/dshills/casement/internal/renderer/backend"
	"github.com/dshills/casement/internal/renderer/cellbuf"
	"github.com/dshills/casement/internal/renderer/core"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	tty        string
	snapshot   bool
	width      int
	height     int
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg := config.New(config.WithFile(opts.configPath))
	if err := cfg.Load(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.snapshot {
		if err := snapshot(os.Stdout, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if opts.tty == "" && !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal (use -snapshot to render one frame)")
		return 1
	}

	logCfg := cfg.Log()
	if opts.logLevel != "" {
		logCfg.Level = opts.logLevel
	}
	logger, logFile, err := app.OpenLogFile(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logFile.Close()
	logger.Info("casement %s (%s, %s) starting", version, commit, date)

	watcher, err := config.Watch(cfg)
	if err != nil && !errors.Is(err, config.ErrNoFile) {
		logger.Warn("config watch disabled: %v", err)
	}

	tty, err := openTerminal(opts.tty)
	if err != nil {
		if watcher != nil {
			_ = watcher.Close()
		}
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	// Without explicit flags the desktop follows the terminal size.
	application, err := app.New(app.Options{
		Backend: tty,
		Config:  cfg,
		Watcher: watcher,
		Logger:  logger,
		Width:   opts.width,
		Height:  opts.height,
	})
	if err != nil {
		if watcher != nil {
			_ = watcher.Close()
		}
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	buildDesktop(application)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		var fault *app.FaultError
		if errors.As(err, &fault) {
			fmt.Fprintf(os.Stderr, "casement crashed: %v\n", fault)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func openTerminal(device string) (*backend.Terminal, error) {
	if device != "" {
		return backend.NewTerminalOnDevice(device)
	}
	return backend.NewTerminal()
}

// snapshot renders the demo desktop once into an off-screen backend and
// writes it as escape-coded text. On a terminal the frame is positioned
// from the top-left corner; otherwise rows are written as plain lines.
func snapshot(w io.Writer, cfg *config.Config, opts options) error {
	width, height := opts.width, opts.height
	if width <= 0 || height <= 0 {
		width, height = 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 1 {
			width, height = w, h-1
		}
	}
	application, err := app.New(app.Options{
		Backend: backend.NewNullBackend(width, height),
		Config:  cfg,
		Width:   width,
		Height:  height,
	})
	if err != nil {
		return err
	}
	defer application.Close()

	buildDesktop(application)
	application.Frame()

	enc := cellbuf.NewEncoder()
	screen := application.Compositor().Screen()
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if err := enc.WriteFrame(w, screen, core.ScreenPos{}); err != nil {
			return err
		}
		_, err = fmt.Fprintln(w)
		return err
	}
	_, err = io.WriteString(w, strings.Join(enc.Lines(screen), "\n")+"\n")
	return err
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "casement", "casement.toml")
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", defaultConfigPath(), "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.configPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	flag.StringVar(&opts.tty, "tty", "", "Draw on this terminal device instead of the controlling one")
	flag.BoolVar(&opts.snapshot, "snapshot", false, "Render one frame of the demo desktop to stdout and exit")
	flag.IntVar(&opts.width, "width", 0, "Desktop width (default: terminal width)")
	flag.IntVar(&opts.height, "height", 0, "Desktop height (default: terminal height)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "casement - a retained-mode terminal desktop\n\n")
		fmt.Fprintf(os.Stderr, "Usage: casement [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: Tab/Shift+Tab focus, F6 next window, Ctrl+W close, Esc close dialog, Ctrl+Q quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("casement %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	return opts
}
