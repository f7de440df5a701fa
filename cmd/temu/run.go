package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/temu/internal/app"
	"github.com/Gaurav-Gosain/temu/internal/backend"
	"github.com/Gaurav-Gosain/temu/internal/config"
	"github.com/Gaurav-Gosain/temu/internal/input"
	"github.com/Gaurav-Gosain/temu/internal/pty"
	"github.com/Gaurav-Gosain/temu/internal/tape"
	"github.com/Gaurav-Gosain/temu/internal/vt"
)

func runTerminal(ctx context.Context, flags runFlags, args []string) error {
	cfg, cfgPath, err := loadConfig(&flags)
	if err != nil {
		return err
	}

	command := args
	if len(command) == 0 && flags.shell != "" {
		command = []string{flags.shell}
	}
	cfg.ApplyOverrides(config.Overrides{
		Rows:     flags.rows,
		Cols:     flags.cols,
		Command:  command,
		Headless: flags.headless || flags.script != "" || !interactive(),
		Debug:    flags.debug,
		LogFile:  flags.logFile,
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	be, err := openBackend(cfg, flags, logger)
	if err != nil {
		return err
	}
	rows, cols := be.Size()

	buffer, err := vt.NewBuffer(rows, cols)
	if err != nil {
		be.Close()
		return err
	}

	opts := cfg.SessionOptions()
	opts.Rows, opts.Cols = rows, cols
	opts.Logger = logger
	session, err := pty.Open(opts, buffer)
	if err != nil {
		be.Close()
		return err
	}

	var display <-chan config.DisplayConfig
	if watcher, err := config.NewWatcher(cfgPath, logger); err != nil {
		logger.Warn("config reload disabled", "err", err)
	} else {
		defer watcher.Close()
		watcher.Start(session.Wake)
		display = watcher.Updates()
	}

	loop := app.New(session, buffer, be, app.Options{
		PollTimeout: opts.PollTimeout,
		CursorGlyph: cfg.CursorRune(),
		Display:     display,
		Logger:      logger,
	})
	res, runErr := loop.Run(ctx)

	// Transport first, then the backend, so the child sees its terminal
	// go away before the screen is restored.
	if err := session.Close(); err != nil {
		logger.Warn("closing pty", "err", err)
	}
	be.Close()

	if runErr != nil {
		logger.Error("session failed", "err", runErr)
		return runErr
	}
	logger.Info("session ended", "id", session.ID, "result", res.String())

	if h, ok := be.(*backend.Headless); ok {
		r, c := h.Size()
		fmt.Println(backend.Snapshot(backend.SnapshotTitle(r, c, res.String()), h.Lines(), c))
	}
	return nil
}

// interactive reports whether stdin and stdout are both terminals.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func openBackend(cfg *config.UserConfig, flags runFlags, logger *log.Logger) (backend.Backend, error) {
	if cfg.Display.Backend == config.BackendTcell {
		return backend.NewTcell(nil, logger)
	}

	h := backend.NewHeadless(cfg.Terminal.Rows, cfg.Terminal.Cols, logger)
	if flags.script == "" {
		return h.Forward(input.NewRawReader(os.Stdin)), nil
	}

	data, err := os.ReadFile(flags.script)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	steps, err := tape.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", flags.script, err)
	}
	return h.Play(steps), nil
}

// setupLogger opens the log file. The screen owns the tty, so logs never go
// to stderr; a log file that cannot be opened is reported on stderr and
// logging is turned off.
func setupLogger(cfg *config.UserConfig, stderr io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	path := cfg.Log.File
	if path == "" {
		if path, err = config.GetLogPath(); err != nil {
			return nil, nil, fmt.Errorf("could not determine log path: %w", err)
		}
	}

	var w io.Writer = io.Discard
	closeLog := func() {}
	f, err := openLogFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: logging disabled: %v\n", err)
	} else {
		w = f
		closeLog = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "temu",
		Level:           level,
	})
	log.SetDefault(logger)
	return logger, closeLog, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
