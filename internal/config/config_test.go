package config_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/temu/internal/config"
	"github.com/Gaurav-Gosain/temu/internal/vt"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if cfg.Terminal.Rows != 24 || cfg.Terminal.Cols != 80 {
		t.Errorf("Expected 24x80 default size, got %dx%d", cfg.Terminal.Rows, cfg.Terminal.Cols)
	}

	if cfg.Shell.Term != "dumb" {
		t.Errorf("Expected TERM=dumb by default, got %q", cfg.Shell.Term)
	}

	if time.Duration(cfg.Terminal.PollTimeout) != 30*time.Millisecond {
		t.Errorf("Expected 30ms poll timeout, got %s", time.Duration(cfg.Terminal.PollTimeout))
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

// =============================================================================
// Loading Tests
// =============================================================================

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if cfg.Terminal.Cols != 80 {
		t.Errorf("Expected default cols, got %d", cfg.Terminal.Cols)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[shell]
command = "/bin/sh"
args = ["-i"]
env = { FOO = "bar" }

[terminal]
cols = 100
poll_timeout = "50ms"

[display]
cursor_glyph = "_"
`)

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Shell.Command != "/bin/sh" || len(cfg.Shell.Args) != 1 {
		t.Errorf("Shell = %+v", cfg.Shell)
	}
	if cfg.Terminal.Cols != 100 || cfg.Terminal.Rows != 24 {
		t.Errorf("Expected 24x100, got %dx%d", cfg.Terminal.Rows, cfg.Terminal.Cols)
	}
	if time.Duration(cfg.Terminal.PollTimeout) != 50*time.Millisecond {
		t.Errorf("Expected 50ms, got %s", time.Duration(cfg.Terminal.PollTimeout))
	}
	if cfg.CursorRune() != '_' {
		t.Errorf("Expected cursor '_', got %q", cfg.CursorRune())
	}
	if cfg.Display.Backend != config.BackendTcell {
		t.Errorf("Expected default backend to survive, got %q", cfg.Display.Backend)
	}

	opts := cfg.SessionOptions()
	if strings.Join(opts.Command, " ") != "/bin/sh -i" {
		t.Errorf("Command = %v", opts.Command)
	}
	if len(opts.Env) != 1 || opts.Env[0] != "FOO=bar" {
		t.Errorf("Env = %v", opts.Env)
	}
	if opts.PollTimeout != 50*time.Millisecond || opts.Cols != 100 {
		t.Errorf("Options = %+v", opts)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "[terminal\nrows = 1"},
		{"bad duration", "[terminal]\npoll_timeout = \"soon\""},
		{"zero rows", "[terminal]\nrows = 0"},
		{"tab width", "[terminal]\ntab_width = 4"},
		{"long glyph", "[display]\ncursor_glyph = \"ab\""},
		{"backend", "[display]\nbackend = \"x11\""},
		{"log level", "[log]\nlevel = \"loud\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := config.LoadFile(writeConfig(t, tt.content)); err == nil {
				t.Errorf("Expected error for %q", tt.content)
			}
		})
	}
}

func TestValidateWrapsInvalidSize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Terminal.Cols = -1

	if err := cfg.Validate(); !errors.Is(err, vt.ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

// =============================================================================
// Override Tests
// =============================================================================

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ApplyOverrides(config.Overrides{
		Rows:     10,
		Command:  []string{"top", "-b"},
		Headless: true,
		Debug:    true,
	})

	if cfg.Terminal.Rows != 10 || cfg.Terminal.Cols != 80 {
		t.Errorf("Expected 10x80, got %dx%d", cfg.Terminal.Rows, cfg.Terminal.Cols)
	}
	if cfg.Shell.Command != "top" || strings.Join(cfg.Shell.Args, " ") != "-b" {
		t.Errorf("Shell = %+v", cfg.Shell)
	}
	if cfg.Display.Backend != config.BackendHeadless {
		t.Errorf("Expected headless backend, got %q", cfg.Display.Backend)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.Log.Level)
	}
}

func TestSessionOptionsDetectsShell(t *testing.T) {
	t.Setenv("SHELL", "/bin/custom-shell")
	opts := config.DefaultConfig().SessionOptions()
	if len(opts.Command) != 1 || opts.Command[0] != "/bin/custom-shell" {
		t.Errorf("Command = %v", opts.Command)
	}
}

// =============================================================================
// WriteDefault Tests
// =============================================================================

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temu", "config.toml")

	if err := config.WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "# temu configuration file") {
		t.Errorf("Missing header:\n%s", data)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("Written default does not load: %v", err)
	}
	if cfg.Terminal.Rows != 24 || cfg.Display.Backend != config.BackendTcell {
		t.Errorf("Loaded %+v", cfg)
	}

	if err := config.WriteDefault(path, false); err == nil {
		t.Error("Expected error when file exists")
	}
	if err := config.WriteDefault(path, true); err != nil {
		t.Errorf("Forced WriteDefault: %v", err)
	}
}

// =============================================================================
// Watcher Tests
// =============================================================================

func TestWatcherPublishesDisplayChanges(t *testing.T) {
	path := writeConfig(t, "[display]\ncursor_glyph = \"_\"\n")

	w, err := config.NewWatcher(path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	notified := make(chan struct{}, 10)
	w.Start(func() { notified <- struct{}{} })

	if err := os.WriteFile(path, []byte("[display]\ncursor_glyph = \"#\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case display := <-w.Updates():
		if display.CursorGlyph != "#" {
			t.Errorf("Expected cursor '#', got %q", display.CursorGlyph)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("No update after writing the config")
	}
	select {
	case <-notified:
	case <-time.After(5 * time.Second):
		t.Error("notify was not called")
	}
}

func TestWatcherIgnoresInvalidConfig(t *testing.T) {
	path := writeConfig(t, "")

	w, err := config.NewWatcher(path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	w.Start(nil)

	if err := os.WriteFile(path, []byte("[display]\ncursor_glyph = \"too long\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case display := <-w.Updates():
		t.Errorf("Unexpected update %+v", display)
	case <-time.After(500 * time.Millisecond):
	}
}
