// Package config loads the user's temu settings from a TOML file in the
// XDG config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/temu/internal/pty"
	"github.com/Gaurav-Gosain/temu/internal/render"
	"github.com/Gaurav-Gosain/temu/internal/vt"
)

const (
	appName        = "temu"
	configFileName = "config.toml"
	logFileName    = "temu.log"
)

// Backend names accepted in [display].
const (
	BackendTcell    = "tcell"
	BackendHeadless = "headless"
)

// UserConfig is the contents of config.toml.
type UserConfig struct {
	Shell    ShellConfig    `toml:"shell"`
	Terminal TerminalConfig `toml:"terminal"`
	Display  DisplayConfig  `toml:"display"`
	Log      LogConfig      `toml:"log"`
}

// ShellConfig selects the program run inside the terminal.
type ShellConfig struct {
	// Command is the program to run. Empty means the detected login shell.
	Command string            `toml:"command"`
	Args    []string          `toml:"args"`
	Term    string            `toml:"term"`
	Env     map[string]string `toml:"env"`
}

type TerminalConfig struct {
	Rows     int `toml:"rows"`
	Cols     int `toml:"cols"`
	TabWidth int `toml:"tab_width"`
	// ReadBuffer is the most bytes taken from the pty per read.
	ReadBuffer  int      `toml:"read_buffer"`
	PollTimeout Duration `toml:"poll_timeout"`
}

// DisplayConfig is re-read while temu runs.
type DisplayConfig struct {
	CursorGlyph string `toml:"cursor_glyph"`
	Backend     string `toml:"backend"`
}

type LogConfig struct {
	// File is where logs go; the tty belongs to the screen. Empty means
	// the XDG state directory.
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Duration is a time.Duration written as "30ms" in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Shell: ShellConfig{
			Term: pty.DefaultTerm,
		},
		Terminal: TerminalConfig{
			Rows:        pty.DefaultRows,
			Cols:        pty.DefaultCols,
			TabWidth:    vt.TabWidth,
			ReadBuffer:  pty.DefaultReadBufferSize,
			PollTimeout: Duration(pty.DefaultPollTimeout),
		},
		Display: DisplayConfig{
			CursorGlyph: string(render.DefaultCursorGlyph),
			Backend:     BackendTcell,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// GetConfigPath returns the path of config.toml, creating its directory.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appName, configFileName))
}

// GetLogPath returns the default log file path, creating its directory.
func GetLogPath() (string, error) {
	return xdg.StateFile(filepath.Join(appName, logFileName))
}

// LoadUserConfig reads the config file at the default path. A missing
// file yields the defaults.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine config path: %w", err)
	}
	return LoadFile(path)
}

// LoadFile reads the config file at path over the defaults. A missing
// file yields the defaults.
func LoadFile(path string) (*UserConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c *UserConfig) Validate() error {
	var errs []error

	if c.Terminal.Rows < 1 || c.Terminal.Cols < 1 {
		errs = append(errs, fmt.Errorf("terminal size %dx%d: %w", c.Terminal.Rows, c.Terminal.Cols, vt.ErrInvalidSize))
	}
	if c.Terminal.TabWidth != vt.TabWidth {
		errs = append(errs, fmt.Errorf("tab_width must be %d, got %d", vt.TabWidth, c.Terminal.TabWidth))
	}
	if c.Terminal.ReadBuffer < 1 {
		errs = append(errs, fmt.Errorf("read_buffer must be positive, got %d", c.Terminal.ReadBuffer))
	}
	if c.Terminal.PollTimeout <= 0 {
		errs = append(errs, fmt.Errorf("poll_timeout must be positive, got %s", time.Duration(c.Terminal.PollTimeout)))
	}
	if utf8.RuneCountInString(c.Display.CursorGlyph) != 1 {
		errs = append(errs, fmt.Errorf("cursor_glyph must be a single character, got %q", c.Display.CursorGlyph))
	}
	switch c.Display.Backend {
	case BackendTcell, BackendHeadless:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Display.Backend))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}

	return errors.Join(errs...)
}

// CursorRune returns the configured cursor glyph.
func (c *UserConfig) CursorRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Display.CursorGlyph)
	return r
}

// Overrides holds command line values. Zero values leave the config
// alone.
type Overrides struct {
	Rows     int
	Cols     int
	Command  []string
	Headless bool
	Debug    bool
	LogFile  string
}

// ApplyOverrides layers command line values over the config.
func (c *UserConfig) ApplyOverrides(o Overrides) {
	if o.Rows > 0 {
		c.Terminal.Rows = o.Rows
	}
	if o.Cols > 0 {
		c.Terminal.Cols = o.Cols
	}
	if len(o.Command) > 0 {
		c.Shell.Command = o.Command[0]
		c.Shell.Args = o.Command[1:]
	}
	if o.Headless {
		c.Display.Backend = BackendHeadless
	}
	if o.Debug {
		c.Log.Level = "debug"
	}
	if o.LogFile != "" {
		c.Log.File = o.LogFile
	}
}

// SessionOptions converts the config into pty options.
func (c *UserConfig) SessionOptions() pty.Options {
	command := c.Shell.Command
	if command == "" {
		command = pty.DetectShell()
	}

	env := make([]string, 0, len(c.Shell.Env))
	for k, v := range c.Shell.Env {
		env = append(env, k+"="+v)
	}

	return pty.Options{
		Command:        append([]string{command}, c.Shell.Args...),
		Env:            env,
		Term:           c.Shell.Term,
		Rows:           c.Terminal.Rows,
		Cols:           c.Terminal.Cols,
		ReadBufferSize: c.Terminal.ReadBuffer,
		PollTimeout:    time.Duration(c.Terminal.PollTimeout),
	}
}

// Marshal renders the config as commented TOML.
func (c *UserConfig) Marshal(path string) ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# temu configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# An empty shell.command runs $SHELL, then bash, zsh or sh.\n")
	sb.WriteString("# [display] settings are reloaded while temu runs.\n")
	if path != "" {
		sb.WriteString("#\n# Configuration location: " + path + "\n")
	}
	sb.WriteString("\n")
	sb.Write(data)
	return []byte(sb.String()), nil
}

// WriteDefault writes the default config to path. An existing file is
// kept unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	data, err := DefaultConfig().Marshal(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
