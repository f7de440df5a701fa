package pty

import (
	"io"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Defaults applied by Open for zero-valued options.
const (
	DefaultRows           = 24
	DefaultCols           = 80
	DefaultReadBufferSize = 8192
	DefaultPollTimeout    = 30 * time.Millisecond
	DefaultTerm           = "dumb"
)

// SessionIDEnv names the environment variable carrying the session ID.
const SessionIDEnv = "TEMU_SESSION_ID"

// Options configures a new session.
type Options struct {
	// Command is the program and its arguments. Empty means the user's shell.
	Command []string
	// Env holds extra KEY=VALUE pairs added after the inherited environment.
	Env []string
	// Term is exported as TERM.
	Term string

	Rows, Cols int

	ReadBufferSize int
	// PollTimeout bounds each readiness wait inside Write.
	PollTimeout time.Duration

	// ID identifies the session; a random UUID when empty.
	ID string

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if len(o.Command) == 0 {
		o.Command = []string{DetectShell()}
	}
	if o.Term == "" {
		o.Term = DefaultTerm
	}
	if o.Rows <= 0 {
		o.Rows = DefaultRows
	}
	if o.Cols <= 0 {
		o.Cols = DefaultCols
	}
	if o.ReadBufferSize <= 0 {
		o.ReadBufferSize = DefaultReadBufferSize
	}
	if o.PollTimeout <= 0 {
		o.PollTimeout = DefaultPollTimeout
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Open allocates a pseudo-terminal, starts the command on its slave side
// and returns a session whose inbound bytes are written to sink.
func Open(opts Options, sink io.Writer) (*Session, error) {
	opts.setDefaults()

	env := Environ(os.Environ(), opts)
	t, err := openTransport(opts.Command, env, opts.Rows, opts.Cols)
	if err != nil {
		return nil, &SpawnError{Command: opts.Command, Err: err}
	}

	opts.Logger.Info("session started",
		"id", opts.ID,
		"pid", t.Pid(),
		"command", opts.Command,
		"size", []int{opts.Cols, opts.Rows},
	)
	return NewSession(t, sink, opts), nil
}

// Environ returns base with the session variables appended. Later entries
// win, so they override inherited values.
func Environ(base []string, opts Options) []string {
	env := make([]string, 0, len(base)+len(opts.Env)+2)
	env = append(env, base...)
	env = append(env,
		"TERM="+opts.Term,
		SessionIDEnv+"="+opts.ID,
	)
	return append(env, opts.Env...)
}

// DetectShell picks the user's shell, falling back to common locations.
func DetectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	for _, shell := range []string{"/bin/bash", "/bin/zsh", "/bin/sh"} {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh"
}
