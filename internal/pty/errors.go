package pty

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHangup is returned by reads and writes once the slave side of the
	// terminal has gone away, normally because the child exited.
	ErrHangup = errors.New("pty hang-up")

	// ErrSessionClosed is returned when writing to a session whose child
	// has exited or whose transport was closed.
	ErrSessionClosed = errors.New("session closed")

	// ErrPTYNotSupported is returned on platforms without Unix pseudo-terminals.
	ErrPTYNotSupported = errors.New("pseudo-terminals not supported on this platform")
)

// SpawnError reports a failure to allocate the terminal or start the child.
type SpawnError struct {
	Command []string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %q: %v", strings.Join(e.Command, " "), e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
