// Package pty runs a child process on a pseudo-terminal and moves bytes
// between it and the screen buffer without ever blocking on a full channel.
package pty

import (
	"fmt"
	"syscall"
	"time"
)

// Events is a set of readiness conditions reported by Transport.Wait.
type Events uint8

const (
	// Readable means the child has produced output.
	Readable Events = 1 << iota
	// Writable means the channel to the child accepts at least one byte.
	Writable
	// Woken means Wake was called, usually because the child exited or an
	// input event is queued.
	Woken
	// Hangup means the slave side is gone.
	Hangup
)

// Has reports whether every flag in f is set.
func (e Events) Has(f Events) bool {
	return e&f == f
}

// Winsize is the window size reported to the child.
type Winsize struct {
	Rows, Cols int
	// Pixel dimensions of the drawing area, zero when unknown.
	X, Y int
}

// ExitStatus describes how the child terminated.
type ExitStatus struct {
	Code     int
	Signaled bool
	Signal   syscall.Signal
}

func (s ExitStatus) String() string {
	if s.Signaled {
		return fmt.Sprintf("killed by signal %d (%s)", int(s.Signal), s.Signal)
	}
	return fmt.Sprintf("exited with status %d", s.Code)
}

// Transport is the duplex channel to a child process.
//
// Read and Write never block: Read returns 0, nil when nothing is pending
// and Write may accept only part of its input. Wait is the only blocking
// call and returns early when Wake is called from any goroutine.
type Transport interface {
	// Wait blocks until one of the wanted conditions holds, Wake is called
	// or timeout elapses. A negative timeout waits indefinitely. Zero events
	// with a nil error means the timeout expired.
	Wait(want Events, timeout time.Duration) (Events, error)
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Resize(ws Winsize) error
	// Wake interrupts a pending or the next Wait. Safe for concurrent use.
	Wake()
	// Exited delivers the child's status once.
	Exited() <-chan ExitStatus
	Pid() int
	Close() error
}
