package pty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// State is the lifecycle of the child process.
type State int

const (
	Running State = iota
	ExitedNormally
	ExitedBySignal
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case ExitedNormally:
		return "exited"
	case ExitedBySignal:
		return "signaled"
	}
	return "unknown"
}

// maxDrainReads bounds Drain so a child that keeps writing cannot hold the
// caller forever.
const maxDrainReads = 64

// Session owns a transport and feeds everything the child writes into a
// sink, normally the screen buffer.
//
// A Session is not safe for concurrent use; only Wake may be called from
// other goroutines.
type Session struct {
	ID string

	t      Transport
	sink   io.Writer
	buf    []byte
	wait   time.Duration
	logger *log.Logger

	state  State
	status ExitStatus
	closed bool
}

// NewSession wraps an already running transport. Zero-valued options take
// the package defaults.
func NewSession(t Transport, sink io.Writer, opts Options) *Session {
	opts.setDefaults()
	return &Session{
		ID:     opts.ID,
		t:      t,
		sink:   sink,
		buf:    make([]byte, opts.ReadBufferSize),
		wait:   opts.PollTimeout,
		logger: opts.Logger,
	}
}

// Pid returns the child's process ID.
func (s *Session) Pid() int {
	return s.t.Pid()
}

// Wait blocks until the child has output, Wake is called or timeout
// elapses.
func (s *Session) Wait(timeout time.Duration) (Events, error) {
	if s.closed {
		return 0, ErrSessionClosed
	}
	return s.t.Wait(Readable, timeout)
}

// Wake interrupts a pending Wait. Safe for concurrent use.
func (s *Session) Wake() {
	s.t.Wake()
}

// Pump performs one non-blocking read and writes the bytes to the sink.
// It returns the number of bytes moved, zero when nothing was pending.
func (s *Session) Pump() (int, error) {
	if s.closed {
		return 0, ErrSessionClosed
	}
	n, err := s.t.Read(s.buf)
	if n > 0 {
		if _, werr := s.sink.Write(s.buf[:n]); werr != nil {
			return n, fmt.Errorf("apply pty output: %w", werr)
		}
	}
	if err != nil {
		if errors.Is(err, ErrHangup) {
			return n, err
		}
		return n, fmt.Errorf("read pty: %w", err)
	}
	return n, nil
}

// Drain pumps until no output is pending, for the final screen after the
// child exits.
func (s *Session) Drain() error {
	for range maxDrainReads {
		n, err := s.Pump()
		if err != nil {
			if errors.Is(err, ErrHangup) {
				return nil
			}
			return err
		}
		if n == 0 {
			return nil
		}
	}
	return nil
}

// Write sends p to the child in order. While the channel is full and the
// child has output waiting, that output is drained into the sink first, so
// a child echoing its input can never deadlock the write. A write accepted
// in full performs no drain.
func (s *Session) Write(p []byte) (int, error) {
	return s.WriteContext(context.Background(), p)
}

// WriteContext is Write that gives up once ctx is done, returning the
// bytes sent so far and ctx's error. Wake interrupts a blocked wait so the
// cancellation is noticed.
func (s *Session) WriteContext(ctx context.Context, p []byte) (int, error) {
	if s.closed {
		return 0, ErrSessionClosed
	}

	written := 0
	for written < len(p) {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		ev, err := s.t.Wait(Writable|Readable, s.wait)
		if err != nil {
			return written, fmt.Errorf("wait for pty: %w", err)
		}

		if ev&Writable != 0 {
			n, err := s.t.Write(p[written:])
			written += n
			if err != nil {
				if errors.Is(err, ErrHangup) {
					return written, err
				}
				return written, fmt.Errorf("write pty: %w", err)
			}
		}

		if written < len(p) && ev&Readable != 0 {
			s.logger.Debug("draining pty before write", "pending", len(p)-written)
			if _, err := s.Pump(); err != nil {
				return written, err
			}
		}

		if ev&(Writable|Readable) == 0 {
			if _, exited := s.Exited(); exited {
				return written, ErrSessionClosed
			}
			if ev&Hangup != 0 {
				return written, ErrHangup
			}
		}
	}
	return written, nil
}

// Resize reports a new window size to the child.
func (s *Session) Resize(ws Winsize) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.t.Resize(ws); err != nil {
		return fmt.Errorf("resize pty to %dx%d: %w", ws.Cols, ws.Rows, err)
	}
	return nil
}

// Exited reports whether the child has terminated, recording its status the
// first time it is observed.
func (s *Session) Exited() (ExitStatus, bool) {
	if s.state == Running {
		select {
		case st := <-s.t.Exited():
			s.status = st
			s.state = ExitedNormally
			if st.Signaled {
				s.state = ExitedBySignal
			}
			s.logger.Info("child exited", "id", s.ID, "pid", s.t.Pid(), "status", st.String())
		default:
		}
	}
	return s.status, s.state != Running
}

// State returns the lifecycle state last observed by Exited.
func (s *Session) State() State {
	return s.state
}

// Close releases the transport, terminating the child if it still runs.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.t.Close(); err != nil {
		return fmt.Errorf("close pty: %w", err)
	}
	return nil
}
