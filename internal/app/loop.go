// Package app runs a terminal session: it moves child output into the
// screen buffer, keeps the backend drawn and sends key presses back.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/temu/internal/backend"
	"github.com/Gaurav-Gosain/temu/internal/config"
	"github.com/Gaurav-Gosain/temu/internal/pty"
	"github.com/Gaurav-Gosain/temu/internal/render"
	"github.com/Gaurav-Gosain/temu/internal/vt"
)

// Options tunes a Loop. Zero values take defaults.
type Options struct {
	PollTimeout time.Duration
	CursorGlyph rune
	// Display delivers reloaded display settings, usually from a
	// config.Watcher. May be nil.
	Display <-chan config.DisplayConfig
	Logger  *log.Logger
}

// Result says why a session ended.
type Result struct {
	Reason string
	// Exited is set when the child's status is known.
	Exited bool
	Status pty.ExitStatus
}

func (r Result) String() string {
	if r.Exited {
		return r.Status.String()
	}
	return r.Reason
}

// Loop owns one buffer and one session and is the only goroutine touching
// either.
type Loop struct {
	session *pty.Session
	buffer  *vt.Buffer
	coord   *render.Coordinator
	backend backend.Backend

	display     <-chan config.DisplayConfig
	pollTimeout time.Duration
	logger      *log.Logger
}

// New returns a loop drawing buffer onto be. The session must already be
// writing its output into buffer.
func New(session *pty.Session, buffer *vt.Buffer, be backend.Backend, opts Options) *Loop {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = pty.DefaultPollTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	l := &Loop{
		session:     session,
		buffer:      buffer,
		coord:       render.NewCoordinator(be),
		backend:     be,
		display:     opts.Display,
		pollTimeout: opts.PollTimeout,
		logger:      opts.Logger,
	}
	l.coord.SetCursorGlyph(opts.CursorGlyph)

	buffer.SetCallbacks(vt.Callbacks{
		Unsupported: func(c byte) {
			l.logger.Debug("unsupported control byte", "byte", fmt.Sprintf("%#02x", c))
		},
	})
	return l
}

// Buffer returns the screen buffer.
func (l *Loop) Buffer() *vt.Buffer {
	return l.buffer
}

// Run loops until the child exits, the backend asks to stop or ctx is
// done. Errors are I/O failures on the pty or an invalid resize.
func (l *Loop) Run(ctx context.Context) (Result, error) {
	if err := l.backend.Start(l.session.Wake); err != nil {
		return Result{}, fmt.Errorf("start backend: %w", err)
	}
	stop := context.AfterFunc(ctx, l.session.Wake)
	defer stop()

	l.coord.Full(l.buffer)
	events := l.backend.Events()

	for {
		// Input first so keystrokes reach the child in order.
		for pending := true; pending; {
			select {
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				res, done, err := l.handle(ctx, ev)
				if err != nil || done {
					return res, err
				}
			case d := <-l.display:
				l.applyDisplay(d)
			default:
				pending = false
			}
		}

		if err := ctx.Err(); err != nil {
			reason := "cancelled"
			if errors.Is(err, context.DeadlineExceeded) {
				reason = "timed out"
			}
			l.logger.Info("session stopped", "reason", reason)
			return Result{Reason: reason}, nil
		}

		if res, done, err := l.checkExit(); done {
			return res, err
		}

		ev, err := l.session.Wait(l.pollTimeout)
		if err != nil {
			return Result{}, err
		}
		if ev&(pty.Readable|pty.Hangup) != 0 {
			if _, err := l.session.Pump(); err != nil {
				if errors.Is(err, pty.ErrHangup) {
					return l.hangup()
				}
				return Result{}, err
			}
		}
		l.coord.Update(l.buffer)
	}
}

func (l *Loop) handle(ctx context.Context, ev backend.Event) (Result, bool, error) {
	l.logger.Debug("event", "event", ev)

	switch ev := ev.(type) {
	case backend.KeyEvent:
		if _, err := l.session.WriteContext(ctx, ev.Data); err != nil {
			// A child that is gone is picked up by the exit check, a done
			// ctx by the check after the event drain.
			if errors.Is(err, pty.ErrSessionClosed) || errors.Is(err, pty.ErrHangup) || ctx.Err() != nil {
				l.logger.Debug("key dropped", "err", err)
				break
			}
			return Result{}, false, err
		}
		l.coord.Update(l.buffer)

	case backend.ResizeEvent:
		if err := l.buffer.Resize(ev.Rows, ev.Cols); err != nil {
			return Result{}, false, fmt.Errorf("resize to %dx%d: %w", ev.Rows, ev.Cols, err)
		}
		ws := pty.Winsize{Rows: ev.Rows, Cols: ev.Cols, X: ev.PixelWidth, Y: ev.PixelHeight}
		if err := l.session.Resize(ws); err != nil {
			l.logger.Warn("pty resize failed", "err", err)
		}
		l.coord.Full(l.buffer)

	case backend.ExposeEvent:
		if ev.Region == nil {
			l.coord.Full(l.buffer)
		} else {
			l.coord.Region(l.buffer, *ev.Region)
		}

	case backend.DestroyEvent:
		l.logger.Info("session stopped", "reason", ev.Reason)
		return Result{Reason: ev.Reason}, true, nil
	}
	return Result{}, false, nil
}

// checkExit finishes the session once the child is gone, after applying
// whatever output it left behind.
func (l *Loop) checkExit() (Result, bool, error) {
	st, exited := l.session.Exited()
	if !exited {
		return Result{}, false, nil
	}
	if err := l.session.Drain(); err != nil {
		return Result{}, true, err
	}
	l.coord.Update(l.buffer)
	return Result{Reason: "child exited", Exited: true, Status: st}, true, nil
}

// hangup ends the session when the pty reports the slave side closed. The
// exit status is included when the watcher has already delivered it.
func (l *Loop) hangup() (Result, error) {
	l.coord.Update(l.buffer)
	res := Result{Reason: "hangup"}
	if st, exited := l.session.Exited(); exited {
		res.Exited, res.Status = true, st
	}
	l.logger.Info("pty hung up", "exited", res.Exited)
	return res, nil
}

func (l *Loop) applyDisplay(d config.DisplayConfig) {
	r := []rune(d.CursorGlyph)
	if len(r) != 1 {
		return
	}
	l.logger.Info("display settings changed", "cursor_glyph", d.CursorGlyph)
	l.coord.SetCursorGlyph(r[0])
	l.coord.Full(l.buffer)
}
