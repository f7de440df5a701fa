package pty_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/temu/internal/pty"
	"github.com/Gaurav-Gosain/temu/internal/pty/ptytest"
)

func newSession(t *testing.T, f *ptytest.Fake, sink io.Writer) *pty.Session {
	t.Helper()
	return pty.NewSession(f, sink, pty.Options{ReadBufferSize: 16, Logger: discardLogger()})
}

func TestWriteFullyAcceptedDoesNotDrain(t *testing.T) {
	f := ptytest.New()
	f.Feed([]byte("$ "))
	var sink bytes.Buffer
	s := newSession(t, f, &sink)

	n, err := s.Write([]byte("ls\n"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 3 {
		t.Errorf("wrote %d bytes, want 3", n)
	}
	if got := string(f.Written()); got != "ls\n" {
		t.Errorf("peer received %q", got)
	}
	if sink.Len() != 0 {
		t.Errorf("sink received %q, want no drain", sink.String())
	}
	if got := string(f.Pending()); got != "$ " {
		t.Errorf("pending output = %q, want untouched", got)
	}
}

func TestWriteDrainsEchoingPeer(t *testing.T) {
	f := ptytest.New()
	f.Echo = true
	f.Window = 4
	var sink bytes.Buffer
	s := newSession(t, f, &sink)

	payload := []byte(strings.Repeat("0123456789", 10))
	n, err := s.Write(payload)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("wrote %d bytes, want %d", n, len(payload))
	}
	if !bytes.Equal(f.Written(), payload) {
		t.Errorf("peer received bytes out of order")
	}

	// Everything drained plus whatever is still pending must equal the
	// echoed stream.
	got := append(sink.Bytes(), f.Pending()...)
	if !bytes.Equal(got, payload) {
		t.Errorf("echo stream mismatch: %q", got)
	}
	if sink.Len() == 0 {
		t.Error("expected output to be drained while the channel was full")
	}
}

func TestWritePartialAcceptanceKeepsOrder(t *testing.T) {
	f := ptytest.New()
	f.LimitWrites(1, 2, 1)
	s := newSession(t, f, io.Discard)

	if _, err := s.Write([]byte("abcdefg")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := string(f.Written()); got != "abcdefg" {
		t.Errorf("peer received %q", got)
	}
}

func TestWriteAfterHangup(t *testing.T) {
	f := ptytest.New()
	f.HangUp()
	s := newSession(t, f, io.Discard)

	_, err := s.Write([]byte("x"))
	if !errors.Is(err, pty.ErrHangup) {
		t.Fatalf("expected ErrHangup, got %v", err)
	}
}

func TestPump(t *testing.T) {
	f := ptytest.New()
	f.Feed([]byte("hello, world and more"))
	var sink bytes.Buffer
	s := newSession(t, f, &sink)

	n, err := s.Pump()
	if err != nil {
		t.Fatalf("Pump: %v", err)
	}
	if n != 16 || sink.String() != "hello, world and" {
		t.Errorf("Pump moved %d bytes %q, want one buffer", n, sink.String())
	}

	if err := s.Drain(); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if sink.String() != "hello, world and more" {
		t.Errorf("sink = %q after drain", sink.String())
	}

	n, err = s.Pump()
	if err != nil || n != 0 {
		t.Errorf("Pump on empty channel = %d, %v", n, err)
	}
}

func TestPumpErrors(t *testing.T) {
	t.Run("hangup", func(t *testing.T) {
		f := ptytest.New()
		f.HangUp()
		s := newSession(t, f, io.Discard)
		if _, err := s.Pump(); !errors.Is(err, pty.ErrHangup) {
			t.Fatalf("expected ErrHangup, got %v", err)
		}
		if err := s.Drain(); err != nil {
			t.Errorf("Drain should treat hang-up as end of output, got %v", err)
		}
	})

	t.Run("read failure is wrapped", func(t *testing.T) {
		f := ptytest.New()
		boom := errors.New("boom")
		f.FailReads(boom)
		s := newSession(t, f, io.Discard)
		_, err := s.Pump()
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped read error, got %v", err)
		}
	})
}

func TestExitedStates(t *testing.T) {
	tests := []struct {
		name   string
		status pty.ExitStatus
		want   pty.State
	}{
		{"normal", pty.ExitStatus{Code: 3}, pty.ExitedNormally},
		{"signal", pty.ExitStatus{Signaled: true, Signal: syscall.SIGKILL}, pty.ExitedBySignal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ptytest.New()
			s := newSession(t, f, io.Discard)

			if _, exited := s.Exited(); exited {
				t.Fatal("session reported exit before the child ended")
			}
			f.Exit(tt.status)

			ev, err := s.Wait(0)
			if err != nil || ev&pty.Woken == 0 {
				t.Errorf("Wait after exit = %v, %v; want Woken", ev, err)
			}
			st, exited := s.Exited()
			if !exited || st != tt.status {
				t.Fatalf("Exited = %+v, %v", st, exited)
			}
			if s.State() != tt.want {
				t.Errorf("State = %v, want %v", s.State(), tt.want)
			}

			// The status is remembered after the channel was consumed.
			if st, exited := s.Exited(); !exited || st != tt.status {
				t.Errorf("second Exited = %+v, %v", st, exited)
			}
		})
	}
}

func TestResizeForwardsWinsize(t *testing.T) {
	f := ptytest.New()
	s := newSession(t, f, io.Discard)

	ws := pty.Winsize{Rows: 30, Cols: 100, X: 800, Y: 600}
	if err := s.Resize(ws); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if sizes := f.Sizes(); len(sizes) != 1 || sizes[0] != ws {
		t.Errorf("transport sizes = %+v", sizes)
	}
}

func TestClosedSession(t *testing.T) {
	f := ptytest.New()
	s := newSession(t, f, io.Discard)

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed() {
		t.Error("transport not closed")
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := s.Write([]byte("x")); !errors.Is(err, pty.ErrSessionClosed) {
		t.Errorf("Write after close = %v", err)
	}
	if _, err := s.Pump(); !errors.Is(err, pty.ErrSessionClosed) {
		t.Errorf("Pump after close = %v", err)
	}
}

func TestWriteContextStopsOnStalledChild(t *testing.T) {
	f := ptytest.New()
	f.BlockWrites()
	s := newSession(t, f, &bytes.Buffer{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	n, err := s.WriteContext(ctx, []byte("stuck"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
	if n != 0 || len(f.Written()) != 0 {
		t.Errorf("wrote %d bytes (%q) to a stalled child", n, f.Written())
	}
}
