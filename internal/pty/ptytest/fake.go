// Package ptytest provides an in-memory pty.Transport for tests.
package ptytest

import (
	"sync"
	"time"

	"github.com/Gaurav-Gosain/temu/internal/pty"
)

// Fake is a scripted transport. Bytes given to Feed become readable output;
// bytes accepted by Write are recorded and, with Echo set, fed back as
// output the way a terminal in cooked mode does.
//
// When Window is positive the fake models a peer that stops consuming input
// while its own output is unread: Write only accepts bytes while fewer than
// Window output bytes are pending.
type Fake struct {
	Echo   bool
	Window int

	mu       sync.Mutex
	inbound  []byte
	written  []byte
	sizes    []pty.Winsize
	woken    bool
	hangup   bool
	blocked  bool
	closed   bool
	readErr  error
	waits    int
	pumps    int
	exited   chan pty.ExitStatus
	pid      int
	writeCap []int
}

// New returns a fake transport with no pending output.
func New() *Fake {
	return &Fake{
		exited: make(chan pty.ExitStatus, 1),
		pid:    4242,
	}
}

var _ pty.Transport = (*Fake)(nil)

// Feed queues bytes as child output.
func (f *Fake) Feed(p []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inbound = append(f.inbound, p...)
}

// LimitWrites makes successive Write calls accept at most the given
// number of bytes each.
func (f *Fake) LimitWrites(caps ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCap = append(f.writeCap, caps...)
}

// Exit reports status as the child's termination and wakes waiters.
func (f *Fake) Exit(status pty.ExitStatus) {
	f.exited <- status
	f.Wake()
}

// BlockWrites models a stopped child whose input queue is full: the
// transport never reports writable.
func (f *Fake) BlockWrites() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocked = true
}

// HangUp makes further reads and writes fail with pty.ErrHangup.
func (f *Fake) HangUp() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hangup = true
}

// FailReads makes the next Read return err.
func (f *Fake) FailReads(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr = err
}

// Written returns every byte accepted by Write.
func (f *Fake) Written() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.written...)
}

// Pending returns output not yet read.
func (f *Fake) Pending() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.inbound...)
}

// Sizes returns every window size passed to Resize.
func (f *Fake) Sizes() []pty.Winsize {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pty.Winsize(nil), f.sizes...)
}

// Reads returns how many Read calls returned data.
func (f *Fake) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pumps
}

// Waits returns the number of Wait calls.
func (f *Fake) Waits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waits
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) writable() bool {
	if f.blocked {
		return false
	}
	return f.Window <= 0 || len(f.inbound) < f.Window
}

// Wait reports the conditions that hold right now. It never sleeps, so a
// timeout shows up as an immediate zero result.
func (f *Fake) Wait(want pty.Events, _ time.Duration) (pty.Events, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waits++
	if f.closed {
		return 0, pty.ErrSessionClosed
	}

	var got pty.Events
	if want&pty.Readable != 0 && len(f.inbound) > 0 {
		got |= pty.Readable
	}
	if want&pty.Writable != 0 && f.writable() && !f.hangup {
		got |= pty.Writable
	}
	if f.hangup {
		got |= pty.Hangup
	}
	if f.woken {
		f.woken = false
		got |= pty.Woken
	}
	return got, nil
}

func (f *Fake) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.readErr; err != nil {
		f.readErr = nil
		return 0, err
	}
	if len(f.inbound) == 0 {
		if f.hangup {
			return 0, pty.ErrHangup
		}
		return 0, nil
	}
	n := copy(p, f.inbound)
	f.inbound = f.inbound[n:]
	f.pumps++
	return n, nil
}

func (f *Fake) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hangup {
		return 0, pty.ErrHangup
	}

	n := len(p)
	if f.Window > 0 {
		n = min(n, max(f.Window-len(f.inbound), 0))
	}
	if len(f.writeCap) > 0 {
		n = min(n, f.writeCap[0])
		f.writeCap = f.writeCap[1:]
	}
	f.written = append(f.written, p[:n]...)
	if f.Echo {
		f.inbound = append(f.inbound, p[:n]...)
	}
	return n, nil
}

func (f *Fake) Resize(ws pty.Winsize) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sizes = append(f.sizes, ws)
	return nil
}

func (f *Fake) Wake() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.woken = true
}

func (f *Fake) Exited() <-chan pty.ExitStatus {
	return f.exited
}

func (f *Fake) Pid() int {
	return f.pid
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
