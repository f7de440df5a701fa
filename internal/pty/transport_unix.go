//go:build !windows

package pty

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/x/xpty"
	"golang.org/x/sys/unix"
)

// killDelay is how long Close waits for the child to react to the hang-up
// before killing it.
const killDelay = 500 * time.Millisecond

type unixTransport struct {
	pty *xpty.UnixPty
	cmd *exec.Cmd

	// Master side descriptor, switched to non-blocking mode.
	fd int

	// Self-pipe used to interrupt Wait.
	wakeR, wakeW int

	exited chan ExitStatus
	done   chan struct{}
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func openTransport(argv []string, env []string, rows, cols int) (Transport, error) {
	p, err := xpty.NewUnixPty(cols, rows)
	if err != nil {
		return nil, fmt.Errorf("allocate pty: %w", err)
	}

	// #nosec G204 - the command is chosen by the user
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = env
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
		Ctty:    0,
	}
	if err := p.Start(cmd); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("start command: %w", err)
	}

	// Fd puts the descriptor into blocking mode, so take it once and flip
	// it back.
	fd := int(p.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = cmd.Process.Kill()
		_ = p.Close()
		return nil, fmt.Errorf("set non-blocking: %w", err)
	}

	var pipe [2]int
	if err := unix.Pipe(pipe[:]); err != nil {
		_ = cmd.Process.Kill()
		_ = p.Close()
		return nil, fmt.Errorf("wake pipe: %w", err)
	}
	for _, pfd := range pipe {
		unix.CloseOnExec(pfd)
		_ = unix.SetNonblock(pfd, true)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &unixTransport{
		pty:    p,
		cmd:    cmd,
		fd:     fd,
		wakeR:  pipe[0],
		wakeW:  pipe[1],
		exited: make(chan ExitStatus, 1),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go t.watch(ctx)
	return t, nil
}

// watch reaps the child and reports its status through the exit channel
// and the wake pipe.
func (t *unixTransport) watch(ctx context.Context) {
	err := xpty.WaitProcess(ctx, t.cmd)
	t.exited <- exitStatus(t.cmd.ProcessState, err)
	close(t.done)
	t.Wake()
}

func exitStatus(ps *os.ProcessState, err error) ExitStatus {
	if ps == nil {
		return ExitStatus{Code: -1}
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitStatus{Signaled: true, Signal: ws.Signal()}
	}
	return ExitStatus{Code: ps.ExitCode()}
}

func (t *unixTransport) Wait(want Events, timeout time.Duration) (Events, error) {
	var events int16
	if want&Readable != 0 {
		events |= unix.POLLIN
	}
	if want&Writable != 0 {
		events |= unix.POLLOUT
	}
	fds := []unix.PollFd{
		{Fd: int32(t.fd), Events: events},
		{Fd: int32(t.wakeR), Events: unix.POLLIN},
	}

	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}
	for {
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("poll: %w", err)
		}
		if n == 0 {
			return 0, nil
		}
		break
	}

	var got Events
	re := fds[0].Revents
	if re&unix.POLLNVAL != 0 {
		return 0, ErrSessionClosed
	}
	if re&unix.POLLIN != 0 {
		got |= Readable
	}
	if re&unix.POLLOUT != 0 {
		got |= Writable
	}
	if re&(unix.POLLHUP|unix.POLLERR) != 0 {
		got |= Hangup
	}
	if fds[1].Revents&unix.POLLIN != 0 {
		t.drainWake()
		got |= Woken
	}
	return got, nil
}

func (t *unixTransport) drainWake() {
	var buf [64]byte
	for {
		n, err := unix.Read(t.wakeR, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

func (t *unixTransport) Read(p []byte) (int, error) {
	n, err := unix.Read(t.fd, p)
	switch {
	case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
		return 0, nil
	case errors.Is(err, unix.EIO):
		return 0, ErrHangup
	case err != nil:
		return 0, err
	case n == 0 && len(p) > 0:
		return 0, ErrHangup
	}
	return n, nil
}

func (t *unixTransport) Write(p []byte) (int, error) {
	n, err := unix.Write(t.fd, p)
	switch {
	case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
		return max(n, 0), nil
	case errors.Is(err, unix.EIO):
		return 0, ErrHangup
	case err != nil:
		return 0, err
	}
	return n, nil
}

func (t *unixTransport) Resize(ws Winsize) error {
	return t.pty.SetWinsize(ws.Cols, ws.Rows, ws.X, ws.Y)
}

func (t *unixTransport) Wake() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	// A full pipe already guarantees a wake-up.
	_, _ = unix.Write(t.wakeW, []byte{0})
}

func (t *unixTransport) Exited() <-chan ExitStatus {
	return t.exited
}

func (t *unixTransport) Pid() int {
	if t.cmd.Process == nil {
		return 0
	}
	return t.cmd.Process.Pid
}

// Close hangs up the terminal, gives the child a moment to exit and kills
// it otherwise.
func (t *unixTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	err := t.pty.Close()

	select {
	case <-t.done:
	case <-time.After(killDelay):
		_ = t.cmd.Process.Kill()
		<-t.done
	}
	t.cancel()

	_ = unix.Close(t.wakeR)
	_ = unix.Close(t.wakeW)
	return err
}
