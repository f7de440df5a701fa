//go:build !windows

package backend

import (
	"os"
	"syscall"
)

var watchedSignals = []os.Signal{syscall.SIGTERM, syscall.SIGHUP, syscall.SIGCONT}

// signalEvent maps a process signal to an event. SIGCONT means we were
// stopped and the terminal contents may be stale.
func signalEvent(sig os.Signal) (Event, bool) {
	switch sig {
	case syscall.SIGTERM, syscall.SIGHUP:
		return DestroyEvent{Reason: "received " + sig.String()}, true
	case syscall.SIGCONT:
		return ExposeEvent{}, true
	}
	return nil, false
}
