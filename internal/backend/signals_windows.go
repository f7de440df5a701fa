//go:build windows

package backend

import (
	"os"
	"syscall"
)

var watchedSignals = []os.Signal{syscall.SIGTERM}

func signalEvent(sig os.Signal) (Event, bool) {
	if sig == syscall.SIGTERM {
		return DestroyEvent{Reason: "received " + sig.String()}, true
	}
	return nil, false
}
