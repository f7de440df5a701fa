//go:build !windows

package backend

import (
	"syscall"
	"testing"
)

func TestSignalEvent(t *testing.T) {
	tests := []struct {
		sig  syscall.Signal
		want Event
	}{
		{syscall.SIGTERM, DestroyEvent{Reason: "received terminated"}},
		{syscall.SIGHUP, DestroyEvent{Reason: "received hangup"}},
		{syscall.SIGCONT, ExposeEvent{}},
	}

	for _, tt := range tests {
		t.Run(tt.sig.String(), func(t *testing.T) {
			got, ok := signalEvent(tt.sig)
			if !ok || got != tt.want {
				t.Errorf("signalEvent(%v) = %v, %v; want %v", tt.sig, got, ok, tt.want)
			}
		})
	}

	if _, ok := signalEvent(syscall.SIGUSR1); ok {
		t.Error("SIGUSR1 should not map to an event")
	}
}
