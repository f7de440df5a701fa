// Package backend presents the screen and produces user events. Two
// implementations exist: a tcell window on the controlling terminal and a
// headless grid driven by a script or by raw stdin.
package backend

import (
	"fmt"

	"github.com/Gaurav-Gosain/temu/internal/render"
)

// Event is one of KeyEvent, ResizeEvent, ExposeEvent or DestroyEvent.
type Event interface {
	event()
}

// KeyEvent carries the bytes a key press sends to the shell.
type KeyEvent struct {
	Data []byte
}

// ResizeEvent reports a new window size in cells. Pixel sizes are zero
// when the backend cannot tell.
type ResizeEvent struct {
	Rows, Cols              int
	PixelWidth, PixelHeight int
}

// ExposeEvent asks for a repaint. A nil Region means the whole screen.
type ExposeEvent struct {
	Region *render.Rect
}

// DestroyEvent ends the session.
type DestroyEvent struct {
	Reason string
}

func (KeyEvent) event()     {}
func (ResizeEvent) event()  {}
func (ExposeEvent) event()  {}
func (DestroyEvent) event() {}

func (e KeyEvent) String() string    { return fmt.Sprintf("key %q", e.Data) }
func (e ResizeEvent) String() string { return fmt.Sprintf("resize %dx%d", e.Rows, e.Cols) }
func (e DestroyEvent) String() string {
	return "destroy: " + e.Reason
}

func (e ExposeEvent) String() string {
	if e.Region == nil {
		return "expose"
	}
	r := e.Region
	return fmt.Sprintf("expose cols %d-%d rows %d-%d", r.Col1, r.Col2, r.Row1, r.Row2)
}

// Backend is a drawing surface plus a source of events.
type Backend interface {
	render.Surface
	render.Flusher

	// Start begins event delivery. notify is called after each event is
	// queued so a loop blocked elsewhere can wake up.
	Start(notify func()) error
	// Events returns the event queue. It is closed when the backend stops
	// producing events.
	Events() <-chan Event
	// Size returns the current window size in cells.
	Size() (rows, cols int)
	Close() error
}

// eventQueueSize bounds the events waiting for the loop. Producers block
// when it is full, so key presses are never dropped.
const eventQueueSize = 256
