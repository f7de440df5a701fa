package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// RawReader forwards bytes read from a source, normally stdin, as key
// input. When the source is a terminal it is switched to raw mode so every
// key arrives unprocessed; Stop restores it.
//
// End of input is delivered as a single Ctrl+D so the shell sees the same
// end-of-file it would get from a keyboard, then the channel is closed.
type RawReader struct {
	src io.Reader

	// Set when src is a terminal we put into raw mode.
	fd            int
	originalState *term.State

	inputChan chan []byte
	running   bool
	mu        sync.Mutex
}

// NewRawReader returns a reader for src.
func NewRawReader(src io.Reader) *RawReader {
	return &RawReader{
		src:       src,
		fd:        -1,
		inputChan: make(chan []byte, 100),
	}
}

// Start puts a terminal source into raw mode and begins reading. notify is
// called after every chunk is queued.
func (r *RawReader) Start(notify func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return errors.New("raw reader already running")
	}

	if f, ok := r.src.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to set raw mode: %w", err)
		}
		r.fd = fd
		r.originalState = state
	}

	r.running = true
	go r.readLoop(notify)
	return nil
}

// Input returns the channel of raw chunks. It is closed after end of input.
func (r *RawReader) Input() <-chan []byte {
	return r.inputChan
}

// Stop restores the terminal mode. A read already in progress is left to
// finish on its own.
func (r *RawReader) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return nil
	}
	r.running = false

	if r.originalState != nil {
		if err := term.Restore(r.fd, r.originalState); err != nil {
			return fmt.Errorf("failed to restore terminal: %w", err)
		}
		r.originalState = nil
	}
	return nil
}

func (r *RawReader) readLoop(notify func()) {
	defer close(r.inputChan)

	buf := make([]byte, 1024)
	for {
		n, err := r.src.Read(buf)
		if n > 0 {
			r.inputChan <- append([]byte(nil), buf[:n]...)
			if notify != nil {
				notify()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.inputChan <- []byte{ansi.EOT}
				if notify != nil {
					notify()
				}
			}
			return
		}
	}
}
