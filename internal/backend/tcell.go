package backend

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/Gaurav-Gosain/temu/internal/input"
)

// Tcell draws on the controlling terminal through a tcell screen.
type Tcell struct {
	screen tcell.Screen
	logger *log.Logger
	q      *queue

	mu     sync.Mutex
	style  tcell.Style
	cursor tcell.Style
	closed bool
}

// NewTcell initialises screen and takes over the terminal. A nil screen
// opens the default one.
func NewTcell(screen tcell.Screen, logger *log.Logger) (*Tcell, error) {
	if logger == nil {
		logger = log.Default()
	}
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, fmt.Errorf("open screen: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	return &Tcell{
		screen: screen,
		logger: logger,
		q:      newQueue(),
		style:  tcell.StyleDefault,
		cursor: tcell.StyleDefault.Reverse(true),
	}, nil
}

// Start begins polling the screen for events.
func (t *Tcell) Start(notify func()) error {
	t.q.start(notify)
	t.q.produce(t.poll)
	return nil
}

func (t *Tcell) poll() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		out, ok := translate(ev)
		if !ok {
			continue
		}
		t.logger.Debug("backend event", "event", out)
		if !t.q.send(out) {
			return
		}
	}
}

func translate(ev tcell.Event) (Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		data := KeyBytes(ev)
		if len(data) == 0 {
			return nil, false
		}
		return KeyEvent{Data: data}, true
	case *tcell.EventResize:
		return resizeEvent(ev), true
	case *tcell.EventError:
		return DestroyEvent{Reason: ev.Error()}, true
	}
	return nil, false
}

// windowSize is the geometry part of *tcell.EventResize.
type windowSize interface {
	Size() (cols, rows int)
	PixelSize() (width, height int)
}

func resizeEvent(ws windowSize) ResizeEvent {
	cols, rows := ws.Size()
	pw, ph := ws.PixelSize()
	return ResizeEvent{Rows: rows, Cols: cols, PixelWidth: pw, PixelHeight: ph}
}

var tcellKeys = map[tcell.Key]input.Key{
	tcell.KeyUp:     input.KeyUp,
	tcell.KeyDown:   input.KeyDown,
	tcell.KeyRight:  input.KeyRight,
	tcell.KeyLeft:   input.KeyLeft,
	tcell.KeyHome:   input.KeyHome,
	tcell.KeyEnd:    input.KeyEnd,
	tcell.KeyDelete: input.KeyDelete,
}

// KeyBytes returns what the shell should receive for a tcell key event,
// or nil for keys that have no encoding.
func KeyBytes(ev *tcell.EventKey) []byte {
	var data []byte
	k, mods := ev.Key(), ev.Modifiers()
	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		if mods&tcell.ModCtrl != 0 {
			if c, ok := input.Ctrl(r); ok {
				data = []byte{c}
				break
			}
		}
		data = []byte(string(r))
	case k <= tcell.KeyDEL:
		// Control keys are their own ASCII codes.
		data = []byte{byte(k)}
	default:
		key, ok := tcellKeys[k]
		if !ok {
			return nil
		}
		data = key.Bytes()
	}
	if mods&tcell.ModAlt != 0 {
		data = input.Alt(data)
	}
	return data
}

// Events returns the event queue.
func (t *Tcell) Events() <-chan Event {
	return t.q.events
}

// Size returns the screen size in cells.
func (t *Tcell) Size() (rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	return h, w
}

func (t *Tcell) DrawGlyph(ch rune, col, row int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(col, row, Glyph(ch), nil, t.style)
}

func (t *Tcell) DrawCursor(ch rune, col, row int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(col, row, Glyph(ch), nil, t.cursor)
}

func (t *Tcell) ClearRegion(col1, col2, row1, row2 int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for y := row1; y <= row2; y++ {
		for x := col1; x <= col2; x++ {
			t.screen.SetContent(x, y, ' ', nil, t.style)
		}
	}
}

func (t *Tcell) ClearAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// Flush presents everything drawn since the last flush.
func (t *Tcell) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// Close restores the terminal. The event channel is closed once the poll
// goroutine has returned.
func (t *Tcell) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.q.shut()
	t.screen.Fini()
	return nil
}
