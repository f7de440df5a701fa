package backend

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/temu/internal/input"
	"github.com/Gaurav-Gosain/temu/internal/tape"
)

// Headless keeps the screen in memory. Input comes from a compiled script
// or from a raw reader, never both.
type Headless struct {
	logger *log.Logger
	q      *queue

	steps []tape.Step
	raw   *input.RawReader

	mu         sync.Mutex
	rows, cols int
	cells      [][]rune
	cursor     [2]int
	hasCursor  bool
	flushes    int
}

// NewHeadless returns an in-memory backend of the given size.
func NewHeadless(rows, cols int, logger *log.Logger) *Headless {
	if logger == nil {
		logger = log.Default()
	}
	h := &Headless{logger: logger, q: newQueue()}
	h.resize(rows, cols)
	return h
}

// Play feeds the steps as events once the backend starts.
func (h *Headless) Play(steps []tape.Step) *Headless {
	h.steps = steps
	return h
}

// Forward sends everything read by r as key events once the backend
// starts.
func (h *Headless) Forward(r *input.RawReader) *Headless {
	h.raw = r
	return h
}

// Start begins event delivery.
func (h *Headless) Start(notify func()) error {
	h.q.start(notify)
	switch {
	case h.steps != nil:
		h.q.produce(h.play)
	case h.raw != nil:
		if err := h.raw.Start(nil); err != nil {
			return err
		}
		h.q.produce(h.forward)
	}
	return nil
}

func (h *Headless) play() {
	for _, step := range h.steps {
		var ev Event
		switch step.Kind {
		case tape.StepInput:
			ev = KeyEvent{Data: step.Data}
		case tape.StepSleep:
			select {
			case <-time.After(step.Delay):
				continue
			case <-h.q.stopped():
				return
			}
		case tape.StepResize:
			h.mu.Lock()
			h.resize(step.Rows, step.Cols)
			h.mu.Unlock()
			ev = ResizeEvent{Rows: step.Rows, Cols: step.Cols}
		case tape.StepExpose:
			ev = ExposeEvent{}
		case tape.StepQuit:
			ev = DestroyEvent{Reason: "script finished"}
		}
		h.logger.Debug("script step", "line", step.Line, "kind", step.Kind)
		if !h.q.send(ev) {
			return
		}
	}
}

func (h *Headless) forward() {
	defer h.raw.Stop()
	for {
		select {
		case data, ok := <-h.raw.Input():
			if !ok {
				return
			}
			if !h.q.send(KeyEvent{Data: data}) {
				return
			}
		case <-h.q.stopped():
			return
		}
	}
}

// resize replaces the grid. Callers hold mu, except during construction.
func (h *Headless) resize(rows, cols int) {
	h.rows, h.cols = rows, cols
	h.cells = make([][]rune, rows)
	for y := range h.cells {
		h.cells[y] = make([]rune, cols)
	}
	h.hasCursor = false
}

func (h *Headless) Events() <-chan Event {
	return h.q.events
}

func (h *Headless) Size() (rows, cols int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rows, h.cols
}

func (h *Headless) set(ch rune, col, row int) bool {
	if row < 0 || row >= h.rows || col < 0 || col >= h.cols {
		return false
	}
	h.cells[row][col] = ch
	return true
}

func (h *Headless) DrawGlyph(ch rune, col, row int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.set(ch, col, row) && h.hasCursor && h.cursor == [2]int{col, row} {
		h.hasCursor = false
	}
}

func (h *Headless) DrawCursor(ch rune, col, row int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.set(ch, col, row) {
		h.cursor = [2]int{col, row}
		h.hasCursor = true
	}
}

func (h *Headless) ClearRegion(col1, col2, row1, row2 int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for y := row1; y <= row2; y++ {
		for x := col1; x <= col2; x++ {
			h.set(0, x, y)
		}
	}
	if h.hasCursor {
		x, y := h.cursor[0], h.cursor[1]
		if x >= col1 && x <= col2 && y >= row1 && y <= row2 {
			h.hasCursor = false
		}
	}
}

func (h *Headless) ClearAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, row := range h.cells {
		clear(row)
	}
	h.hasCursor = false
}

// Flush counts presentations; the grid is always current.
func (h *Headless) Flush() {
	h.mu.Lock()
	h.flushes++
	h.mu.Unlock()
}

// Flushes returns how many times the screen was presented.
func (h *Headless) Flushes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.flushes
}

// Cursor returns the cell carrying the cursor, if any.
func (h *Headless) Cursor() (col, row int, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor[0], h.cursor[1], h.hasCursor
}

// Lines returns the drawn screen, one string per row with trailing blanks
// removed.
func (h *Headless) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	lines := make([]string, h.rows)
	var sb strings.Builder
	for y, row := range h.cells {
		sb.Reset()
		for _, r := range row {
			sb.WriteRune(Glyph(r))
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

// Close stops event delivery and gives a raw-mode terminal back.
func (h *Headless) Close() error {
	h.q.shut()
	if h.raw != nil {
		return h.raw.Stop()
	}
	return nil
}
