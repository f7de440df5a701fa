package vt

import (
	"fmt"
	"strings"
)

// Callbacks lets the owner of a Buffer observe bytes it does not act on.
type Callbacks struct {
	// Unsupported is called for every control byte that has no action,
	// including ESC.
	Unsupported func(c byte)
}

// Buffer is the character grid and cursor of one terminal session.
//
// After every exported method returns, the cursor lies inside the grid and
// both the primary and alternate grids are exactly rows by cols.
type Buffer struct {
	rows, cols int

	// Cursor position.
	x, y int

	grid [][]Cell

	// alt is kept the same shape as grid but is never the active screen.
	alt [][]Cell

	tabs tabStops

	// Bytes of a partially received UTF-8 sequence.
	pending []byte

	dmg damage
	cb  Callbacks
}

// NewBuffer returns a blank buffer with the cursor at the origin.
func NewBuffer(rows, cols int) (*Buffer, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}
	b := &Buffer{
		rows: rows,
		cols: cols,
		grid: blankGrid(rows, cols),
		alt:  blankGrid(rows, cols),
		tabs: tabStops(nil).resize(cols),
	}
	b.dmg.markFull()
	return b, nil
}

// SetCallbacks replaces the buffer's callbacks.
func (b *Buffer) SetCallbacks(cb Callbacks) {
	b.cb = cb
}

// Rows returns the number of rows.
func (b *Buffer) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Buffer) Cols() int { return b.cols }

// Cursor returns the cursor column and row.
func (b *Buffer) Cursor() (x, y int) {
	return b.x, b.y
}

// Cell returns the cell at column x, row y. Out of range positions yield an
// empty cell.
func (b *Buffer) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.cols || y >= b.rows {
		return Cell{}
	}
	return b.grid[y][x]
}

// TabStop reports whether column x carries a tab stop.
func (b *Buffer) TabStop(x int) bool {
	if x < 0 || x >= len(b.tabs) {
		return false
	}
	return b.tabs[x]
}

// AltSize returns the dimensions of the reserved alternate grid.
func (b *Buffer) AltSize() (rows, cols int) {
	rows = len(b.alt)
	if rows > 0 {
		cols = len(b.alt[0])
	}
	return rows, cols
}

// Line returns row y as text with trailing empty cells removed.
func (b *Buffer) Line(y int) string {
	if y < 0 || y >= b.rows {
		return ""
	}
	row := b.grid[y]
	end := len(row)
	for end > 0 && row[end-1].Empty() {
		end--
	}
	var sb strings.Builder
	for _, c := range row[:end] {
		sb.WriteRune(c.Display())
	}
	return sb.String()
}

// String returns every row joined by newlines.
func (b *Buffer) String() string {
	lines := make([]string, b.rows)
	for y := range lines {
		lines[y] = b.Line(y)
	}
	return strings.Join(lines, "\n")
}

// TakeDamage returns the cells changed since the last call and resets the
// record.
func (b *Buffer) TakeDamage() Damage {
	return b.dmg.take()
}

// Invalidate forces the next TakeDamage to report a full redraw.
func (b *Buffer) Invalidate() {
	b.dmg.markFull()
}

func (b *Buffer) setCell(x, y int, c Cell) {
	b.grid[y][x] = c
	b.dmg.mark(x, y)
}

func blankGrid(rows, cols int) [][]Cell {
	g := make([][]Cell, rows)
	for i := range g {
		g[i] = make([]Cell, cols)
	}
	return g
}
