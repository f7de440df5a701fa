package vt

// Erase modes for EraseInLine.
const (
	EraseToEnd   = 0
	EraseToStart = 1
	EraseLine    = 2
)

// InsertChar writes c at the cursor and advances it, wrapping to the next
// row when the right edge is reached.
func (b *Buffer) InsertChar(c rune) {
	b.setCell(b.x, b.y, Cell{Rune: c})
	b.x++
	if b.x == b.cols {
		b.Newline()
	}
}

// DeleteChar erases the cell before the cursor and moves onto it. At column
// zero it wraps to the last column of the previous row; at the origin it
// does nothing.
func (b *Buffer) DeleteChar() {
	switch {
	case b.x > 0:
		b.x--
	case b.y > 0:
		b.y--
		b.x = b.cols - 1
	default:
		return
	}
	b.setCell(b.x, b.y, Cell{})
}

// EraseInLine clears part of the cursor row. Unknown modes are ignored.
func (b *Buffer) EraseInLine(mode int) {
	var from, to int
	switch mode {
	case EraseToEnd:
		from, to = b.x, b.cols-1
	case EraseToStart:
		from, to = 0, b.x
	case EraseLine:
		from, to = 0, b.cols-1
	default:
		return
	}
	for x := from; x <= to; x++ {
		b.setCell(x, b.y, Cell{})
	}
}

// Newline moves to column zero of the next row, scrolling at the bottom.
func (b *Buffer) Newline() {
	b.x = 0
	b.Linefeed()
}

// Linefeed moves to the next row without changing the column, scrolling at
// the bottom.
func (b *Buffer) Linefeed() {
	if b.y == b.rows-1 {
		b.ScrollDown(1)
	}
	b.y = min(b.y+1, b.rows-1)
}

// CarriageReturn moves the cursor to column zero.
func (b *Buffer) CarriageReturn() {
	b.x = 0
}

// Backspace moves the cursor left one column. It does not wrap.
func (b *Buffer) Backspace() {
	if b.x > 0 {
		b.x--
	}
}

// HorizontalTab advances to the next tab stop on the row, filling empty
// cells it passes over with blanks. With no stop left on the row the cursor
// moves to the start of the next row.
func (b *Buffer) HorizontalTab() {
	next := b.tabs.next(b.x)
	end := next
	if next < 0 {
		end = b.cols
	}
	for x := b.x; x < end; x++ {
		if b.grid[b.y][x].Empty() {
			b.setCell(x, b.y, Blank)
		}
	}
	if next < 0 {
		b.Newline()
		return
	}
	b.x = next
}

// MoveTo places the cursor at (x, y), clamping each coordinate to the grid.
func (b *Buffer) MoveTo(x, y int) {
	b.x = clamp(x, 0, b.cols-1)
	b.y = clamp(y, 0, b.rows-1)
}

// ScrollDown discards the top n rows, shifts the rest up and appends blank
// rows. The cursor row follows the content and stops at zero.
func (b *Buffer) ScrollDown(n int) {
	if n <= 0 {
		return
	}
	shift := min(n, b.rows)
	copy(b.grid, b.grid[shift:])
	for i := b.rows - shift; i < b.rows; i++ {
		b.grid[i] = make([]Cell, b.cols)
	}
	b.y = max(b.y-shift, 0)
	b.dmg.markFull()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
