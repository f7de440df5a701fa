package vt

import "fmt"

// Resize changes the grid to rows by cols.
//
// If the cursor row no longer fits, rows are discarded from the top until
// it sits on the last row. Rows are then dropped or appended at the bottom
// and every row is truncated or zero-extended. When the cursor column no
// longer fits, the part of the cursor row cut off by the new width is
// reflowed onto the following rows and the cursor follows it.
//
// The new grid is built aside and committed at once; on error the buffer is
// unchanged.
func (b *Buffer) Resize(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}
	if rows == b.rows && cols == b.cols {
		return nil
	}

	grid, alt := b.grid, b.alt
	x, y := b.x, b.y

	if y >= rows {
		shift := y - rows + 1
		grid = grid[shift:]
		alt = alt[shift:]
		y = rows - 1
	}

	grid = fitRows(grid, rows, b.cols)
	alt = fitRows(alt, rows, b.cols)

	var overflow []Cell
	if x >= cols {
		overflow = append([]Cell(nil), grid[y][cols:]...)
	}

	grid = fitCols(grid, cols)
	alt = fitCols(alt, cols)

	if overflow != nil {
		x, y = reflow(grid, overflow, x, y)
	}

	b.grid, b.alt = grid, alt
	b.rows, b.cols = rows, cols
	b.x, b.y = x, y
	b.tabs = b.tabs.resize(cols)
	b.dmg.markFull()
	return nil
}

// fitRows returns a new row list of length rows, sharing existing rows and
// appending blank rows of the given width.
func fitRows(src [][]Cell, rows, width int) [][]Cell {
	out := make([][]Cell, rows)
	n := copy(out, src)
	for i := n; i < rows; i++ {
		out[i] = make([]Cell, width)
	}
	return out
}

// fitCols replaces every row with a copy of exactly cols cells.
func fitCols(g [][]Cell, cols int) [][]Cell {
	for i, row := range g {
		nr := make([]Cell, cols)
		copy(nr, row)
		g[i] = nr
	}
	return g
}

// reflow moves overflow, the cells cut from the cursor row, onto new rows
// below it in chunks of the grid width until the cursor column fits. A new
// row is inserted under the current one, pushing the last row out; on the
// last row the grid scrolls up instead. It returns the new cursor.
func reflow(grid [][]Cell, overflow []Cell, x, y int) (int, int) {
	rows := len(grid)
	cols := len(grid[0])
	for k := 1; k <= x/cols; k++ {
		row := make([]Cell, cols)
		if start := (k - 1) * cols; start < len(overflow) {
			copy(row, overflow[start:min(start+cols, len(overflow))])
		}
		if y < rows-1 {
			copy(grid[y+2:], grid[y+1:rows-1])
			grid[y+1] = row
			y++
		} else {
			copy(grid, grid[1:])
			grid[rows-1] = row
		}
	}
	return x % cols, y
}
