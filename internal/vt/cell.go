package vt

// Cell is a single grid position. The zero value is a cell that has never
// been written.
type Cell struct {
	Rune rune
}

// Blank is the glyph used to fill cells skipped by a horizontal tab.
var Blank = Cell{Rune: ' '}

// Empty reports whether the cell has never been written or was erased.
func (c Cell) Empty() bool {
	return c.Rune == 0
}

// Display returns the rune to draw for the cell, a space for empty cells.
func (c Cell) Display() rune {
	if c.Rune == 0 {
		return ' '
	}
	return c.Rune
}

// Position is a column/row pair on the grid.
type Position struct {
	X, Y int
}
