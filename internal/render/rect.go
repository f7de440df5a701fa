package render

// Rect is a block of cells. All bounds are inclusive.
type Rect struct {
	Col1, Col2 int
	Row1, Row2 int
}

// NewRect returns a rectangle with its corners put in order.
func NewRect(col1, col2, row1, row2 int) Rect {
	if col2 < col1 {
		col1, col2 = col2, col1
	}
	if row2 < row1 {
		row1, row2 = row2, row1
	}
	return Rect{Col1: col1, Col2: col2, Row1: row1, Row2: row2}
}

// Contains reports whether the cell lies inside r.
func (r Rect) Contains(col, row int) bool {
	return col >= r.Col1 && col <= r.Col2 && row >= r.Row1 && row <= r.Row2
}

// Clip limits r to a grid of the given size. The result is false when
// nothing is left.
func (r Rect) Clip(rows, cols int) (Rect, bool) {
	r.Col1 = max(r.Col1, 0)
	r.Row1 = max(r.Row1, 0)
	r.Col2 = min(r.Col2, cols-1)
	r.Row2 = min(r.Row2, rows-1)
	if r.Col1 > r.Col2 || r.Row1 > r.Row2 {
		return Rect{}, false
	}
	return r, true
}
