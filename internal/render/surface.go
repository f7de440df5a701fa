// Package render keeps a drawing surface in step with a screen buffer.
package render

// Surface is the drawing contract a presentation backend implements.
// Coordinates are zero-based cell positions; ranges are inclusive.
type Surface interface {
	// DrawGlyph draws ch at the cell, replacing any cursor glyph there.
	DrawGlyph(ch rune, col, row int)
	// ClearRegion blanks the cells in the rectangle.
	ClearRegion(col1, col2, row1, row2 int)
	// ClearAll blanks the whole surface.
	ClearAll()
	// DrawCursor draws ch with the cursor highlight.
	DrawCursor(ch rune, col, row int)
}

// Flusher is implemented by surfaces that buffer drawing until presented.
type Flusher interface {
	Flush()
}
