package render

import (
	"github.com/Gaurav-Gosain/temu/internal/vt"
)

// DefaultCursorGlyph is drawn at the cursor when the cell under it is
// empty.
const DefaultCursorGlyph = ' '

// Coordinator decides what to draw after the buffer changes.
//
// It keeps exactly one cursor glyph on the surface: whenever the cursor
// moves, the cell it leaves is redrawn as a plain glyph before the cursor
// is drawn at its new position, and both happen before the surface is
// flushed.
type Coordinator struct {
	surface Surface
	glyph   rune

	cursor vt.Position
	drawn  bool
}

// NewCoordinator returns a coordinator drawing onto s.
func NewCoordinator(s Surface) *Coordinator {
	return &Coordinator{surface: s, glyph: DefaultCursorGlyph}
}

// SetCursorGlyph changes the glyph used for the cursor over empty cells.
// It takes effect on the next redraw.
func (c *Coordinator) SetCursorGlyph(r rune) {
	if r == 0 {
		r = DefaultCursorGlyph
	}
	c.glyph = r
}

// Cursor returns where the cursor glyph was last drawn.
func (c *Coordinator) Cursor() (vt.Position, bool) {
	return c.cursor, c.drawn
}

// Full clears the surface and draws every written cell and the cursor.
func (c *Coordinator) Full(b *vt.Buffer) {
	b.TakeDamage()
	c.full(b)
	c.flush()
}

// Update draws whatever changed since the last redraw: everything after a
// resize or scroll, otherwise only the touched cells and the cursor.
func (c *Coordinator) Update(b *vt.Buffer) {
	d := b.TakeDamage()
	if d.Full {
		c.full(b)
		c.flush()
		return
	}

	x, y := b.Cursor()
	moved := !c.drawn || c.cursor != (vt.Position{X: x, Y: y})
	if d.Empty() && !moved {
		return
	}
	for _, p := range d.Cells {
		c.drawCell(b, p.X, p.Y)
	}
	c.placeCursor(b)
	c.flush()
}

// Region redraws only the cells inside r, which is clipped to the buffer.
func (c *Coordinator) Region(b *vt.Buffer, r Rect) {
	r, ok := r.Clip(b.Rows(), b.Cols())
	if !ok {
		return
	}
	c.surface.ClearRegion(r.Col1, r.Col2, r.Row1, r.Row2)
	for y := r.Row1; y <= r.Row2; y++ {
		for x := r.Col1; x <= r.Col2; x++ {
			if cell := b.Cell(x, y); !cell.Empty() {
				c.surface.DrawGlyph(cell.Rune, x, y)
			}
		}
	}
	if c.drawn && r.Contains(c.cursor.X, c.cursor.Y) {
		c.drawn = false
	}
	c.placeCursor(b)
	c.flush()
}

func (c *Coordinator) full(b *vt.Buffer) {
	c.surface.ClearAll()
	c.drawn = false
	for y := range b.Rows() {
		for x := range b.Cols() {
			if cell := b.Cell(x, y); !cell.Empty() {
				c.surface.DrawGlyph(cell.Rune, x, y)
			}
		}
	}
	c.placeCursor(b)
}

func (c *Coordinator) drawCell(b *vt.Buffer, x, y int) {
	cell := b.Cell(x, y)
	if cell.Empty() {
		c.surface.ClearRegion(x, x, y, y)
	} else {
		c.surface.DrawGlyph(cell.Rune, x, y)
	}
	if c.drawn && c.cursor == (vt.Position{X: x, Y: y}) {
		c.drawn = false
	}
}

// placeCursor takes the cursor glyph off its old cell and draws it at the
// buffer's cursor.
func (c *Coordinator) placeCursor(b *vt.Buffer) {
	x, y := b.Cursor()
	next := vt.Position{X: x, Y: y}
	if c.drawn && c.cursor != next && c.cursor.X < b.Cols() && c.cursor.Y < b.Rows() {
		c.drawCell(b, c.cursor.X, c.cursor.Y)
	}

	ch := c.glyph
	if cell := b.Cell(x, y); !cell.Empty() {
		ch = cell.Rune
	}
	c.surface.DrawCursor(ch, x, y)
	c.cursor = next
	c.drawn = true
}

func (c *Coordinator) flush() {
	if f, ok := c.surface.(Flusher); ok {
		f.Flush()
	}
}
