package vt

// Damage describes what changed on the grid since the previous
// TakeDamage call. When Full is set, Cells is nil and every cell must be
// redrawn.
type Damage struct {
	Full  bool
	Cells []Position
}

// Empty reports whether nothing needs to be redrawn.
func (d Damage) Empty() bool {
	return !d.Full && len(d.Cells) == 0
}

type damage struct {
	full  bool
	cells []Position
	seen  map[Position]struct{}
}

func (d *damage) mark(x, y int) {
	if d.full {
		return
	}
	p := Position{X: x, Y: y}
	if d.seen == nil {
		d.seen = make(map[Position]struct{})
	}
	if _, ok := d.seen[p]; ok {
		return
	}
	d.seen[p] = struct{}{}
	d.cells = append(d.cells, p)
}

func (d *damage) markFull() {
	d.full = true
	d.cells = nil
	clear(d.seen)
}

func (d *damage) take() Damage {
	out := Damage{Full: d.full, Cells: d.cells}
	d.full = false
	d.cells = nil
	clear(d.seen)
	return out
}
