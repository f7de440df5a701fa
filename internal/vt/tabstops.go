package vt

// TabWidth is the fixed spacing between default tab stops.
const TabWidth = 8

// tabStops holds one flag per column.
type tabStops []bool

// resize returns a copy sized to cols. Growing extends the 8-column pattern
// from the last existing stop instead of recomputing it from column zero.
func (t tabStops) resize(cols int) tabStops {
	out := make(tabStops, cols)
	copy(out, t)
	if cols <= len(t) {
		return out
	}

	last := 0
	for i := len(t) - 1; i > 0; i-- {
		if t[i] {
			last = i
			break
		}
	}
	for i := last + TabWidth; i < cols; i += TabWidth {
		out[i] = true
	}
	return out
}

// next returns the first stop strictly after x, or -1.
func (t tabStops) next(x int) int {
	for i := x + 1; i < len(t); i++ {
		if t[i] {
			return i
		}
	}
	return -1
}
