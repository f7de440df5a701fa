package backend

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Glyph returns something printable for a cell rune. C0 controls and DEL
// become their control pictures, zero-width runes become U+FFFD.
func Glyph(r rune) rune {
	switch {
	case r == 0:
		return ' '
	case r < ansi.SP:
		return 0x2400 + r
	case r == ansi.DEL:
		return 0x2421
	case runewidth.RuneWidth(r) == 0:
		return '�'
	}
	return r
}
