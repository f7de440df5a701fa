// Package input turns key presses into the bytes a shell expects on its
// terminal, and reads raw keyboard input from a tty.
package input

import (
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Key is a non-printing key.
type Key int

const (
	KeyEnter Key = iota
	KeyTab
	KeyBackspace
	KeyEscape
	KeySpace
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyDelete
)

var keyNames = map[string]Key{
	"Enter":     KeyEnter,
	"Tab":       KeyTab,
	"Backspace": KeyBackspace,
	"Escape":    KeyEscape,
	"Space":     KeySpace,
	"Up":        KeyUp,
	"Down":      KeyDown,
	"Right":     KeyRight,
	"Left":      KeyLeft,
	"Home":      KeyHome,
	"End":       KeyEnd,
	"Delete":    KeyDelete,
}

// LookupKey returns the key with the given name, such as "Enter" or "Up".
func LookupKey(name string) (Key, bool) {
	k, ok := keyNames[name]
	return k, ok
}

// Bytes returns the sequence sent to the shell for k.
func (k Key) Bytes() []byte {
	switch k {
	case KeyEnter:
		return []byte{ansi.CR}
	case KeyTab:
		return []byte{ansi.HT}
	case KeyBackspace:
		return []byte{ansi.DEL}
	case KeyEscape:
		return []byte{ansi.ESC}
	case KeySpace:
		return []byte{' '}
	case KeyUp:
		return []byte(ansi.CUU1)
	case KeyDown:
		return []byte(ansi.CUD1)
	case KeyRight:
		return []byte(ansi.CUF1)
	case KeyLeft:
		return []byte(ansi.CUB1)
	case KeyHome:
		return []byte("\x1b[H")
	case KeyEnd:
		return []byte("\x1b[F")
	case KeyDelete:
		return []byte("\x1b[3~")
	}
	return nil
}

// Ctrl returns the control code produced by holding Ctrl with r. Letters
// map to 0x01-0x1a regardless of case.
func Ctrl(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return byte(unicode.ToUpper(r)) & 0x1f, true
	case r == '@', r == ' ', r == '2':
		return ansi.NUL, true
	case r == '[':
		return ansi.ESC, true
	case r == '\\', r == ']', r == '^', r == '_':
		return byte(r) & 0x1f, true
	case r == '?':
		return ansi.DEL, true
	}
	return 0, false
}

// Alt prefixes b with ESC, the usual meta encoding.
func Alt(b []byte) []byte {
	return append([]byte{ansi.ESC}, b...)
}
