package vt

import (
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// Outcome reports what Apply did with a byte.
type Outcome int

const (
	// Printed means a character was written to the grid.
	Printed Outcome = iota
	// Executed means a control byte moved the cursor or edited the grid.
	Executed
	// Ignored means the byte is defined to do nothing (NUL).
	Ignored
	// Unsupported means the byte is a control with no action here.
	Unsupported
	// Pending means the byte was buffered as part of a UTF-8 sequence.
	Pending
)

func (o Outcome) String() string {
	switch o {
	case Printed:
		return "printed"
	case Executed:
		return "executed"
	case Ignored:
		return "ignored"
	case Unsupported:
		return "unsupported"
	case Pending:
		return "pending"
	}
	return "unknown"
}

// Write applies every byte of p in order. It never fails; it implements
// io.Writer so the buffer can be used as the sink of a pty session.
func (b *Buffer) Write(p []byte) (int, error) {
	for _, c := range p {
		if b.Apply(c) == Unsupported && b.cb.Unsupported != nil {
			b.cb.Unsupported(c)
		}
	}
	return len(p), nil
}

// Apply interprets a single byte from the shell.
func (b *Buffer) Apply(c byte) Outcome {
	if c >= utf8.RuneSelf {
		return b.applyMultibyte(c)
	}
	if len(b.pending) > 0 {
		b.pending = b.pending[:0]
		b.InsertChar(utf8.RuneError)
	}

	switch c {
	case ansi.NUL:
		return Ignored
	case ansi.BS:
		b.Backspace()
	case ansi.HT:
		b.HorizontalTab()
	case ansi.LF:
		b.Linefeed()
	case ansi.CR:
		b.CarriageReturn()
	case ansi.BEL, ansi.VT, ansi.FF, ansi.ESC:
		return Unsupported
	default:
		b.InsertChar(rune(c))
		return Printed
	}
	return Executed
}

func (b *Buffer) applyMultibyte(c byte) Outcome {
	b.pending = append(b.pending, c)
	out := Pending
	for len(b.pending) > 0 && utf8.FullRune(b.pending) {
		r, n := utf8.DecodeRune(b.pending)
		b.pending = append(b.pending[:0], b.pending[n:]...)
		b.InsertChar(r)
		out = Printed
	}
	if len(b.pending) > 0 {
		return Pending
	}
	return out
}
