package vt_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/temu/internal/vt"
)

func newBuffer(t *testing.T, rows, cols int) *vt.Buffer {
	t.Helper()
	b, err := vt.NewBuffer(rows, cols)
	if err != nil {
		t.Fatalf("NewBuffer(%d, %d): %v", rows, cols, err)
	}
	return b
}

func assertCursor(t *testing.T, b *vt.Buffer, wantX, wantY int) {
	t.Helper()
	if x, y := b.Cursor(); x != wantX || y != wantY {
		t.Errorf("cursor = (%d, %d), want (%d, %d)", x, y, wantX, wantY)
	}
}

// assertShape checks the invariants every public operation must keep.
func assertShape(t *testing.T, b *vt.Buffer) {
	t.Helper()
	x, y := b.Cursor()
	if x < 0 || x >= b.Cols() || y < 0 || y >= b.Rows() {
		t.Errorf("cursor (%d, %d) outside %dx%d grid", x, y, b.Cols(), b.Rows())
	}
	if rows, cols := b.AltSize(); rows != b.Rows() || cols != b.Cols() {
		t.Errorf("alt grid %dx%d, primary %dx%d", cols, rows, b.Cols(), b.Rows())
	}
}

func TestNewBuffer(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		wantErr    bool
	}{
		{"default size", 24, 80, false},
		{"single cell", 1, 1, false},
		{"zero rows", 0, 80, true},
		{"negative cols", 24, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := vt.NewBuffer(tt.rows, tt.cols)
			if tt.wantErr {
				if !errors.Is(err, vt.ErrInvalidSize) {
					t.Fatalf("expected ErrInvalidSize, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Rows() != tt.rows || b.Cols() != tt.cols {
				t.Errorf("size = %dx%d, want %dx%d", b.Cols(), b.Rows(), tt.cols, tt.rows)
			}
			assertCursor(t, b, 0, 0)
			assertShape(t, b)
		})
	}
}

func TestInsertCharAdvances(t *testing.T) {
	b := newBuffer(t, 24, 80)
	b.MoveTo(10, 3)
	b.InsertChar('q')

	if got := b.Cell(10, 3).Rune; got != 'q' {
		t.Errorf("cell (10, 3) = %q, want 'q'", got)
	}
	assertCursor(t, b, 11, 3)
}

func TestInsertCharWrapsAtRightEdge(t *testing.T) {
	b := newBuffer(t, 24, 80)
	b.Write([]byte(strings.Repeat("x", 80)))

	if got := b.Line(0); got != strings.Repeat("x", 80) {
		t.Errorf("row 0 = %q", got)
	}
	assertCursor(t, b, 0, 1)
}

func TestInsertCharWrapScrollsOnLastRow(t *testing.T) {
	b := newBuffer(t, 3, 4)
	b.Write([]byte("aaaa" + "bbbb" + "cccc"))

	want := []string{"bbbb", "cccc", ""}
	for y, line := range want {
		if got := b.Line(y); got != line {
			t.Errorf("row %d = %q, want %q", y, got, line)
		}
	}
	assertCursor(t, b, 0, 2)
}

func TestDeleteChar(t *testing.T) {
	tests := []struct {
		name         string
		startX       int
		startY       int
		wantX, wantY int
	}{
		{"mid row", 5, 2, 4, 2},
		{"column zero wraps to previous row", 0, 2, 9, 1},
		{"origin is a no-op", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuffer(t, 5, 10)
			for y := range 5 {
				b.MoveTo(0, y)
				b.Write([]byte("abcdefghi"))
			}
			b.MoveTo(9, 1)
			b.InsertChar('j')
			b.MoveTo(tt.startX, tt.startY)

			b.DeleteChar()

			assertCursor(t, b, tt.wantX, tt.wantY)
			if tt.startX == 0 && tt.startY == 0 {
				if b.Cell(0, 0).Rune != 'a' {
					t.Errorf("origin cell changed to %q", b.Cell(0, 0).Rune)
				}
				return
			}
			if !b.Cell(tt.wantX, tt.wantY).Empty() {
				t.Errorf("cell (%d, %d) = %q, want empty", tt.wantX, tt.wantY, b.Cell(tt.wantX, tt.wantY).Rune)
			}
		})
	}
}

func TestEraseInLine(t *testing.T) {
	tests := []struct {
		name string
		mode int
		want string
	}{
		{"to end", vt.EraseToEnd, "abc"},
		{"to start", vt.EraseToStart, "    efgh"},
		{"whole line", vt.EraseLine, ""},
		{"unknown mode", 7, "abcdefgh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuffer(t, 2, 8)
			b.Write([]byte("abcdefgh"))
			b.MoveTo(3, 0)

			b.EraseInLine(tt.mode)

			if got := b.Line(0); got != tt.want {
				t.Errorf("row 0 = %q, want %q", got, tt.want)
			}
			assertCursor(t, b, 3, 0)
		})
	}
}

func TestNewlineAndLinefeed(t *testing.T) {
	t.Run("newline resets column", func(t *testing.T) {
		b := newBuffer(t, 4, 10)
		b.MoveTo(5, 1)
		b.Newline()
		assertCursor(t, b, 0, 2)
	})

	t.Run("linefeed keeps column", func(t *testing.T) {
		b := newBuffer(t, 4, 10)
		b.MoveTo(5, 1)
		b.Linefeed()
		assertCursor(t, b, 5, 2)
	})

	t.Run("linefeed on last row scrolls", func(t *testing.T) {
		b := newBuffer(t, 3, 10)
		b.Write([]byte("top"))
		b.MoveTo(2, 2)
		b.Linefeed()
		assertCursor(t, b, 2, 2)
		if got := b.Line(0); got != "" {
			t.Errorf("row 0 = %q after scroll, want empty", got)
		}
	})

	t.Run("single row grid", func(t *testing.T) {
		b := newBuffer(t, 1, 10)
		b.Write([]byte("abc"))
		b.Newline()
		assertCursor(t, b, 0, 0)
		if got := b.Line(0); got != "" {
			t.Errorf("row 0 = %q, want empty", got)
		}
	})
}

func TestBackspaceDoesNotWrap(t *testing.T) {
	b := newBuffer(t, 4, 10)
	b.MoveTo(0, 2)
	b.Backspace()
	assertCursor(t, b, 0, 2)

	b.MoveTo(4, 2)
	b.Backspace()
	assertCursor(t, b, 3, 2)
}

func TestHorizontalTab(t *testing.T) {
	tests := []struct {
		name         string
		cols         int
		startX       int
		wantX, wantY int
	}{
		{"from origin", 80, 0, 8, 0},
		{"from mid cell", 80, 3, 8, 0},
		{"from a stop", 80, 8, 16, 0},
		{"past last stop wraps", 80, 75, 0, 1},
		{"narrow grid wraps", 6, 2, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuffer(t, 4, tt.cols)
			b.MoveTo(tt.startX, 0)
			b.HorizontalTab()
			assertCursor(t, b, tt.wantX, tt.wantY)
		})
	}
}

func TestHorizontalTabFillsOnlyEmptyCells(t *testing.T) {
	b := newBuffer(t, 2, 20)
	b.Write([]byte("ab"))
	b.MoveTo(0, 0)
	b.HorizontalTab()

	if got := b.Line(0); got != "ab      " {
		t.Errorf("row 0 = %q, want %q", got, "ab      ")
	}
	if b.Cell(8, 0).Rune != 0 {
		t.Errorf("tab stop cell should stay empty")
	}
}

func TestMoveToClamps(t *testing.T) {
	tests := []struct {
		name         string
		x, y         int
		wantX, wantY int
	}{
		{"inside", 4, 2, 4, 2},
		{"past right", 200, 2, 79, 2},
		{"past bottom", 4, 99, 4, 23},
		{"negative", -3, -8, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuffer(t, 24, 80)
			b.MoveTo(tt.x, tt.y)
			assertCursor(t, b, tt.wantX, tt.wantY)
		})
	}
}

func TestScrollDown(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		cursorY int
		wantY   int
		want    []string
	}{
		{"one row", 1, 3, 2, []string{"1", "2", "3", ""}},
		{"two rows", 2, 3, 1, []string{"2", "3", "", ""}},
		{"more than cursor row", 3, 1, 0, []string{"3", "", "", ""}},
		{"more than grid", 10, 3, 0, []string{"", "", "", ""}},
		{"zero", 0, 2, 2, []string{"0", "1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuffer(t, 4, 5)
			for y := range 4 {
				b.MoveTo(0, y)
				b.InsertChar(rune('0' + y))
			}
			b.MoveTo(0, tt.cursorY)
			b.TakeDamage()

			b.ScrollDown(tt.n)

			for y, line := range tt.want {
				if got := b.Line(y); got != line {
					t.Errorf("row %d = %q, want %q", y, got, line)
				}
			}
			assertCursor(t, b, 0, tt.wantY)
			assertShape(t, b)
			if d := b.TakeDamage(); tt.n > 0 && !d.Full {
				t.Error("scroll should request a full redraw")
			}
		})
	}
}

func TestDamageTracksTouchedCells(t *testing.T) {
	b := newBuffer(t, 4, 10)
	if d := b.TakeDamage(); !d.Full {
		t.Fatal("new buffer should start with full damage")
	}

	b.Write([]byte("ab\rb"))
	d := b.TakeDamage()
	if d.Full {
		t.Fatal("plain writes should not force a full redraw")
	}
	want := []vt.Position{{X: 0, Y: 0}, {X: 1, Y: 0}}
	if len(d.Cells) != len(want) {
		t.Fatalf("damage = %v, want %v", d.Cells, want)
	}
	for i, p := range want {
		if d.Cells[i] != p {
			t.Errorf("damage[%d] = %v, want %v", i, d.Cells[i], p)
		}
	}
	if d := b.TakeDamage(); !d.Empty() {
		t.Errorf("damage should reset after TakeDamage, got %+v", d)
	}
}
