package backend

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// Snapshot frames lines as a screen of the given width, with title on the
// line above the frame.
func Snapshot(title string, lines []string, cols int) string {
	padded := make([]string, len(lines))
	for i, line := range lines {
		if runewidth.StringWidth(line) > cols {
			line = runewidth.Truncate(line, cols, "")
		}
		padded[i] = runewidth.FillRight(line, cols)
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Render(strings.Join(padded, "\n"))

	header := lipgloss.NewStyle().Bold(true).Render(title)
	return header + "\n" + frame
}

// SnapshotTitle describes a finished session for the snapshot header.
func SnapshotTitle(rows, cols int, status string) string {
	return fmt.Sprintf("temu %dx%d (%s)", cols, rows, status)
}
