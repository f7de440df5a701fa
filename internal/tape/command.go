package tape

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CommandType represents the type of a script command.
type CommandType string

const (
	CommandType_Type     CommandType = "Type"
	CommandType_Key      CommandType = "Key"
	CommandType_KeyCombo CommandType = "KeyCombo"
	CommandType_Sleep    CommandType = "Sleep"
	CommandType_Resize   CommandType = "Resize"
	CommandType_Expose   CommandType = "Expose"
	CommandType_Quit     CommandType = "Quit"
)

// Command represents a parsed script command.
type Command struct {
	Type CommandType
	// Args holds the text for Type, the key name for Key, the combo for
	// KeyCombo and rows, cols for Resize.
	Args []string
	// Delay is the pause after each repetition; the duration for Sleep.
	Delay  time.Duration
	Repeat int
	Line   int
}

// String returns a string representation of the command.
func (c Command) String() string {
	switch c.Type {
	case CommandType_Type:
		return fmt.Sprintf("Type %q", strings.Join(c.Args, ""))
	case CommandType_Sleep:
		return fmt.Sprintf("Sleep %s", c.Delay)
	case CommandType_Key, CommandType_KeyCombo:
		if c.Repeat > 1 {
			return fmt.Sprintf("%s %d", c.Args[0], c.Repeat)
		}
		return c.Args[0]
	case CommandType_Resize:
		return fmt.Sprintf("Resize %s %s", c.Args[0], c.Args[1])
	}
	return string(c.Type)
}

// ResizeArgs returns the rows and cols of a Resize command.
func (c Command) ResizeArgs() (rows, cols int, err error) {
	if c.Type != CommandType_Resize || len(c.Args) != 2 {
		return 0, 0, fmt.Errorf("not a resize command: %s", c.Type)
	}
	if rows, err = strconv.Atoi(c.Args[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid rows %q: %w", c.Args[0], err)
	}
	if cols, err = strconv.Atoi(c.Args[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid cols %q: %w", c.Args[1], err)
	}
	return rows, cols, nil
}

// KeyCombo represents a key combination such as Ctrl+C or Alt+f.
type KeyCombo struct {
	Ctrl bool
	Alt  bool
	Key  string
}

// String returns a string representation of the key combo.
func (kc KeyCombo) String() string {
	var sb strings.Builder
	if kc.Ctrl {
		sb.WriteString("Ctrl+")
	}
	if kc.Alt {
		sb.WriteString("Alt+")
	}
	sb.WriteString(kc.Key)
	return sb.String()
}

// ParseKeyCombo parses a combo string like "Ctrl+C" or "Ctrl+Alt+x".
func ParseKeyCombo(s string) (KeyCombo, error) {
	var kc KeyCombo
	parts := strings.Split(s, "+")
	if parts[len(parts)-1] == "" {
		return kc, fmt.Errorf("empty key combo %q", s)
	}

	kc.Key = parts[len(parts)-1]
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "Ctrl":
			kc.Ctrl = true
		case "Alt":
			kc.Alt = true
		default:
			return kc, fmt.Errorf("unknown modifier: %s", mod)
		}
	}
	return kc, nil
}
