package tape

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Gaurav-Gosain/temu/internal/input"
)

// StepKind identifies what a Step does when played.
type StepKind int

const (
	// StepInput sends Data to the shell.
	StepInput StepKind = iota
	// StepSleep pauses for Delay.
	StepSleep
	// StepResize changes the window to Rows x Cols.
	StepResize
	// StepExpose asks for a full repaint.
	StepExpose
	// StepQuit ends the session.
	StepQuit
)

func (k StepKind) String() string {
	switch k {
	case StepInput:
		return "input"
	case StepSleep:
		return "sleep"
	case StepResize:
		return "resize"
	case StepExpose:
		return "expose"
	case StepQuit:
		return "quit"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// Step is a single playable action.
type Step struct {
	Kind  StepKind
	Data  []byte
	Delay time.Duration
	Rows  int
	Cols  int
	Line  int
}

// Compile flattens commands into steps. Repeats are unrolled and per-key
// delays become sleep steps.
func Compile(commands []Command) ([]Step, error) {
	var steps []Step
	for _, cmd := range commands {
		switch cmd.Type {
		case CommandType_Type:
			text := ""
			if len(cmd.Args) > 0 {
				text = cmd.Args[0]
			}
			if cmd.Delay == 0 {
				steps = append(steps, Step{Kind: StepInput, Data: []byte(text), Line: cmd.Line})
				continue
			}
			for len(text) > 0 {
				_, size := utf8.DecodeRuneInString(text)
				steps = append(steps,
					Step{Kind: StepInput, Data: []byte(text[:size]), Line: cmd.Line},
					Step{Kind: StepSleep, Delay: cmd.Delay, Line: cmd.Line})
				text = text[size:]
			}

		case CommandType_Key, CommandType_KeyCombo:
			data, err := keyBytes(cmd)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", cmd.Line, err)
			}
			for range max(cmd.Repeat, 1) {
				steps = append(steps, Step{Kind: StepInput, Data: data, Line: cmd.Line})
				if cmd.Delay > 0 {
					steps = append(steps, Step{Kind: StepSleep, Delay: cmd.Delay, Line: cmd.Line})
				}
			}

		case CommandType_Sleep:
			steps = append(steps, Step{Kind: StepSleep, Delay: cmd.Delay, Line: cmd.Line})

		case CommandType_Resize:
			rows, cols, err := cmd.ResizeArgs()
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", cmd.Line, err)
			}
			steps = append(steps, Step{Kind: StepResize, Rows: rows, Cols: cols, Line: cmd.Line})

		case CommandType_Expose:
			steps = append(steps, Step{Kind: StepExpose, Line: cmd.Line})

		case CommandType_Quit:
			steps = append(steps, Step{Kind: StepQuit, Line: cmd.Line})

		default:
			return nil, fmt.Errorf("line %d: unknown command %s", cmd.Line, cmd.Type)
		}
	}
	return steps, nil
}

func keyBytes(cmd Command) ([]byte, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("%s without a key", cmd.Type)
	}
	if cmd.Type == CommandType_Key {
		k, ok := input.LookupKey(cmd.Args[0])
		if !ok {
			return nil, fmt.Errorf("unknown key %q", cmd.Args[0])
		}
		return k.Bytes(), nil
	}

	kc, err := ParseKeyCombo(cmd.Args[0])
	if err != nil {
		return nil, err
	}

	var data []byte
	if k, ok := input.LookupKey(kc.Key); ok {
		data = k.Bytes()
	} else {
		r, size := utf8.DecodeRuneInString(kc.Key)
		if size != len(kc.Key) {
			return nil, fmt.Errorf("unknown key %q", kc.Key)
		}
		data = []byte(string(r))
	}

	if kc.Ctrl {
		r, _ := utf8.DecodeRune(data)
		if len(data) != 1 {
			return nil, fmt.Errorf("no control code for %s", kc)
		}
		c, ok := input.Ctrl(r)
		if !ok {
			return nil, fmt.Errorf("no control code for %s", kc)
		}
		data = []byte{c}
	}
	if kc.Alt {
		data = input.Alt(data)
	}
	return data, nil
}

// Load parses and compiles a script.
func Load(content string) ([]Step, error) {
	commands, errs := ParseFile(content)
	if len(errs) > 0 {
		return nil, &ParseError{Errors: errs}
	}
	return Compile(commands)
}

// ParseError collects the errors from a failed parse.
type ParseError struct {
	Errors []string
}

func (e *ParseError) Error() string {
	if len(e.Errors) == 1 {
		return "script: " + e.Errors[0]
	}
	return fmt.Sprintf("script: %s (and %d more)", e.Errors[0], len(e.Errors)-1)
}
