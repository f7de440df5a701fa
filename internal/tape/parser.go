package tape

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parser parses scripts into commands.
type Parser struct {
	lexer   *Lexer
	curTok  Token
	peekTok Token
	errors  []string
}

// NewParser creates a new parser from a lexer.
func NewParser(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.lexer.NextToken()
}

// Parse parses the entire script and returns all commands. Lines that fail
// to parse are skipped and reported by Errors.
func (p *Parser) Parse() []Command {
	var commands []Command
	for p.curTok.Type != TOKEN_EOF {
		if p.curTok.Type == TOKEN_NEWLINE {
			p.nextToken()
			continue
		}
		cmd, ok := p.parseCommand()
		if ok && p.endLine() {
			commands = append(commands, cmd)
		}
		p.skipToNextLine()
	}
	return commands
}

func (p *Parser) parseCommand() (Command, bool) {
	tt := p.curTok.Type
	switch {
	case tt == TOKEN_TYPE:
		return p.parseType()
	case tt == TOKEN_SLEEP:
		return p.parseSleep()
	case tt == TOKEN_RESIZE:
		return p.parseResize()
	case tt == TOKEN_EXPOSE:
		return p.parseBare(CommandType_Expose)
	case tt == TOKEN_QUIT:
		return p.parseBare(CommandType_Quit)
	case tt.IsKey():
		cmd := Command{Type: CommandType_Key, Args: []string{p.curTok.Literal}, Line: p.curTok.Line}
		p.nextToken()
		return p.parseRepeat(cmd)
	case tt.IsModifier():
		return p.parseKeyCombo()
	default:
		p.addError(fmt.Sprintf("unexpected token: %v %q", tt, p.curTok.Literal))
		return Command{}, false
	}
}

// parseDelay consumes an optional @<duration>.
func (p *Parser) parseDelay() (time.Duration, bool) {
	if p.curTok.Type != TOKEN_AT {
		return 0, true
	}
	p.nextToken()
	if p.curTok.Type != TOKEN_DURATION {
		p.addError("expected duration after @")
		return 0, false
	}
	d, err := time.ParseDuration(p.curTok.Literal)
	if err != nil {
		p.addError(fmt.Sprintf("invalid duration: %s", p.curTok.Literal))
		return 0, false
	}
	p.nextToken()
	return d, true
}

// parseRepeat consumes the optional @<duration> and repeat count after a
// key.
func (p *Parser) parseRepeat(cmd Command) (Command, bool) {
	d, ok := p.parseDelay()
	if !ok {
		return cmd, false
	}
	cmd.Delay = d
	cmd.Repeat = 1
	if p.curTok.Type == TOKEN_NUMBER {
		n, err := strconv.Atoi(p.curTok.Literal)
		if err != nil || n < 1 {
			p.addError(fmt.Sprintf("invalid repeat count: %s", p.curTok.Literal))
			return cmd, false
		}
		cmd.Repeat = n
		p.nextToken()
	}
	return cmd, true
}

func (p *Parser) parseType() (Command, bool) {
	cmd := Command{Type: CommandType_Type, Line: p.curTok.Line, Repeat: 1}
	p.nextToken()

	d, ok := p.parseDelay()
	if !ok {
		return cmd, false
	}
	cmd.Delay = d

	if p.curTok.Type != TOKEN_STRING {
		p.addError(fmt.Sprintf("Type expects a string, got %v", p.curTok.Type))
		return cmd, false
	}
	cmd.Args = []string{p.curTok.Literal}
	p.nextToken()
	return cmd, true
}

func (p *Parser) parseSleep() (Command, bool) {
	cmd := Command{Type: CommandType_Sleep, Line: p.curTok.Line}
	p.nextToken()

	if p.curTok.Type != TOKEN_DURATION {
		p.addError(fmt.Sprintf("Sleep expects a duration, got %v", p.curTok.Type))
		return cmd, false
	}
	d, err := time.ParseDuration(p.curTok.Literal)
	if err != nil {
		p.addError(fmt.Sprintf("invalid duration: %s", p.curTok.Literal))
		return cmd, false
	}
	cmd.Delay = d
	p.nextToken()
	return cmd, true
}

func (p *Parser) parseResize() (Command, bool) {
	cmd := Command{Type: CommandType_Resize, Line: p.curTok.Line}
	p.nextToken()

	for range 2 {
		if p.curTok.Type != TOKEN_NUMBER {
			p.addError(fmt.Sprintf("Resize expects rows and cols, got %v", p.curTok.Type))
			return cmd, false
		}
		cmd.Args = append(cmd.Args, p.curTok.Literal)
		p.nextToken()
	}
	if rows, cols, err := cmd.ResizeArgs(); err != nil || rows < 1 || cols < 1 {
		p.addError(fmt.Sprintf("invalid size %s", strings.Join(cmd.Args, "x")))
		return cmd, false
	}
	return cmd, true
}

func (p *Parser) parseBare(ct CommandType) (Command, bool) {
	cmd := Command{Type: ct, Line: p.curTok.Line}
	p.nextToken()
	return cmd, true
}

// parseKeyCombo parses Ctrl+X, Alt+X and Ctrl+Alt+X.
func (p *Parser) parseKeyCombo() (Command, bool) {
	cmd := Command{Type: CommandType_KeyCombo, Line: p.curTok.Line}

	var parts []string
	for p.curTok.Type.IsModifier() {
		parts = append(parts, p.curTok.Literal)
		p.nextToken()
		if p.curTok.Type != TOKEN_PLUS {
			p.addError("expected + after modifier")
			return cmd, false
		}
		p.nextToken()
	}

	switch {
	case p.curTok.Type == TOKEN_IDENTIFIER, p.curTok.Type == TOKEN_NUMBER, p.curTok.Type.IsKey():
		parts = append(parts, p.curTok.Literal)
		p.nextToken()
	default:
		p.addError(fmt.Sprintf("expected key after modifier, got %v", p.curTok.Type))
		return cmd, false
	}

	combo := strings.Join(parts, "+")
	if _, err := ParseKeyCombo(combo); err != nil {
		p.addError(err.Error())
		return cmd, false
	}
	cmd.Args = []string{combo}
	return p.parseRepeat(cmd)
}

// endLine reports trailing tokens after a command.
func (p *Parser) endLine() bool {
	if p.curTok.Type != TOKEN_NEWLINE && p.curTok.Type != TOKEN_EOF {
		p.addError(fmt.Sprintf("unexpected %v %q at end of command", p.curTok.Type, p.curTok.Literal))
		return false
	}
	return true
}

func (p *Parser) skipToNextLine() {
	for p.curTok.Type != TOKEN_NEWLINE && p.curTok.Type != TOKEN_EOF {
		p.nextToken()
	}
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curTok.Line, msg))
}

// Errors returns the list of parser errors.
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseFile parses a script from a string.
func ParseFile(content string) ([]Command, []string) {
	p := NewParser(New(content))
	commands := p.Parse()
	return commands, p.Errors()
}
