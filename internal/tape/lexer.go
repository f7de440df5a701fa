package tape

import (
	"strings"
)

// Lexer tokenizes script input.
type Lexer struct {
	input   string
	pos     int
	nextPos int
	ch      byte
	line    int
	column  int
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' && l.nextPos > 0 {
		l.line++
		l.column = 0
	}
	if l.nextPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.nextPos]
	}
	l.pos = l.nextPos
	l.nextPos++
	l.column++
}

func (l *Lexer) skipBlanks() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a single, double or backtick quoted string with the
// usual backslash escapes.
func (l *Lexer) readString(quote byte) string {
	var sb strings.Builder
	l.readChar()
	for l.ch != quote && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'e':
				sb.WriteByte(0x1b)
			case 0:
				return sb.String()
			default:
				sb.WriteByte(l.ch)
			}
		} else {
			sb.WriteByte(l.ch)
		}
		l.readChar()
	}
	if l.ch == quote {
		l.readChar()
	}
	return sb.String()
}

func (l *Lexer) readWhile(ok func(byte) bool) string {
	start := l.pos
	for l.ch != 0 && ok(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// NextToken returns the next token in the input.
func (l *Lexer) NextToken() Token {
	l.skipBlanks()
	for l.ch == '#' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		l.skipBlanks()
	}

	tok := Token{Line: l.line, Column: l.column}
	switch l.ch {
	case 0:
		tok.Type = TOKEN_EOF
	case '\n':
		tok.Type, tok.Literal = TOKEN_NEWLINE, "\n"
		l.readChar()
	case '+':
		tok.Type, tok.Literal = TOKEN_PLUS, "+"
		l.readChar()
	case '@':
		tok.Type, tok.Literal = TOKEN_AT, "@"
		l.readChar()
	case '"', '\'', '`':
		tok.Type = TOKEN_STRING
		tok.Literal = l.readString(l.ch)
	default:
		switch {
		case isDigit(l.ch):
			num := l.readWhile(func(c byte) bool { return isDigit(c) || c == '.' })
			if isLetter(l.ch) {
				tok.Type = TOKEN_DURATION
				tok.Literal = num + l.readWhile(isLetter)
			} else {
				tok.Type, tok.Literal = TOKEN_NUMBER, num
			}
		case isIdentifierChar(l.ch):
			tok.Literal = l.readWhile(isIdentifierChar)
			tok.Type = LookupKeyword(tok.Literal)
		default:
			tok.Type, tok.Literal = TOKEN_ILLEGAL, string(l.ch)
			l.readChar()
		}
	}
	return tok
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

// isIdentifierChar also admits the punctuation usable after Ctrl+.
func isIdentifierChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_' || strings.IndexByte(`[]\^?`, ch) >= 0
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []Token {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TOKEN_EOF {
			return tokens
		}
	}
}
