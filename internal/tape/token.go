package tape

// TokenType represents the type of a token in a script.
type TokenType string

const (
	// Special tokens
	TOKEN_EOF     TokenType = "EOF"
	TOKEN_ILLEGAL TokenType = "ILLEGAL"
	TOKEN_NEWLINE TokenType = "NEWLINE"

	// Literals
	TOKEN_STRING     TokenType = "STRING"
	TOKEN_NUMBER     TokenType = "NUMBER"
	TOKEN_DURATION   TokenType = "DURATION"
	TOKEN_IDENTIFIER TokenType = "IDENTIFIER"

	// Symbols
	TOKEN_PLUS TokenType = "PLUS"
	TOKEN_AT   TokenType = "AT"

	// Input
	TOKEN_TYPE      TokenType = "Type"
	TOKEN_ENTER     TokenType = "Enter"
	TOKEN_SPACE     TokenType = "Space"
	TOKEN_BACKSPACE TokenType = "Backspace"
	TOKEN_DELETE    TokenType = "Delete"
	TOKEN_TAB       TokenType = "Tab"
	TOKEN_ESCAPE    TokenType = "Escape"
	TOKEN_UP        TokenType = "Up"
	TOKEN_DOWN      TokenType = "Down"
	TOKEN_LEFT      TokenType = "Left"
	TOKEN_RIGHT     TokenType = "Right"
	TOKEN_HOME      TokenType = "Home"
	TOKEN_END       TokenType = "End"

	// Modifiers
	TOKEN_CTRL TokenType = "Ctrl"
	TOKEN_ALT  TokenType = "Alt"

	// Window events
	TOKEN_SLEEP  TokenType = "Sleep"
	TOKEN_RESIZE TokenType = "Resize"
	TOKEN_EXPOSE TokenType = "Expose"
	TOKEN_QUIT   TokenType = "Quit"
)

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// IsModifier returns true if the token is a modifier key.
func (tt TokenType) IsModifier() bool {
	return tt == TOKEN_CTRL || tt == TOKEN_ALT
}

// IsKey returns true for tokens naming a single key.
func (tt TokenType) IsKey() bool {
	switch tt {
	case TOKEN_ENTER, TOKEN_SPACE, TOKEN_BACKSPACE, TOKEN_DELETE, TOKEN_TAB,
		TOKEN_ESCAPE, TOKEN_UP, TOKEN_DOWN, TOKEN_LEFT, TOKEN_RIGHT,
		TOKEN_HOME, TOKEN_END:
		return true
	}
	return false
}

var keywords = map[string]TokenType{
	"Type":      TOKEN_TYPE,
	"Enter":     TOKEN_ENTER,
	"Space":     TOKEN_SPACE,
	"Backspace": TOKEN_BACKSPACE,
	"Delete":    TOKEN_DELETE,
	"Tab":       TOKEN_TAB,
	"Escape":    TOKEN_ESCAPE,
	"Up":        TOKEN_UP,
	"Down":      TOKEN_DOWN,
	"Left":      TOKEN_LEFT,
	"Right":     TOKEN_RIGHT,
	"Home":      TOKEN_HOME,
	"End":       TOKEN_END,
	"Ctrl":      TOKEN_CTRL,
	"Alt":       TOKEN_ALT,
	"Sleep":     TOKEN_SLEEP,
	"Resize":    TOKEN_RESIZE,
	"Expose":    TOKEN_EXPOSE,
	"Quit":      TOKEN_QUIT,
}

// LookupKeyword returns the token type for a keyword, or TOKEN_IDENTIFIER.
func LookupKeyword(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TOKEN_IDENTIFIER
}
