package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF     TokenType = iota // sentinel: end of input
	NEWLINE                  // statement terminator

	// Literals
	NUMBER // 12 or 3.25, kept as source text
	IDENT  // variable or label name
	STRING // "..." without the quotes

	// Keywords
	LABEL
	GOTO
	PRINT
	INPUT
	LET
	IF
	THEN
	ENDIF
	WHILE
	REPEAT
	ENDWHILE

	// Operators
	EQ       // =
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	EQEQ     // ==
	NOTEQ    // !=
	LT       // <
	LTEQ     // <=
	GT       // >
	GTEQ     // >=
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:      "EOF",
	NEWLINE:  "NEWLINE",
	NUMBER:   "NUMBER",
	IDENT:    "IDENT",
	STRING:   "STRING",
	LABEL:    "LABEL",
	GOTO:     "GOTO",
	PRINT:    "PRINT",
	INPUT:    "INPUT",
	LET:      "LET",
	IF:       "IF",
	THEN:     "THEN",
	ENDIF:    "ENDIF",
	WHILE:    "WHILE",
	REPEAT:   "REPEAT",
	ENDWHILE: "ENDWHILE",
	EQ:       "EQ",
	PLUS:     "PLUS",
	MINUS:    "MINUS",
	ASTERISK: "ASTERISK",
	SLASH:    "SLASH",
	EQEQ:     "EQEQ",
	NOTEQ:    "NOTEQ",
	LT:       "LT",
	LTEQ:     "LTEQ",
	GT:       "GT",
	GTEQ:     "GTEQ",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// IsComparator reports whether tt is one of the six comparison operators.
func (tt TokenType) IsComparator() bool {
	switch tt {
	case EQEQ, NOTEQ, LT, LTEQ, GT, GTEQ:
		return true
	}
	return false
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched (string quotes excluded)
	Line   int    // 1-based source line
	Pos    int    // rune offset of the first matched character
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
