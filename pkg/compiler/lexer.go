package compiler

import "fmt"

// keywords maps source text to its keyword TokenType. Lookup is case-sensitive.
var keywords = map[string]TokenType{
	"LABEL":    LABEL,
	"GOTO":     GOTO,
	"PRINT":    PRINT,
	"INPUT":    INPUT,
	"LET":      LET,
	"IF":       IF,
	"THEN":     THEN,
	"ENDIF":    ENDIF,
	"WHILE":    WHILE,
	"REPEAT":   REPEAT,
	"ENDWHILE": ENDWHILE,
}

// Lexer holds all mutable state for a single scanning pass over src.
// Tokens are produced on demand by NextToken.
type Lexer struct {
	src  []rune // source text plus one trailing '\n'
	pos  int    // index of ch; only ever moves forward
	ch   rune   // src[pos], or 0 once pos is past the end
	line int    // 1-based line of ch
}

// NewLexer prepares src for scanning. A newline is appended so that the last
// statement is always terminated even when the file does not end in one.
func NewLexer(src string) *Lexer {
	l := &Lexer{src: append([]rune(src), '\n'), pos: -1, line: 1}
	l.nextChar()
	return l
}

// nextChar moves the cursor one rune forward.
func (l *Lexer) nextChar() {
	if l.pos >= 0 && l.pos < len(l.src) && l.src[l.pos] == '\n' {
		l.line++
	}
	if l.pos < len(l.src) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		l.ch = 0
		return
	}
	l.ch = l.src[l.pos]
}

// peek returns the rune after ch without advancing.
func (l *Lexer) peek() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

// skipWhitespace skips blanks. Newlines are significant and are left alone.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.nextChar()
	}
}

// skipComment discards a '#' comment up to, but not including, the newline.
func (l *Lexer) skipComment() {
	if l.ch != '#' {
		return
	}
	for !l.atEnd() && l.ch != '\n' {
		l.nextChar()
	}
}

func (l *Lexer) errorf(sentinel error, line int, lexeme string, format string, args ...any) error {
	detail := ""
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return &Error{
		Stage:   StageLexical,
		Line:    line,
		Lexeme:  lexeme,
		Err:     sentinel,
		Detail:  detail,
		Snippet: sourceLine(l.src, line),
	}
}

// operator consumes an operator whose second character may be '='.
func (l *Lexer) operator(single, double TokenType) Token {
	start, line := l.pos, l.line
	if l.peek() == '=' {
		l.nextChar()
		l.nextChar()
		return Token{Type: double, Lexeme: string(l.src[start:l.pos]), Line: line, Pos: start}
	}
	l.nextChar()
	return Token{Type: single, Lexeme: string(l.src[start:l.pos]), Line: line, Pos: start}
}

// scanString collects a string literal. The opening quote must be at ch.
// The characters rejected here have a meaning inside a printf format string.
func (l *Lexer) scanString() (Token, error) {
	start, line := l.pos, l.line
	l.nextChar() // consume opening "
	begin := l.pos
	for l.ch != '"' {
		switch l.ch {
		case '\r', '\t', '\n', '\\', '%':
			return Token{}, l.errorf(ErrIllegalStringChar, l.line, string(l.ch), "%q", l.ch)
		}
		l.nextChar()
	}
	text := string(l.src[begin:l.pos])
	l.nextChar() // consume closing "
	return Token{Type: STRING, Lexeme: text, Line: line, Pos: start}, nil
}

// scanNumber collects digits with an optional fractional part. A decimal
// point must be followed by at least one digit.
func (l *Lexer) scanNumber() (Token, error) {
	start, line := l.pos, l.line
	for isDigit(l.ch) {
		l.nextChar()
	}
	if l.ch == '.' {
		l.nextChar()
		if !isDigit(l.ch) {
			return Token{}, l.errorf(ErrMalformedNumber, line, string(l.src[start:l.pos]), "%q has no digits after the decimal point", string(l.src[start:l.pos]))
		}
		for isDigit(l.ch) {
			l.nextChar()
		}
	}
	return Token{Type: NUMBER, Lexeme: string(l.src[start:l.pos]), Line: line, Pos: start}, nil
}

// scanIdent collects an identifier or keyword.
func (l *Lexer) scanIdent() Token {
	start, line := l.pos, l.line
	for isAlpha(l.ch) || isDigit(l.ch) {
		l.nextChar()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENT
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line, Pos: start}
}

// NextToken skips blanks and comments and returns the next Token. Once the
// end of input is reached every call returns an EOF token.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	l.skipComment()

	start, line := l.pos, l.line
	if l.atEnd() {
		return Token{Type: EOF, Lexeme: "", Line: line, Pos: start}, nil
	}

	ch := l.ch
	switch {
	case ch == '"':
		return l.scanString()
	case isDigit(ch):
		return l.scanNumber()
	case isAlpha(ch):
		return l.scanIdent(), nil
	}

	switch ch {
	case '=':
		return l.operator(EQ, EQEQ), nil
	case '<':
		return l.operator(LT, LTEQ), nil
	case '>':
		return l.operator(GT, GTEQ), nil
	case '!':
		if l.peek() != '=' {
			next := l.peek()
			return Token{}, l.errorf(ErrExpectedNotEqual, line, "!", "got %q", "!"+string(next))
		}
		return l.operator(NOTEQ, NOTEQ), nil
	}

	l.nextChar() // consume the character before the switch
	switch ch {
	case '+':
		return Token{PLUS, "+", line, start}, nil
	case '-':
		return Token{MINUS, "-", line, start}, nil
	case '*':
		return Token{ASTERISK, "*", line, start}, nil
	case '/':
		return Token{SLASH, "/", line, start}, nil
	case '\n':
		return Token{NEWLINE, "\n", line, start}, nil
	default:
		return Token{}, l.errorf(ErrUnknownToken, line, string(ch), "%q", ch)
	}
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a non-nil error on the first lexical error.
func Lex(src string) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
