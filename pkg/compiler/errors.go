package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// Stage names the pipeline stage that rejected the program.
type Stage int

const (
	StageLexical Stage = iota
	StageSyntax
	StageSemantic
)

func (s Stage) String() string {
	switch s {
	case StageLexical:
		return "lexing error"
	case StageSyntax:
		return "syntax error"
	case StageSemantic:
		return "semantic error"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Lexical failures.
var (
	ErrIllegalStringChar = errors.New("illegal character in string")
	ErrMalformedNumber   = errors.New("illegal character in number")
	ErrExpectedNotEqual  = errors.New("expected !=")
	ErrUnknownToken      = errors.New("unknown token")
)

// Syntactic failures.
var (
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrExpectedComparison = errors.New("expected comparison operator")
	ErrInvalidStatement   = errors.New("invalid statement")
)

// Semantic failures.
var (
	ErrDuplicateLabel      = errors.New("duplicate label")
	ErrUseBeforeAssignment = errors.New("use before assignment")
	ErrUndeclaredLabel     = errors.New("undeclared label")
	ErrReservedName        = errors.New("reserved name")
)

// Error is a fatal translation diagnostic. Err is one of the package
// sentinels, so callers can test it with errors.Is.
type Error struct {
	Stage   Stage
	Line    int
	Lexeme  string // offending text
	Err     error
	Detail  string // optional extra context, e.g. "expected THEN, got NEWLINE"
	Snippet string // trimmed source line, may be empty
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: line %d: %v", e.Stage, e.Line, e.Err)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	} else if e.Lexeme != "" {
		fmt.Fprintf(&b, ": %q", e.Lexeme)
	}
	if e.Snippet != "" {
		fmt.Fprintf(&b, "\n  |> %s", e.Snippet)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// sourceLine returns the trimmed text of the 1-based line, or "" when out of range.
func sourceLine(src []rune, line int) string {
	if line < 1 {
		return ""
	}
	cur := 1
	start := 0
	for i, r := range src {
		if r != '\n' {
			continue
		}
		if cur == line {
			return strings.TrimSpace(string(src[start:i]))
		}
		cur++
		start = i + 1
	}
	if cur == line && start < len(src) {
		return strings.TrimSpace(string(src[start:]))
	}
	return ""
}
