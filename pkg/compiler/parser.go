package compiler

import (
	"fmt"
	"strings"
)

// Parser recognizes a Teeny Tiny program and writes C into its Emitter as
// each production is matched. No syntax tree is built.
//
// Grammar:
//
//	program    = {statement}
//	statement  = "PRINT" (expression | STRING) nl
//	           | "IF" comparison "THEN" nl {statement} "ENDIF" nl
//	           | "WHILE" comparison "REPEAT" nl {statement} "ENDWHILE" nl
//	           | "LABEL" IDENT nl
//	           | "GOTO" IDENT nl
//	           | "LET" IDENT "=" expression nl
//	           | "INPUT" IDENT nl
//	comparison = expression (("==" | "!=" | ">" | ">=" | "<" | "<=") expression)+
//	expression = term {("+" | "-") term}
//	term       = unary {("*" | "/") unary}
//	unary      = ["+" | "-"] primary
//	primary    = NUMBER | IDENT
//	nl         = NEWLINE+
type Parser struct {
	lexer   *Lexer
	emitter *Emitter
	syms    *SymbolTable

	curTok  Token
	peekTok Token
}

// NewParser primes the two-token window. It fails only if the first tokens
// of the source are lexically invalid.
func NewParser(l *Lexer, e *Emitter) (*Parser, error) {
	p := &Parser{
		lexer:   l,
		emitter: e,
		syms:    NewSymbolTable(),
	}
	// Read two tokens, so curTok and peekTok are both set
	var err error
	if p.peekTok, err = l.NextToken(); err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	return p, nil
}

// Symbols exposes the names collected so far.
func (p *Parser) Symbols() *SymbolTable {
	return p.syms
}

// nextToken shifts the window by one token. The lexer is not consulted again
// once it has produced EOF.
func (p *Parser) nextToken() error {
	p.curTok = p.peekTok
	if p.curTok.Type == EOF {
		return nil
	}
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.peekTok = tok
	return nil
}

func (p *Parser) check(tt TokenType) bool {
	return p.curTok.Type == tt
}

// fmtError builds a diagnostic for tok, quoting its source line.
func (p *Parser) fmtError(stage Stage, sentinel error, tok Token, format string, args ...any) error {
	detail := ""
	if format != "" {
		detail = fmt.Sprintf(format, args...)
	}
	return &Error{
		Stage:   stage,
		Line:    tok.Line,
		Lexeme:  tok.Lexeme,
		Err:     sentinel,
		Detail:  detail,
		Snippet: sourceLine(p.lexer.src, tok.Line),
	}
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.curTok
	if tok.Type != tt {
		return tok, p.fmtError(StageSyntax, ErrUnexpectedToken, tok, "expected %s, got %s", tt, describe(tok))
	}
	return tok, p.nextToken()
}

// describe names a token for diagnostics.
func describe(tok Token) string {
	switch tok.Type {
	case EOF, NEWLINE:
		return tok.Type.String()
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Lexeme)
}

// Program recognizes the whole source, then checks that every GOTO target
// was declared.
func (p *Parser) Program() error {
	p.emitter.HeaderLine("#include <stdio.h>")
	p.emitter.HeaderLine("int main(void){")

	if err := p.skipNewlines(); err != nil {
		return err
	}

	for !p.check(EOF) {
		if err := p.statement(); err != nil {
			return err
		}
	}

	p.emitter.EmitLine("return 0;")
	p.emitter.EmitLine("}")

	if missing := p.syms.Unresolved(); len(missing) > 0 {
		ref := missing[0]
		return &Error{
			Stage:   StageSemantic,
			Line:    ref.Line,
			Lexeme:  ref.Name,
			Err:     ErrUndeclaredLabel,
			Detail:  fmt.Sprintf("GOTO %s", ref.Name),
			Snippet: sourceLine(p.lexer.src, ref.Line),
		}
	}
	return nil
}

func (p *Parser) statement() error {
	var err error
	switch p.curTok.Type {
	case PRINT:
		err = p.printStmt()
	case IF:
		err = p.blockStmt("if", THEN, ENDIF)
	case WHILE:
		err = p.blockStmt("while", REPEAT, ENDWHILE)
	case LABEL:
		err = p.labelStmt()
	case GOTO:
		err = p.gotoStmt()
	case LET:
		err = p.letStmt()
	case INPUT:
		err = p.inputStmt()
	default:
		return p.fmtError(StageSyntax, ErrInvalidStatement, p.curTok, "statement cannot start with %s", describe(p.curTok))
	}
	if err != nil {
		return err
	}
	return p.nl()
}

// printStmt: "PRINT" (expression | STRING)
func (p *Parser) printStmt() error {
	if err := p.nextToken(); err != nil {
		return err
	}
	if p.check(STRING) {
		p.emitter.EmitLine(fmt.Sprintf("printf(\"%s\\n\");", p.curTok.Lexeme))
		return p.nextToken()
	}
	p.emitter.Emit("printf(\"%.2f\\n\", (float)(")
	if err := p.expression(); err != nil {
		return err
	}
	p.emitter.EmitLine("));")
	return nil
}

// blockStmt handles both IF and WHILE: keyword comparison open nl {statement} end.
func (p *Parser) blockStmt(cKeyword string, open, end TokenType) error {
	if err := p.nextToken(); err != nil {
		return err
	}
	p.emitter.Emit(cKeyword + "(")
	if err := p.comparison(); err != nil {
		return err
	}
	if _, err := p.expect(open); err != nil {
		return err
	}
	if err := p.nl(); err != nil {
		return err
	}
	p.emitter.EmitLine("){")

	for !p.check(end) {
		if p.check(EOF) {
			return p.fmtError(StageSyntax, ErrUnexpectedToken, p.curTok, "expected %s, got EOF", end)
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
	if _, err := p.expect(end); err != nil {
		return err
	}
	p.emitter.EmitLine("}")
	return nil
}

// labelStmt: "LABEL" IDENT
func (p *Parser) labelStmt() error {
	if err := p.nextToken(); err != nil {
		return err
	}
	tok := p.curTok
	if tok.Type == IDENT && !p.syms.DeclareLabel(tok.Lexeme, tok.Line) {
		first, _ := p.syms.LabelLine(tok.Lexeme)
		return p.fmtError(StageSemantic, ErrDuplicateLabel, tok, "%s already declared on line %d", tok.Lexeme, first)
	}
	if _, err := p.name(); err != nil {
		return err
	}
	p.emitter.EmitLine(tok.Lexeme + ":;")
	return nil
}

// gotoStmt: "GOTO" IDENT
func (p *Parser) gotoStmt() error {
	if err := p.nextToken(); err != nil {
		return err
	}
	tok, err := p.name()
	if err != nil {
		return err
	}
	p.syms.ReferenceLabel(tok.Lexeme, tok.Line)
	p.emitter.EmitLine("goto " + tok.Lexeme + ";")
	return nil
}

// letStmt: "LET" IDENT "=" expression
// The variable becomes readable only after its initializing expression.
func (p *Parser) letStmt() error {
	if err := p.nextToken(); err != nil {
		return err
	}
	tok, err := p.name()
	if err != nil {
		return err
	}
	if _, err := p.expect(EQ); err != nil {
		return err
	}
	p.emitter.Emit(tok.Lexeme + " = ")
	if err := p.expression(); err != nil {
		return err
	}
	p.emitter.EmitLine(";")
	p.define(tok.Lexeme)
	return nil
}

// inputStmt: "INPUT" IDENT
// A failed numeric read zeroes the variable and discards the offending word.
func (p *Parser) inputStmt() error {
	if err := p.nextToken(); err != nil {
		return err
	}
	tok, err := p.name()
	if err != nil {
		return err
	}
	p.define(tok.Lexeme)
	p.emitter.EmitLine(fmt.Sprintf("if(0 == scanf(\"%%f\", &%s)) {", tok.Lexeme))
	p.emitter.EmitLine(tok.Lexeme + " = 0;")
	p.emitter.EmitLine("scanf(\"%*s\");")
	p.emitter.EmitLine("}")
	return nil
}

// name consumes an identifier that can be spelled as-is in the C output.
func (p *Parser) name() (Token, error) {
	tok := p.curTok
	if tok.Type == IDENT && IsReserved(tok.Lexeme) {
		return tok, p.fmtError(StageSemantic, ErrReservedName, tok, "%s cannot be used as a name in C", tok.Lexeme)
	}
	return p.expect(IDENT)
}

// define declares name in the header the first time it is written.
func (p *Parser) define(name string) {
	if p.syms.Define(name) {
		p.emitter.HeaderLine("float " + name + ";")
	}
}

// nl requires at least one NEWLINE and consumes any that follow.
func (p *Parser) nl() error {
	if _, err := p.expect(NEWLINE); err != nil {
		return err
	}
	return p.skipNewlines()
}

func (p *Parser) skipNewlines() error {
	for p.check(NEWLINE) {
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return nil
}

// comparison requires at least one comparison operator.
func (p *Parser) comparison() error {
	if err := p.expression(); err != nil {
		return err
	}
	if !p.curTok.Type.IsComparator() {
		return p.fmtError(StageSyntax, ErrExpectedComparison, p.curTok, "got %s", describe(p.curTok))
	}
	for p.curTok.Type.IsComparator() {
		if err := p.binaryOp(); err != nil {
			return err
		}
		if err := p.expression(); err != nil {
			return err
		}
	}
	return nil
}

// expression handles + and -
func (p *Parser) expression() error {
	if err := p.term(); err != nil {
		return err
	}
	for p.check(PLUS) || p.check(MINUS) {
		if err := p.binaryOp(); err != nil {
			return err
		}
		if err := p.term(); err != nil {
			return err
		}
	}
	return nil
}

// term handles * and /
func (p *Parser) term() error {
	if err := p.unary(); err != nil {
		return err
	}
	for p.check(ASTERISK) || p.check(SLASH) {
		if err := p.binaryOp(); err != nil {
			return err
		}
		if err := p.unary(); err != nil {
			return err
		}
	}
	return nil
}

// binaryOp emits the current operator padded with spaces so that "a - -1"
// cannot turn into the C decrement operator.
func (p *Parser) binaryOp() error {
	p.emitter.Emit(" " + p.curTok.Lexeme + " ")
	return p.nextToken()
}

func (p *Parser) unary() error {
	if p.check(PLUS) || p.check(MINUS) {
		p.emitter.Emit(p.curTok.Lexeme)
		if err := p.nextToken(); err != nil {
			return err
		}
	}
	return p.primary()
}

func (p *Parser) primary() error {
	tok := p.curTok
	switch tok.Type {
	case NUMBER:
		p.emitter.Emit(floatLiteral(tok.Lexeme))
	case IDENT:
		if !p.syms.IsDefined(tok.Lexeme) {
			return p.fmtError(StageSemantic, ErrUseBeforeAssignment, tok, "%s", tok.Lexeme)
		}
		p.emitter.Emit(tok.Lexeme)
	default:
		return p.fmtError(StageSyntax, ErrUnexpectedToken, tok, "expected NUMBER or IDENT, got %s", describe(tok))
	}
	return p.nextToken()
}

// floatLiteral spells a number as a C floating constant, so a leading zero
// is never octal and literal division is never integer division.
func floatLiteral(lexeme string) string {
	if strings.Contains(lexeme, ".") {
		return lexeme
	}
	return lexeme + ".0"
}
