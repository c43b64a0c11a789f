package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// GotoRef records the first GOTO that named a label.
type GotoRef struct {
	Name string
	Line int
}

// SymbolTable tracks the names seen during one translation run.
// Variables and labels live in independent namespaces.
//
// All three sets only grow.
type SymbolTable struct {
	vars map[string]struct{}

	labels map[string]int // declared label -> line of its LABEL statement

	gotos    map[string]struct{}
	gotoRefs []GotoRef // first reference of each label, in source order
}

// reserved lists the names that cannot appear in the generated program as
// variables or labels: C keywords, the functions the program calls and the
// <stdio.h> macros an identifier can spell.
var reserved = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {}, "continue": {},
	"default": {}, "do": {}, "double": {}, "else": {}, "enum": {}, "extern": {},
	"float": {}, "for": {}, "goto": {}, "if": {}, "inline": {}, "int": {},
	"long": {}, "register": {}, "restrict": {}, "return": {}, "short": {},
	"signed": {}, "sizeof": {}, "static": {}, "struct": {}, "switch": {},
	"typedef": {}, "union": {}, "unsigned": {}, "void": {}, "volatile": {},
	"while": {},

	"main": {}, "printf": {}, "scanf": {},

	"EOF": {}, "NULL": {}, "BUFSIZ": {}, "stdin": {}, "stdout": {}, "stderr": {},
	"getc": {}, "putc": {}, "getchar": {}, "putchar": {},
}

// IsReserved reports whether name would clash with C in the generated program.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		vars:   make(map[string]struct{}),
		labels: make(map[string]int),
		gotos:  make(map[string]struct{}),
	}
}

// Define records a variable. It reports true the first time name is seen,
// which is when its declaration must be emitted.
func (s *SymbolTable) Define(name string) bool {
	if _, ok := s.vars[name]; ok {
		return false
	}
	s.vars[name] = struct{}{}
	return true
}

// IsDefined reports whether a variable has been assigned at least once.
func (s *SymbolTable) IsDefined(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// DeclareLabel records a label. It reports false if the label already exists.
func (s *SymbolTable) DeclareLabel(name string, line int) bool {
	if _, ok := s.labels[name]; ok {
		return false
	}
	s.labels[name] = line
	return true
}

// LabelLine returns the line a label was declared on.
func (s *SymbolTable) LabelLine(name string) (int, bool) {
	line, ok := s.labels[name]
	return line, ok
}

// ReferenceLabel records a GOTO target. Existence is checked later by Unresolved.
func (s *SymbolTable) ReferenceLabel(name string, line int) {
	if _, ok := s.gotos[name]; ok {
		return
	}
	s.gotos[name] = struct{}{}
	s.gotoRefs = append(s.gotoRefs, GotoRef{Name: name, Line: line})
}

// Unresolved returns every referenced label that was never declared, in the
// order of first reference.
func (s *SymbolTable) Unresolved() []GotoRef {
	var missing []GotoRef
	for _, ref := range s.gotoRefs {
		if _, ok := s.labels[ref.Name]; !ok {
			missing = append(missing, ref)
		}
	}
	return missing
}

// Variables returns the defined variable names, sorted.
func (s *SymbolTable) Variables() []string {
	return sortedKeys(s.vars)
}

// Labels returns the declared label names, sorted.
func (s *SymbolTable) Labels() []string {
	names := make([]string, 0, len(s.labels))
	for name := range s.labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]struct{}) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the table for debugging.
func (s *SymbolTable) String() string {
	var b strings.Builder
	b.WriteString("Symbol Table:\n")
	for _, name := range s.Variables() {
		fmt.Fprintf(&b, "  var   %s\n", name)
	}
	for _, name := range s.Labels() {
		fmt.Fprintf(&b, "  label %s (line %d)\n", name, s.labels[name])
	}
	for _, ref := range s.gotoRefs {
		fmt.Fprintf(&b, "  goto  %s (line %d)\n", ref.Name, ref.Line)
	}
	return b.String()
}
