// Package compiler translates Teeny Tiny programs into C source that a
// native compiler can build.
//
// Pipeline: source → Lexer (pulled one token at a time) → Parser, which
// writes C into an Emitter as it recognizes each statement → C text.
package compiler
