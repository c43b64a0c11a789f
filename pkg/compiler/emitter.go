package compiler

import (
	"io"
	"strings"
)

// Emitter accumulates generated C text in two append-only buffers: the
// header (includes, entry point, declarations) and the body. The artifact
// is always header followed by body.
type Emitter struct {
	header strings.Builder
	code   strings.Builder
}

func NewEmitter() *Emitter {
	return &Emitter{}
}

// Emit appends code to the body.
func (e *Emitter) Emit(code string) {
	e.code.WriteString(code)
}

// EmitLine appends code and a line break to the body.
func (e *Emitter) EmitLine(code string) {
	e.code.WriteString(code)
	e.code.WriteByte('\n')
}

// HeaderLine appends code and a line break to the header.
func (e *Emitter) HeaderLine(code string) {
	e.header.WriteString(code)
	e.header.WriteByte('\n')
}

// String returns the concatenated artifact.
func (e *Emitter) String() string {
	return e.header.String() + e.code.String()
}

// WriteTo writes the artifact to w.
func (e *Emitter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.header.String())
	if err != nil {
		return int64(n), err
	}
	m, err := io.WriteString(w, e.code.String())
	return int64(n + m), err
}
