package compiler

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Result is the outcome of one successful translation run.
type Result struct {
	Code      string   // generated C source
	Variables []string // declared variables, sorted
	Labels    []string // declared labels, sorted
	Symbols   *SymbolTable

	emitter *Emitter
}

// Translate converts Teeny Tiny source into C. Nothing is returned on failure.
func Translate(src string) (string, error) {
	res, err := Run(src)
	if err != nil {
		return "", err
	}
	return res.Code, nil
}

// Run translates src and reports the collected symbols alongside the code.
func Run(src string) (*Result, error) {
	emitter := NewEmitter()
	parser, err := NewParser(NewLexer(src), emitter)
	if err != nil {
		return nil, err
	}
	if err := parser.Program(); err != nil {
		return nil, err
	}
	syms := parser.Symbols()
	return &Result{
		Code:      emitter.String(),
		Variables: syms.Variables(),
		Labels:    syms.Labels(),
		Symbols:   syms,
		emitter:   emitter,
	}, nil
}

// TranslateFile reads inPath, translates it and writes the C code to outPath.
// outPath is left untouched when translation fails.
func TranslateFile(inPath, outPath string, log *zap.SugaredLogger) (*Result, error) {
	src, err := os.ReadFile(inPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read source file %q", inPath)
	}
	log.Debugw("read source", "path", inPath, "bytes", len(src))

	res, err := Run(string(src))
	if err != nil {
		return nil, err
	}
	log.Debugw("translated", "variables", len(res.Variables), "labels", len(res.Labels))

	n, err := writeArtifact(outPath, res.emitter)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write output file %q", outPath)
	}
	log.Debugw("wrote output", "path", outPath, "bytes", n)
	return res, nil
}

func writeArtifact(path string, e *Emitter) (n int64, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return e.WriteTo(f)
}
