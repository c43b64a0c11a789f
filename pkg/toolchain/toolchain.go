// Package toolchain hands generated C code to a native compiler and runs the
// resulting program.
package toolchain

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNoCompiler is returned by FindCC when no C compiler is on PATH.
var ErrNoCompiler = errors.New("no C compiler found on PATH")

// candidates are tried in order by FindCC.
var candidates = []string{"cc", "gcc", "clang"}

// FindCC returns the path of the first C compiler found on PATH.
func FindCC() (string, error) {
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrNoCompiler
}

// Builder invokes a native C compiler.
type Builder struct {
	CC  string
	log *zap.SugaredLogger
}

// NewBuilder returns a Builder for cc. An empty cc selects FindCC's choice.
func NewBuilder(cc string, log *zap.SugaredLogger) (*Builder, error) {
	if cc == "" {
		found, err := FindCC()
		if err != nil {
			return nil, err
		}
		cc = found
	} else if _, err := exec.LookPath(cc); err != nil {
		return nil, errors.Wrapf(err, "C compiler %q", cc)
	}
	return &Builder{CC: cc, log: log}, nil
}

// Build compiles cFile into the executable binFile.
func (b *Builder) Build(ctx context.Context, cFile, binFile string) error {
	b.log.Debugw("building", "cc", b.CC, "src", cFile, "bin", binFile)
	cmd := exec.CommandContext(ctx, b.CC, "-o", binFile, cFile)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s %s: %s", b.CC, cFile, strings.TrimSpace(string(out)))
	}
	return nil
}

// Run executes binFile with stdin attached and returns what it printed.
func (b *Builder) Run(ctx context.Context, binFile string, stdin io.Reader) (string, error) {
	b.log.Debugw("running", "bin", binFile)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binFile)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), errors.Wrapf(err, "%s: %s", binFile, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
