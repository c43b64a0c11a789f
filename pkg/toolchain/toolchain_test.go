package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder("", zap.NewNop().Sugar())
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	return b
}

func TestBuildAndRun(t *testing.T) {
	b := newBuilder(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "echo.c")
	bin := filepath.Join(dir, "echo")
	require.NoError(t, os.WriteFile(src, []byte("#include <stdio.h>\nint main(void){\nint c;\nwhile((c = getchar()) != EOF) putchar(c);\nreturn 0;\n}\n"), 0o644))

	ctx := context.Background()
	require.NoError(t, b.Build(ctx, src, bin))

	out, err := b.Run(ctx, bin, strings.NewReader("ping\n"))
	require.NoError(t, err)
	assert.Equal(t, "ping\n", out)
}

func TestBuildReportsCompilerOutput(t *testing.T) {
	b := newBuilder(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.c")
	require.NoError(t, os.WriteFile(src, []byte("int main(void){ return }\n"), 0o644))

	err := b.Build(context.Background(), src, filepath.Join(dir, "broken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.c")
}

func TestNewBuilderUnknownCompiler(t *testing.T) {
	_, err := NewBuilder("definitely-not-a-c-compiler", zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-c-compiler")
}
