package compiler

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const bigProgram = `LET a = 5
IF a > 3 THEN
    PRINT "big"
ENDIF
`

func TestTranslateBigProgram(t *testing.T) {
	out, err := Translate(bigProgram)
	require.NoError(t, err)

	want := "#include <stdio.h>\n" +
		"int main(void){\n" +
		"float a;\n" +
		"a = 5.0;\n" +
		"if(a > 3.0){\n" +
		"printf(\"big\\n\");\n" +
		"}\n" +
		"return 0;\n" +
		"}\n"
	assert.Equal(t, want, out)
	assert.Equal(t, 1, strings.Count(out, "float a;"))
}

func TestTranslateIsDeterministic(t *testing.T) {
	src := "INPUT n\nLET s = 0\nLABEL top\nWHILE n > 0 REPEAT\nLET s = s + n\nLET n = n - 1\nENDWHILE\nPRINT s\nIF s < 0 THEN\nGOTO top\nENDIF"
	first, err := Translate(src)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Translate(src)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTranslateFailureReturnsNothing(t *testing.T) {
	out, err := Translate("PRINT x")
	assert.ErrorIs(t, err, ErrUseBeforeAssignment)
	assert.Empty(t, out)
}

// The first mention of every variable in the output is its declaration.
func TestDeclarationPrecedesUse(t *testing.T) {
	src := "INPUT b\nLET a = b * 2\nWHILE a > b REPEAT\nLET c = a - b\nLET a = a - 1\nENDWHILE\nPRINT c"
	res, err := Run(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.Variables)

	lines := strings.Split(res.Code, "\n")
	for _, name := range res.Variables {
		word := regexp.MustCompile(`\b` + name + `\b`)
		first := -1
		for i, line := range lines {
			if word.MatchString(line) {
				first = i
				break
			}
		}
		require.NotEqual(t, -1, first, name)
		assert.Equal(t, "float "+name+";", lines[first], name)
	}
}

func TestTranslateFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "count.teeny")
	out := filepath.Join(dir, "count.c")
	require.NoError(t, os.WriteFile(in, []byte("LET i = 1\nLABEL l\nGOTO l\n"), 0o644))

	res, err := TranslateFile(in, out, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, []string{"i"}, res.Variables)
	assert.Equal(t, []string{"l"}, res.Labels)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, res.Code, string(written))
	assert.Contains(t, res.Symbols.String(), "label l (line 2)")
}

func TestTranslateFileUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "ok.teeny")
	require.NoError(t, os.WriteFile(in, []byte("PRINT 1\n"), 0o644))

	_, err := TranslateFile(in, filepath.Join(dir, "missing", "out.c"), zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write output file")
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestTranslateFileWritesNothingOnError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.teeny")
	out := filepath.Join(dir, "bad.c")
	require.NoError(t, os.WriteFile(in, []byte("GOTO nowhere\n"), 0o644))

	_, err := TranslateFile(in, out, zap.NewNop().Sugar())
	assert.ErrorIs(t, err, ErrUndeclaredLabel)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTranslateFileMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := TranslateFile(filepath.Join(dir, "missing.teeny"), filepath.Join(dir, "out.c"), zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read source file")
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
