package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teenytiny/pkg/toolchain"
)

// runProgram translates src, builds it with the host C compiler and runs it.
func runProgram(t *testing.T, src, stdin string) string {
	t.Helper()
	b, err := toolchain.NewBuilder("", zap.NewNop().Sugar())
	if err != nil {
		t.Skipf("skipping: %v", err)
	}

	code, err := Translate(src)
	require.NoError(t, err)

	dir := t.TempDir()
	cFile := filepath.Join(dir, "prog.c")
	bin := filepath.Join(dir, "prog")
	require.NoError(t, os.WriteFile(cFile, []byte(code), 0o644))

	ctx := context.Background()
	require.NoError(t, b.Build(ctx, cFile, bin), "generated code:\n%s", code)
	out, err := b.Run(ctx, bin, strings.NewReader(stdin))
	require.NoError(t, err)
	return out
}

func TestPrograms_E2E(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		stdin string
		want  string
	}{
		{
			name: "conditional print",
			src:  bigProgram,
			want: "big\n",
		},
		{
			name: "sum with while",
			src:  "LET s = 0\nLET i = 1\nWHILE i <= 10 REPEAT\n  LET s = s + i\n  LET i = i + 1\nENDWHILE\nPRINT s",
			want: "55.00\n",
		},
		{
			name: "goto loop",
			src:  "LET i = 0\nLABEL top\nLET i = i + 1\nIF i < 3 THEN\n  GOTO top\nENDIF\nPRINT i",
			want: "3.00\n",
		},
		{
			name: "label closing a block",
			src:  "LET a = 1\nIF a == 1 THEN\n  GOTO skip\n  PRINT \"no\"\n  LABEL skip\nENDIF\nPRINT \"yes\"",
			want: "yes\n",
		},
		{
			name: "negative operands",
			src:  "LET a = 1 - -2\nPRINT a * -1",
			want: "-3.00\n",
		},
		{
			name:  "input",
			src:   "INPUT a\nINPUT b\nPRINT a * b",
			stdin: "6 7\n",
			want:  "42.00\n",
		},
		{
			name:  "bad input resets to zero",
			src:   "INPUT a\nINPUT b\nPRINT a + b",
			stdin: "abc 4\n",
			want:  "4.00\n",
		},
		{
			name:  "average",
			src:   averageSource,
			stdin: "2 4 9 0\n",
			want:  "5.00\n",
		},
		{
			name:  "average of nothing",
			src:   averageSource,
			stdin: "0\n",
			want:  "no numbers\n",
		},
		{
			name: "leading zero is decimal",
			src:  "PRINT 010\nPRINT 09",
			want: "10.00\n9.00\n",
		},
		{
			name: "literal division keeps the fraction",
			src:  "PRINT 7 / 2\nLET a = 7\nPRINT a / 2",
			want: "3.50\n3.50\n",
		},
		{
			name: "division by zero",
			src:  "PRINT 1 / 0",
			want: "inf\n",
		},
		{
			name: "names close to c keywords",
			src:  "LET integer = 2\nLET iff = 3\nLABEL mains\nPRINT integer * iff",
			want: "6.00\n",
		},
		{
			name: "fibonacci",
			src: `# first few fibonacci numbers
LET a = 0
LET b = 1
LET n = 0
WHILE n < 6 REPEAT
    PRINT a
    LET c = a + b
    LET a = b
    LET b = c
    LET n = n + 1
ENDWHILE
`,
			want: "0.00\n1.00\n1.00\n2.00\n3.00\n5.00\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runProgram(t, tt.src, tt.stdin))
		})
	}
}
