package compiler

import (
	"strings"
	"testing"
)

// averageSource reads numbers until a zero and prints their average.
const averageSource = `# average of the numbers entered, stop with 0
LET total = 0
LET count = 0
INPUT n
WHILE n != 0 REPEAT
    LET total = total + n
    LET count = count + 1
    INPUT n
ENDWHILE
IF count == 0 THEN
    PRINT "no numbers"
    GOTO done
ENDIF
PRINT total / count
LABEL done
`

func BenchmarkLex(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Lex(averageSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTranslate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Translate(averageSource); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkTranslateLarge repeats the program body with fresh label names.
func BenchmarkTranslateLarge(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString(strings.ReplaceAll(averageSource, "done", "done"+strings.Repeat("x", i)))
	}
	src := sb.String()
	b.SetBytes(int64(len(src)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Translate(src); err != nil {
			b.Fatal(err)
		}
	}
}
