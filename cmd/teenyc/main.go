// Command teenyc translates a Teeny Tiny source file into C.
//
//	teenyc [-o out.c] [-tokens] [-cc compiler [-run]] [-v] <source file>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sanity-io/litter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"teenytiny/pkg/compiler"
	"teenytiny/pkg/toolchain"
	"teenytiny/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func newLogger(w io.Writer, verbose bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	enc := zap.NewProductionEncoderConfig()
	if verbose {
		level = zapcore.DebugLevel
		enc = zap.NewDevelopmentEncoderConfig()
	}
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("teenyc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	outPath := flags.String("o", "out.c", "output C file path")
	dumpTokens := flags.Bool("tokens", false, "print the token stream before translating")
	cc := flags.String("cc", "", "build the output with this C compiler (cc, gcc, clang)")
	runProgram := flags.Bool("run", false, "run the built program (implies -cc, using the first compiler on PATH if -cc is empty)")
	verbose := flags.Bool("v", false, "verbose logging and symbol table dump")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: teenyc [flags] <source file>")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(stderr, "error: compiler needs exactly one source file as argument")
		flags.Usage()
		return 2
	}

	log := newLogger(stderr, *verbose)
	defer log.Sync() //nolint:errcheck

	fmt.Fprintln(stdout, "Teeny Tiny Compiler")

	fullPath, baseDir, err := utils.GetPathInfo(flags.Arg(0))
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}
	log.Debugw("source", "path", fullPath, "dir", baseDir)

	if *dumpTokens {
		if err := printTokens(stdout, fullPath); err != nil {
			log.Errorf("compilation failed: %v", err)
			return 1
		}
	}

	res, err := compiler.TranslateFile(fullPath, *outPath, log)
	if err != nil {
		log.Errorf("compilation failed: %v", err)
		return 1
	}
	log.Infow("translated", "out", *outPath, "variables", len(res.Variables), "labels", len(res.Labels))
	if *verbose {
		fmt.Fprint(stdout, res.Symbols)
	}

	if *cc != "" || *runProgram {
		if err := build(log, *cc, *outPath, *runProgram, stdin, stdout); err != nil {
			log.Errorf("native build failed: %v", err)
			return 1
		}
	}

	fmt.Fprintln(stdout, "Compiling completed.")
	return 0
}

// printTokens dumps every token of the file, stopping at the first lexical error.
func printTokens(w io.Writer, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tokens, err := compiler.Lex(string(src))
	fmt.Fprintf(w, "Tokens (%d)\n", len(tokens))
	fmt.Fprintln(w, litter.Sdump(tokens))
	return err
}

// build compiles the generated C file next to itself and optionally runs it.
func build(log *zap.SugaredLogger, cc, cFile string, runIt bool, stdin io.Reader, stdout io.Writer) error {
	b, err := toolchain.NewBuilder(cc, log)
	if err != nil {
		return err
	}
	// an absolute path keeps exec from searching PATH for the binary
	full, _, err := utils.GetPathInfo(cFile)
	if err != nil {
		return err
	}
	bin := utils.WithExt(full, "")
	if bin == full {
		bin += ".out"
	}

	ctx := context.Background()
	if err := b.Build(ctx, cFile, bin); err != nil {
		return err
	}
	log.Infow("built", "cc", b.CC, "bin", bin)

	if !runIt {
		return nil
	}
	out, err := b.Run(ctx, bin, stdin)
	fmt.Fprint(stdout, out)
	return err
}
