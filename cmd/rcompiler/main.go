// Command rcompiler reads source text on stdin and, if it parses and
// checks, writes the generated LLVM IR to stdout. The exit-code
// convention is deliberately inverted from the Unix norm: 1 means
// success, 0 means failure.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/zenith9320/rcompiler-go/internal/analyzer"
	"github.com/zenith9320/rcompiler-go/internal/irgen"
	"github.com/zenith9320/rcompiler-go/internal/lexer"
	"github.com/zenith9320/rcompiler-go/internal/parser"
	"github.com/zenith9320/rcompiler-go/internal/pipeline"
)

// errorColor and warnColor highlight rendered diagnostics the same way a
// REPL distinguishes fatal output from advisory output.
var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(0)
		}
	}()

	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading stdin: %v\n", err)
		os.Exit(0)
	}

	ir, ok := compile(string(source))
	if !ok {
		os.Exit(0)
	}
	fmt.Print(ir)
	os.Exit(1)
}

// compile runs the full pipeline and reports (ir, true) only when lexing,
// parsing, checking, and IR generation all succeed (the stage-to-stage
// ordering). Every collected diagnostic, warnings included, is written to
// stderr before compile returns.
func compile(source string) (string, bool) {
	unit := pipeline.NewUnit(source)

	lx := lexer.New(source)
	stream := pipeline.NewTokenStream(lx.NextToken)
	p := parser.New(stream, unit)
	prog := p.ParseProgram()

	if !unit.OK() {
		reportErrors(unit)
		return "", false
	}

	checker := analyzer.New(unit)
	if !checker.Check(prog) {
		reportErrors(unit)
		return "", false
	}

	gen := irgen.New(unit, checker.RootScope())
	ir, ok := gen.Generate(prog)
	if !ok {
		reportErrors(unit)
		return "", false
	}
	reportErrors(unit)
	return ir, true
}

func reportErrors(unit *pipeline.Unit) {
	for _, e := range unit.Errors {
		if e.IsWarning() {
			warnColor.Fprintln(os.Stderr, e.Error())
			continue
		}
		errorColor.Fprintln(os.Stderr, e.Error())
	}
}
