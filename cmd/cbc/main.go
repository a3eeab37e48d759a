// Package main implements the C♭ compiler entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/cflat-lang/cflat/internal/compiler"
	"github.com/cflat-lang/cflat/internal/diag"
	"github.com/cflat-lang/cflat/internal/ir"
	"github.com/cflat-lang/cflat/internal/syntax"
)

// Compiler flags
var (
	emitTokens   = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST      = flag.Bool("emit-ast", false, "Output AST")
	astFormat    = flag.String("ast-format", "text", "AST output format (text or json)")
	emitTypedAST = flag.Bool("emit-typed-ast", false, "Output AST annotated with types")
	emitIR       = flag.Bool("emit-ir", false, "Output IR")
	verifyIR     = flag.Bool("verify-ir", false, "Verify IR after lowering")
	output       = flag.String("o", "", "Output file (default stdout)")
	jobs         = flag.Int("j", 0, "Number of files to compile in parallel (default GOMAXPROCS)")
	maxErrors    = flag.Int("max-errors", syntax.DefaultMaxErrors, "Stop parsing a file after this many syntax errors (0 for no limit)")
	colorFlag    = flag.String("color", "auto", "Color diagnostics (auto, always or never)")
	version      = flag.Bool("version", false, "Print version")
	trace        = flag.Bool("trace", false, "Output per-stage timing trace")
)

// Version information
const Version = "0.1.0-dev"

var colorMode = diag.ColorAuto

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "C♭ Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: cbc [options] <file.cb>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("cbc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	mode, err := diag.ParseColorMode(*colorFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	colorMode = mode

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: cbc [options] <file.cb>...")
		os.Exit(1)
	}

	run := runCompile
	switch {
	case *emitTokens:
		run = runEmitTokens
	case *emitAST:
		run = runEmitAST
	case *emitTypedAST:
		run = runEmitTypedAST
	}
	os.Exit(run(files))
}

// fail reports an error that stops the driver and returns its exit code.
func fail(err error) int {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	return 1
}

// newSession creates a compilation session configured from the flags.
func newSession() *compiler.Session {
	s := compiler.NewSession()
	s.Jobs = *jobs
	s.VerifyIR = *verifyIR
	s.MaxErrors = *maxErrors
	if s.MaxErrors == 0 {
		s.MaxErrors = -1
	}
	if *trace {
		s.Tracer = compiler.NewWriterTracer(os.Stderr)
	}
	return s
}

// readUnits reads every input file.
func readUnits(files []string) ([]compiler.Unit, error) {
	units := make([]compiler.Unit, 0, len(files))
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		units = append(units, compiler.Unit{Name: name, Src: src})
	}
	return units, nil
}

// openOutput returns the writer selected by -o and a function that
// closes it.
func openOutput() (io.Writer, func() error, error) {
	if *output == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(*output)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// printDiagnostics writes ds to stderr with source snippets taken from
// units, and returns the exit code for them.
func printDiagnostics(units []compiler.Unit, ds []diag.Diagnostic) int {
	f := diag.NewFormatter(os.Stderr)
	f.SetColor(diag.UseColor(colorMode, os.Stderr))
	for _, u := range units {
		f.AddSource(u.Name, u.Src)
	}
	f.FormatAll(ds)
	if diag.HasErrors(ds) {
		return 1
	}
	return 0
}

// runCompile compiles every file and writes the IR of all of them when
// -emit-ir is set. Nothing is written if any file has errors.
func runCompile(files []string) int {
	units, err := readUnits(files)
	if err != nil {
		return fail(err)
	}

	results, err := newSession().CompileAll(context.Background(), units)
	if err != nil {
		return fail(err)
	}
	if code := printDiagnostics(units, compiler.Diagnostics(results)); code != 0 {
		return code
	}

	if !*emitIR {
		return 0
	}
	w, closeOut, err := openOutput()
	if err != nil {
		return fail(err)
	}
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		ir.Fprint(w, res.Module)
	}
	if err := closeOut(); err != nil {
		return fail(err)
	}
	return 0
}

// runEmitTokens scans the input files and prints all tokens with positions.
func runEmitTokens(files []string) int {
	units, err := readUnits(files)
	if err != nil {
		return fail(err)
	}
	w, closeOut, err := openOutput()
	if err != nil {
		return fail(err)
	}

	var ds []diag.Diagnostic
	errh := func(err *syntax.LexError) {
		ds = append(ds, err.ToDiagnostic())
	}

	// Print header
	fmt.Fprintf(w, "%-20s %-12s %-14s %s\n", "POSITION", "TOKEN", "CLASS", "LITERAL")
	fmt.Fprintf(w, "%-20s %-12s %-14s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 14), strings.Repeat("-", 20))

	for _, u := range units {
		for _, l := range syntax.Tokenize(u.Name, u.Src, errh) {
			tok := l.Tok.String()
			lit := ""
			switch l.Tok.Class() {
			case syntax.ClassLiteral:
				tok += "(" + l.Kind.String() + ")"
				lit = formatLiteral(l.Lit)
			case syntax.ClassIdent:
				lit = formatLiteral(l.Lit)
			}
			fmt.Fprintf(w, "%-20s %-12s %-14s %s\n", l.Pos, tok, l.Tok.Class(), lit)
		}
	}

	if err := closeOut(); err != nil {
		return fail(err)
	}
	return printDiagnostics(units, ds)
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}

	// Show the content with escapes visible for readability
	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// runEmitAST parses the input files and outputs their ASTs. The trees of
// files with syntax errors are printed too, error nodes included.
func runEmitAST(files []string) int {
	if *astFormat != "text" && *astFormat != "json" {
		fmt.Fprintf(os.Stderr, "error: unknown AST format %q\n", *astFormat)
		return 1
	}
	units, err := readUnits(files)
	if err != nil {
		return fail(err)
	}
	w, closeOut, err := openOutput()
	if err != nil {
		return fail(err)
	}

	s := newSession()
	var ds []diag.Diagnostic
	for _, u := range units {
		res, err := s.Parse(context.Background(), u)
		if err != nil {
			return fail(err)
		}
		ds = append(ds, res.Diagnostics...)

		switch *astFormat {
		case "json":
			if err := syntax.FprintJSON(w, res.File); err != nil {
				return fail(err)
			}
		default:
			syntax.Fprint(w, res.File)
		}
	}

	if err := closeOut(); err != nil {
		return fail(err)
	}
	return printDiagnostics(units, ds)
}

// runEmitTypedAST compiles the input files and outputs their ASTs with the
// type of every expression. Files whose names did not resolve have no
// types and are not printed.
func runEmitTypedAST(files []string) int {
	units, err := readUnits(files)
	if err != nil {
		return fail(err)
	}
	results, err := newSession().CompileAll(context.Background(), units)
	if err != nil {
		return fail(err)
	}
	w, closeOut, err := openOutput()
	if err != nil {
		return fail(err)
	}

	for _, res := range results {
		if res.Types == nil {
			continue
		}
		tinfo := res.Types
		syntax.FprintAnnotated(w, res.File, func(e syntax.Expr) string {
			if tv, ok := tinfo.Types[e]; ok {
				return tv.String()
			}
			return ""
		})
	}

	if err := closeOut(); err != nil {
		return fail(err)
	}
	return printDiagnostics(units, compiler.Diagnostics(results))
}
