package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cflat-lang/cflat/internal/diag"
	"github.com/cflat-lang/cflat/internal/ir"
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

func compile(t *testing.T, src string) *Result {
	t.Helper()
	res, err := NewSession().Compile(context.Background(), Unit{Name: "test.cb", Src: []byte(src)})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return res
}

func codes(ds []diag.Diagnostic) []diag.Code {
	var cs []diag.Code
	for _, d := range ds {
		cs = append(cs, d.Code)
	}
	return cs
}

func TestCompileValid(t *testing.T) {
	res := compile(t, "var x: int = 1 + 2;")

	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if res.Failed() {
		t.Errorf("Failed() = true")
	}

	decl, ok := res.File.Stmts[0].(*syntax.VarDecl)
	if !ok {
		t.Fatalf("got %T, want *syntax.VarDecl", res.File.Stmts[0])
	}
	bin, ok := decl.Value.(*syntax.BinaryExpr)
	if !ok {
		t.Fatalf("initializer is %T, want *syntax.BinaryExpr", decl.Value)
	}
	if got := res.Types.TypeOf(bin); got != types.Typ[types.Int] {
		t.Errorf("type of %s = %v, want int", syntax.ExprString(bin), got)
	}

	if res.Module == nil {
		t.Fatalf("no module")
	}
	if res.Module.Name != "test" {
		t.Errorf("module name = %q, want %q", res.Module.Name, "test")
	}
	if res.Module.Global("x") == nil || res.Module.Func(ir.InitFuncName) == nil {
		t.Errorf("module missing global x or init func:\n%s", ir.Sprint(res.Module))
	}
}

func TestCompileTypeMismatch(t *testing.T) {
	res := compile(t, `var x: int = "a";`)

	if got := codes(res.Diagnostics); len(got) != 1 || got[0] != diag.CodeTypeMismatch {
		t.Fatalf("codes = %v, want exactly [%s]", got, diag.CodeTypeMismatch)
	}
	d := res.Diagnostics[0]
	if d.Stage != diag.StageTypeCheck || d.Span.String() != "test.cb:1:14" {
		t.Errorf("diagnostic = %+v", d)
	}
	if res.Module != nil {
		t.Errorf("module lowered despite type errors")
	}
}

func TestCompileUndefinedSkipsChecking(t *testing.T) {
	res := compile(t, "x + 1;")

	if got := codes(res.Diagnostics); len(got) != 1 || got[0] != diag.CodeResolveUndefinedName {
		t.Fatalf("codes = %v, want exactly [%s]", got, diag.CodeResolveUndefinedName)
	}
	if res.Names != nil || res.Types != nil || res.Module != nil {
		t.Errorf("stages after a failed resolution ran: names=%v types=%v module=%v",
			res.Names != nil, res.Types != nil, res.Module != nil)
	}
}

func TestCompileUnmatchedBrace(t *testing.T) {
	res := compile(t, "func main() {\n  var x: int = 1;\n")

	if got := codes(res.Diagnostics); len(got) != 1 || got[0] != diag.CodeSyntax {
		t.Fatalf("codes = %v, want exactly [%s]", got, diag.CodeSyntax)
	}
	fd, ok := res.File.Stmts[len(res.File.Stmts)-1].(*syntax.FuncDecl)
	if !ok {
		t.Fatalf("last statement is %T, want *syntax.FuncDecl", res.File.Stmts[len(res.File.Stmts)-1])
	}
	body := fd.Body.Stmts
	if _, ok := body[len(body)-1].(*syntax.ErrorNode); !ok {
		t.Errorf("body ends with %T, want *syntax.ErrorNode", body[len(body)-1])
	}

	// Syntax errors do not stop resolution or checking, only lowering.
	if res.Names == nil || res.Types == nil {
		t.Errorf("resolution or checking skipped after a syntax error")
	}
	if res.Module != nil {
		t.Errorf("module lowered despite syntax errors")
	}
}

func TestCompileStageOrder(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []diag.Stage
	}{
		{"lexer and parser", "var a = @1;\nvar = 3;", []diag.Stage{diag.StageLexer, diag.StageParser}},
		{"parser then checker", "var b: int = true;\nvar = 3;", []diag.Stage{diag.StageParser, diag.StageTypeCheck}},
		{"resolver only", "var c = 1; var c = 2; d = 3;", []diag.Stage{diag.StageResolve, diag.StageResolve}},
		{"checker only", "func f(): int { return true; }", []diag.Stage{diag.StageTypeCheck}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compile(t, tt.src)
			var got []diag.Stage
			for _, d := range res.Diagnostics {
				got = append(got, d.Stage)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("stages = %v, want %v\n%v", got, tt.want, res.Diagnostics)
			}
		})
	}
}

// A function named on its own as a statement is a user error, never an
// internal one.
func TestCompileFunctionStatement(t *testing.T) {
	srcs := []string{
		"func f() {}\nf;",
		"func f(): int { return 1; }\nfunc g() { (f); }",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			res := compile(t, src)
			if got := codes(res.Diagnostics); fmt.Sprint(got) != fmt.Sprint([]diag.Code{diag.CodeTypeMismatch}) {
				t.Fatalf("codes = %v, want [%s]\n%v", got, diag.CodeTypeMismatch, res.Diagnostics)
			}
			if d := res.Diagnostics[0]; d.Stage != diag.StageTypeCheck {
				t.Errorf("stage = %s, want %s", d.Stage, diag.StageTypeCheck)
			}
			if res.Module != nil {
				t.Errorf("module lowered despite errors")
			}
		})
	}
}

func TestCompileVerifyIR(t *testing.T) {
	s := NewSession()
	s.VerifyIR = true
	src := `
func fib(n: int): int {
  if n < 2 { return n; }
  return fib(n - 1) + fib(n - 2);
}
var done = fib(10) > 50 && true;
`
	res, err := s.Compile(context.Background(), Unit{Name: "fib.cb", Src: []byte(src)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() || res.Module == nil {
		t.Fatalf("diagnostics: %v", res.Diagnostics)
	}
	if res.Module.Name != "fib" {
		t.Errorf("module name = %q, want fib", res.Module.Name)
	}
}

func TestCompileMaxErrors(t *testing.T) {
	s := NewSession()
	s.MaxErrors = 2
	res, err := s.Compile(context.Background(), Unit{Name: "test.cb", Src: []byte("var = 1;\nvar = 2;\nvar = 3;\nvar = 4;\n")})
	if err != nil {
		t.Fatal(err)
	}
	got := codes(res.Diagnostics)
	if len(got) == 0 || got[len(got)-1] != diag.CodeSyntaxTooMany {
		t.Errorf("codes = %v, want a final %s", got, diag.CodeSyntaxTooMany)
	}
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := NewSession().Compile(ctx, Unit{Name: "test.cb", Src: []byte("var x = 1;")})
	if !errors.Is(err, context.Canceled) || res != nil {
		t.Errorf("Compile = %v, %v; want nil, context.Canceled", res, err)
	}
}

func TestCompileCancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stages []diag.Stage
	s := NewSession()
	s.Tracer = TracerFunc(func(ev Event) {
		stages = append(stages, ev.Stage)
		if ev.Stage == diag.StageResolve {
			cancel()
		}
	})
	res, err := s.Compile(ctx, Unit{Name: "test.cb", Src: []byte("var x = 1;")})
	if !errors.Is(err, context.Canceled) || res != nil {
		t.Errorf("Compile = %v, %v; want nil, context.Canceled", res, err)
	}
	if fmt.Sprint(stages) != "[parser resolve]" {
		t.Errorf("stages run = %v, want [parser resolve]", stages)
	}
}

func TestCompileAll(t *testing.T) {
	var units []Unit
	for i := 0; i < 20; i++ {
		src := fmt.Sprintf("func f%d(a: int): int { return a * %d; }\nvar r = f%d(2);\n", i, i, i)
		if i%5 == 0 {
			src += "undefined;\n"
		}
		units = append(units, Unit{Name: fmt.Sprintf("u%02d.cb", i), Src: []byte(src)})
	}

	s := NewSession()
	s.Jobs = 4
	results, err := s.CompileAll(context.Background(), units)
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(results) != len(units) {
		t.Fatalf("got %d results, want %d", len(results), len(units))
	}

	var sig *types.Func
	for i, res := range results {
		if res.Unit.Name != units[i].Name {
			t.Errorf("result %d is for %s, want %s", i, res.Unit.Name, units[i].Name)
		}
		if failed := i%5 == 0; res.Failed() != failed {
			t.Errorf("%s: Failed() = %v, want %v", res.Unit.Name, res.Failed(), failed)
		}

		if res.Names == nil {
			continue
		}
		// Every unit interns its signature in the shared context.
		fd := res.File.Stmts[0].(*syntax.FuncDecl)
		got := res.Names.Defs[fd.Name].Signature()
		if sig == nil {
			sig = got
		} else if got != sig {
			t.Errorf("%s: signature %v not shared", res.Unit.Name, got)
		}
	}
	if n := s.Types.Len(); n != 1 {
		t.Errorf("context holds %d function types, want 1", n)
	}
	if n := len(Diagnostics(results)); n != 4 {
		t.Errorf("got %d diagnostics, want 4", n)
	}
}

func TestCompileAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	units := []Unit{{Name: "a.cb", Src: []byte("var a = 1;")}, {Name: "b.cb", Src: []byte("var b = 2;")}}
	results, err := NewSession().CompileAll(ctx, units)
	if !errors.Is(err, context.Canceled) || results != nil {
		t.Errorf("CompileAll = %v, %v; want nil, context.Canceled", results, err)
	}
}

func TestTraceEvents(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"full pipeline", "var x = 1;", "[parser resolve typecheck lower]"},
		{"resolve failure", "y;", "[parser resolve]"},
		{"type failure", "var z: int = true;", "[parser resolve typecheck]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			var stages []diag.Stage
			s := NewSession()
			s.Tracer = TracerFunc(func(ev Event) {
				mu.Lock()
				defer mu.Unlock()
				if ev.Session != s.ID || ev.Unit != "test.cb" {
					t.Errorf("event = %+v", ev)
				}
				stages = append(stages, ev.Stage)
			})
			if _, err := s.Compile(context.Background(), Unit{Name: "test.cb", Src: []byte(tt.src)}); err != nil {
				t.Fatal(err)
			}
			if got := fmt.Sprint(stages); got != tt.want {
				t.Errorf("stages = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWriterTracer(t *testing.T) {
	var buf bytes.Buffer
	tr := NewWriterTracer(&buf)
	id := uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000000")

	tr.Trace(Event{Session: id, Unit: "main.cb", Stage: diag.StageParser, Elapsed: 41 * time.Microsecond, Size: 1200})
	tr.Trace(Event{Session: id, Unit: "main.cb", Stage: diag.StageTypeCheck, Elapsed: 88 * time.Microsecond, Size: 1024, Errors: 2})
	tr.Trace(Event{Session: id, Unit: "main.cb", Stage: diag.StageLower, Elapsed: 5 * time.Microsecond, Size: 7, Errors: 1})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"[3f2a9c1e] main.cb parser 1.2 kB 41µs",
		"[3f2a9c1e] main.cb typecheck 1,024 exprs 88µs 2 errors",
		"[3f2a9c1e] main.cb lower 7 instrs 5µs 1 error",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i, line := range lines {
		if got := strings.Join(strings.Fields(line), " "); got != want[i] {
			t.Errorf("line %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestModuleName(t *testing.T) {
	tests := []struct{ name, want string }{
		{"main.cb", "main"},
		{"dir/sub/lib.cb", "lib"},
		{"noext", "noext"},
		{"", "main"},
	}
	for _, tt := range tests {
		if got := (Unit{Name: tt.name}).ModuleName(); got != tt.want {
			t.Errorf("ModuleName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
