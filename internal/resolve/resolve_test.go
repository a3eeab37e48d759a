package resolve

import (
	"strings"
	"testing"

	"github.com/cflat-lang/cflat/internal/diag"
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

func parse(t *testing.T, src string) *syntax.File {
	t.Helper()
	p := syntax.NewParser("test.cb", []byte(src), func(err error) {
		t.Fatalf("unexpected syntax error: %v", err)
	})
	return p.Parse()
}

func resolveSrc(t *testing.T, src string) (*syntax.File, *Info, []*ResolveError) {
	t.Helper()
	f := parse(t, src)
	info, errs := Resolve(f, types.NewContext())
	return f, info, errs
}

func mustResolve(t *testing.T, src string) (*syntax.File, *Info) {
	t.Helper()
	f, info, errs := resolveSrc(t, src)
	for _, err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	return f, info
}

// names collects all *syntax.Name nodes in f with the given value, in order.
func names(f *syntax.File, value string) []*syntax.Name {
	var list []*syntax.Name
	syntax.Inspect(f, func(n syntax.Node) bool {
		if name, ok := n.(*syntax.Name); ok && name.Value == value {
			list = append(list, name)
		}
		return true
	})
	return list
}

func TestResolveValidPrograms(t *testing.T) {
	srcs := []string{
		"var x: int = 1 + 2;",
		"var x = 1; var y = x + 1; y = x;",
		"func f(a: int, b: int): int { return a + b; } var r = f(1, 2);",
		"var r = f(); func f(): int { return 1; }",
		"func even(n: int): bool { if n == 0 { return true; } return odd(n - 1); }\n" +
			"func odd(n: int): bool { if n == 0 { return false; } return even(n - 1); }",
		"var x = 1; { var x = 2; { var x = x; } }",
		"var g = 0; func bump() { g = g + 1; }",
		"func f(x: int) { var y = x; while y > 0 { var z = y; y = z - 1; } }",
		"func f(f: int): int { return f; }",
		"if true { var a = 1; } else { var a = 2; }",
		"func v() { return; } v();",
	}

	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			mustResolve(t, src)
		})
	}
}

func TestResolveUndefinedName(t *testing.T) {
	_, _, errs := resolveSrc(t, "x + 1;")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	err := errs[0]
	if err.Kind != UndefinedName || err.Name != "x" {
		t.Errorf("got %v %q, want UndefinedNameError for x", err.Kind, err.Name)
	}
	if err.Pos.Line() != 1 || err.Pos.Col() != 1 || err.End.Offset() != 1 {
		t.Errorf("error span = %v-%v, want 1:1 of length 1", err.Pos, err.End)
	}
	if got := err.Error(); got != "test.cb:1:1: undefined: x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string // "kind name"
	}{
		{"duplicate var", "var x = 1; var x = 2;", []string{"DuplicateDeclError x"}},
		{"duplicate func", "func f() {} func f() {}", []string{"DuplicateDeclError f"}},
		{"var clashes with func", "func f() {} var f = 1;", []string{"DuplicateDeclError f"}},
		{"duplicate param", "func f(a: int, a: int) {}", []string{"DuplicateDeclError a"}},
		{"local clashes with param", "func f(a: int) { var a = 1; }", []string{"DuplicateDeclError a"}},
		{"duplicate in block", "{ var y = 1; var y = 2; }", []string{"DuplicateDeclError y"}},
		{"use before declaration", "var a = b; var b = 1;", []string{"UndefinedNameError b"}},
		{"global declared after function", "func f(): int { return g; } var g = 1;", []string{"UndefinedNameError g"}},
		{"self reference", "var a = a;", []string{"UndefinedNameError a"}},
		{"out of scope", "{ var a = 1; } a = 2;", []string{"UndefinedNameError a"}},
		{"param outside function", "func f(p: int) {} p;", []string{"UndefinedNameError p"}},
		{"undefined callee", "g(1);", []string{"UndefinedNameError g"}},
		{"undefined assign target", "z = 1;", []string{"UndefinedNameError z"}},
		{"type used as value", "var a = int;", []string{"UndefinedNameError int"}},
		{"unknown var type", "var a: foo = 1;", []string{"UndefinedNameError foo"}},
		{"unknown param type", "func f(a: foo) {}", []string{"UndefinedNameError foo"}},
		{"unknown result type", "func f(): foo {}", []string{"UndefinedNameError foo"}},
		{"void var", "var a: void;", []string{"InvalidVoidError void"}},
		{"void param", "func f(a: void) {}", []string{"InvalidVoidError void"}},
		{"several", "a; b; var a = 1; a; c;", []string{"UndefinedNameError a", "UndefinedNameError b", "UndefinedNameError c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, errs := resolveSrc(t, tt.src)
			var got []string
			for _, err := range errs {
				got = append(got, err.Kind.String()+" "+err.Name)
			}
			if strings.Join(got, "; ") != strings.Join(tt.want, "; ") {
				t.Errorf("errors = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDuplicateRecordsPrevious(t *testing.T) {
	_, _, errs := resolveSrc(t, "var x = 1;\nvar x = 2;")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	err := errs[0]
	if err.Pos.Line() != 2 || err.Prev.Line() != 1 {
		t.Errorf("error at %v, previous at %v; want line 2 and line 1", err.Pos, err.Prev)
	}
	if err.Msg != "x redeclared in this block" {
		t.Errorf("Msg = %q", err.Msg)
	}
}

func TestResolveErrorDiagnostic(t *testing.T) {
	_, _, errs := resolveSrc(t, "var x = 1;\nvar x = 2;\nfoo;")
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}

	d := errs[0].ToDiagnostic()
	if d.Stage != diag.StageResolve || d.Code != diag.CodeResolveDuplicateDecl {
		t.Errorf("stage, code = %q, %q", d.Stage, d.Code)
	}
	if d.Span.String() != "test.cb:2:5" || d.Span.Length != 1 {
		t.Errorf("span = %v (length %d), want test.cb:2:5 of length 1", d.Span, d.Span.Length)
	}
	if len(d.Notes) != 1 || d.Notes[0] != "other declaration of x at test.cb:1:5" {
		t.Errorf("notes = %q", d.Notes)
	}

	d = errs[1].ToDiagnostic()
	if d.Code != diag.CodeResolveUndefinedName || d.Span.Length != 3 || len(d.Notes) != 0 {
		t.Errorf("undefined name diagnostic = %+v", d)
	}
}

func TestResolveShadowing(t *testing.T) {
	f, info := mustResolve(t, "var x = 1; { var x = 2; x; } x;")

	xs := names(f, "x")
	if len(xs) != 4 {
		t.Fatalf("found %d names, want 4", len(xs))
	}
	outer, inner := info.Defs[xs[0]], info.Defs[xs[1]]
	if outer == nil || inner == nil || outer == inner {
		t.Fatalf("expected two distinct declarations, got %v and %v", outer, inner)
	}
	if info.Uses[xs[2]] != inner {
		t.Error("use inside the block does not refer to the inner x")
	}
	if info.Uses[xs[3]] != outer {
		t.Error("use after the block does not refer to the outer x")
	}
	if outer.Depth() != 0 || inner.Depth() != 1 {
		t.Errorf("depths = %d, %d, want 0, 1", outer.Depth(), inner.Depth())
	}
}

func TestResolveInitializerSeesOuterName(t *testing.T) {
	f, info := mustResolve(t, "var x = 1; { var x = x + 1; }")
	xs := names(f, "x")
	// xs: outer decl, inner decl, use in the inner initializer
	if info.Uses[xs[2]] != info.Defs[xs[0]] {
		t.Error("initializer does not refer to the outer x")
	}
}

func TestResolveSymbols(t *testing.T) {
	f, info := mustResolve(t, `
func add(a: int, b: float): string {
	var s: string = "";
	{ var n = a; }
	return s;
}
var g: bool = true;
`)

	tests := []struct {
		name  string
		kind  types.SymbolKind
		typ   string
		depth int
	}{
		{"add", types.FuncSym, "func(int, float): string", 0},
		{"a", types.ParamSym, "int", 1},
		{"b", types.ParamSym, "float", 1},
		{"s", types.VarSym, "string", 1},
		{"n", types.VarSym, "unresolved", 2},
		{"g", types.VarSym, "bool", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym := info.Defs[names(f, tt.name)[0]]
			if sym == nil {
				t.Fatalf("no definition recorded for %s", tt.name)
			}
			if sym.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", sym.Kind(), tt.kind)
			}
			if got := sym.Type().String(); got != tt.typ {
				t.Errorf("Type() = %s, want %s", got, tt.typ)
			}
			if sym.Depth() != tt.depth {
				t.Errorf("Depth() = %d, want %d", sym.Depth(), tt.depth)
			}
		})
	}
}

// Every identifier in a successfully resolved program maps to exactly
// one symbol.
func TestResolveEveryNameBound(t *testing.T) {
	f, info := mustResolve(t, `
var total = 0;
func sum(n: int): int {
	var i = 0;
	while i < n { total = total + i; i = i + 1; }
	return total;
}
sum(10);
`)

	syntax.Inspect(f, func(n syntax.Node) bool {
		name, ok := n.(*syntax.Name)
		if !ok {
			return true
		}
		if types.LookupType(name.Value) != nil {
			return true // type annotation
		}
		_, def := info.Defs[name]
		_, use := info.Uses[name]
		if def == use {
			t.Errorf("%s at %v: def=%v use=%v, want exactly one", name.Value, name.Pos(), def, use)
		}
		if info.SymbolOf(name) == nil {
			t.Errorf("SymbolOf(%s) = nil", name.Value)
		}
		return true
	})
}

func TestResolveFunctionSignaturesInterned(t *testing.T) {
	ctx := types.NewContext()
	f := parse(t, "func f(a: int): bool { return true; } func g(b: int): bool { return false; }")
	info, errs := Resolve(f, ctx)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fsym := info.Defs[names(f, "f")[0]]
	gsym := info.Defs[names(f, "g")[0]]
	if fsym.Type() != gsym.Type() {
		t.Error("identical signatures are not the same interned type")
	}
	if fsym.Type() != ctx.Func([]types.Type{types.Typ[types.Int]}, types.Typ[types.Bool]) {
		t.Error("signature is not interned in the session context")
	}
}

func TestResolveInvalidTypesDoNotCascade(t *testing.T) {
	f, info, errs := resolveSrc(t, "var a: foo = 1; var b = a;")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	sym := info.Defs[names(f, "a")[0]]
	if !types.IsInvalid(sym.Type()) {
		t.Errorf("a has type %v, want invalid type", sym.Type())
	}
}

func TestResolveSkipsErrorNodes(t *testing.T) {
	f, _ := syntax.ParseProgram(syntax.NewTokenStream("test.cb", []byte("var a = 1; var = ; a + b;"), nil))
	_, errs := Resolve(f, types.NewContext())
	if len(errs) != 1 || errs[0].Name != "b" {
		t.Errorf("errors = %v, want only undefined b", errs)
	}
}

func TestResolveErrorHandler(t *testing.T) {
	var seen []string
	conf := &Config{Error: func(err *ResolveError) { seen = append(seen, err.Name) }}
	f := parse(t, "a; b;")
	_, errs := conf.Resolve(f, types.NewContext())
	if len(seen) != 2 || len(errs) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("handler saw %v, returned %d errors", seen, len(errs))
	}
}

func TestResolveScopeCount(t *testing.T) {
	_, info := mustResolve(t, "func f() { { } } if true { } else { }")
	// file, function f, inner block, then, else
	if info.NumScopes != 5 {
		t.Errorf("NumScopes = %d, want 5", info.NumScopes)
	}
}
