package syntax

import "testing"

func TestStreamPeek(t *testing.T) {
	ts := NewTokenStream("test.cb", []byte("var x = 1;"), nil)

	if got := ts.Peek(1).Tok; got != _Var {
		t.Fatalf("Peek(1) = %v, want var", got)
	}
	if got := ts.Peek(3); got.Tok != _Assign {
		t.Fatalf("Peek(3) = %v, want =", got.Tok)
	}
	// Peeking does not consume.
	if got := ts.Next().Tok; got != _Var {
		t.Fatalf("Next() = %v, want var", got)
	}
	if got := ts.Next(); got.Tok != _Name || got.Lit != "x" {
		t.Fatalf("Next() = %v %q, want name x", got.Tok, got.Lit)
	}
	if got := ts.Peek(1).Tok; got != _Assign {
		t.Fatalf("Peek(1) = %v, want =", got)
	}
}

func TestStreamEOFIsSticky(t *testing.T) {
	ts := NewTokenStream("test.cb", []byte("a"), nil)

	if got := ts.Peek(5).Tok; got != _EOF {
		t.Fatalf("Peek past end = %v, want EOF", got)
	}
	if got := ts.Next().Tok; got != _Name {
		t.Fatalf("Next() = %v, want name", got)
	}
	for i := 0; i < 3; i++ {
		if got := ts.Next().Tok; got != _EOF {
			t.Fatalf("Next() #%d after end = %v, want EOF", i, got)
		}
	}
	if got := ts.Peek(1).Tok; got != _EOF {
		t.Fatalf("Peek(1) after end = %v, want EOF", got)
	}
}

func TestStreamReportsLexErrorsOnce(t *testing.T) {
	var errs []*LexError
	ts := NewTokenStream("test.cb", []byte("a # b"), func(err *LexError) {
		errs = append(errs, err)
	})

	ts.Peek(2)
	ts.Peek(2)
	for ts.Next().Tok != _EOF {
	}

	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if errs[0].Char != '#' {
		t.Errorf("Char = %q, want '#'", errs[0].Char)
	}
}

func TestStreamPositions(t *testing.T) {
	lexemes := Tokenize("test.cb", []byte("foo(1)"), nil)

	want := []struct {
		tok        Token
		start, end uint32
	}{
		{_Name, 0, 3},
		{_Lparen, 3, 4},
		{_Literal, 4, 5},
		{_Rparen, 5, 6},
		{_EOF, 6, 6},
	}
	if len(lexemes) != len(want) {
		t.Fatalf("got %d lexemes, want %d", len(lexemes), len(want))
	}
	for i, w := range want {
		l := lexemes[i]
		if l.Tok != w.tok || l.Pos.Offset() != w.start || l.End.Offset() != w.end {
			t.Errorf("lexeme %d = %v [%d,%d), want %v [%d,%d)",
				i, l.Tok, l.Pos.Offset(), l.End.Offset(), w.tok, w.start, w.end)
		}
	}
}

// Rendering a token sequence back to text and scanning it again must yield
// the same tokens.
func TestStreamRoundTrip(t *testing.T) {
	srcs := []string{
		"var x: int = 1 + 2 * 3;",
		"func f(a: int, b: float): bool { return a <= b || !true; }",
		`var s = "tab\there \"quoted\" \\ nul\0 \x01";`,
		"0x1F 0o17 0b101 007 3.25 1e-9 2.",
		"while a!=b{a=a-1;}// trailing comment",
		"if x>=0&&y<0 { } else { ; }",
	}

	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			first := Tokenize("a.cb", []byte(src), func(err *LexError) {
				t.Fatalf("unexpected error: %v", err)
			})
			text := Reconstruct(first)
			second := Tokenize("b.cb", []byte(text), func(err *LexError) {
				t.Fatalf("unexpected error re-scanning %q: %v", text, err)
			})

			if len(first) != len(second) {
				t.Fatalf("token count %d != %d\nreconstructed: %s", len(first), len(second), text)
			}
			for i := range first {
				a, b := first[i], second[i]
				if a.Tok != b.Tok || a.Lit != b.Lit || (a.Tok == _Literal && a.Kind != b.Kind) {
					t.Errorf("lexeme %d: %v %q != %v %q", i, a.Tok, a.Lit, b.Tok, b.Lit)
				}
			}
		})
	}
}

func TestLexemeSource(t *testing.T) {
	tests := []struct {
		l    Lexeme
		want string
	}{
		{Lexeme{Tok: _Name, Lit: "abc"}, "abc"},
		{Lexeme{Tok: _Literal, Lit: "12", Kind: IntLit}, "12"},
		{Lexeme{Tok: _Literal, Lit: "a\"b\n", Kind: StringLit}, `"a\"b\n"`},
		{Lexeme{Tok: _Literal, Lit: "\x01", Kind: StringLit}, `"\x01"`},
		{Lexeme{Tok: _Leq, Lit: "<="}, "<="},
		{Lexeme{Tok: _While, Lit: "while"}, "while"},
		{Lexeme{Tok: _EOF}, ""},
	}

	for _, tt := range tests {
		if got := tt.l.Source(); got != tt.want {
			t.Errorf("Source() = %q, want %q", got, tt.want)
		}
	}
}
