package syntax

import (
	"strconv"
	"strings"
)

// Lexeme is a single scanned token together with its text and position.
// Lexemes are values and never change after the stream produces them.
type Lexeme struct {
	Tok  Token
	Lit  string  // identifier name, operator text, number text, or decoded string content
	Kind LitKind // literal kind, valid when Tok == _Literal
	Pos  Pos     // start of the token
	End  Pos     // position immediately after the token
}

// Source reconstructs source text that scans back to the same token.
func (l Lexeme) Source() string {
	switch l.Tok {
	case _EOF:
		return ""
	case _Literal:
		if l.Kind == StringLit {
			return quote(l.Lit)
		}
		return l.Lit
	case _Name:
		return l.Lit
	}
	return l.Tok.String()
}

func (l Lexeme) String() string {
	if l.Tok == _EOF {
		return "EOF"
	}
	return l.Source()
}

// quote renders s as a C♭ string literal using only the escapes the
// scanner understands.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case 0:
			b.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				b.WriteString(`\x`)
				hex := strconv.FormatInt(int64(r), 16)
				if len(hex) < 2 {
					b.WriteByte('0')
				}
				b.WriteString(hex)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// TokenStream is a lazy, single-pass sequence of lexemes with bounded lookahead.
// Once EOF is reached, Next and Peek keep returning the EOF lexeme.
type TokenStream struct {
	scanner *Scanner
	buf     []Lexeme // lookahead buffer; buf[0] is the next lexeme Next returns
}

// NewTokenStream returns a stream over src. Lexical errors are reported
// through errh as they are encountered.
func NewTokenStream(filename string, src []byte, errh func(err *LexError)) *TokenStream {
	return &TokenStream{scanner: NewScanner(filename, src, errh)}
}

// Next consumes and returns the next lexeme.
func (ts *TokenStream) Next() Lexeme {
	ts.fill(1)
	l := ts.buf[0]
	if l.Tok != _EOF {
		ts.buf = ts.buf[1:]
	}
	return l
}

// Peek returns the k-th upcoming lexeme (k >= 1) without consuming it.
// Peek(1) is the lexeme the next call to Next returns.
func (ts *TokenStream) Peek(k int) Lexeme {
	if k < 1 {
		k = 1
	}
	ts.fill(k)
	if k > len(ts.buf) {
		return ts.buf[len(ts.buf)-1] // EOF
	}
	return ts.buf[k-1]
}

// fill scans until the buffer holds k lexemes or ends in EOF.
func (ts *TokenStream) fill(k int) {
	for len(ts.buf) < k {
		if n := len(ts.buf); n > 0 && ts.buf[n-1].Tok == _EOF {
			return
		}
		s := ts.scanner
		s.Next()
		ts.buf = append(ts.buf, Lexeme{
			Tok:  s.Token(),
			Lit:  s.Literal(),
			Kind: s.LitKind(),
			Pos:  s.Pos(),
			End:  s.End(),
		})
	}
}

// Tokenize drains a stream over src and returns every lexeme including the
// trailing EOF.
func Tokenize(filename string, src []byte, errh func(err *LexError)) []Lexeme {
	ts := NewTokenStream(filename, src, errh)
	var out []Lexeme
	for {
		l := ts.Next()
		out = append(out, l)
		if l.Tok == _EOF {
			return out
		}
	}
}

// Reconstruct joins the source text of lexemes with single spaces.
func Reconstruct(lexemes []Lexeme) string {
	parts := make([]string, 0, len(lexemes))
	for _, l := range lexemes {
		if l.Tok == _EOF {
			continue
		}
		parts = append(parts, l.Source())
	}
	return strings.Join(parts, " ")
}
