package syntax

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LexError reports a character sequence the scanner could not turn into a token.
type LexError struct {
	Pos  Pos
	Char rune // offending character; 0 when the error is not about a single character
	Msg  string
}

func (e *LexError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Scanner performs lexical analysis on C♭ source code.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Token   // token type
	lit    string  // token literal (identifier name, number, decoded string content)
	kind   LitKind // literal kind (only valid when tok == _Literal)
	tokPos Pos     // token start position
	tokEnd Pos     // position immediately after the token

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source buffer.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, src []byte, errh func(err *LexError)) *Scanner {
	return &Scanner{
		source: *newSource(filename, src, errh),
	}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"':
		s.scanString()

	case s.ch < utf8.RuneSelf && operators[s.ch] != (opEntry{}):
		if s.scanOperator() {
			// skipped a comment or an invalid character
			goto redo
		}

	default:
		if !s.badEnc {
			s.badChar(s.ch)
		}
		s.nextch()
		goto redo
	}

	s.tokEnd = s.pos()
}

// badChar reports ch, found at the start of the current token, as invalid.
func (s *Scanner) badChar(ch rune) {
	if s.errh != nil {
		s.errh(&LexError{Pos: s.tokPos, Char: ch, Msg: fmt.Sprintf("unexpected character %q", ch)})
	}
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// LitKind returns the current literal's kind (only valid when Token() == _Literal).
func (s *Scanner) LitKind() LitKind {
	return s.kind
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() Pos {
	return s.tokPos
}

// End returns the position immediately after the current token.
func (s *Scanner) End() Pos {
	return s.tokEnd
}

func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
}

func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
}

// scanIdent scans an identifier, keyword, or boolean literal.
func (s *Scanner) scanIdent() {
	s.startLit()
	s.nextch()

	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}

	s.lit = s.litBuf.String()

	if s.lit == "true" || s.lit == "false" {
		s.tok = _Literal
		s.kind = BoolLit
		return
	}
	s.tok = LookupKeyword(s.lit)
}

// intBases maps the letter after a leading 0 to the base it selects.
var intBases = map[rune]struct {
	base int
	name string
}{
	'x': {16, "hex"},
	'o': {8, "octal"},
	'b': {2, "binary"},
}

// scanNumber scans a number literal (integer or float). Leading zeros in
// decimal literals are allowed.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	s.kind = IntLit
	s.tok = _Literal
	defer func() { s.lit = s.litBuf.String() }()

	if s.ch == '0' {
		s.continueLit()
		s.nextch()
		if b, ok := intBases[lower(s.ch)]; ok {
			s.continueLit()
			s.nextch()
			s.scanDigits(b.base, b.name)
			return
		}
	}

	s.scanDecimalDigits()
	if s.ch == '.' || lower(s.ch) == 'e' {
		s.scanFraction()
	}
}

func (s *Scanner) scanDecimalDigits() {
	for isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
}

// scanDigits scans the digits of a prefixed integer literal. Decimal
// digits too large for the base (0b123) are consumed and reported once.
func (s *Scanner) scanDigits(base int, name string) {
	n := 0
	for digitVal(s.ch) < base {
		s.continueLit()
		s.nextch()
		n++
	}
	bad := false
	for isDigit(s.ch) {
		bad = true
		s.nextch()
	}
	if n == 0 || bad {
		s.error("invalid " + name + " digit")
	}
}

// scanFraction scans the fractional part and exponent of a float.
func (s *Scanner) scanFraction() {
	s.kind = FloatLit
	if s.ch == '.' {
		s.continueLit()
		s.nextch()
		s.scanDecimalDigits()
	}
	if lower(s.ch) != 'e' {
		return
	}

	s.continueLit()
	s.nextch()
	if s.ch == '+' || s.ch == '-' {
		s.continueLit()
		s.nextch()
	}
	if !isDigit(s.ch) {
		s.error("exponent has no digits")
		return
	}
	s.scanDecimalDigits()
}

// scanString scans a string literal. The literal is the decoded content.
// An unterminated string ends at the end of the line.
func (s *Scanner) scanString() {
	s.nextch() // opening "
	s.tok = _Literal
	s.kind = StringLit

	var b strings.Builder
	for s.ch != '"' {
		switch {
		case s.ch == '\n' || s.ch < 0:
			s.errorAt(s.tokPos, "string not terminated")
			s.lit = b.String()
			return
		case s.ch == '\\':
			if r, ok := s.scanEscape(); ok {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
	s.nextch() // closing "
	s.lit = b.String()
}

// escapes maps the character after a backslash to the character it
// denotes, for the single-character escapes.
var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'"':  '"',
	'0':  0,
}

// scanEscape scans an escape sequence and returns the decoded rune.
func (s *Scanner) scanEscape() (rune, bool) {
	s.nextch() // \

	if r, ok := escapes[s.ch]; ok {
		s.nextch()
		return r, true
	}
	switch {
	case s.ch == 'x':
		s.nextch()
		return s.scanHexEscape()
	case s.ch < 0 || s.ch == '\n':
		s.error("escape sequence not terminated")
	default:
		s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
		s.nextch()
	}
	return 0, false
}

// scanHexEscape scans the two digits of a \xNN escape.
func (s *Scanner) scanHexEscape() (rune, bool) {
	var val rune
	for i := 0; i < 2; i++ {
		d := digitVal(s.ch)
		if d >= 16 {
			s.error("invalid hex escape")
			return 0, false
		}
		val = val<<4 | rune(d)
		s.nextch()
	}
	return val, true
}

// opEntry describes the operators and delimiters starting with one
// character: tok is the token for the character alone (_EOF if it is not
// a token by itself), and tok2 the token for the character followed by
// next.
type opEntry struct {
	tok  Token
	next rune
	tok2 Token
}

var operators = [utf8.RuneSelf]opEntry{
	'+': {tok: _Add},
	'-': {tok: _Sub},
	'*': {tok: _Mul},
	'/': {tok: _Div},
	'%': {tok: _Rem},
	'&': {next: '&', tok2: _AndAnd},
	'|': {next: '|', tok2: _OrOr},
	'<': {tok: _Lss, next: '=', tok2: _Leq},
	'>': {tok: _Gtr, next: '=', tok2: _Geq},
	'=': {tok: _Assign, next: '=', tok2: _Eql},
	'!': {tok: _Not, next: '=', tok2: _Neq},
	':': {tok: _Colon},
	'(': {tok: _Lparen},
	')': {tok: _Rparen},
	'{': {tok: _Lbrace},
	'}': {tok: _Rbrace},
	',': {tok: _Comma},
	';': {tok: _Semi},
}

// scanOperator scans an operator or delimiter. It reports true if no
// token was produced (a comment, or a lone & or |) and the caller should
// scan again.
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	op := operators[ch]
	s.nextch()

	switch {
	case ch == '/' && s.ch == '/':
		s.skipLineComment()
		return true
	case op.next != 0 && s.ch == op.next:
		s.nextch()
		s.tok = op.tok2
	case op.tok != _EOF:
		s.tok = op.tok
	default:
		s.badChar(ch)
		return true
	}

	s.lit = s.tok.String()
	return false
}

// skipLineComment skips the rest of a // comment; s.ch is the second /.
func (s *Scanner) skipLineComment() {
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}
