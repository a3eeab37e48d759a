package syntax

import "unicode/utf8"

// source reads a buffered compilation unit one character at a time and
// keeps the position of the current character.
type source struct {
	buf      []byte
	filename string
	errh     func(err *LexError)

	ch   rune   // current character, -1 at EOF
	offs int    // byte offset just past ch
	at   uint32 // byte offset of ch

	line, col uint32 // position of ch; col counts characters

	badEnc bool // ch is utf8.RuneError decoded from an invalid byte, already reported
}

// newSource returns a source positioned on the first character of buf.
// A nil errh drops errors.
func newSource(filename string, buf []byte, errh func(err *LexError)) *source {
	s := &source{buf: buf, filename: filename, errh: errh, ch: -1, line: 1}
	s.nextch()
	return s
}

// nextch advances to the next character. Leaving a newline starts a new
// line; the initial ch of -1 is not treated as one.
func (s *source) nextch() {
	switch s.ch {
	case '\n':
		s.line++
		s.col = 1
	default:
		s.col++
	}
	s.at = uint32(s.offs)
	s.badEnc = false

	if s.offs == len(s.buf) {
		s.ch = -1
		return
	}
	r, w := rune(s.buf[s.offs]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.buf[s.offs:])
		if r == utf8.RuneError && w == 1 {
			s.badEnc = true
			s.error("invalid UTF-8 encoding")
		}
	}
	s.ch = r
	s.offs += w
}

func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col, s.at)
}

func (s *source) error(msg string) {
	s.errorAt(s.pos(), msg)
}

func (s *source) errorAt(pos Pos, msg string) {
	if s.errh != nil {
		s.errh(&LexError{Pos: pos, Msg: msg})
	}
}

func isLetter(r rune) bool {
	return 'a' <= lower(r) && lower(r) <= 'z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// digitVal returns the value of r as a digit in bases up to 16, or 16 if
// r is not a digit in any of them.
func digitVal(r rune) int {
	switch {
	case isDigit(r):
		return int(r - '0')
	case 'a' <= lower(r) && lower(r) <= 'f':
		return int(lower(r) - 'a' + 10)
	}
	return 16
}

// lower maps ASCII upper case letters to lower case. Other characters
// may change too, so only compare the result against lower case letters.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}
