package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

// ANSI escape sequences used when color is enabled.
const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[1;31m"
	ansiYel   = "\x1b[1;33m"
	ansiBlue  = "\x1b[1;34m"
	ansiCyan  = "\x1b[1;36m"
)

// Formatter prints diagnostics with the offending source line and a caret
// underline:
//
//	test.cb:1:14: error[TYPE_MISMATCH]: cannot use "a" (constant of type string) as int value in variable declaration
//	   |
//	 1 | var x: int = "a";
//	   |              ^^^
//	   = note: ...
type Formatter struct {
	w           io.Writer
	color       bool
	sourceCache map[string][]byte // Cache of source files by filename
}

// NewFormatter creates a formatter writing to w, without color.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{
		w:           w,
		sourceCache: make(map[string][]byte),
	}
}

// SetColor enables or disables ANSI colors.
func (f *Formatter) SetColor(on bool) {
	f.color = on
}

// AddSource registers the contents of filename, so that diagnostics for
// in-memory units can show source lines.
func (f *Formatter) AddSource(filename string, src []byte) {
	f.sourceCache[filename] = src
}

// LoadSource returns the source of filename, reading it from disk the
// first time if it was not registered with AddSource.
func (f *Formatter) LoadSource(filename string) ([]byte, error) {
	if src, ok := f.sourceCache[filename]; ok {
		return src, nil
	}
	if filename == "" {
		return nil, os.ErrNotExist
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	f.sourceCache[filename] = data
	return data, nil
}

// Format prints a single diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		if src, err := f.LoadSource(d.Span.Filename); err == nil {
			f.printSnippet(src, d.Span)
		}
	}
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "   %s note: %s\n", f.paint(ansiBlue, "="), note)
	}
}

// FormatAll prints every diagnostic in ds, followed by an error count
// when there is more than one.
func (f *Formatter) FormatAll(ds []Diagnostic) {
	for _, d := range ds {
		f.Format(d)
	}
	if n := Count(ds); n > 1 {
		fmt.Fprintf(f.w, "%s\n", f.paint(ansiBold, fmt.Sprintf("%d errors", n)))
	}
}

// printHeader prints "file:line:col: error[CODE]: message".
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}
	label := severity
	if d.Code != "" {
		label = fmt.Sprintf("%s[%s]", severity, d.Code)
	}

	var sb strings.Builder
	if d.Span.IsValid() {
		sb.WriteString(f.paint(ansiBold, d.Span.String()+":"))
		sb.WriteByte(' ')
	}
	sb.WriteString(f.paint(severityColor(d.Severity), label+":"))
	sb.WriteByte(' ')
	sb.WriteString(f.paint(ansiBold, d.Message))
	fmt.Fprintln(f.w, sb.String())
}

// printSnippet prints the line of src that span starts on, with the span
// underlined. Spans that run past the end of the line are cut there.
func (f *Formatter) printSnippet(src []byte, span Span) {
	line, ok := sourceLine(src, span.Line)
	if !ok {
		return
	}

	num := fmt.Sprintf("%d", span.Line)
	gutter := strings.Repeat(" ", len(num))

	fmt.Fprintf(f.w, " %s %s\n", gutter, f.paint(ansiBlue, "|"))
	fmt.Fprintf(f.w, " %s %s %s\n", f.paint(ansiBlue, num), f.paint(ansiBlue, "|"), line)

	start := byteIndex(line, span.Column-1)
	length := span.Length
	if length < 1 {
		length = 1
	}
	end := start + length
	if end > len(line) {
		end = len(line)
	}

	// Keep tabs so the carets line up with the source above.
	var pad strings.Builder
	for _, r := range line[:start] {
		if r == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	carets := utf8.RuneCountInString(line[start:end])
	if carets < 1 {
		carets = 1
	}
	fmt.Fprintf(f.w, " %s %s %s%s\n", gutter, f.paint(ansiBlue, "|"), pad.String(),
		f.paint(ansiRed, strings.Repeat("^", carets)))
}

// byteIndex returns the byte offset of the n'th character of line, or
// len(line) if line is shorter.
func byteIndex(line string, n int) int {
	for i := range line {
		if n == 0 {
			return i
		}
		n--
	}
	return len(line)
}

// sourceLine returns the n'th line (1-based) of src without its line
// terminator.
func sourceLine(src []byte, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	text := string(src)
	for i := 1; i < n; i++ {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 {
			return "", false
		}
		text = text[nl+1:]
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	return strings.TrimSuffix(text, "\r"), true
}

func (f *Formatter) paint(code, s string) string {
	if !f.color {
		return s
	}
	return code + s + ansiReset
}

func severityColor(s Severity) string {
	switch s {
	case SeverityWarning:
		return ansiYel
	case SeverityNote:
		return ansiCyan
	}
	return ansiRed
}

// ColorMode selects when diagnostics are colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses the value of a -color flag.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// UseColor reports whether output to file should be colored under mode.
// In auto mode color is used only for terminals, and never when the
// NO_COLOR environment variable is set.
func UseColor(mode ColorMode, file *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
