package syntax

import (
	"unicode/utf8"

	"github.com/cflat-lang/cflat/internal/diag"
)

// Diag converts s to a diagnostic span. The length is the byte distance
// to End, at least 1.
func (s Span) Diag() diag.Span {
	return diag.Span{
		Filename: s.Start.Filename(),
		Line:     int(s.Start.Line()),
		Column:   int(s.Start.Col()),
		Offset:   int(s.Start.Offset()),
		Length:   s.Len(),
	}
}

// ToDiagnostic converts the error into a user-facing diagnostic. The span
// covers the offending character, or a single byte.
func (e *LexError) ToDiagnostic() diag.Diagnostic {
	span := Span{Start: e.Pos}.Diag()
	code := diag.CodeLexerInvalidToken
	if e.Char != 0 {
		code = diag.CodeLexerIllegalChar
		span.Length = utf8.RuneLen(e.Char)
		if span.Length < 1 {
			span.Length = 1
		}
	}
	return diag.New(diag.StageLexer, code, span, e.Msg)
}

// ToDiagnostic converts the error into a user-facing diagnostic.
func (e *SyntaxError) ToDiagnostic() diag.Diagnostic {
	code := diag.CodeSyntax
	if e.Msg == tooManyErrors {
		code = diag.CodeSyntaxTooMany
	}
	return diag.New(diag.StageParser, code, Span{Start: e.Pos, End: e.End}.Diag(), e.Msg)
}
