// Package diag defines the diagnostics the compiler reports to users and
// renders them for a terminal.
package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer     Stage = "lexer"
	StageParser    Stage = "parser"
	StageResolve   Stage = "resolve"
	StageTypeCheck Stage = "typecheck"
	StageLower     Stage = "lower"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerIllegalChar  Code = "LEXER_ILLEGAL_CHAR"
	CodeLexerInvalidToken Code = "LEXER_INVALID_TOKEN"

	// Parser errors
	CodeSyntax        Code = "SYNTAX_ERROR"
	CodeSyntaxTooMany Code = "SYNTAX_TOO_MANY_ERRORS"

	// Name resolution errors
	CodeResolveDuplicateDecl Code = "RESOLVE_DUPLICATE_DECL"
	CodeResolveUndefinedName Code = "RESOLVE_UNDEFINED_NAME"
	CodeResolveInvalidVoid   Code = "RESOLVE_INVALID_VOID"

	// Type checker errors
	CodeTypeMismatch         Code = "TYPE_MISMATCH"
	CodeTypeInvalidOperation Code = "TYPE_INVALID_OPERATION"
	CodeTypeNotCallable      Code = "TYPE_NOT_CALLABLE"
	CodeTypeArity            Code = "TYPE_ARITY"
	CodeTypeArgument         Code = "TYPE_ARGUMENT"
	CodeTypeReturn           Code = "TYPE_RETURN"
	CodeTypeCannotAssign     Code = "TYPE_CANNOT_ASSIGN"
	CodeTypeInvalidLiteral   Code = "TYPE_INVALID_LITERAL"

	// Contract violations between stages
	CodeInternal Code = "INTERNAL_ERROR"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int // 1-based
	Column   int // 1-based, in characters
	Offset   int // 0-based byte offset of the first character
	Length   int // in bytes; at least 1 for a valid span
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	Notes    []string // Additional notes to display
}

// New creates an error diagnostic.
func New(stage Stage, code Code, span Span, message string) Diagnostic {
	return Diagnostic{
		Stage:    stage,
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Span:     span,
	}
}

// WithNote returns a new diagnostic with the given note added.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], note)
	return d
}

// String renders the diagnostic on one line: "file:line:col: message".
func (d Diagnostic) String() string {
	if !d.Span.IsValid() {
		return d.Message
	}
	return d.Span.String() + ": " + d.Message
}

// IsError reports whether d is an error.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError || d.Severity == ""
}

// HasErrors reports whether any diagnostic in ds is an error.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Count returns the number of errors in ds.
func Count(ds []Diagnostic) int {
	n := 0
	for _, d := range ds {
		if d.IsError() {
			n++
		}
	}
	return n
}
