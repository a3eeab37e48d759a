package resolve

import (
	"fmt"

	"github.com/cflat-lang/cflat/internal/diag"
	"github.com/cflat-lang/cflat/internal/syntax"
)

// ErrorKind classifies a resolution error.
type ErrorKind int

const (
	DuplicateDecl ErrorKind = iota // name declared twice in one scope
	UndefinedName                  // identifier or type name not found
	InvalidVoid                    // void used as a variable or parameter type
)

func (k ErrorKind) String() string {
	switch k {
	case DuplicateDecl:
		return "DuplicateDeclError"
	case UndefinedName:
		return "UndefinedNameError"
	case InvalidVoid:
		return "InvalidVoidError"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ResolveError is a name resolution error.
type ResolveError struct {
	Kind     ErrorKind
	Pos, End syntax.Pos
	Name     string     // the offending name
	Prev     syntax.Pos // earlier declaration, for DuplicateDecl
	Msg      string
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// errorf records an error covering the identifier n.
func (r *resolver) errorf(kind ErrorKind, n *syntax.Name, format string, args ...interface{}) *ResolveError {
	err := &ResolveError{
		Kind: kind,
		Pos:  n.Pos(),
		End:  n.End(),
		Name: n.Value,
		Msg:  fmt.Sprintf(format, args...),
	}
	r.errors = append(r.errors, err)
	if r.conf.Error != nil {
		r.conf.Error(err)
	}
	return err
}

var diagCodes = [...]diag.Code{
	DuplicateDecl: diag.CodeResolveDuplicateDecl,
	UndefinedName: diag.CodeResolveUndefinedName,
	InvalidVoid:   diag.CodeResolveInvalidVoid,
}

// ToDiagnostic converts the error into a user-facing diagnostic. A
// duplicate declaration carries a note pointing at the first one.
func (e *ResolveError) ToDiagnostic() diag.Diagnostic {
	code := diag.CodeResolveUndefinedName
	if int(e.Kind) < len(diagCodes) {
		code = diagCodes[e.Kind]
	}
	d := diag.New(diag.StageResolve, code, syntax.Span{Start: e.Pos, End: e.End}.Diag(), e.Msg)
	if e.Kind == DuplicateDecl && e.Prev.IsValid() {
		d = d.WithNote(fmt.Sprintf("other declaration of %s at %s", e.Name, e.Prev))
	}
	return d
}
