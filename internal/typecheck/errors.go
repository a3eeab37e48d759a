package typecheck

import (
	"fmt"

	"github.com/cflat-lang/cflat/internal/diag"
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// ErrorKind classifies a type error.
type ErrorKind int

const (
	TypeMismatch   ErrorKind = iota // operand or value of the wrong type
	InvalidOp                       // operator not defined on the operand type
	NotCallable                     // call of a non-function
	Arity                           // wrong number of arguments
	ArgType                         // argument of the wrong type
	ReturnType                      // return statement does not fit the function
	NotAssignable                   // assignment to something that is not a variable
	InvalidLiteral                  // literal out of range
)

var errorKindNames = [...]string{
	TypeMismatch:   "TypeMismatchError",
	InvalidOp:      "InvalidOpError",
	NotCallable:    "NotCallableError",
	Arity:          "ArityError",
	ArgType:        "ArgTypeError",
	ReturnType:     "ReturnTypeError",
	NotAssignable:  "NotAssignableError",
	InvalidLiteral: "InvalidLiteralError",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// TypeError represents a type checking error.
//
// Expected and Found are set when the error is about one type standing
// where another was required.
type TypeError struct {
	Kind     ErrorKind
	Pos, End syntax.Pos
	Expected types.Type
	Found    types.Type
	Msg      string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// errorf reports a type checking error covering the node n.
func (c *Checker) errorf(kind ErrorKind, n syntax.Node, format string, args ...interface{}) *TypeError {
	return c.errorAt(kind, n.Pos(), n.End(), format, args...)
}

// errorAt reports a type checking error covering [pos, end).
func (c *Checker) errorAt(kind ErrorKind, pos, end syntax.Pos, format string, args ...interface{}) *TypeError {
	err := &TypeError{
		Kind: kind,
		Pos:  pos,
		End:  end,
		Msg:  fmt.Sprintf(format, args...),
	}
	c.errors = append(c.errors, err)
	if c.conf.Error != nil {
		c.conf.Error(err)
	}
	return err
}

// mismatch reports an error of the given kind where expected was required
// but found was given.
func (c *Checker) mismatch(kind ErrorKind, n syntax.Node, expected, found types.Type, format string, args ...interface{}) {
	err := c.errorf(kind, n, format, args...)
	err.Expected = expected
	err.Found = found
}

// invalidOp reports an operator applied to an operand it is not defined on.
func (c *Checker) invalidOp(n syntax.Node, format string, args ...interface{}) {
	c.errorf(InvalidOp, n, "invalid operation: "+format, args...)
}

var diagCodes = [...]diag.Code{
	TypeMismatch:   diag.CodeTypeMismatch,
	InvalidOp:      diag.CodeTypeInvalidOperation,
	NotCallable:    diag.CodeTypeNotCallable,
	Arity:          diag.CodeTypeArity,
	ArgType:        diag.CodeTypeArgument,
	ReturnType:     diag.CodeTypeReturn,
	NotAssignable:  diag.CodeTypeCannotAssign,
	InvalidLiteral: diag.CodeTypeInvalidLiteral,
}

// ToDiagnostic converts the error into a user-facing diagnostic.
func (e *TypeError) ToDiagnostic() diag.Diagnostic {
	code := diag.CodeTypeMismatch
	if int(e.Kind) < len(diagCodes) {
		code = diagCodes[e.Kind]
	}
	return diag.New(diag.StageTypeCheck, code, syntax.Span{Start: e.Pos, End: e.End}.Diag(), e.Msg)
}
