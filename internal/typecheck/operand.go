package typecheck

import (
	"fmt"
	"go/constant"

	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// operandMode describes the mode of an operand.
type operandMode int

const (
	invalid   operandMode = iota // operand is invalid
	novalue                      // operand has no value (void function call)
	constant_                    // operand is a constant value
	variable                     // operand is an assignable variable or parameter
	value                        // operand is a computed value
)

var operandModeNames = [...]string{
	invalid:   "invalid operand",
	novalue:   "no value",
	constant_: "constant",
	variable:  "variable",
	value:     "value",
}

// operand represents the result of evaluating an expression.
type operand struct {
	mode operandMode
	typ  types.Type
	val  constant.Value // constant value (only valid when mode == constant_)
	expr syntax.Expr    // source expression (for error reporting)
}

// String describes the operand for error messages, e.g.
// `x (variable of type int)` or `f() (no value)`.
func (x *operand) String() string {
	text := exprString(x.expr)
	switch x.mode {
	case invalid:
		return text + " (invalid operand)"
	case novalue:
		return text + " (no value)"
	}
	return fmt.Sprintf("%s (%s of type %s)", text, operandModeNames[x.mode], x.typ)
}

// setConst sets the operand to a constant value.
func (x *operand) setConst(typ types.Type, val constant.Value) {
	x.mode = constant_
	x.typ = typ
	x.val = val
}

// setValue sets the operand to a computed value.
func (x *operand) setValue(typ types.Type) {
	x.mode = value
	x.typ = typ
	x.val = nil
}

// setInvalid sets the operand to invalid.
func (x *operand) setInvalid() {
	x.mode = invalid
	x.typ = types.Typ[types.Invalid]
	x.val = nil
}

// exprString renders e for messages, without the outer parentheses the
// syntax printer puts around binary and assignment expressions.
func exprString(e syntax.Expr) string {
	s := syntax.ExprString(e)
	switch e.(type) {
	case *syntax.BinaryExpr, *syntax.AssignExpr:
		s = s[1 : len(s)-1]
	}
	return s
}
