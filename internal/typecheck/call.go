package typecheck

import (
	"strings"

	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// call checks a function call expression.
func (c *Checker) call(x *operand, e *syntax.CallExpr) {
	defer func() { x.expr = e }()

	// Evaluate the function expression
	c.expr(x, e.Fun)

	// Arguments are checked even if the callee is bad; their own errors
	// are independent of it.
	args := make([]*operand, len(e.Args))
	for i, arg := range e.Args {
		args[i] = new(operand)
		c.expr(args[i], arg)
	}

	if x.mode == invalid {
		return
	}

	sig, ok := x.typ.(*types.Func)
	if !ok || x.mode == novalue {
		c.errorf(NotCallable, e.Fun, "invalid operation: cannot call non-function %s", x)
		x.setInvalid()
		return
	}

	c.checkCallArgs(e, sig, args)

	// The call has a result type even when the arguments are wrong.
	if types.IsVoid(sig.Result()) {
		x.mode = novalue
		x.typ = types.Typ[types.Void]
		x.val = nil
		return
	}
	if types.IsInvalid(sig.Result()) {
		x.setInvalid()
		return
	}
	x.setValue(sig.Result())
}

// checkCallArgs checks the number and types of arguments against sig.
// There are no implicit conversions.
func (c *Checker) checkCallArgs(e *syntax.CallExpr, sig *types.Func, args []*operand) {
	fname := exprString(e.Fun)

	if len(args) != sig.NumParams() {
		msg := "not enough arguments"
		at := syntax.Node(e)
		if len(args) > sig.NumParams() {
			msg = "too many arguments"
			at = args[sig.NumParams()].expr
		}
		c.errorf(Arity, at, "%s in call to %s: have (%s), want (%s)",
			msg, fname, argTypes(args), paramTypes(sig))
		return
	}

	for i, arg := range args {
		c.assignment(arg, sig.Param(i), ArgType, "argument to "+fname)
	}
}

func argTypes(args []*operand) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.typ.String())
	}
	return b.String()
}

func paramTypes(sig *types.Func) string {
	var b strings.Builder
	for i, p := range sig.Params() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	return b.String()
}
