package typecheck

import (
	"errors"
	"go/constant"
	"strconv"

	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// expr evaluates an expression, sets x to the result and records it.
func (c *Checker) expr(x *operand, e syntax.Expr) {
	c.exprInternal(x, e)
	c.record(x)
}

// exprInternal is the main expression checking function.
func (c *Checker) exprInternal(x *operand, e syntax.Expr) {
	x.setInvalid()
	x.expr = e

	switch e := e.(type) {
	case *syntax.Name:
		c.ident(x, e)
	case *syntax.BasicLit:
		c.basicLit(x, e)
	case *syntax.UnaryExpr:
		c.unary(x, e)
	case *syntax.BinaryExpr:
		c.binary(x, e)
	case *syntax.CallExpr:
		c.call(x, e)
	case *syntax.AssignExpr:
		c.assign(x, e)
	case *syntax.ErrorNode:
		// already reported by the parser
	default:
		panic("typecheck: unexpected expression " + exprString(e))
	}
}

// ident evaluates an identifier.
func (c *Checker) ident(x *operand, name *syntax.Name) {
	sym := c.symbol(name)
	typ := sym.Type()
	if types.IsInvalid(typ) || types.IsUnresolved(typ) {
		// The declaration failed to check and was reported there.
		return
	}

	switch sym.Kind() {
	case types.VarSym, types.ParamSym:
		x.mode = variable
		x.typ = typ
	case types.FuncSym:
		x.setValue(typ)
	}
}

// basicLit evaluates a literal.
func (c *Checker) basicLit(x *operand, lit *syntax.BasicLit) {
	switch lit.Kind {
	case syntax.IntLit:
		val, err := parseInt(lit.Value)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				c.errorf(InvalidLiteral, lit, "integer literal %s overflows int", lit.Value)
			}
			// Malformed literals were reported by the scanner.
			return
		}
		x.setConst(types.Typ[types.Int], constant.MakeInt64(val))

	case syntax.FloatLit:
		val, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				c.errorf(InvalidLiteral, lit, "float literal %s overflows float", lit.Value)
			}
			return
		}
		x.setConst(types.Typ[types.Float], constant.MakeFloat64(val))

	case syntax.StringLit:
		// The scanner has already decoded the escapes.
		x.setConst(types.Typ[types.String], constant.MakeString(lit.Value))

	case syntax.BoolLit:
		x.setConst(types.Typ[types.Bool], constant.MakeBool(lit.Value == "true"))

	default:
		panic("typecheck: unknown literal kind")
	}
}

// parseInt parses a decimal, hex (0x), octal (0o) or binary (0b) integer
// literal. Leading zeros in decimal literals do not make them octal.
func parseInt(lit string) (int64, error) {
	base, digits := 10, lit
	if len(lit) > 2 && lit[0] == '0' {
		switch lit[1] {
		case 'x', 'X':
			base, digits = 16, lit[2:]
		case 'o', 'O':
			base, digits = 8, lit[2:]
		case 'b', 'B':
			base, digits = 2, lit[2:]
		}
	}
	return strconv.ParseInt(digits, base, 64)
}

// unary evaluates a prefix operation.
func (c *Checker) unary(x *operand, e *syntax.UnaryExpr) {
	defer func() { x.expr = e }()
	c.expr(x, e.X)
	if x.mode == invalid {
		return
	}

	switch e.Op {
	case syntax.Not:
		if x.mode == novalue || !types.IsBoolean(x.typ) {
			c.mismatch(TypeMismatch, e, types.Typ[types.Bool], x.typ, "invalid operation: operator ! not defined on %s", x)
			x.setInvalid()
			return
		}

	case syntax.Sub:
		if x.mode == novalue || !types.IsNumeric(x.typ) {
			c.invalidOp(e, "operator - not defined on %s", x)
			x.setInvalid()
			return
		}

	default:
		panic("typecheck: unknown unary operator " + e.Op.String())
	}

	if x.mode == constant_ {
		c.foldUnary(x, e.Op)
		return
	}
	x.setValue(x.typ)
}

// binary evaluates an infix operation.
func (c *Checker) binary(x *operand, e *syntax.BinaryExpr) {
	var y operand
	c.expr(x, e.X)
	c.expr(&y, e.Y)
	defer func() { x.expr = e }()

	if x.mode == invalid || y.mode == invalid {
		x.setInvalid()
		return
	}
	for _, z := range []*operand{x, &y} {
		if z.mode == novalue {
			c.invalidOp(e, "operator %s not defined on %s", e.Op, z)
			x.setInvalid()
			return
		}
	}

	switch op := e.Op; {
	case isComparison(op):
		c.comparison(x, &y, e)
	case op == syntax.AndAnd || op == syntax.OrOr:
		c.logical(x, &y, e)
	default:
		c.arithmetic(x, &y, e)
	}
}

func isComparison(op syntax.Token) bool {
	switch op {
	case syntax.Eql, syntax.Neq, syntax.Lss, syntax.Leq, syntax.Gtr, syntax.Geq:
		return true
	}
	return false
}

// sameTypes reports whether x and y have identical types. If not, it
// reports a mismatch against the left operand's type.
func (c *Checker) sameTypes(x, y *operand, e *syntax.BinaryExpr) bool {
	if types.Identical(x.typ, y.typ) {
		return true
	}
	c.mismatch(TypeMismatch, e, x.typ, y.typ, "invalid operation: %s (mismatched types %s and %s)",
		exprString(e), x.typ, y.typ)
	return false
}

// comparison handles ==, !=, <, <=, > and >=.
func (c *Checker) comparison(x, y *operand, e *syntax.BinaryExpr) {
	if !c.sameTypes(x, y, e) {
		x.setInvalid()
		return
	}

	defined := types.Comparable(x.typ)
	if e.Op != syntax.Eql && e.Op != syntax.Neq {
		defined = types.Ordered(x.typ)
	}
	if !defined {
		c.invalidOp(e, "operator %s not defined on %s", e.Op, x)
		x.setInvalid()
		return
	}

	if x.mode == constant_ && y.mode == constant_ {
		x.setConst(types.Typ[types.Bool], constant.MakeBool(constant.Compare(x.val, tokenOf[e.Op], y.val)))
		return
	}
	x.setValue(types.Typ[types.Bool])
}

// logical handles && and ||.
func (c *Checker) logical(x, y *operand, e *syntax.BinaryExpr) {
	for _, z := range []*operand{x, y} {
		if !types.IsBoolean(z.typ) {
			c.mismatch(TypeMismatch, z.expr, types.Typ[types.Bool], z.typ,
				"invalid operation: operator %s not defined on %s", e.Op, z)
			x.setInvalid()
			return
		}
	}

	if x.mode == constant_ && y.mode == constant_ {
		x.setConst(types.Typ[types.Bool], constant.BinaryOp(x.val, tokenOf[e.Op], y.val))
		return
	}
	x.setValue(types.Typ[types.Bool])
}

// arithmetic handles +, -, *, / and %.
func (c *Checker) arithmetic(x, y *operand, e *syntax.BinaryExpr) {
	if !c.sameTypes(x, y, e) {
		x.setInvalid()
		return
	}

	var defined bool
	switch e.Op {
	case syntax.Add:
		defined = types.IsNumeric(x.typ) || types.IsString(x.typ)
	case syntax.Sub, syntax.Mul, syntax.Div:
		defined = types.IsNumeric(x.typ)
	case syntax.Rem:
		defined = types.IsInteger(x.typ)
	default:
		panic("typecheck: unknown binary operator " + e.Op.String())
	}
	if !defined {
		c.invalidOp(e, "operator %s not defined on %s", e.Op, x)
		x.setInvalid()
		return
	}

	if (e.Op == syntax.Div || e.Op == syntax.Rem) && types.IsInteger(x.typ) &&
		y.mode == constant_ && constant.Sign(y.val) == 0 {
		c.invalidOp(y.expr, "division by zero")
		x.setInvalid()
		return
	}

	if x.mode == constant_ && y.mode == constant_ {
		c.foldBinary(x, y, e.Op)
		return
	}
	x.setValue(x.typ)
}

// assign evaluates an assignment expression. Its value is the assigned value.
func (c *Checker) assign(x *operand, e *syntax.AssignExpr) {
	var lhs operand
	c.expr(&lhs, e.Lhs)
	c.expr(x, e.Rhs)
	defer func() { x.expr = e }()

	if lhs.mode == invalid {
		x.setInvalid()
		return
	}
	if lhs.mode != variable {
		c.errorf(NotAssignable, e.Lhs, "cannot assign to function %s", e.Lhs.Value)
		x.setInvalid()
		return
	}

	if !c.assignment(x, lhs.typ, TypeMismatch, "assignment") {
		x.setInvalid()
		return
	}
	x.setValue(lhs.typ)
}

// singleValue checks that x can be stored, passed or returned.
// Void calls and functions cannot.
func (c *Checker) singleValue(x *operand, kind ErrorKind) bool {
	switch {
	case x.mode == novalue:
		c.mismatch(kind, x.expr, nil, types.Typ[types.Void], "%s used as value", x)
		return false
	case types.IsFunc(x.typ):
		c.mismatch(kind, x.expr, nil, x.typ, "cannot use function %s as value", exprString(x.expr))
		return false
	}
	return true
}

// assignment checks that x can be assigned to a variable of type T.
// Errors are reported with the given kind; context names the construct
// for the message ("assignment", "variable declaration", ...).
// Invalid operands and targets are accepted silently.
func (c *Checker) assignment(x *operand, T types.Type, kind ErrorKind, context string) bool {
	if x.mode == invalid || types.IsInvalid(T) {
		return false
	}
	if !c.singleValue(x, kind) {
		return false
	}
	if !types.Identical(x.typ, T) {
		c.mismatch(kind, x.expr, T, x.typ, "cannot use %s as %s value in %s", x, T, context)
		return false
	}
	return true
}
