package typecheck

import (
	"go/constant"
	"go/token"
	"math"

	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// tokenOf maps operators to the go/token operators go/constant understands.
var tokenOf = map[syntax.Token]token.Token{
	syntax.Add:    token.ADD,
	syntax.Sub:    token.SUB,
	syntax.Mul:    token.MUL,
	syntax.Div:    token.QUO,
	syntax.Rem:    token.REM,
	syntax.AndAnd: token.LAND,
	syntax.OrOr:   token.LOR,
	syntax.Eql:    token.EQL,
	syntax.Neq:    token.NEQ,
	syntax.Lss:    token.LSS,
	syntax.Leq:    token.LEQ,
	syntax.Gtr:    token.GTR,
	syntax.Geq:    token.GEQ,
	syntax.Not:    token.NOT,
}

// foldUnary computes the value of a constant prefix operation.
func (c *Checker) foldUnary(x *operand, op syntax.Token) {
	c.setFolded(x, x.typ, constant.UnaryOp(tokenOf[op], x.val, 0))
}

// foldBinary computes the value of a constant arithmetic operation.
// Integer division truncates.
func (c *Checker) foldBinary(x, y *operand, op syntax.Token) {
	tok := tokenOf[op]
	if op == syntax.Div {
		if constant.Sign(y.val) == 0 {
			// float division by zero is left to run time
			x.setValue(x.typ)
			return
		}
		if types.IsInteger(x.typ) {
			tok = token.QUO_ASSIGN
		}
	}
	c.setFolded(x, x.typ, constant.BinaryOp(x.val, tok, y.val))
}

// setFolded makes x the constant val of type typ. Results that do not fit
// the type are not constant; the operation happens at run time instead.
func (c *Checker) setFolded(x *operand, typ types.Type, val constant.Value) {
	if !representable(val, typ) {
		x.setValue(typ)
		return
	}
	x.setConst(typ, val)
}

// representable reports whether val fits in a value of type typ.
func representable(val constant.Value, typ types.Type) bool {
	switch {
	case types.IsInteger(typ):
		_, exact := constant.Int64Val(val)
		return exact
	case types.IsFloat(typ):
		f, _ := constant.Float64Val(val)
		return !math.IsInf(f, 0)
	}
	return true
}
