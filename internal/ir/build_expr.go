package ir

import (
	"go/constant"

	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// value lowers an expression that must produce a value.
func (b *builder) value(e syntax.Expr) Reg {
	r := b.expr(e)
	if r == NoReg {
		internalErrorf(e.Pos(), "%s used as value", syntax.ExprString(e))
	}
	return r
}

// typeOf returns the checked type of e. Lowering an expression the
// checker did not type is a contract violation.
func (b *builder) typeOf(e syntax.Expr) types.Type {
	tv, ok := b.info.Types[e]
	if !ok || tv.Type == nil {
		internalErrorf(e.Pos(), "untyped expression %s", syntax.ExprString(e))
	}
	if types.IsInvalid(tv.Type) || types.IsUnresolved(tv.Type) {
		internalErrorf(e.Pos(), "expression %s has type %s", syntax.ExprString(e), tv.Type)
	}
	return tv.Type
}

// expr lowers an expression and returns the register holding its value,
// or NoReg for a call of a void function.
func (b *builder) expr(e syntax.Expr) Reg {
	if e == nil {
		panic("ir.expr: nil expression")
	}
	if _, ok := e.(*syntax.ErrorNode); ok {
		internalErrorf(e.Pos(), "syntax error in checked tree")
	}
	typ := b.typeOf(e)

	switch e := e.(type) {
	case *syntax.BasicLit:
		return b.basicLit(e)

	case *syntax.Name:
		return b.load(e)

	case *syntax.UnaryExpr:
		return b.unary(e, typ)

	case *syntax.BinaryExpr:
		if e.Op == syntax.AndAnd || e.Op == syntax.OrOr {
			return b.logical(e)
		}
		return b.binary(e, typ)

	case *syntax.CallExpr:
		return b.call(e, typ)

	case *syntax.AssignExpr:
		return b.assign(e)

	default:
		internalErrorf(e.Pos(), "unexpected expression %T", e)
		return NoReg
	}
}

// basicLit materializes a literal from the value the checker computed.
func (b *builder) basicLit(lit *syntax.BasicLit) Reg {
	val := b.info.Types[lit].Value
	if val == nil {
		internalErrorf(lit.Pos(), "literal %s has no value", lit.Value)
	}

	switch lit.Kind {
	case syntax.IntLit:
		n, exact := constant.Int64Val(val)
		if !exact {
			internalErrorf(lit.Pos(), "integer literal %s is not representable", lit.Value)
		}
		return b.fn.ConstInt(lit.Pos(), n)
	case syntax.FloatLit:
		f, _ := constant.Float64Val(val)
		return b.fn.ConstFloat(lit.Pos(), f)
	case syntax.StringLit:
		return b.fn.ConstString(lit.Pos(), constant.StringVal(val))
	case syntax.BoolLit:
		return b.fn.ConstBool(lit.Pos(), constant.BoolVal(val))
	}
	internalErrorf(lit.Pos(), "unknown literal kind %v", lit.Kind)
	return NoReg
}

// symbol returns the symbol n refers to.
func (b *builder) symbol(n *syntax.Name) *types.Symbol {
	sym := b.rinfo.SymbolOf(n)
	if sym == nil {
		internalErrorf(n.Pos(), "unresolved name %s", n.Value)
	}
	return sym
}

// load reads the variable or parameter n refers to.
func (b *builder) load(n *syntax.Name) Reg {
	sym := b.symbol(n)
	if g, ok := b.globals[sym]; ok {
		return b.fn.LoadGlobal(n.Pos(), g)
	}
	if slot, ok := b.vars[sym]; ok {
		return b.fn.Load(n.Pos(), slot)
	}
	internalErrorf(n.Pos(), "%s %s has no storage", sym.Kind(), n.Value)
	return NoReg
}

// assign stores the value of the right-hand side into the target. The
// assignment evaluates to the stored value.
func (b *builder) assign(e *syntax.AssignExpr) Reg {
	v := b.value(e.Rhs)
	sym := b.symbol(e.Lhs)
	if g, ok := b.globals[sym]; ok {
		b.fn.StoreGlobal(e.Pos(), g, v)
		return v
	}
	if slot, ok := b.vars[sym]; ok {
		b.fn.Store(e.Pos(), slot, v)
		return v
	}
	internalErrorf(e.Pos(), "cannot assign to %s %s", sym.Kind(), e.Lhs.Value)
	return NoReg
}

// unary lowers a prefix operation.
func (b *builder) unary(e *syntax.UnaryExpr, typ types.Type) Reg {
	x := b.value(e.X)
	var op Op
	switch {
	case e.Op == syntax.Not:
		op = OpNot
	case e.Op == syntax.Sub && types.IsInteger(typ):
		op = OpNeg64
	case e.Op == syntax.Sub && types.IsFloat(typ):
		op = OpNegF64
	default:
		internalErrorf(e.Pos(), "operator %s on %s", e.Op, typ)
	}
	return b.fn.NewValue(e.Pos(), op, typ, x)
}

// binary lowers an arithmetic or comparison operation. Both operands are
// evaluated left to right.
func (b *builder) binary(e *syntax.BinaryExpr, typ types.Type) Reg {
	operandType := b.typeOf(e.X)
	op, ok := binaryOp(e.Op, operandType)
	if !ok {
		internalErrorf(e.Pos(), "operator %s on %s", e.Op, operandType)
	}
	x := b.value(e.X)
	y := b.value(e.Y)
	return b.fn.NewValue(e.Pos(), op, typ, x, y)
}

// logical lowers && and || with short-circuit evaluation. The result is
// passed through a temporary slot so that every register stays
// write-once:
//
//	Store {%$tmp} x
//	Branch x -> Lrhs Lend    (|| swaps the targets)
//	Lrhs: Store {%$tmp} y; Jump -> Lend
//	Lend: v = Load {%$tmp}
func (b *builder) logical(e *syntax.BinaryExpr) Reg {
	boolT := types.Typ[types.Bool]
	tmp := b.fn.NewLocal("$tmp", boolT)

	x := b.value(e.X)
	b.fn.Store(e.Pos(), tmp, x)

	rhsL := b.fn.NewLabel()
	endL := b.fn.NewLabel()
	if e.Op == syntax.AndAnd {
		b.fn.Branch(e.Pos(), x, rhsL, endL)
	} else {
		b.fn.Branch(e.Pos(), x, endL, rhsL)
	}

	b.label(rhsL)
	y := b.value(e.Y)
	b.fn.Store(e.Pos(), tmp, y)
	b.fn.Jump(e.Pos(), endL)

	b.label(endL)
	return b.fn.Load(e.Pos(), tmp)
}

// call lowers a direct call. Arguments are evaluated left to right.
func (b *builder) call(e *syntax.CallExpr, typ types.Type) Reg {
	fun, ok := e.Fun.(*syntax.Name)
	if !ok {
		internalErrorf(e.Pos(), "indirect call of %s", syntax.ExprString(e.Fun))
	}
	sym := b.symbol(fun)
	if sym.Kind() != types.FuncSym {
		internalErrorf(e.Pos(), "call of %s %s", sym.Kind(), fun.Value)
	}
	if _, ok := b.funcs[sym.Name()]; !ok {
		internalErrorf(e.Pos(), "call of undeclared function %s", fun.Value)
	}

	args := make([]Reg, len(e.Args))
	for i, arg := range e.Args {
		args[i] = b.value(arg)
	}
	return b.fn.Call(e.Pos(), sym.Name(), typ, args...)
}

var (
	intOps = map[syntax.Token]Op{
		syntax.Add: OpAdd64,
		syntax.Sub: OpSub64,
		syntax.Mul: OpMul64,
		syntax.Div: OpDiv64,
		syntax.Rem: OpMod64,
		syntax.Eql: OpEq64,
		syntax.Neq: OpNeq64,
		syntax.Lss: OpLt64,
		syntax.Leq: OpLeq64,
		syntax.Gtr: OpGt64,
		syntax.Geq: OpGeq64,
	}
	floatOps = map[syntax.Token]Op{
		syntax.Add: OpAddF64,
		syntax.Sub: OpSubF64,
		syntax.Mul: OpMulF64,
		syntax.Div: OpDivF64,
		syntax.Eql: OpEqF64,
		syntax.Neq: OpNeqF64,
		syntax.Lss: OpLtF64,
		syntax.Leq: OpLeqF64,
		syntax.Gtr: OpGtF64,
		syntax.Geq: OpGeqF64,
	}
	stringOps = map[syntax.Token]Op{
		syntax.Add: OpConcat,
		syntax.Eql: OpEqStr,
		syntax.Neq: OpNeqStr,
		syntax.Lss: OpLtStr,
		syntax.Leq: OpLeqStr,
		syntax.Gtr: OpGtStr,
		syntax.Geq: OpGeqStr,
	}
	boolOps = map[syntax.Token]Op{
		syntax.Eql: OpEqBool,
		syntax.Neq: OpNeqBool,
	}
)

// binaryOp selects the IR op for operator tok applied to operands of type t.
func binaryOp(tok syntax.Token, t types.Type) (Op, bool) {
	var table map[syntax.Token]Op
	switch {
	case types.IsInteger(t):
		table = intOps
	case types.IsFloat(t):
		table = floatOps
	case types.IsString(t):
		table = stringOps
	case types.IsBoolean(t):
		table = boolOps
	}
	op, ok := table[tok]
	return op, ok
}
