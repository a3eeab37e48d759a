package typecheck

import (
	"go/constant"

	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// stmts checks a list of statements.
func (c *Checker) stmts(list []syntax.Stmt) {
	for _, s := range list {
		c.stmt(s)
	}
}

// stmt checks a single statement.
func (c *Checker) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.EmptyStmt, *syntax.ErrorNode:
		// Nothing to check

	case *syntax.ExprStmt:
		var x operand
		c.expr(&x, s.X)
		// A value result is discarded. A bare function name has no
		// storage to evaluate.
		if x.mode != invalid && types.IsFunc(x.typ) {
			c.singleValue(&x, TypeMismatch)
		}

	case *syntax.VarDecl:
		c.varDecl(s)

	case *syntax.BlockStmt:
		c.stmts(s.Stmts)

	case *syntax.IfStmt:
		c.condition(s.Cond, "if statement")
		c.stmts(s.Then.Stmts)
		if s.Else != nil {
			c.stmt(s.Else)
		}

	case *syntax.WhileStmt:
		c.condition(s.Cond, "while statement")
		c.stmts(s.Body.Stmts)

	case *syntax.ReturnStmt:
		c.returnStmt(s)

	case *syntax.FuncDecl:
		// Nested functions are rejected by the parser.
		panic("typecheck: function declaration outside the top level")

	default:
		panic("typecheck: unexpected statement")
	}
}

// condition checks the condition of an if or while statement.
func (c *Checker) condition(cond syntax.Expr, what string) {
	var x operand
	c.expr(&x, cond)
	if x.mode == invalid {
		return
	}
	if x.mode == novalue || !types.IsBoolean(x.typ) {
		c.mismatch(TypeMismatch, cond, types.Typ[types.Bool], x.typ,
			"non-boolean condition in %s: %s", what, &x)
	}
}

// varDecl checks a variable declaration. A variable without a type
// annotation takes the type of its initializer.
func (c *Checker) varDecl(d *syntax.VarDecl) {
	sym := c.symbol(d.Name)

	if d.Value == nil {
		if types.IsUnresolved(sym.Type()) {
			// Neither type nor value: the parser has reported it.
			sym.SetType(types.Typ[types.Invalid])
		}
		return
	}

	var x operand
	c.expr(&x, d.Value)

	if !types.IsUnresolved(sym.Type()) {
		c.assignment(&x, sym.Type(), TypeMismatch, "variable declaration")
		return
	}

	// Type inference
	if x.mode == invalid || !c.singleValue(&x, TypeMismatch) {
		sym.SetType(types.Typ[types.Invalid])
		return
	}
	sym.SetType(x.typ)
}

// returnStmt checks a return statement against the enclosing function.
func (c *Checker) returnStmt(s *syntax.ReturnStmt) {
	var x operand
	if s.Result != nil {
		c.expr(&x, s.Result)
	}

	if c.sig == nil {
		c.errorf(ReturnType, s, "return statement outside function")
		return
	}
	result := c.sig.Result()
	if types.IsInvalid(result) {
		return
	}

	if s.Result == nil {
		if !types.IsVoid(result) {
			c.mismatch(ReturnType, s, result, types.Typ[types.Void], "not enough return values: have (), want (%s)", result)
		}
		return
	}

	if types.IsVoid(result) {
		if x.mode == novalue {
			// return f() where f is void
			return
		}
		c.mismatch(ReturnType, s.Result, types.Typ[types.Void], x.typ, "too many return values: have (%s), want ()", x.typ)
		return
	}

	c.assignment(&x, result, ReturnType, "return statement")
}

// blockMustReturn reports whether all control-flow paths in this statement
// list return. A region the parser could not read counts as returning so
// that it does not cause a second error.
func (c *Checker) blockMustReturn(stmts []syntax.Stmt) bool {
	for _, s := range stmts {
		if c.stmtMustReturn(s) {
			return true
		}
	}
	return false
}

func (c *Checker) stmtMustReturn(s syntax.Stmt) bool {
	switch s := s.(type) {
	case *syntax.ReturnStmt, *syntax.ErrorNode:
		return true
	case *syntax.BlockStmt:
		return c.blockMustReturn(s.Stmts)
	case *syntax.IfStmt:
		if s.Else == nil {
			return false
		}
		return c.blockMustReturn(s.Then.Stmts) && c.stmtMustReturn(s.Else)
	case *syntax.WhileStmt:
		// There is no break, so "while true" never falls through.
		return c.isConstTrue(s.Cond)
	}
	return false
}

// isConstTrue reports whether e was checked as the constant true.
func (c *Checker) isConstTrue(e syntax.Expr) bool {
	tv, ok := c.info.Types[e]
	return ok && tv.Value != nil && tv.Value.Kind() == constant.Bool && constant.BoolVal(tv.Value)
}
