package ir

import (
	"github.com/cflat-lang/cflat/internal/resolve"
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/typecheck"
	"github.com/cflat-lang/cflat/internal/types"
)

// builder holds the state for lowering a single function.
type builder struct {
	rinfo   *resolve.Info             // resolver output (read-only)
	info    *typecheck.Info           // type-checker output (read-only)
	globals map[*types.Symbol]*Global // module globals by symbol
	funcs   map[string]*types.Func    // callee signatures by name

	fn        *Func
	vars      map[*types.Symbol]*Slot // symbol → slot for params and locals
	reachable bool                    // false after a return until the next label
}

// Lower translates a resolved and type-checked file into an IR module
// called name. The file must be free of errors: lowering a tree with
// error nodes, unresolved names or untyped expressions fails with an
// *InternalError.
//
// Each function declaration becomes one Func, in source order. The
// top-level statements and global initializers are collected, in source
// order, into a final Func named InitFuncName, which is omitted if there
// are none.
func Lower(name string, file *syntax.File, rinfo *resolve.Info, info *typecheck.Info) (m *Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			m, err = nil, ie
		}
	}()

	m = &Module{Name: name}
	globals := make(map[*types.Symbol]*Global)
	funcs := make(map[string]*types.Func)

	// Globals and signatures first: function bodies may refer to either.
	for _, s := range file.Stmts {
		switch s := s.(type) {
		case *syntax.VarDecl:
			sym := defOf(rinfo, s.Name)
			if !types.IsValue(sym.Type()) {
				internalErrorf(s.Pos(), "global %s has type %s", sym.Name(), sym.Type())
			}
			g := &Global{Name: sym.Name(), Type: sym.Type()}
			m.Globals = append(m.Globals, g)
			globals[sym] = g
		case *syntax.FuncDecl:
			sym := defOf(rinfo, s.Name)
			sig := sym.Signature()
			if sig == nil {
				internalErrorf(s.Pos(), "function %s has type %s", sym.Name(), sym.Type())
			}
			funcs[sym.Name()] = sig
		}
	}

	newBuilder := func(fn *Func) *builder {
		return &builder{
			rinfo:     rinfo,
			info:      info,
			globals:   globals,
			funcs:     funcs,
			fn:        fn,
			vars:      make(map[*types.Symbol]*Slot),
			reachable: true,
		}
	}

	var top []syntax.Stmt
	for _, s := range file.Stmts {
		fd, ok := s.(*syntax.FuncDecl)
		if !ok {
			top = append(top, s)
			continue
		}
		sig := funcs[fd.Name.Value]
		b := newBuilder(NewFunc(fd.Name.Value, sig))
		b.funcBody(fd, sig)
		m.Funcs = append(m.Funcs, b.fn)
	}

	if len(top) > 0 {
		b := newBuilder(NewFunc(InitFuncName, nil))
		b.stmts(top)
		b.finish(syntax.Pos{})
		m.Funcs = append(m.Funcs, b.fn)
	}

	return m, nil
}

// defOf returns the symbol declared by n.
func defOf(rinfo *resolve.Info, n *syntax.Name) *types.Symbol {
	sym := rinfo.Defs[n]
	if sym == nil {
		internalErrorf(n.Pos(), "no symbol for declaration of %s", n.Value)
	}
	return sym
}

// funcBody lowers a function declaration into b.fn.
func (b *builder) funcBody(fd *syntax.FuncDecl, sig *types.Func) {
	// Parameters: Param + Store into a slot each, so that parameters can
	// be assigned like locals.
	for i, p := range fd.Params {
		sym := defOf(b.rinfo, p.Name)
		slot := b.fn.NewParam(p.Name.Value, sig.Param(i))
		v := b.fn.Param(p.Pos(), i, sig.Param(i))
		b.fn.Store(p.Pos(), slot, v)
		b.vars[sym] = slot
	}

	b.stmts(fd.Body.Stmts)
	b.finish(fd.Body.Rbrace)
}

// finish terminates the body. The end of a void function returns; the
// checker guarantees that a non-void function never falls off its end.
func (b *builder) finish(pos syntax.Pos) {
	if !b.reachable {
		return
	}
	if types.IsVoid(b.fn.Result()) {
		b.fn.Ret(pos, NoReg)
	} else {
		b.fn.Unreachable(pos)
	}
	b.reachable = false
}

// stmts lowers a list of statements.
func (b *builder) stmts(list []syntax.Stmt) {
	for _, s := range list {
		if !b.reachable {
			// Dead code after return.
			break
		}
		b.stmt(s)
	}
}

// stmt dispatches a statement to the appropriate lowering method.
func (b *builder) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.EmptyStmt:
		// no-op

	case *syntax.ExprStmt:
		// Evaluate for side effects, discard result.
		b.expr(s.X)

	case *syntax.VarDecl:
		b.varDecl(s)

	case *syntax.BlockStmt:
		b.stmts(s.Stmts)

	case *syntax.IfStmt:
		b.ifStmt(s)

	case *syntax.WhileStmt:
		b.whileStmt(s)

	case *syntax.ReturnStmt:
		b.returnStmt(s)

	case *syntax.FuncDecl:
		internalErrorf(s.Pos(), "nested function declaration %s", s.Name.Value)

	case *syntax.ErrorNode:
		internalErrorf(s.Pos(), "syntax error in checked tree: %s", s.Msg)

	default:
		internalErrorf(s.Pos(), "unexpected statement %T", s)
	}
}

// varDecl lowers a variable declaration. Globals were created up front
// and start out zeroed, so only their initializer is stored; locals get
// a slot and an explicit zero value when there is no initializer.
func (b *builder) varDecl(d *syntax.VarDecl) {
	sym := defOf(b.rinfo, d.Name)

	if g, ok := b.globals[sym]; ok {
		if d.Value != nil {
			v := b.value(d.Value)
			b.fn.StoreGlobal(d.Pos(), g, v)
		}
		return
	}

	typ := sym.Type()
	if !types.IsValue(typ) {
		internalErrorf(d.Pos(), "variable %s has type %s", sym.Name(), typ)
	}

	var v Reg
	if d.Value != nil {
		v = b.value(d.Value)
	} else {
		v = b.zero(d.Pos(), typ)
	}
	slot := b.fn.NewLocal(sym.Name(), typ)
	b.fn.Store(d.Pos(), slot, v)
	b.vars[sym] = slot
}

// ifStmt lowers an if statement:
//
//	Branch cond -> Lthen Lelse
//	Lthen: ...; Jump -> Lend
//	Lelse: ...; Jump -> Lend
//	Lend:
//
// Without an else branch the condition branches to Lend directly. Lend is
// only emitted when some path reaches it.
func (b *builder) ifStmt(s *syntax.IfStmt) {
	cond := b.value(s.Cond)

	thenL := b.fn.NewLabel()
	endL := b.fn.NewLabel()
	elseL := endL
	if s.Else != nil {
		elseL = b.fn.NewLabel()
	}
	b.fn.Branch(s.Pos(), cond, thenL, elseL)

	endUsed := s.Else == nil

	b.label(thenL)
	b.stmts(s.Then.Stmts)
	if b.reachable {
		b.fn.Jump(s.Then.Rbrace, endL)
		endUsed = true
	}

	if s.Else != nil {
		b.label(elseL)
		b.stmt(s.Else)
		if b.reachable {
			b.fn.Jump(s.Else.End(), endL)
			endUsed = true
		}
	}

	if endUsed {
		b.label(endL)
	}
}

// whileStmt lowers a while loop:
//
//	Lcond: Branch cond -> Lbody Lend
//	Lbody: ...; Jump -> Lcond
//	Lend:
func (b *builder) whileStmt(s *syntax.WhileStmt) {
	condL := b.fn.NewLabel()
	bodyL := b.fn.NewLabel()
	endL := b.fn.NewLabel()

	b.label(condL)
	cond := b.value(s.Cond)
	b.fn.Branch(s.Pos(), cond, bodyL, endL)

	b.label(bodyL)
	b.stmts(s.Body.Stmts)
	if b.reachable {
		b.fn.Jump(s.Body.Rbrace, condL)
	}

	b.label(endL)
}

// returnStmt lowers a return statement.
func (b *builder) returnStmt(s *syntax.ReturnStmt) {
	if b.fn.Name == InitFuncName {
		internalErrorf(s.Pos(), "return statement outside function")
	}

	switch {
	case s.Result == nil:
		b.fn.Ret(s.Pos(), NoReg)
	case types.IsVoid(b.fn.Result()):
		// return of a void call in a void function
		b.expr(s.Result)
		b.fn.Ret(s.Pos(), NoReg)
	default:
		v := b.value(s.Result)
		b.fn.Ret(s.Pos(), v)
	}
	b.reachable = false
}

// label defines l. Any label may be a jump target, so code after it is
// reachable.
func (b *builder) label(l Label) {
	b.fn.Label(l)
	b.reachable = true
}

// zero materializes the zero value of typ.
func (b *builder) zero(pos syntax.Pos, typ types.Type) Reg {
	switch {
	case types.IsInteger(typ):
		return b.fn.ConstInt(pos, 0)
	case types.IsFloat(typ):
		return b.fn.ConstFloat(pos, 0)
	case types.IsBoolean(typ):
		return b.fn.ConstBool(pos, false)
	case types.IsString(typ):
		return b.fn.ConstString(pos, "")
	}
	internalErrorf(pos, "no zero value for type %s", typ)
	return NoReg
}
