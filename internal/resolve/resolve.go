package resolve

import (
	"fmt"

	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// resolver holds the state of one Resolve call.
type resolver struct {
	conf *Config
	ctx  *types.Context
	info *Info

	scopes Scopes
	scope  ScopeID // current scope

	// Function symbols created while predeclaring, keyed by declaration.
	// Duplicate functions get a symbol here but no entry in Defs.
	sigs map[*syntax.FuncDecl]*types.Symbol

	errors []*ResolveError
}

// file resolves a whole unit.
func (r *resolver) file(f *syntax.File) {
	r.openScope(ScopeFile, f)
	defer r.closeScope()

	// Phase 1: declare all top-level functions.
	for _, s := range f.Stmts {
		if fd, ok := s.(*syntax.FuncDecl); ok {
			r.collectFunc(fd)
		}
	}

	// Phase 2: walk everything in source order.
	r.stmtList(f.Stmts)
}

// openScope opens a new scope nested in the current one and makes it current.
func (r *resolver) openScope(kind ScopeKind, n syntax.Node) {
	r.scope = r.scopes.New(kind, r.scope, n.Pos(), n.End())
}

// closeScope returns to the parent scope.
func (r *resolver) closeScope() {
	r.scope = r.scopes.Get(r.scope).Parent
}

// depth returns the depth of the current scope.
func (r *resolver) depth() int {
	return r.scopes.Get(r.scope).Depth
}

// declare inserts sym into the current scope under the identifier n.
// It reports an error if the scope already declares that name.
func (r *resolver) declare(n *syntax.Name, sym *types.Symbol) {
	if prev := r.scopes.Insert(r.scope, sym); prev != nil {
		err := r.errorf(DuplicateDecl, n, "%s redeclared in this block", n.Value)
		err.Prev = prev.Pos()
		return
	}
	r.info.Defs[n] = sym
}

// use resolves the identifier n along the scope chain.
func (r *resolver) use(n *syntax.Name) {
	sym, _ := r.scopes.Lookup(r.scope, n.Value)
	if sym == nil {
		r.errorf(UndefinedName, n, "undefined: %s", n.Value)
		return
	}
	r.info.Uses[n] = sym
}

// typeName resolves a type annotation. Unknown names yield Typ[Invalid].
func (r *resolver) typeName(n *syntax.Name) types.Type {
	if t := types.LookupType(n.Value); t != nil {
		return t
	}
	r.errorf(UndefinedName, n, "undefined type: %s", n.Value)
	return types.Typ[types.Invalid]
}

// valueType resolves the type of a variable or parameter, which must not
// be void.
func (r *resolver) valueType(n *syntax.Name, what, name string) types.Type {
	t := r.typeName(n)
	if types.IsVoid(t) {
		r.errorf(InvalidVoid, n, "%s %s cannot have type void", what, name)
		return types.Typ[types.Invalid]
	}
	return t
}

// collectFunc computes the signature of fd and declares it in the file scope.
func (r *resolver) collectFunc(fd *syntax.FuncDecl) {
	params := make([]types.Type, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = r.valueType(p.Type, "parameter", p.Name.Value)
	}
	var result types.Type
	if fd.Result != nil {
		result = r.typeName(fd.Result)
	}
	sig := r.ctx.Func(params, result)

	sym := types.NewSymbol(types.FuncSym, fd.Name.Pos(), fd.Name.Value, sig, r.depth())
	r.sigs[fd] = sym
	r.declare(fd.Name, sym)
}

// ----------------------------------------------------------------------------
// Statements

func (r *resolver) stmtList(list []syntax.Stmt) {
	for _, s := range list {
		r.stmt(s)
	}
}

func (r *resolver) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.FuncDecl:
		r.funcDecl(s)

	case *syntax.VarDecl:
		r.varDecl(s)

	case *syntax.BlockStmt:
		r.block(s)

	case *syntax.IfStmt:
		r.expr(s.Cond)
		r.block(s.Then)
		if s.Else != nil {
			r.stmt(s.Else)
		}

	case *syntax.WhileStmt:
		r.expr(s.Cond)
		r.block(s.Body)

	case *syntax.ReturnStmt:
		if s.Result != nil {
			r.expr(s.Result)
		}

	case *syntax.ExprStmt:
		r.expr(s.X)

	case *syntax.EmptyStmt, *syntax.ErrorNode:
		// nothing to do

	default:
		panic(fmt.Sprintf("resolve: unexpected statement %T", s))
	}
}

func (r *resolver) block(b *syntax.BlockStmt) {
	r.openScope(ScopeBlock, b)
	r.stmtList(b.Stmts)
	r.closeScope()
}

func (r *resolver) funcDecl(fd *syntax.FuncDecl) {
	sym := r.sigs[fd]
	if sym == nil {
		// Only top-level declarations are collected; the parser never
		// produces any other kind.
		panic("resolve: function declaration was not collected")
	}
	sig := sym.Signature()

	r.openScope(ScopeFunc, fd)
	defer r.closeScope()

	for i, p := range fd.Params {
		r.declare(p.Name, types.NewSymbol(types.ParamSym, p.Name.Pos(), p.Name.Value, sig.Param(i), r.depth()))
	}
	if fd.Body != nil {
		r.stmtList(fd.Body.Stmts)
	}
}

// varDecl resolves the annotation and initializer of d before declaring it,
// so the initializer cannot see the variable being declared.
func (r *resolver) varDecl(d *syntax.VarDecl) {
	var typ types.Type
	if d.Type != nil {
		typ = r.valueType(d.Type, "variable", d.Name.Value)
	}
	if d.Value != nil {
		r.expr(d.Value)
	}
	r.declare(d.Name, types.NewSymbol(types.VarSym, d.Name.Pos(), d.Name.Value, typ, r.depth()))
}

// ----------------------------------------------------------------------------
// Expressions

func (r *resolver) expr(e syntax.Expr) {
	switch e := e.(type) {
	case nil:
		// missing operand, already reported by the parser

	case *syntax.Name:
		r.use(e)

	case *syntax.BasicLit:
		// nothing to do

	case *syntax.UnaryExpr:
		r.expr(e.X)

	case *syntax.BinaryExpr:
		r.expr(e.X)
		r.expr(e.Y)

	case *syntax.CallExpr:
		r.expr(e.Fun)
		for _, arg := range e.Args {
			r.expr(arg)
		}

	case *syntax.AssignExpr:
		r.use(e.Lhs)
		r.expr(e.Rhs)

	case *syntax.ErrorNode:
		// nothing to do

	default:
		panic(fmt.Sprintf("resolve: unexpected expression %T", e))
	}
}
