package typecheck

import (
	"fmt"

	"github.com/cflat-lang/cflat/internal/resolve"
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// Checker is the type checker.
type Checker struct {
	conf  *Config
	rinfo *resolve.Info
	info  *Info

	// Function context; nil sig means top-level code.
	fn  *syntax.FuncDecl
	sig *types.Func

	errors []*TypeError
}

// checkFile type-checks a single file. Statements are checked in source
// order, so every variable has its type by the time it is used.
func (c *Checker) checkFile(file *syntax.File) {
	for _, s := range file.Stmts {
		if fd, ok := s.(*syntax.FuncDecl); ok {
			c.funcBody(fd)
			continue
		}
		c.stmt(s)
	}
}

// symbol returns the symbol an identifier declares or uses.
func (c *Checker) symbol(n *syntax.Name) *types.Symbol {
	sym := c.rinfo.SymbolOf(n)
	if sym == nil {
		panic(fmt.Sprintf("typecheck: %s at %s was not resolved", n.Value, n.Pos()))
	}
	return sym
}

// record records the type information for an expression.
func (c *Checker) record(x *operand) {
	typ := x.typ
	if x.mode == invalid || typ == nil {
		typ = types.Typ[types.Invalid]
	}
	c.info.Types[x.expr] = TypeAndValue{
		Type:  typ,
		Value: x.val,
		mode:  x.mode,
	}
}

// funcBody checks the body of a function declaration.
func (c *Checker) funcBody(fd *syntax.FuncDecl) {
	sig := c.symbol(fd.Name).Signature()

	c.fn, c.sig = fd, sig
	defer func() { c.fn, c.sig = nil, nil }()

	if fd.Body == nil {
		return
	}
	c.stmts(fd.Body.Stmts)

	if !types.IsVoid(sig.Result()) && !types.IsInvalid(sig.Result()) && !c.blockMustReturn(fd.Body.Stmts) {
		pos, end := fd.Body.End(), fd.Body.End()
		if rb := fd.Body.Rbrace; rb.IsValid() {
			pos = rb
			end = syntax.NewPos(rb.Filename(), rb.Line(), rb.Col()+1, rb.Offset()+1)
		}
		err := c.errorAt(ReturnType, pos, end, "missing return in function %s", fd.Name.Value)
		err.Expected = sig.Result()
	}
}
