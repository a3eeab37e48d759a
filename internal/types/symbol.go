package types

import "github.com/cflat-lang/cflat/internal/syntax"

// SymbolKind classifies a declared name.
type SymbolKind int

const (
	VarSym   SymbolKind = iota // variable declared with var
	FuncSym                    // top-level function
	ParamSym                   // function parameter
)

var symbolKindNames = [...]string{
	VarSym:   "variable",
	FuncSym:  "function",
	ParamSym: "parameter",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return "symbol"
}

// Symbol represents a declared entity: a variable, a function, or a parameter.
//
// Symbols are created by the name resolver and outlive it: later stages
// reach them through the resolver's Defs and Uses tables. A symbol's type
// is fixed once the checker has inferred it.
type Symbol struct {
	name  string
	kind  SymbolKind
	typ   Type
	depth int // scope depth: 0 = file scope
	pos   syntax.Pos
}

// NewSymbol creates a new symbol declared at pos in a scope of the given depth.
// A nil typ is recorded as Typ[Unresolved].
func NewSymbol(kind SymbolKind, pos syntax.Pos, name string, typ Type, depth int) *Symbol {
	if typ == nil {
		typ = Typ[Unresolved]
	}
	return &Symbol{name: name, kind: kind, typ: typ, depth: depth, pos: pos}
}

func (s *Symbol) Name() string     { return s.name }
func (s *Symbol) Kind() SymbolKind { return s.kind }
func (s *Symbol) Type() Type       { return s.typ }
func (s *Symbol) Depth() int       { return s.depth }
func (s *Symbol) Pos() syntax.Pos  { return s.pos }

// SetType sets the symbol's type.
// This is called during type checking once an inferred type is known.
func (s *Symbol) SetType(typ Type) {
	s.typ = typ
}

// IsGlobal reports whether s is a variable declared at file scope.
func (s *Symbol) IsGlobal() bool {
	return s.kind == VarSym && s.depth == 0
}

// Signature returns the function type of a function symbol, or nil.
func (s *Symbol) Signature() *Func {
	f, _ := s.typ.(*Func)
	return f
}

func (s *Symbol) String() string {
	return s.kind.String() + " " + s.name + " " + typeString(s.typ)
}
