package resolve

import (
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// ScopeID is a handle into a Scopes arena. The zero value is NoScope.
type ScopeID uint32

// NoScope is the parent of the file scope.
const NoScope ScopeID = 0

// IsValid reports whether id refers to a scope.
func (id ScopeID) IsValid() bool { return id != NoScope }

// ScopeKind classifies a scope by the construct that opened it.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeFile              // top-level declarations of one unit
	ScopeFunc              // parameters and the outermost body block
	ScopeBlock             // nested { ... } blocks
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeFile:
		return "file"
	case ScopeFunc:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope is a lexical region. Its parent is stored as a handle, so scopes
// never point at each other directly.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Depth    int // 0 for the file scope
	Pos, End syntax.Pos

	names   map[string]*types.Symbol
	Symbols []*types.Symbol // in declaration order
}

// Scopes is an arena of scopes. A scope's ID is its index plus one.
// The arena belongs to a single resolver run and is dropped with it.
type Scopes struct {
	arena []Scope
}

// New allocates a scope nested in parent and returns its handle.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, pos, end syntax.Pos) ScopeID {
	depth := 0
	if parent.IsValid() {
		depth = s.Get(parent).Depth + 1
	}
	s.arena = append(s.arena, Scope{
		Kind:   kind,
		Parent: parent,
		Depth:  depth,
		Pos:    pos,
		End:    end,
		names:  make(map[string]*types.Symbol),
	})
	return ScopeID(len(s.arena))
}

// Get returns the scope for id. It panics if id is not a valid handle.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) > len(s.arena) {
		panic("resolve: invalid scope handle")
	}
	return &s.arena[id-1]
}

// Len returns the number of scopes allocated so far.
func (s *Scopes) Len() int { return len(s.arena) }

// Insert adds sym to scope id. If the scope already declares a symbol
// with the same name, Insert leaves the scope unchanged and returns the
// existing symbol. Otherwise it returns nil.
func (s *Scopes) Insert(id ScopeID, sym *types.Symbol) *types.Symbol {
	sc := s.Get(id)
	if prev := sc.names[sym.Name()]; prev != nil {
		return prev
	}
	sc.names[sym.Name()] = sym
	sc.Symbols = append(sc.Symbols, sym)
	return nil
}

// LookupLocal returns the symbol declared as name in scope id only.
func (s *Scopes) LookupLocal(id ScopeID, name string) *types.Symbol {
	return s.Get(id).names[name]
}

// Lookup searches scope id and then its ancestors for name.
// It returns the symbol and the scope declaring it, or (nil, NoScope).
func (s *Scopes) Lookup(id ScopeID, name string) (*types.Symbol, ScopeID) {
	for ; id.IsValid(); id = s.Get(id).Parent {
		if sym := s.Get(id).names[name]; sym != nil {
			return sym, id
		}
	}
	return nil, NoScope
}
