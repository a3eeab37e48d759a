// Package resolve binds identifiers to the declarations they refer to.
//
// Resolution is a single depth-first walk over a parsed file. Each function
// and each block opens a scope; a function body shares its scope with the
// function's parameters. Top-level functions are declared before the walk
// starts, so they are visible throughout the file. Every other name must be
// declared before it is used.
package resolve

import (
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// Config specifies the configuration for name resolution.
type Config struct {
	// Error is called for each resolution error, in the order found.
	// If nil, errors are only returned.
	Error func(err *ResolveError)
}

// Info holds the results of name resolution.
type Info struct {
	// Defs maps declaring identifiers to the symbols they declare.
	Defs map[*syntax.Name]*types.Symbol

	// Uses maps referencing identifiers to the symbols they refer to.
	// Assignment targets are uses.
	Uses map[*syntax.Name]*types.Symbol

	// NumScopes is the number of scopes opened during resolution.
	NumScopes int
}

// SymbolOf returns the symbol declared or referenced by n, or nil.
func (info *Info) SymbolOf(n *syntax.Name) *types.Symbol {
	if sym := info.Defs[n]; sym != nil {
		return sym
	}
	return info.Uses[n]
}

// Resolve resolves the names in file. Function and parameter types are
// interned in ctx. The returned Info is complete only if no errors are
// returned.
func Resolve(file *syntax.File, ctx *types.Context) (*Info, []*ResolveError) {
	var conf Config
	return conf.Resolve(file, ctx)
}

// Resolve resolves the names in file using the configuration conf.
func (conf *Config) Resolve(file *syntax.File, ctx *types.Context) (*Info, []*ResolveError) {
	r := &resolver{
		conf: conf,
		ctx:  ctx,
		info: &Info{
			Defs: make(map[*syntax.Name]*types.Symbol),
			Uses: make(map[*syntax.Name]*types.Symbol),
		},
		sigs: make(map[*syntax.FuncDecl]*types.Symbol),
	}
	r.file(file)
	r.info.NumScopes = r.scopes.Len()
	return r.info, r.errors
}
