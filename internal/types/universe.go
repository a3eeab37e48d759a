package types

import "github.com/cflat-lang/cflat/internal/syntax"

// NoPos is the zero position value, used for predeclared names.
var NoPos syntax.Pos

// universe maps the predeclared type names to their types.
var universe = map[string]*Primitive{}

func init() {
	for _, kind := range []PrimKind{Int, Float, Bool, String, Void} {
		t := Typ[kind]
		universe[t.name] = t
	}
}

// LookupType returns the primitive type named name, or nil if there is none.
// Only int, float, bool, string and void can be named in source.
func LookupType(name string) *Primitive {
	return universe[name]
}

// TypeNames returns the predeclared type names in declaration order.
func TypeNames() []string {
	return []string{"int", "float", "bool", "string", "void"}
}
