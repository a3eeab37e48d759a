// Package types implements the type system for the C♭ programming language.
// This package provides type and symbol representations without AST
// dependencies beyond source positions.
package types

// Type is the interface implemented by all types.
//
// Types are canonical: primitives are package-level singletons and function
// types are interned by a Context, so two types are identical exactly when
// they are the same pointer.
type Type interface {
	// String returns a human-readable representation of the type.
	String() string

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}
