// Package typecheck implements type checking for C♭.
//
// The checker runs after name resolution and computes the type of every
// expression bottom-up. Errors are accumulated; an expression whose type
// cannot be computed gets the invalid type, and operations on invalid
// operands are not reported again.
package typecheck

import (
	"go/constant"

	"github.com/cflat-lang/cflat/internal/resolve"
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// Config specifies the configuration for type checking.
type Config struct {
	// Error is called for each type error, in the order found.
	// If nil, errors are only returned.
	Error func(err *TypeError)
}

// Info holds the results of type checking.
type Info struct {
	// Types maps every expression of the file to its type and, for
	// constant expressions, its value. Expressions that failed to check
	// map to the invalid type.
	Types map[syntax.Expr]TypeAndValue
}

// TypeOf returns the type of e, or nil if e was not checked.
func (info *Info) TypeOf(e syntax.Expr) types.Type {
	if tv, ok := info.Types[e]; ok {
		return tv.Type
	}
	return nil
}

// TypeAndValue holds the type and value information for an expression.
type TypeAndValue struct {
	Type  types.Type     // expression type
	Value constant.Value // constant value (nil if not constant)
	mode  operandMode    // operand mode
}

// IsVoid reports whether the expression has no value (void function call).
func (tv TypeAndValue) IsVoid() bool {
	return tv.mode == novalue
}

// IsConstant reports whether the expression is a constant.
func (tv TypeAndValue) IsConstant() bool {
	return tv.mode == constant_
}

// IsAssignable reports whether the expression denotes a variable or parameter.
func (tv TypeAndValue) IsAssignable() bool {
	return tv.mode == variable
}

// IsValue reports whether the expression has a value.
func (tv TypeAndValue) IsValue() bool {
	return tv.mode == constant_ || tv.mode == variable || tv.mode == value
}

// String renders the type, followed by the value for constants: "int = 3".
func (tv TypeAndValue) String() string {
	if tv.Type == nil {
		return "<nil>"
	}
	if tv.Value != nil {
		return tv.Type.String() + " = " + tv.Value.String()
	}
	return tv.Type.String()
}

// Check type-checks file. The resolver results in rinfo must come from a
// resolution that reported no errors. Inferred variable types are stored
// on the variables' symbols.
func Check(file *syntax.File, rinfo *resolve.Info) (*Info, []*TypeError) {
	var conf Config
	return conf.Check(file, rinfo)
}

// Check type-checks file using the configuration conf.
func (conf *Config) Check(file *syntax.File, rinfo *resolve.Info) (*Info, []*TypeError) {
	c := &Checker{
		conf:  conf,
		rinfo: rinfo,
		info: &Info{
			Types: make(map[syntax.Expr]TypeAndValue),
		},
	}
	c.checkFile(file)
	return c.info, c.errors
}
