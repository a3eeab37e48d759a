package types

import "strings"

// Func represents a function type: its parameter types and its result.
// Func values are created by Context.Func and are never modified.
type Func struct {
	typ
	params []Type
	result Type // Typ[Void] for functions without a result
}

// Params returns the parameter types.
func (f *Func) Params() []Type {
	return f.params
}

// NumParams returns the number of parameters.
func (f *Func) NumParams() int {
	return len(f.params)
}

// Param returns the type of parameter i.
func (f *Func) Param(i int) Type {
	return f.params[i]
}

// Result returns the result type; Typ[Void] if the function returns nothing.
func (f *Func) Result() Type {
	return f.result
}

// String implements Type.
func (f *Func) String() string {
	var buf strings.Builder
	writeFunc(&buf, f.params, f.result)
	return buf.String()
}

// writeFunc renders a signature as func(int, float): bool.
// A void result is left out.
func writeFunc(buf *strings.Builder, params []Type, result Type) {
	buf.WriteString("func(")
	for i, p := range params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(typeString(p))
	}
	buf.WriteString(")")
	if result != nil && !IsVoid(result) {
		buf.WriteString(": ")
		buf.WriteString(typeString(result))
	}
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
