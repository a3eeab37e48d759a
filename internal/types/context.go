package types

import (
	"strings"
	"sync"
)

// A Context interns types so that structurally equal types are the same
// pointer. One Context is shared by every stage and every unit of a
// compilation session; it is safe for concurrent use.
type Context struct {
	mu    sync.Mutex
	funcs map[string]*Func // keyed by canonical signature text
}

// NewContext creates a new, empty type context.
func NewContext() *Context {
	return &Context{funcs: make(map[string]*Func)}
}

// Primitive returns the primitive type with the given name, or nil if name
// does not denote a primitive type.
func (c *Context) Primitive(name string) *Primitive {
	return LookupType(name)
}

// Func returns the canonical function type with the given parameter and
// result types. A nil result means void.
func (c *Context) Func(params []Type, result Type) *Func {
	if result == nil {
		result = Typ[Void]
	}

	var key strings.Builder
	writeFunc(&key, params, result)
	if IsVoid(result) {
		key.WriteString(": void")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.funcs[key.String()]; ok {
		return f
	}
	f := &Func{params: append([]Type(nil), params...), result: result}
	c.funcs[key.String()] = f
	return f
}

// Len returns the number of distinct function types interned so far.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.funcs)
}
