package types

// PrimKind describes the kind of a primitive type.
type PrimKind int

const (
	// Invalid is the type of an expression that already produced an error.
	// It is compatible with everything so that one mistake is reported once.
	Invalid PrimKind = iota

	// Unresolved is the type of a variable whose declaration has no
	// annotation, until the checker infers it from the initializer.
	Unresolved

	// Concrete primitive types
	Int
	Float
	Bool
	String
	Void
)

// PrimInfo describes properties of a primitive type.
type PrimInfo int

const (
	InfoBoolean PrimInfo = 1 << iota
	InfoInteger
	InfoFloat
	InfoString
	InfoVoid
	InfoNumeric = InfoInteger | InfoFloat
)

// Primitive represents a primitive type: int, float, bool, string, void,
// and the two placeholder types invalid and unresolved.
type Primitive struct {
	typ
	kind PrimKind
	info PrimInfo
	name string
}

// Kind returns the kind of the primitive type.
func (p *Primitive) Kind() PrimKind {
	return p.kind
}

// Info returns information about the primitive type.
func (p *Primitive) Info() PrimInfo {
	return p.info
}

// Name returns the name of the primitive type.
func (p *Primitive) Name() string {
	return p.name
}

// String implements Type.
func (p *Primitive) String() string {
	return p.name
}

// Typ holds the primitive types, indexed by PrimKind.
var Typ = []*Primitive{
	Invalid:    {kind: Invalid, name: "invalid type"},
	Unresolved: {kind: Unresolved, name: "unresolved"},
	Int:        {kind: Int, info: InfoInteger, name: "int"},
	Float:      {kind: Float, info: InfoFloat, name: "float"},
	Bool:       {kind: Bool, info: InfoBoolean, name: "bool"},
	String:     {kind: String, info: InfoString, name: "string"},
	Void:       {kind: Void, info: InfoVoid, name: "void"},
}
