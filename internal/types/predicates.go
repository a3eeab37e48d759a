package types

// Identical reports whether x and y are identical types.
// Types are canonical, so identity is pointer equality.
func Identical(x, y Type) bool {
	return x == y
}

func primInfo(t Type) (PrimInfo, bool) {
	p, ok := t.(*Primitive)
	if !ok {
		return 0, false
	}
	return p.info, true
}

func isKind(t Type, kind PrimKind) bool {
	p, ok := t.(*Primitive)
	return ok && p.kind == kind
}

// IsInvalid reports whether t is the invalid type.
func IsInvalid(t Type) bool {
	return isKind(t, Invalid)
}

// IsUnresolved reports whether t has not been determined yet.
func IsUnresolved(t Type) bool {
	return t == nil || isKind(t, Unresolved)
}

// IsVoid reports whether t is void.
func IsVoid(t Type) bool {
	return isKind(t, Void)
}

// IsBoolean reports whether t is bool.
func IsBoolean(t Type) bool {
	info, ok := primInfo(t)
	return ok && info&InfoBoolean != 0
}

// IsInteger reports whether t is int.
func IsInteger(t Type) bool {
	info, ok := primInfo(t)
	return ok && info&InfoInteger != 0
}

// IsFloat reports whether t is float.
func IsFloat(t Type) bool {
	info, ok := primInfo(t)
	return ok && info&InfoFloat != 0
}

// IsNumeric reports whether t is int or float.
func IsNumeric(t Type) bool {
	info, ok := primInfo(t)
	return ok && info&InfoNumeric != 0
}

// IsString reports whether t is string.
func IsString(t Type) bool {
	info, ok := primInfo(t)
	return ok && info&InfoString != 0
}

// IsFunc reports whether t is a function type.
func IsFunc(t Type) bool {
	_, ok := t.(*Func)
	return ok
}

// IsValue reports whether t is the type of a storable value: a concrete
// primitive other than void.
func IsValue(t Type) bool {
	info, ok := primInfo(t)
	return ok && info != 0 && info&InfoVoid == 0
}

// Comparable reports whether values of type t can be compared with == or !=.
func Comparable(t Type) bool {
	return IsValue(t)
}

// Ordered reports whether values of type t can be ordered with <, <=, >, >=.
func Ordered(t Type) bool {
	info, ok := primInfo(t)
	return ok && info&(InfoNumeric|InfoString) != 0
}
