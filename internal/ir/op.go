// Package ir implements the flat, typed intermediate representation that
// the C♭ front-end hands to a code generator.
//
// A Module holds globals and functions. A function body is a single list
// of three-address instructions over virtual registers; control flow is
// expressed with labels, jumps and conditional branches rather than basic
// blocks. Registers are numbered from 1 in each function, are assigned
// exactly once and are never reused. Variables live in named stack slots
// (locals and parameters) or module globals and are accessed with explicit
// loads and stores.
package ir

// Op represents an IR operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConst64     // integer constant; AuxInt = value
	OpConstFloat  // float constant; AuxFloat = value
	OpConstBool   // bool constant; AuxInt = 0 or 1
	OpConstString // string constant; Aux = string value

	// Integer arithmetic
	OpAdd64 // int + int
	OpSub64 // int - int
	OpMul64 // int * int
	OpDiv64 // int / int
	OpMod64 // int % int
	OpNeg64 // -int (unary)

	// Float arithmetic
	OpAddF64 // float + float
	OpSubF64 // float - float
	OpMulF64 // float * float
	OpDivF64 // float / float
	OpNegF64 // -float (unary)

	// String
	OpConcat // string + string

	// Integer comparison
	OpEq64  // int == int
	OpNeq64 // int != int
	OpLt64  // int < int
	OpLeq64 // int <= int
	OpGt64  // int > int
	OpGeq64 // int >= int

	// Float comparison
	OpEqF64  // float == float
	OpNeqF64 // float != float
	OpLtF64  // float < float
	OpLeqF64 // float <= float
	OpGtF64  // float > float
	OpGeqF64 // float >= float

	// String comparison
	OpEqStr  // string == string
	OpNeqStr // string != string
	OpLtStr  // string < string
	OpLeqStr // string <= string
	OpGtStr  // string > string
	OpGeqStr // string >= string

	// Boolean
	OpEqBool  // bool == bool
	OpNeqBool // bool != bool
	OpNot     // !bool

	// Memory
	OpParam       // incoming argument; AuxInt = parameter index
	OpLoad        // load from a slot; Aux = *Slot
	OpStore       // store to a slot; Aux = *Slot, Args[0] = value; void
	OpLoadGlobal  // load from a global; Aux = *Global
	OpStoreGlobal // store to a global; Aux = *Global, Args[0] = value; void

	// Calls
	OpCall // direct call; Aux = callee name; Args = arguments; void if the callee is

	// Control flow
	OpLabel       // label definition; Labels[0]; void
	OpJump        // unconditional jump to Labels[0]; void
	OpBranch      // if Args[0] goto Labels[0] else goto Labels[1]; void
	OpRet         // return, with Args[0] as the result if present; void
	OpUnreachable // control cannot reach this point; void

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an IR operation.
type OpInfo struct {
	Name   string // human-readable name
	NArgs  int    // number of register arguments; -1 if variable
	IsVoid bool   // true if the op produces no value
	IsTerm bool   // true if control does not fall through to the next instruction
}

// opInfoTable maps each Op to its OpInfo.
// Index by Op value.
var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConst64:     {Name: "Const64"},
	OpConstFloat:  {Name: "ConstFloat"},
	OpConstBool:   {Name: "ConstBool"},
	OpConstString: {Name: "ConstString"},

	OpAdd64: {Name: "Add64", NArgs: 2},
	OpSub64: {Name: "Sub64", NArgs: 2},
	OpMul64: {Name: "Mul64", NArgs: 2},
	OpDiv64: {Name: "Div64", NArgs: 2},
	OpMod64: {Name: "Mod64", NArgs: 2},
	OpNeg64: {Name: "Neg64", NArgs: 1},

	OpAddF64: {Name: "AddF64", NArgs: 2},
	OpSubF64: {Name: "SubF64", NArgs: 2},
	OpMulF64: {Name: "MulF64", NArgs: 2},
	OpDivF64: {Name: "DivF64", NArgs: 2},
	OpNegF64: {Name: "NegF64", NArgs: 1},

	OpConcat: {Name: "Concat", NArgs: 2},

	OpEq64:  {Name: "Eq64", NArgs: 2},
	OpNeq64: {Name: "Neq64", NArgs: 2},
	OpLt64:  {Name: "Lt64", NArgs: 2},
	OpLeq64: {Name: "Leq64", NArgs: 2},
	OpGt64:  {Name: "Gt64", NArgs: 2},
	OpGeq64: {Name: "Geq64", NArgs: 2},

	OpEqF64:  {Name: "EqF64", NArgs: 2},
	OpNeqF64: {Name: "NeqF64", NArgs: 2},
	OpLtF64:  {Name: "LtF64", NArgs: 2},
	OpLeqF64: {Name: "LeqF64", NArgs: 2},
	OpGtF64:  {Name: "GtF64", NArgs: 2},
	OpGeqF64: {Name: "GeqF64", NArgs: 2},

	OpEqStr:  {Name: "EqStr", NArgs: 2},
	OpNeqStr: {Name: "NeqStr", NArgs: 2},
	OpLtStr:  {Name: "LtStr", NArgs: 2},
	OpLeqStr: {Name: "LeqStr", NArgs: 2},
	OpGtStr:  {Name: "GtStr", NArgs: 2},
	OpGeqStr: {Name: "GeqStr", NArgs: 2},

	OpEqBool:  {Name: "EqBool", NArgs: 2},
	OpNeqBool: {Name: "NeqBool", NArgs: 2},
	OpNot:     {Name: "Not", NArgs: 1},

	OpParam:       {Name: "Param"},
	OpLoad:        {Name: "Load"},
	OpStore:       {Name: "Store", NArgs: 1, IsVoid: true},
	OpLoadGlobal:  {Name: "LoadGlobal"},
	OpStoreGlobal: {Name: "StoreGlobal", NArgs: 1, IsVoid: true},

	OpCall: {Name: "Call", NArgs: -1},

	OpLabel:       {Name: "Label", IsVoid: true},
	OpJump:        {Name: "Jump", IsVoid: true, IsTerm: true},
	OpBranch:      {Name: "Branch", NArgs: 1, IsVoid: true, IsTerm: true},
	OpRet:         {Name: "Ret", NArgs: -1, IsVoid: true, IsTerm: true},
	OpUnreachable: {Name: "Unreachable", IsVoid: true, IsTerm: true},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o].Name
	}
	return "unknown"
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsVoid returns true if this op produces no value.
// Calls are void exactly when their callee returns void.
func (o Op) IsVoid() bool {
	return o.Info().IsVoid
}

// IsTerminator returns true if control never falls through this op.
func (o Op) IsTerminator() bool {
	return o.Info().IsTerm
}
