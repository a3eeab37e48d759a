package ir

import (
	"fmt"

	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// InitFuncName is the name of the synthesized function that runs the
// top-level statements and global initializers of a unit.
const InitFuncName = "$init"

// Module is the lowered form of one compilation unit.
type Module struct {
	Name    string
	Globals []*Global
	Funcs   []*Func
}

// Func returns the function called name, or nil.
func (m *Module) Func(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Global returns the global called name, or nil.
func (m *Module) Global(name string) *Global {
	for _, g := range m.Globals {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Global is a module-level variable. Globals start out as the zero value
// of their type; their initializers run in the init function.
type Global struct {
	Name string
	Type types.Type
}

func (g *Global) String() string {
	return "@" + g.Name
}

// Slot is a named stack location holding a parameter or a local variable.
// Slot names are unique within a function: a shadowing declaration gets a
// numeric suffix (x, x.1, x.2).
type Slot struct {
	Name string
	Type types.Type
}

func (s *Slot) String() string {
	return "%" + s.Name
}

// Func is a lowered function.
type Func struct {
	// Name is the function name.
	Name string

	// Sig is the function's signature.
	Sig *types.Func

	// Params are the slots holding the parameters, in order.
	Params []*Slot

	// Locals are the slots of all local variables and temporaries,
	// in order of declaration. Params are not included.
	Locals []*Slot

	// Instrs is the body.
	Instrs []*Instr

	nextReg   Reg
	nextLabel Label
	slotNames map[string]int
}

// NewFunc creates an empty function with the given signature.
func NewFunc(name string, sig *types.Func) *Func {
	return &Func{Name: name, Sig: sig, slotNames: make(map[string]int)}
}

// Result returns the function's result type.
func (f *Func) Result() types.Type {
	if f.Sig == nil {
		return types.Typ[types.Void]
	}
	return f.Sig.Result()
}

// NumRegs returns the number of registers allocated so far.
func (f *Func) NumRegs() int {
	return int(f.nextReg)
}

// NewReg allocates a fresh register. Registers are never reused.
func (f *Func) NewReg() Reg {
	f.nextReg++
	return f.nextReg
}

// NewLabel allocates a fresh label.
func (f *Func) NewLabel() Label {
	f.nextLabel++
	return f.nextLabel
}

// NewParam adds a parameter slot.
func (f *Func) NewParam(name string, typ types.Type) *Slot {
	s := &Slot{Name: f.uniqueSlotName(name), Type: typ}
	f.Params = append(f.Params, s)
	return s
}

// NewLocal adds a local slot.
func (f *Func) NewLocal(name string, typ types.Type) *Slot {
	s := &Slot{Name: f.uniqueSlotName(name), Type: typ}
	f.Locals = append(f.Locals, s)
	return s
}

func (f *Func) uniqueSlotName(name string) string {
	if f.slotNames == nil {
		f.slotNames = make(map[string]int)
	}
	n := f.slotNames[name]
	f.slotNames[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s.%d", name, n)
}

// Emit appends an instruction to the body.
func (f *Func) Emit(in *Instr) *Instr {
	f.Instrs = append(f.Instrs, in)
	return in
}

// NewValue appends an instruction of the given op and type with a fresh
// destination register, and returns the register.
func (f *Func) NewValue(pos syntax.Pos, op Op, typ types.Type, args ...Reg) Reg {
	dst := f.NewReg()
	f.Emit(&Instr{Op: op, Dst: dst, Type: typ, Args: args, Pos: pos})
	return dst
}

// ConstInt appends an integer constant.
func (f *Func) ConstInt(pos syntax.Pos, v int64) Reg {
	dst := f.NewReg()
	f.Emit(&Instr{Op: OpConst64, Dst: dst, Type: types.Typ[types.Int], AuxInt: v, Pos: pos})
	return dst
}

// ConstFloat appends a float constant.
func (f *Func) ConstFloat(pos syntax.Pos, v float64) Reg {
	dst := f.NewReg()
	f.Emit(&Instr{Op: OpConstFloat, Dst: dst, Type: types.Typ[types.Float], AuxFloat: v, Pos: pos})
	return dst
}

// ConstBool appends a bool constant.
func (f *Func) ConstBool(pos syntax.Pos, v bool) Reg {
	var n int64
	if v {
		n = 1
	}
	dst := f.NewReg()
	f.Emit(&Instr{Op: OpConstBool, Dst: dst, Type: types.Typ[types.Bool], AuxInt: n, Pos: pos})
	return dst
}

// ConstString appends a string constant.
func (f *Func) ConstString(pos syntax.Pos, v string) Reg {
	dst := f.NewReg()
	f.Emit(&Instr{Op: OpConstString, Dst: dst, Type: types.Typ[types.String], Aux: v, Pos: pos})
	return dst
}

// Param appends a read of the i'th incoming argument.
func (f *Func) Param(pos syntax.Pos, i int, typ types.Type) Reg {
	dst := f.NewReg()
	f.Emit(&Instr{Op: OpParam, Dst: dst, Type: typ, AuxInt: int64(i), Pos: pos})
	return dst
}

// Load appends a load from s.
func (f *Func) Load(pos syntax.Pos, s *Slot) Reg {
	dst := f.NewReg()
	f.Emit(&Instr{Op: OpLoad, Dst: dst, Type: s.Type, Aux: s, Pos: pos})
	return dst
}

// Store appends a store of v to s.
func (f *Func) Store(pos syntax.Pos, s *Slot, v Reg) {
	f.Emit(&Instr{Op: OpStore, Args: []Reg{v}, Aux: s, Pos: pos})
}

// LoadGlobal appends a load from g.
func (f *Func) LoadGlobal(pos syntax.Pos, g *Global) Reg {
	dst := f.NewReg()
	f.Emit(&Instr{Op: OpLoadGlobal, Dst: dst, Type: g.Type, Aux: g, Pos: pos})
	return dst
}

// StoreGlobal appends a store of v to g.
func (f *Func) StoreGlobal(pos syntax.Pos, g *Global, v Reg) {
	f.Emit(&Instr{Op: OpStoreGlobal, Args: []Reg{v}, Aux: g, Pos: pos})
}

// Call appends a direct call. For a void result the call has no
// destination and NoReg is returned.
func (f *Func) Call(pos syntax.Pos, callee string, result types.Type, args ...Reg) Reg {
	in := &Instr{Op: OpCall, Args: args, Aux: callee, Pos: pos}
	if !types.IsVoid(result) {
		in.Dst = f.NewReg()
		in.Type = result
	}
	f.Emit(in)
	return in.Dst
}

// Label appends the definition of l.
func (f *Func) Label(l Label) {
	f.Emit(&Instr{Op: OpLabel, Labels: []Label{l}})
}

// Jump appends an unconditional jump to l.
func (f *Func) Jump(pos syntax.Pos, l Label) {
	f.Emit(&Instr{Op: OpJump, Labels: []Label{l}, Pos: pos})
}

// Branch appends a conditional branch on cond.
func (f *Func) Branch(pos syntax.Pos, cond Reg, then, els Label) {
	f.Emit(&Instr{Op: OpBranch, Args: []Reg{cond}, Labels: []Label{then, els}, Pos: pos})
}

// Ret appends a return. Pass NoReg for a void return.
func (f *Func) Ret(pos syntax.Pos, v Reg) {
	in := &Instr{Op: OpRet, Pos: pos}
	if v != NoReg {
		in.Args = []Reg{v}
	}
	f.Emit(in)
}

// Unreachable appends an Unreachable marker.
func (f *Func) Unreachable(pos syntax.Pos) {
	f.Emit(&Instr{Op: OpUnreachable, Pos: pos})
}

// Last returns the last instruction of the body, or nil.
func (f *Func) Last() *Instr {
	if len(f.Instrs) == 0 {
		return nil
	}
	return f.Instrs[len(f.Instrs)-1]
}
