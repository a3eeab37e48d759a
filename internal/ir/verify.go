package ir

import (
	"fmt"
	"strings"

	"github.com/cflat-lang/cflat/internal/types"
)

// Verify checks the structural integrity of a single function.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string
	verifyFunc(f, nil, func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	})
	return combineErrors(errs)
}

// VerifyModule checks every function of m, and additionally that calls
// name existing functions with the right arguments and that globals
// belong to m.
func VerifyModule(m *Module) error {
	var errs []string
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	seen := make(map[string]bool)
	for _, g := range m.Globals {
		if seen[g.Name] {
			add("module %s: duplicate global %s", m.Name, g)
		}
		seen[g.Name] = true
		if g.Type == nil || !types.IsValue(g.Type) {
			add("module %s: global %s has type %v", m.Name, g, g.Type)
		}
	}

	seen = make(map[string]bool)
	for _, f := range m.Funcs {
		if seen[f.Name] {
			add("module %s: duplicate func %s", m.Name, f.Name)
		}
		seen[f.Name] = true
		verifyFunc(f, m, add)
	}

	return combineErrors(errs)
}

// verifyFunc reports the violations in f through add. With a non-nil m,
// calls and global accesses are checked against the module.
func verifyFunc(f *Func, m *Module, add func(format string, args ...interface{})) {
	if len(f.Instrs) == 0 {
		add("func %s: no instructions", f.Name)
		return
	}

	if f.Sig != nil && f.Sig.NumParams() != len(f.Params) {
		add("func %s: %d param slots, signature has %d", f.Name, len(f.Params), f.Sig.NumParams())
	}

	slots := make(map[*Slot]bool, len(f.Params)+len(f.Locals))
	for _, s := range f.Params {
		slots[s] = true
	}
	for _, s := range f.Locals {
		slots[s] = true
	}

	// Labels may be referenced before they are defined.
	labels := make(map[Label]bool)
	for i, in := range f.Instrs {
		if in.Op != OpLabel {
			continue
		}
		if len(in.Labels) != 1 {
			add("func %s, #%d: Label defines %d labels, want 1", f.Name, i, len(in.Labels))
			continue
		}
		if labels[in.Labels[0]] {
			add("func %s, #%d: label %s defined twice", f.Name, i, in.Labels[0])
		}
		labels[in.Labels[0]] = true
	}

	defs := make(map[Reg]types.Type)
	prevTerm := false
	for i, in := range f.Instrs {
		where := fmt.Sprintf("func %s, #%d (%s)", f.Name, i, in.Op)

		if in.Op <= OpInvalid || in.Op >= opCount {
			add("%s: invalid op", where)
			continue
		}

		// Only a label may follow a terminator.
		if prevTerm && in.Op != OpLabel {
			add("%s: instruction follows a terminator", where)
		}
		prevTerm = in.Op.IsTerminator()

		// Arguments are defined before use.
		for j, arg := range in.Args {
			if _, ok := defs[arg]; !ok {
				add("%s: arg[%d] %s used before definition", where, j, arg)
			}
		}
		if n := in.Op.Info().NArgs; n >= 0 && len(in.Args) != n {
			add("%s: has %d args, want %d", where, len(in.Args), n)
		}

		// Results
		switch {
		case in.Op.IsVoid():
			if in.Dst != NoReg {
				add("%s: void instruction defines %s", where, in.Dst)
			}
		case in.Op == OpCall && in.Dst == NoReg:
			if in.Type != nil {
				add("%s: void call has type %s", where, in.Type)
			}
		default:
			if in.Dst == NoReg {
				add("%s: missing destination register", where)
			}
			if in.Type == nil {
				add("%s: non-void instruction has nil Type", where)
			}
		}
		if in.Dst != NoReg {
			if _, dup := defs[in.Dst]; dup {
				add("%s: register %s defined twice", where, in.Dst)
			}
			defs[in.Dst] = in.Type
		}

		// Label targets
		switch in.Op {
		case OpJump, OpBranch:
			want := 1
			if in.Op == OpBranch {
				want = 2
			}
			if len(in.Labels) != want {
				add("%s: has %d targets, want %d", where, len(in.Labels), want)
			}
			for _, l := range in.Labels {
				if !labels[l] {
					add("%s: undefined label %s", where, l)
				}
			}
		}

		verifyTypes(f, m, in, where, defs, slots, add)
	}

	if last := f.Last(); !last.Op.IsTerminator() {
		add("func %s: body does not end in a terminator (last is %s)", f.Name, last.Op)
	}
}

// verifyTypes checks the operand and result types of in.
func verifyTypes(f *Func, m *Module, in *Instr, where string, defs map[Reg]types.Type,
	slots map[*Slot]bool, add func(format string, args ...interface{})) {

	argType := func(i int) types.Type {
		if i < len(in.Args) {
			return defs[in.Args[i]]
		}
		return nil
	}
	expectArgs := func(t types.Type) {
		for i := range in.Args {
			if at := argType(i); at != nil && !types.Identical(at, t) {
				add("%s: arg[%d] has type %s, want %s", where, i, at, t)
			}
		}
	}
	expectResult := func(t types.Type) {
		if in.Type != nil && !types.Identical(in.Type, t) {
			add("%s: result has type %s, want %s", where, in.Type, t)
		}
	}

	intT := types.Typ[types.Int]
	floatT := types.Typ[types.Float]
	boolT := types.Typ[types.Bool]
	stringT := types.Typ[types.String]

	switch in.Op {
	case OpConst64:
		expectResult(intT)
	case OpConstFloat:
		expectResult(floatT)
	case OpConstBool:
		expectResult(boolT)
		if in.AuxInt != 0 && in.AuxInt != 1 {
			add("%s: bool constant %d", where, in.AuxInt)
		}
	case OpConstString:
		expectResult(stringT)
		if _, ok := in.Aux.(string); !ok {
			add("%s: Aux is %T, want string", where, in.Aux)
		}

	case OpAdd64, OpSub64, OpMul64, OpDiv64, OpMod64, OpNeg64:
		expectArgs(intT)
		expectResult(intT)
	case OpAddF64, OpSubF64, OpMulF64, OpDivF64, OpNegF64:
		expectArgs(floatT)
		expectResult(floatT)
	case OpConcat:
		expectArgs(stringT)
		expectResult(stringT)

	case OpEq64, OpNeq64, OpLt64, OpLeq64, OpGt64, OpGeq64:
		expectArgs(intT)
		expectResult(boolT)
	case OpEqF64, OpNeqF64, OpLtF64, OpLeqF64, OpGtF64, OpGeqF64:
		expectArgs(floatT)
		expectResult(boolT)
	case OpEqStr, OpNeqStr, OpLtStr, OpLeqStr, OpGtStr, OpGeqStr:
		expectArgs(stringT)
		expectResult(boolT)
	case OpEqBool, OpNeqBool, OpNot:
		expectArgs(boolT)
		expectResult(boolT)

	case OpParam:
		if f.Sig == nil || in.AuxInt < 0 || int(in.AuxInt) >= f.Sig.NumParams() {
			add("%s: parameter index %d out of range", where, in.AuxInt)
		} else {
			expectResult(f.Sig.Param(int(in.AuxInt)))
		}

	case OpLoad, OpStore:
		s := in.Slot()
		if s == nil {
			add("%s: Aux is %T, want *Slot", where, in.Aux)
			return
		}
		if !slots[s] {
			add("%s: slot %s does not belong to func %s", where, s, f.Name)
		}
		if in.Op == OpLoad {
			expectResult(s.Type)
		} else {
			expectArgs(s.Type)
		}

	case OpLoadGlobal, OpStoreGlobal:
		g := in.Global()
		if g == nil {
			add("%s: Aux is %T, want *Global", where, in.Aux)
			return
		}
		if m != nil && m.Global(g.Name) != g {
			add("%s: global %s does not belong to module %s", where, g, m.Name)
		}
		if in.Op == OpLoadGlobal {
			expectResult(g.Type)
		} else {
			expectArgs(g.Type)
		}

	case OpCall:
		name := in.Callee()
		if name == "" {
			add("%s: missing callee", where)
			return
		}
		if m == nil {
			return
		}
		callee := m.Func(name)
		if callee == nil {
			add("%s: call to undefined func %s", where, name)
			return
		}
		if callee.Sig == nil {
			return
		}
		if len(in.Args) != callee.Sig.NumParams() {
			add("%s: call to %s has %d args, want %d", where, name, len(in.Args), callee.Sig.NumParams())
			return
		}
		for i := range in.Args {
			if at, pt := argType(i), callee.Sig.Param(i); at != nil && !types.Identical(at, pt) {
				add("%s: arg[%d] to %s has type %s, want %s", where, i, name, at, pt)
			}
		}
		if res := callee.Sig.Result(); types.IsVoid(res) {
			if in.Dst != NoReg {
				add("%s: call to void func %s defines %s", where, name, in.Dst)
			}
		} else {
			expectResult(res)
		}

	case OpBranch:
		expectArgs(boolT)

	case OpRet:
		res := f.Result()
		switch {
		case types.IsVoid(res) && len(in.Args) != 0:
			add("%s: returns a value from void func %s", where, f.Name)
		case !types.IsVoid(res) && len(in.Args) != 1:
			add("%s: func %s must return one %s value", where, f.Name, res)
		case len(in.Args) == 1:
			expectArgs(res)
		}
	}
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("IR verification failed:\n  %s", strings.Join(errs, "\n  "))
}
