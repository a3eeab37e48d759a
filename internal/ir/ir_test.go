package ir

import (
	"strings"
	"testing"

	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// nopos is the zero position for convenience in tests.
var nopos syntax.Pos

var (
	intT  = types.Typ[types.Int]
	boolT = types.Typ[types.Bool]
)

// makeAddFunc builds: func add(a: int, b: int): int { return a + b; }
func makeAddFunc(ctx *types.Context) *Func {
	f := NewFunc("add", ctx.Func([]types.Type{intT, intT}, intT))

	a := f.NewParam("a", intT)
	b := f.NewParam("b", intT)

	// v1 = Param <int> [0]; Store {%a} v1
	f.Store(nopos, a, f.Param(nopos, 0, intT))
	// v2 = Param <int> [1]; Store {%b} v2
	f.Store(nopos, b, f.Param(nopos, 1, intT))

	// v5 = Add64 <int> v3 v4
	x := f.Load(nopos, a)
	y := f.Load(nopos, b)
	sum := f.NewValue(nopos, OpAdd64, intT, x, y)

	// Ret v5
	f.Ret(nopos, sum)
	return f
}

func TestManualConstruct(t *testing.T) {
	f := makeAddFunc(types.NewContext())

	if f.Name != "add" {
		t.Errorf("Name = %q, want %q", f.Name, "add")
	}
	if f.NumRegs() != 5 {
		t.Errorf("NumRegs = %d, want 5", f.NumRegs())
	}
	if len(f.Instrs) != 8 {
		t.Errorf("has %d instructions, want 8", len(f.Instrs))
	}
	if len(f.Params) != 2 || len(f.Locals) != 0 {
		t.Errorf("has %d params and %d locals, want 2 and 0", len(f.Params), len(f.Locals))
	}

	add := f.Instrs[6]
	if add.Op != OpAdd64 {
		t.Errorf("instr[6].Op = %v, want Add64", add.Op)
	}
	if add.Dst != 5 || len(add.Args) != 2 || add.Args[0] != 3 || add.Args[1] != 4 {
		t.Errorf("add = %s, want v5 = Add64 <int> v3 v4", formatInstr(add))
	}

	if err := Verify(f); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestFprintFunc(t *testing.T) {
	got := SprintFunc(makeAddFunc(types.NewContext()))
	want := `func add(%a int, %b int) int:
  v1 = Param <int> [0]
  Store {%a} v1
  v2 = Param <int> [1]
  Store {%b} v2
  v3 = Load <int> {%a}
  v4 = Load <int> {%b}
  v5 = Add64 <int> v3 v4
  Ret v5
`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFprintInstr(t *testing.T) {
	g := &Global{Name: "count", Type: intT}
	tests := []struct {
		in   *Instr
		want string
	}{
		{&Instr{Op: OpConst64, Dst: 1, Type: intT, AuxInt: -3}, "v1 = Const64 <int> [-3]"},
		{&Instr{Op: OpConstFloat, Dst: 2, Type: types.Typ[types.Float], AuxFloat: 0.5}, "v2 = ConstFloat <float> [0.5]"},
		{&Instr{Op: OpConstBool, Dst: 3, Type: boolT, AuxInt: 1}, "v3 = ConstBool <bool> [1]"},
		{&Instr{Op: OpConstString, Dst: 4, Type: types.Typ[types.String], Aux: "a\"b\n"}, `v4 = ConstString <string> {"a\"b\n"}`},
		{&Instr{Op: OpLoadGlobal, Dst: 5, Type: intT, Aux: g}, "v5 = LoadGlobal <int> {@count}"},
		{&Instr{Op: OpStoreGlobal, Args: []Reg{5}, Aux: g}, "StoreGlobal {@count} v5"},
		{&Instr{Op: OpCall, Dst: 6, Type: intT, Aux: "f", Args: []Reg{1, 5}}, "v6 = Call <int> {f} v1 v5"},
		{&Instr{Op: OpCall, Aux: "log"}, "Call {log}"},
		{&Instr{Op: OpJump, Labels: []Label{4}}, "Jump -> L4"},
		{&Instr{Op: OpBranch, Args: []Reg{3}, Labels: []Label{1, 2}}, "Branch v3 -> L1 L2"},
		{&Instr{Op: OpRet}, "Ret"},
		{&Instr{Op: OpUnreachable}, "Unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatInstr(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFprintModule(t *testing.T) {
	ctx := types.NewContext()
	m := &Module{Name: "main"}
	g := &Global{Name: "total", Type: intT}
	m.Globals = append(m.Globals, g)

	initFn := NewFunc(InitFuncName, nil)
	initFn.StoreGlobal(nopos, g, initFn.ConstInt(nopos, 7))
	initFn.Ret(nopos, NoReg)
	m.Funcs = append(m.Funcs, makeAddFunc(ctx), initFn)

	got := Sprint(m)
	for _, want := range []string{
		"module main\n\nglobal @total int\n\nfunc add(",
		"\nfunc $init():\n  v1 = Const64 <int> [7]\n  StoreGlobal {@total} v1\n  Ret\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if err := VerifyModule(m); err != nil {
		t.Errorf("VerifyModule failed: %v", err)
	}
}

func TestSlotNames(t *testing.T) {
	f := NewFunc("f", nil)
	var names []string
	for _, s := range []*Slot{
		f.NewParam("x", intT),
		f.NewLocal("x", intT),
		f.NewLocal("y", boolT),
		f.NewLocal("x", boolT),
	} {
		names = append(names, s.Name)
	}
	if got, want := strings.Join(names, " "), "x x.1 y x.2"; got != want {
		t.Errorf("slot names = %s, want %s", got, want)
	}
}

func TestOpTable(t *testing.T) {
	for op := OpInvalid + 1; op < opCount; op++ {
		info := op.Info()
		if info.Name == "" {
			t.Errorf("op %d has no name", int(op))
		}
		if info.IsTerm && !info.IsVoid {
			t.Errorf("%s is a terminator with a result", op)
		}
	}
	if Op(-1).String() != "unknown" || opCount.String() != "unknown" {
		t.Errorf("out-of-range ops should be unknown")
	}
}

func TestVerifyCatches(t *testing.T) {
	ctx := types.NewContext()
	intSig := ctx.Func(nil, intT)
	voidSig := ctx.Func(nil, nil)

	tests := []struct {
		name  string
		sig   *types.Func
		build func(f *Func)
		want  string
	}{
		{
			name: "use before definition",
			sig:  intSig,
			build: func(f *Func) {
				f.Emit(&Instr{Op: OpNeg64, Dst: f.NewReg(), Type: intT, Args: []Reg{7}})
				f.Ret(nopos, 1)
			},
			want: "arg[0] v7 used before definition",
		},
		{
			name: "register defined twice",
			sig:  intSig,
			build: func(f *Func) {
				f.ConstInt(nopos, 1)
				f.Emit(&Instr{Op: OpConst64, Dst: 1, Type: intT})
				f.Ret(nopos, 1)
			},
			want: "register v1 defined twice",
		},
		{
			name: "undefined label",
			sig:  voidSig,
			build: func(f *Func) {
				f.Jump(nopos, 9)
			},
			want: "undefined label L9",
		},
		{
			name: "duplicate label",
			sig:  voidSig,
			build: func(f *Func) {
				f.Label(1)
				f.Label(1)
				f.Ret(nopos, NoReg)
			},
			want: "label L1 defined twice",
		},
		{
			name: "missing terminator",
			sig:  intSig,
			build: func(f *Func) {
				f.ConstInt(nopos, 1)
			},
			want: "does not end in a terminator",
		},
		{
			name: "code after terminator",
			sig:  voidSig,
			build: func(f *Func) {
				f.Ret(nopos, NoReg)
				f.ConstInt(nopos, 1)
				f.Ret(nopos, NoReg)
			},
			want: "instruction follows a terminator",
		},
		{
			name: "wrong return type",
			sig:  intSig,
			build: func(f *Func) {
				f.Ret(nopos, f.ConstBool(nopos, true))
			},
			want: "arg[0] has type bool, want int",
		},
		{
			name: "missing return value",
			sig:  intSig,
			build: func(f *Func) {
				f.Ret(nopos, NoReg)
			},
			want: "must return one int value",
		},
		{
			name: "value from void func",
			sig:  voidSig,
			build: func(f *Func) {
				f.Ret(nopos, f.ConstInt(nopos, 1))
			},
			want: "returns a value from void func f",
		},
		{
			name: "non-bool branch",
			sig:  voidSig,
			build: func(f *Func) {
				c := f.ConstInt(nopos, 1)
				f.Branch(nopos, c, 1, 1)
				f.Label(1)
				f.Ret(nopos, NoReg)
			},
			want: "arg[0] has type int, want bool",
		},
		{
			name: "foreign slot",
			sig:  voidSig,
			build: func(f *Func) {
				f.Load(nopos, &Slot{Name: "x", Type: intT})
				f.Ret(nopos, NoReg)
			},
			want: "slot %x does not belong to func f",
		},
		{
			name: "store type",
			sig:  voidSig,
			build: func(f *Func) {
				s := f.NewLocal("x", intT)
				f.Store(nopos, s, f.ConstString(nopos, "a"))
				f.Ret(nopos, NoReg)
			},
			want: "arg[0] has type string, want int",
		},
		{
			name: "void instruction with result",
			sig:  voidSig,
			build: func(f *Func) {
				f.Emit(&Instr{Op: OpLabel, Dst: f.NewReg(), Labels: []Label{1}})
				f.Ret(nopos, NoReg)
			},
			want: "void instruction defines v1",
		},
		{
			name: "missing type",
			sig:  voidSig,
			build: func(f *Func) {
				f.Emit(&Instr{Op: OpAdd64, Dst: f.NewReg(), Args: []Reg{}})
				f.Ret(nopos, NoReg)
			},
			want: "non-void instruction has nil Type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFunc("f", tt.sig)
			tt.build(f)
			err := Verify(f)
			if err == nil {
				t.Fatalf("Verify passed, want error containing %q\n%s", tt.want, SprintFunc(f))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Verify error:\n%v\nwant it to contain %q", err, tt.want)
			}
			if !strings.HasPrefix(err.Error(), "IR verification failed:") {
				t.Errorf("error %q lacks the verification prefix", err)
			}
		})
	}
}

func TestVerifyModuleCalls(t *testing.T) {
	ctx := types.NewContext()

	tests := []struct {
		name   string
		callee string
		args   int
		want   string
	}{
		{"undefined callee", "missing", 2, "call to undefined func missing"},
		{"arity", "add", 1, "call to add has 1 args, want 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Module{Name: "test"}
			caller := NewFunc("main", ctx.Func(nil, nil))
			var args []Reg
			for i := 0; i < tt.args; i++ {
				args = append(args, caller.ConstInt(nopos, int64(i)))
			}
			caller.Call(nopos, tt.callee, intT, args...)
			caller.Ret(nopos, NoReg)
			m.Funcs = append(m.Funcs, makeAddFunc(ctx), caller)

			// The function alone is well formed; only the module view
			// knows the callee.
			if err := Verify(caller); err != nil {
				t.Fatalf("Verify: %v", err)
			}
			err := VerifyModule(m)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("VerifyModule error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestVerifyModuleForeignGlobal(t *testing.T) {
	m := &Module{Name: "test"}
	f := NewFunc(InitFuncName, nil)
	f.LoadGlobal(nopos, &Global{Name: "g", Type: intT})
	f.Ret(nopos, NoReg)
	m.Funcs = append(m.Funcs, f)

	err := VerifyModule(m)
	if err == nil || !strings.Contains(err.Error(), "global @g does not belong to module test") {
		t.Errorf("VerifyModule error = %v", err)
	}
}

func TestInternalError(t *testing.T) {
	err := &InternalError{Pos: syntax.NewPos("a.cb", 2, 5, 10), Msg: "untyped expression x"}
	if got, want := err.Error(), "a.cb:2:5: internal compiler error: untyped expression x"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err = &InternalError{Msg: "boom"}
	if got, want := err.Error(), "internal compiler error: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
