package ir

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cflat-lang/cflat/internal/types"
)

// Fprint writes the textual form of a module to w.
//
// Format:
//
//	module main
//
//	global @count int
//
//	func add(%a int, %b int) int:
//	  local %sum int
//	  v1 = Param <int> [0]
//	  Store {%a} v1
//	  ...
//	L1:
//	  Branch v3 -> L1 L2
//	  Ret v4
func Fprint(w io.Writer, m *Module) {
	fmt.Fprintf(w, "module %s\n", m.Name)
	if len(m.Globals) > 0 {
		fmt.Fprintln(w)
		for _, g := range m.Globals {
			fmt.Fprintf(w, "global %s %s\n", g, g.Type)
		}
	}
	for _, f := range m.Funcs {
		fmt.Fprintln(w)
		FprintFunc(w, f)
	}
}

// FprintFunc writes the textual form of a single function to w.
func FprintFunc(w io.Writer, f *Func) {
	fmt.Fprintf(w, "func %s(", f.Name)
	for i, p := range f.Params {
		if i > 0 {
			fmt.Fprintf(w, ", ")
		}
		fmt.Fprintf(w, "%s %s", p, p.Type)
	}
	fmt.Fprintf(w, ")")
	if res := f.Result(); !types.IsVoid(res) {
		fmt.Fprintf(w, " %s", res)
	}
	fmt.Fprintf(w, ":\n")

	for _, s := range f.Locals {
		fmt.Fprintf(w, "  local %s %s\n", s, s.Type)
	}
	for _, in := range f.Instrs {
		if in.Op == OpLabel {
			fmt.Fprintf(w, "%s:\n", in.Labels[0])
			continue
		}
		fmt.Fprintf(w, "  %s\n", formatInstr(in))
	}
}

// formatInstr formats an instruction as a string.
func formatInstr(in *Instr) string {
	var sb strings.Builder

	// For instructions without a result, don't print "vN = "
	if in.Dst == NoReg {
		sb.WriteString(in.Op.String())
	} else {
		fmt.Fprintf(&sb, "%s = %s", in.Dst, in.Op)
	}

	if in.Type != nil {
		fmt.Fprintf(&sb, " <%s>", in.Type)
	}

	switch in.Op {
	case OpConst64, OpConstBool, OpParam:
		fmt.Fprintf(&sb, " [%d]", in.AuxInt)
	case OpConstFloat:
		fmt.Fprintf(&sb, " [%g]", in.AuxFloat)
	}

	if in.Aux != nil {
		fmt.Fprintf(&sb, " {%s}", formatAux(in))
	}

	for _, arg := range in.Args {
		fmt.Fprintf(&sb, " %s", arg)
	}

	if len(in.Labels) > 0 {
		sb.WriteString(" ->")
		for _, l := range in.Labels {
			fmt.Fprintf(&sb, " %s", l)
		}
	}

	return sb.String()
}

// formatAux formats an Aux value for display.
func formatAux(in *Instr) string {
	switch a := in.Aux.(type) {
	case *Slot:
		return a.String()
	case *Global:
		return a.String()
	case string:
		if in.Op == OpConstString {
			return strconv.Quote(a)
		}
		return a
	default:
		return fmt.Sprintf("%v", a)
	}
}

// Sprint returns the textual form of a module as a string.
func Sprint(m *Module) string {
	var sb strings.Builder
	Fprint(&sb, m)
	return sb.String()
}

// SprintFunc returns the textual form of a function as a string.
func SprintFunc(f *Func) string {
	var sb strings.Builder
	FprintFunc(&sb, f)
	return sb.String()
}

// Print writes the textual form of a module to stdout.
func Print(m *Module) {
	Fprint(os.Stdout, m)
}
