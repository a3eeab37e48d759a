package ir

import (
	"fmt"

	"github.com/cflat-lang/cflat/internal/diag"
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/types"
)

// Reg is a virtual register. Registers are numbered from 1 within a
// function; NoReg marks an instruction without a result.
type Reg int32

// NoReg is the destination of void instructions.
const NoReg Reg = 0

// String returns the register name (e.g., "v5").
func (r Reg) String() string {
	return fmt.Sprintf("v%d", r)
}

// Label identifies a jump target within a function.
type Label int32

// String returns the label name (e.g., "L2").
func (l Label) String() string {
	return fmt.Sprintf("L%d", l)
}

// Instr is a single three-address instruction.
type Instr struct {
	// Op is the operation this instruction performs.
	Op Op

	// Dst is the register the result is written to, or NoReg.
	Dst Reg

	// Type is the type of Dst. Nil for void instructions.
	Type types.Type

	// Args are the source registers.
	Args []Reg

	// Labels are the targets of Jump and Branch, or the label a Label defines.
	Labels []Label

	// AuxInt holds an integer constant, a bool constant (0 or 1) or a
	// parameter index.
	AuxInt int64

	// AuxFloat holds a float constant.
	AuxFloat float64

	// Aux holds a string constant, the *Slot or *Global accessed, or the
	// callee name.
	Aux interface{}

	// Pos is the source position the instruction was lowered from.
	Pos syntax.Pos
}

// Slot returns the slot accessed by a Load or Store, or nil.
func (in *Instr) Slot() *Slot {
	s, _ := in.Aux.(*Slot)
	return s
}

// Global returns the global accessed by a LoadGlobal or StoreGlobal, or nil.
func (in *Instr) Global() *Global {
	g, _ := in.Aux.(*Global)
	return g
}

// Callee returns the name of the function a Call invokes.
func (in *Instr) Callee() string {
	s, _ := in.Aux.(string)
	return s
}

// InternalError reports a violated contract between compiler stages, such
// as lowering a tree that still contains errors. It never describes a
// problem with the user's program.
type InternalError struct {
	Pos syntax.Pos
	Msg string
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: internal compiler error: %s", e.Pos, e.Msg)
	}
	return "internal compiler error: " + e.Msg
}

// internalErrorf aborts lowering. Lower recovers the panic and returns
// the error.
func internalErrorf(pos syntax.Pos, format string, args ...interface{}) {
	panic(&InternalError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// ToDiagnostic converts the error into a diagnostic of the lowering stage.
func (e *InternalError) ToDiagnostic() diag.Diagnostic {
	var span diag.Span
	if e.Pos.IsValid() {
		span = syntax.Span{Start: e.Pos}.Diag()
	}
	return diag.New(diag.StageLower, diag.CodeInternal, span, "internal compiler error: "+e.Msg)
}
