// Package compiler runs the C♭ front-end pipeline over source units.
//
// A unit is lexed and parsed, its names are resolved, it is type-checked
// and, when every earlier stage succeeded, lowered to an IR module. Errors
// from every stage are converted to diagnostics and collected on the
// unit's Result; they never abort the pipeline early except where a later
// stage depends on a clean earlier one:
//
//   - syntax errors do not stop resolution or checking,
//   - resolution errors skip checking and lowering,
//   - any error skips lowering.
package compiler

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/cflat-lang/cflat/internal/diag"
	"github.com/cflat-lang/cflat/internal/ir"
	"github.com/cflat-lang/cflat/internal/resolve"
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/typecheck"
	"github.com/cflat-lang/cflat/internal/types"
)

// A Unit is one source file handed to the pipeline as a complete buffer.
type Unit struct {
	Name string // file name used in positions
	Src  []byte
}

// ModuleName returns the IR module name for u: the base file name
// without its extension.
func (u Unit) ModuleName() string {
	base := filepath.Base(u.Name)
	if base == "." || base == string(filepath.Separator) {
		return "main"
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Result holds everything the pipeline produced for a unit. Fields for
// stages that did not run are nil.
type Result struct {
	Unit   Unit
	File   *syntax.File
	Names  *resolve.Info
	Types  *typecheck.Info
	Module *ir.Module

	// Diagnostics are in stage order, then in the order each stage
	// reported them.
	Diagnostics []diag.Diagnostic
}

// Failed reports whether the unit has any error diagnostics.
func (r *Result) Failed() bool {
	return diag.HasErrors(r.Diagnostics)
}

func (r *Result) report(d diag.Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
}

// A Session compiles any number of units that share one type context.
// The context lives exactly as long as the session. A Session may be used
// from multiple goroutines once configured.
type Session struct {
	// ID identifies the session in trace output.
	ID uuid.UUID

	// Types interns the function types of every unit.
	Types *types.Context

	// Jobs bounds the number of units CompileAll compiles at once.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Jobs int

	// MaxErrors overrides the parser's syntax error limit when non-zero.
	// Negative means no limit.
	MaxErrors int

	// VerifyIR runs ir.VerifyModule on every lowered module. A failure is
	// reported as an internal error diagnostic and the module is dropped.
	VerifyIR bool

	// Tracer, if non-nil, receives one event per stage per unit.
	Tracer Tracer
}

// NewSession creates a session with a fresh type context.
func NewSession() *Session {
	return &Session{
		ID:    uuid.New(),
		Types: types.NewContext(),
	}
}

func (s *Session) jobs() int {
	if s.Jobs > 0 {
		return s.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Diagnostics concatenates the diagnostics of results, in order.
func Diagnostics(results []*Result) []diag.Diagnostic {
	var ds []diag.Diagnostic
	for _, r := range results {
		ds = append(ds, r.Diagnostics...)
	}
	return ds
}
