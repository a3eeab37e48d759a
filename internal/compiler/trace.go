package compiler

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/cflat-lang/cflat/internal/diag"
)

// An Event describes one pipeline stage run over one unit.
type Event struct {
	Session uuid.UUID
	Unit    string
	Stage   diag.Stage
	Elapsed time.Duration

	// Size measures the stage's output: source bytes for the parser,
	// bound identifiers for the resolver, typed expressions for the
	// checker and instructions for lowering.
	Size   int
	Errors int
}

// A Tracer receives pipeline events. Trace may be called from several
// goroutines at once during CompileAll.
type Tracer interface {
	Trace(ev Event)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(ev Event)

func (f TracerFunc) Trace(ev Event) { f(ev) }

func (s *Session) trace(res *Result, stage diag.Stage, start time.Time, size, errs int) {
	if s.Tracer == nil {
		return
	}
	s.Tracer.Trace(Event{
		Session: s.ID,
		Unit:    res.Unit.Name,
		Stage:   stage,
		Elapsed: time.Since(start),
		Size:    size,
		Errors:  errs,
	})
}

// WriterTracer prints one line per event:
//
//	[3f2a9c1e] main.cb   parser     1.2 kB          41µs
//	[3f2a9c1e] main.cb   resolve    17 names        12µs
//	[3f2a9c1e] main.cb   typecheck  1,024 exprs     88µs  2 errors
type WriterTracer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterTracer creates a tracer writing to w.
func NewWriterTracer(w io.Writer) *WriterTracer {
	return &WriterTracer{w: w}
}

func (t *WriterTracer) Trace(ev Event) {
	line := fmt.Sprintf("[%s] %-10s %-10s %-15s %s",
		ev.Session.String()[:8], ev.Unit, ev.Stage, formatSize(ev.Stage, ev.Size), ev.Elapsed.Round(time.Microsecond))
	switch ev.Errors {
	case 0:
	case 1:
		line += "  1 error"
	default:
		line += "  " + humanize.Comma(int64(ev.Errors)) + " errors"
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, line)
}

func formatSize(stage diag.Stage, n int) string {
	var unit string
	switch stage {
	case diag.StageLexer, diag.StageParser:
		return humanize.Bytes(uint64(n))
	case diag.StageResolve:
		unit = "names"
	case diag.StageTypeCheck:
		unit = "exprs"
	case diag.StageLower:
		unit = "instrs"
	}
	return humanize.Comma(int64(n)) + " " + unit
}
