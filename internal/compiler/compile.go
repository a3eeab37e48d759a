package compiler

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cflat-lang/cflat/internal/diag"
	"github.com/cflat-lang/cflat/internal/ir"
	"github.com/cflat-lang/cflat/internal/resolve"
	"github.com/cflat-lang/cflat/internal/syntax"
	"github.com/cflat-lang/cflat/internal/typecheck"
)

// Compile runs the pipeline over u. The returned error is non-nil only
// when ctx is done before the pipeline finishes, in which case no result
// is returned. Problems with the program itself are reported as
// diagnostics on the result.
func (s *Session) Compile(ctx context.Context, u Unit) (*Result, error) {
	res := &Result{Unit: u}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.parse(res)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.resolve(res) {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.check(res)
	if res.Failed() {
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.lower(res)
	return res, nil
}

// CompileAll compiles units in parallel, at most Jobs at a time. Results
// are in the order of units. If ctx is cancelled, CompileAll returns
// ctx.Err() and no results.
func (s *Session) CompileAll(ctx context.Context, units []Unit) ([]*Result, error) {
	results := make([]*Result, len(units))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs())
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			res, err := s.Compile(gctx, u)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// parse scans and parses the unit. Lexical and syntax errors arrive
// interleaved, in source order, because the parser pulls tokens lazily.
func (s *Session) parse(res *Result) {
	start := time.Now()
	errs := 0
	p := syntax.NewParser(res.Unit.Name, res.Unit.Src, func(err error) {
		var lexErr *syntax.LexError
		var synErr *syntax.SyntaxError
		switch {
		case errors.As(err, &lexErr):
			res.report(lexErr.ToDiagnostic())
		case errors.As(err, &synErr):
			res.report(synErr.ToDiagnostic())
		default:
			res.report(diag.New(diag.StageParser, diag.CodeSyntax, diag.Span{}, err.Error()))
		}
		errs++
	})
	if s.MaxErrors != 0 {
		p.MaxErrors = s.MaxErrors
	}
	res.File = p.Parse()
	s.trace(res, diag.StageParser, start, len(res.Unit.Src), errs)
}

// resolve binds names and reports whether resolution succeeded.
func (s *Session) resolve(res *Result) bool {
	start := time.Now()
	info, errs := resolve.Resolve(res.File, s.Types)
	for _, err := range errs {
		res.report(err.ToDiagnostic())
	}
	s.trace(res, diag.StageResolve, start, len(info.Defs)+len(info.Uses), len(errs))
	if len(errs) > 0 {
		return false
	}
	res.Names = info
	return true
}

func (s *Session) check(res *Result) {
	start := time.Now()
	info, errs := typecheck.Check(res.File, res.Names)
	for _, err := range errs {
		res.report(err.ToDiagnostic())
	}
	res.Types = info
	s.trace(res, diag.StageTypeCheck, start, len(info.Types), len(errs))
}

// lower builds the IR module. Lowering only fails on inputs the earlier
// stages should have rejected, so failures are internal errors.
func (s *Session) lower(res *Result) {
	start := time.Now()
	m, err := ir.Lower(res.Unit.ModuleName(), res.File, res.Names, res.Types)
	if err == nil && s.VerifyIR {
		err = ir.VerifyModule(m)
	}
	if err != nil {
		var ie *ir.InternalError
		if errors.As(err, &ie) {
			res.report(ie.ToDiagnostic())
		} else {
			res.report(diag.New(diag.StageLower, diag.CodeInternal, diag.Span{}, err.Error()))
		}
		s.trace(res, diag.StageLower, start, 0, 1)
		return
	}
	res.Module = m
	s.trace(res, diag.StageLower, start, countInstrs(m), 0)
}

func countInstrs(m *ir.Module) int {
	n := 0
	for _, f := range m.Funcs {
		n += len(f.Instrs)
	}
	return n
}

// Parse runs only the parse stage over u. Diagnostics are those of the
// lexer and parser.
func (s *Session) Parse(ctx context.Context, u Unit) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := &Result{Unit: u}
	s.parse(res)
	return res, nil
}
