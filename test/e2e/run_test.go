package e2e

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cflat-lang/cflat/internal/compiler"
	"github.com/cflat-lang/cflat/internal/diag"
	"github.com/cflat-lang/cflat/internal/ir"
)

// TestE2E runs end-to-end tests for all .cb files in testdata/.
// Each test:
//  1. Runs the full pipeline in-process with IR verification on
//  2. Renders the IR module, or the diagnostics if the file has errors
//  3. Compares the output against the .golden file
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.cb")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .cb test files found in testdata/")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".cb")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

// TestE2EParallel compiles every test file in one session and checks the
// results match the one-file-at-a-time runs.
func TestE2EParallel(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.cb")
	if err != nil {
		t.Fatal(err)
	}
	units := make([]compiler.Unit, len(testFiles))
	for i, f := range testFiles {
		units[i] = readUnit(t, f)
	}

	s := compiler.NewSession()
	s.VerifyIR = true
	results, err := s.CompileAll(context.Background(), units)
	if err != nil {
		t.Fatal(err)
	}
	for i, res := range results {
		want, err := os.ReadFile(goldenFile(testFiles[i]))
		if err != nil {
			t.Fatalf("reading golden file: %v", err)
		}
		if got := render(res); got != string(want) {
			t.Errorf("%s: output mismatch:\ngot:\n%s\nwant:\n%s", units[i].Name, got, want)
		}
	}
}

// runE2ETest runs a single end-to-end test.
func runE2ETest(t *testing.T, cbFile string) {
	t.Helper()

	s := compiler.NewSession()
	s.VerifyIR = true
	res, err := s.Compile(context.Background(), readUnit(t, cbFile))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	got := render(res)

	golden := goldenFile(cbFile)
	if os.Getenv("UPDATE_GOLDEN") != "" {
		if err := os.WriteFile(golden, []byte(got), 0o644); err != nil {
			t.Fatalf("writing golden file: %v", err)
		}
		return
	}

	expected, err := os.ReadFile(golden)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}
	if want := string(expected); got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// readUnit reads a test file. Units are named by base name so that
// diagnostics in golden files do not depend on the directory.
func readUnit(t *testing.T, path string) compiler.Unit {
	t.Helper()
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return compiler.Unit{Name: filepath.Base(path), Src: src}
}

func goldenFile(cbFile string) string {
	return strings.TrimSuffix(cbFile, ".cb") + ".golden"
}

// render returns the IR of a successful compilation, or the uncolored
// diagnostics of a failed one.
func render(res *compiler.Result) string {
	var buf bytes.Buffer
	if res.Failed() {
		f := diag.NewFormatter(&buf)
		f.AddSource(res.Unit.Name, res.Unit.Src)
		f.FormatAll(res.Diagnostics)
		return buf.String()
	}
	ir.Fprint(&buf, res.Module)
	return buf.String()
}
