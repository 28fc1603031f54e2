package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"limbo/internal/config"
)

func testConfigWithBATPath(path string) *config.Config {
	c := config.DefaultConfig()
	c.Engine.BATPath = path
	return c
}

const testTheory = `
sort Human
name mary : Human
name george : Human
fun father/1 : Human
static true ? father(mary) = george
`

func writeTheory(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "theory.bat")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write theory: %v", err)
	}
	return path
}

func withTestGlobals(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	timeout = 5 * time.Second
	depth = 1
	global = false
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestDecideEntailsStaticFact(t *testing.T) {
	withTestGlobals(t)
	path := writeTheory(t, testTheory)

	result, err := decide(newTestCmd(), []string{path, "father(mary) = george"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result {
		t.Fatalf("expected the static fact to be entailed")
	}
}

func TestDecideRejectsUnentailedFact(t *testing.T) {
	withTestGlobals(t)
	path := writeTheory(t, testTheory)

	result, err := decide(newTestCmd(), []string{path, "father(george) = mary"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result {
		t.Fatalf("expected the unentailed fact to be rejected")
	}
}

func TestRunQueryPrintsBooleanResult(t *testing.T) {
	withTestGlobals(t)
	path := writeTheory(t, testTheory)

	cmd := newTestCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runQuery(cmd, []string{path, "father(mary) = george"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "true\n" {
		t.Fatalf("expected %q, got %q", "true\n", got)
	}
}

func TestRunBatchDecidesEachLineIndependently(t *testing.T) {
	withTestGlobals(t)
	path := writeTheory(t, testTheory)

	dir := t.TempDir()
	formulasPath := filepath.Join(dir, "formulas.txt")
	contents := "father(mary) = george\n# a comment\n\nfather(george) = mary\n"
	if err := os.WriteFile(formulasPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write formulas file: %v", err)
	}

	cmd := newTestCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runBatch(cmd, []string{path, formulasPath}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	want := "true\tfather(mary) = george\nfalse\tfather(george) = mary\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRunSortDeclaresInMemoryOnly(t *testing.T) {
	withTestGlobals(t)
	batPath = writeTheory(t, testTheory)
	defer func() { batPath = "" }()

	cmd := newTestCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runSort(cmd, []string{"Robot"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() == "" {
		t.Fatalf("expected a confirmation message")
	}
}

func TestRunLetRejectsMalformedFormula(t *testing.T) {
	withTestGlobals(t)
	batPath = writeTheory(t, testTheory)
	defer func() { batPath = "" }()

	cmd := newTestCmd()
	err := runLet(cmd, []string{"fatherOfMary", ":=", "father(mary", "="})
	if err == nil {
		t.Fatalf("expected a parse error for a malformed formula")
	}
}

func TestRunLetAcceptsWellFormedFormula(t *testing.T) {
	withTestGlobals(t)
	batPath = writeTheory(t, testTheory)
	defer func() { batPath = "" }()

	cmd := newTestCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	err := runLet(cmd, []string{"fatherOfMary", ":=", "father(mary)", "=", "george"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() == "" {
		t.Fatalf("expected a confirmation message")
	}
}

func TestRequireBATFlagFallsBackToConfig(t *testing.T) {
	withTestGlobals(t)
	batPath = ""
	cfg = testConfigWithBATPath("configured.bat")

	path, err := requireBATFlag()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "configured.bat" {
		t.Fatalf("expected configured.bat, got %q", path)
	}
}

func TestRequireBATFlagErrorsWithNeither(t *testing.T) {
	withTestGlobals(t)
	batPath = ""
	cfg = testConfigWithBATPath("")

	if _, err := requireBATFlag(); err == nil {
		t.Fatalf("expected an error when neither --bat nor the config set a path")
	}
}
