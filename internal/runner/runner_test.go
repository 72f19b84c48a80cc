package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/dshills/stylecritic/internal/rule"
	"github.com/dshills/stylecritic/internal/schema"
)

func builtinRegistry(t *testing.T) *rule.Registry {
	t.Helper()
	reg := rule.NewRegistry()
	for _, r := range rule.Builtin(rule.DefaultOptions()) {
		if err := reg.Register(r); err != nil {
			t.Fatalf("Register(%s): %v", r.ID, err)
		}
	}
	reg.Freeze()
	return reg
}

func writeFiles(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(files))
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return dir, paths
}

func TestRun_AggregatesSortedByPath(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"b.ex": "foo  \n",
		"a.ex": "\tbar\n",
		"c.ex": "clean()\n",
	})
	reg := builtinRegistry(t)

	res, err := Run(context.Background(), paths, reg, Options{Jobs: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Summary.FilesScanned != 3 {
		t.Errorf("FilesScanned = %d, want 3", res.Summary.FilesScanned)
	}
	if len(res.Files) != 3 {
		t.Fatalf("got %d file reports, want 3", len(res.Files))
	}
	if !sort.SliceIsSorted(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path }) {
		t.Error("file reports not sorted by path")
	}
	if res.Summary.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1 (tab indentation)", res.Summary.ErrorCount)
	}
	if res.Summary.WarningCount < 1 {
		t.Errorf("WarningCount = %d, want >= 1 (trailing whitespace)", res.Summary.WarningCount)
	}
	if res.Unreadable {
		t.Error("Unreadable = true for readable files")
	}
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"a.ex": "fileName = 1\n",
		"b.ex": "foo( a )\n",
		"c.ex": "x = 1  \n",
		"d.ex": "#nospace\n",
	})
	reg := builtinRegistry(t)

	one, err := Run(context.Background(), paths, reg, Options{Jobs: 1})
	if err != nil {
		t.Fatalf("Run(jobs=1): %v", err)
	}
	many, err := Run(context.Background(), paths, reg, Options{Jobs: 8})
	if err != nil {
		t.Fatalf("Run(jobs=8): %v", err)
	}

	if one.Summary != many.Summary {
		t.Errorf("summaries differ: %+v vs %+v", one.Summary, many.Summary)
	}
	if len(one.Files) != len(many.Files) {
		t.Fatalf("file counts differ: %d vs %d", len(one.Files), len(many.Files))
	}
	for i := range one.Files {
		a, b := one.Files[i], many.Files[i]
		if a.Path != b.Path || len(a.Violations) != len(b.Violations) {
			t.Errorf("file %d differs: %s/%d vs %s/%d",
				i, a.Path, len(a.Violations), b.Path, len(b.Violations))
		}
	}
}

func TestRun_UnreadableFileIsInvocationFault(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"ok.ex": "x = 1\n"})
	// A directory in the file list fails at read time.
	paths = append(paths, t.TempDir())

	var stderr bytes.Buffer
	reg := builtinRegistry(t)
	res, err := Run(context.Background(), paths, reg, Options{Stderr: &stderr})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Unreadable {
		t.Error("Unreadable = false, want true")
	}
	if res.Summary.FilesFailed != 1 || res.Summary.FilesScanned != 1 {
		t.Errorf("Summary = %+v, want 1 failed and 1 scanned", res.Summary)
	}
	if !strings.Contains(stderr.String(), "WARN:") {
		t.Errorf("no WARN line on stderr: %q", stderr.String())
	}
}

func TestRun_UnterminatedLiteralBecomesViolation(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"bad.ex": "x = \"open\n"})
	reg := builtinRegistry(t)

	res, err := Run(context.Background(), paths, reg, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Unreadable {
		t.Error("scan recovery flagged as unreadable")
	}
	var found *schema.Violation
	for i, v := range res.Files[0].Violations {
		if v.RuleID == schema.RuleIDUnterminatedLiteral {
			found = &res.Files[0].Violations[i]
		}
	}
	if found == nil {
		t.Fatalf("no unterminated-literal violation: %+v", res.Files[0].Violations)
	}
	if found.Severity != schema.SeverityError || found.Category != schema.CategoryExecution {
		t.Errorf("violation = %+v, want execution error", found)
	}
	if found.Pos != (schema.Position{Line: 1, Column: 5}) {
		t.Errorf("Pos = %+v, want opening delimiter position 1:5", found.Pos)
	}
}

func TestRun_FixModeRewritesFiles(t *testing.T) {
	dir, paths := writeFiles(t, map[string]string{"a.ex": "foo  \n"})
	reg := builtinRegistry(t)

	res, err := Run(context.Background(), paths, reg, Options{Fix: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Files[0].Fixed || res.Files[0].FixesApplied != 1 {
		t.Errorf("FileReport = %+v, want fixed with 1 fix", res.Files[0])
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.ex"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "foo\n" {
		t.Errorf("file content = %q, want %q", got, "foo\n")
	}
}

func TestRun_DiffWithoutFixIsDryRun(t *testing.T) {
	dir, paths := writeFiles(t, map[string]string{"a.ex": "foo  \n"})
	reg := builtinRegistry(t)

	res, err := Run(context.Background(), paths, reg, Options{Diff: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Diffs) != 1 {
		t.Fatalf("got %d diffs, want 1", len(res.Diffs))
	}
	if res.Diffs[0].After != "foo\n" {
		t.Errorf("diff After = %q, want %q", res.Diffs[0].After, "foo\n")
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.ex"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "foo  \n" {
		t.Errorf("dry run rewrote the file: %q", got)
	}
	if res.Files[0].Fixed {
		t.Error("dry run marked the file fixed")
	}
}

func TestRun_CancelledContextStopsDispatch(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"a.ex": "x = 1\n",
		"b.ex": "y = 2\n",
	})
	reg := builtinRegistry(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, paths, reg, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if res == nil {
		t.Fatal("Run returned nil result on cancellation")
	}
	if res.Summary.FilesScanned != 0 {
		t.Errorf("FilesScanned = %d after pre-cancelled context, want 0", res.Summary.FilesScanned)
	}
}

func TestRun_VerboseLogsToStderr(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.ex": "x = 1\n"})
	reg := builtinRegistry(t)

	var stderr bytes.Buffer
	if _, err := Run(context.Background(), paths, reg, Options{Verbose: true, Stderr: &stderr}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(stderr.String(), "INFO: scanning ") {
		t.Errorf("no INFO line on stderr: %q", stderr.String())
	}
}
