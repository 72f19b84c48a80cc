// Package runner drives the per-file Load → Scan → Evaluate (→ Fix)
// pipeline concurrently across files. Files are independent; the only
// shared state is the frozen rule registry.
package runner

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/dshills/stylecritic/internal/eval"
	"github.com/dshills/stylecritic/internal/fix"
	"github.com/dshills/stylecritic/internal/patch"
	"github.com/dshills/stylecritic/internal/redact"
	"github.com/dshills/stylecritic/internal/rule"
	"github.com/dshills/stylecritic/internal/schema"
	"github.com/dshills/stylecritic/internal/source"
	"github.com/dshills/stylecritic/internal/token"
)

// Options configures a run.
type Options struct {
	Fix     bool // apply fixes in place
	Diff    bool // compute before/after diffs (dry run when Fix is false)
	Jobs    int  // worker bound; <= 0 means NumCPU
	Verbose bool
	Stderr  io.Writer // nil silences verbose/warn output
}

// Result aggregates a whole run. Files are sorted by path and each
// file's violations by position, regardless of worker completion order.
type Result struct {
	Files   []schema.FileReport
	Summary schema.Summary
	Diffs   []patch.FileDiff
	// Unreadable reports whether any input file could not be read; this
	// is an invocation fault (exit 2) even though remaining files were
	// still scanned.
	Unreadable bool
}

// Run scans every file through the frozen registry. Cancellation stops
// dispatching new files immediately; in-flight files finish, and autofix
// writes stay atomic.
func Run(ctx context.Context, files []string, reg *rule.Registry, opts Options) (*Result, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		res Result
	)
	sem := semaphore.NewWeighted(int64(jobs))

	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break // cancelled while waiting for a worker slot
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)

			report, diff, err := checkFile(path, reg, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Unreadable = true
				res.Summary.FilesFailed++
				warnf(opts, "%v", err)
				return
			}
			res.Summary.FilesScanned++
			errs, warns := schema.Counts(report.Violations)
			res.Summary.ErrorCount += errs
			res.Summary.WarningCount += warns
			res.Summary.FixesApplied += report.FixesApplied
			res.Summary.FixesSkipped += report.FixesSkipped
			res.Files = append(res.Files, *report)
			if diff != nil {
				res.Diffs = append(res.Diffs, *diff)
			}
		}(path)
	}

	wg.Wait()

	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })
	sort.Slice(res.Diffs, func(i, j int) bool { return res.Diffs[i].Path < res.Diffs[j].Path })

	return &res, ctx.Err()
}

// checkFile runs the pipeline for a single file. The returned error means
// the file could not be read at all; scan and rule faults are recovered
// into violations instead.
func checkFile(path string, reg *rule.Registry, opts Options) (*schema.FileReport, *patch.FileDiff, error) {
	verbosef(opts, "scanning %s", path)

	f, err := source.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	toks, scanErr := token.Scan(f.Raw)
	violations := eval.Evaluate(f, toks, reg)

	if scanErr != nil {
		if uerr, ok := scanErr.(*token.UnterminatedLiteralError); ok {
			violations = append(violations, schema.Violation{
				RuleID:   schema.RuleIDUnterminatedLiteral,
				Category: schema.CategoryExecution,
				Severity: schema.SeverityError,
				Path:     path,
				Pos:      uerr.Pos,
				Message:  fmt.Sprintf("literal opened with %s is never closed; rest of file skipped", uerr.Delim),
				Excerpt:  f.Line(uerr.Pos.Line),
			})
			sort.SliceStable(violations, func(i, j int) bool {
				return violations[i].Pos.Before(violations[j].Pos)
			})
		}
	}

	for i := range violations {
		violations[i].Excerpt = redact.Excerpt(violations[i].Excerpt)
	}

	report := &schema.FileReport{
		Path:       path,
		Hash:       f.Hash,
		Violations: violations,
	}

	if !opts.Fix && !opts.Diff {
		return report, nil, nil
	}

	result := fix.Apply(f.Raw, violations)
	var diff *patch.FileDiff
	if opts.Diff && result.Text != f.Raw {
		diff = &patch.FileDiff{Path: path, Before: f.Raw, After: result.Text}
	}
	if opts.Fix {
		if result.Text != f.Raw {
			if err := fix.WriteAtomic(path, []byte(result.Text)); err != nil {
				warnf(opts, "%v", err)
			} else {
				report.Fixed = true
			}
		}
		report.FixesApplied = result.Applied
		report.FixesSkipped = len(result.Skipped)
	}

	return report, diff, nil
}

// verbosef writes an INFO line to stderr when verbose mode is enabled.
func verbosef(opts Options, format string, args ...any) {
	if opts.Verbose && opts.Stderr != nil {
		fmt.Fprintf(opts.Stderr, "INFO: "+format+"\n", args...)
	}
}

// warnf writes a WARN line to stderr.
func warnf(opts Options, format string, args ...any) {
	if opts.Stderr != nil {
		fmt.Fprintf(opts.Stderr, "WARN: "+format+"\n", args...)
	}
}
