package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/stylecritic/internal/config"
	"github.com/dshills/stylecritic/internal/patch"
	"github.com/dshills/stylecritic/internal/profile"
	"github.com/dshills/stylecritic/internal/render"
	"github.com/dshills/stylecritic/internal/runner"
	"github.com/dshills/stylecritic/internal/schema"
	"github.com/dshills/stylecritic/internal/walk"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// checkFlags holds the parsed flags for the check command.
type checkFlags struct {
	fix               bool
	diffOut           string
	format            string
	out               string
	configFile        string
	profileName       string
	severityThreshold string
	jobs              int
	verbose           bool
}

func main() {
	root := &cobra.Command{
		Use:   "stylecritic",
		Short: "Mechanically enforce the Elixir style guide",
		Long:  "StyleCritic scans Elixir source for style-guide violations and can apply deterministic autofixes.",
	}

	var flags checkFlags
	checkCmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Scan files or directories and report style violations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args, flags)
		},
	}

	f := checkCmd.Flags()
	f.BoolVar(&flags.fix, "fix", false, "Apply available autofixes in place")
	f.StringVar(&flags.diffOut, "diff-out", "", "Write the autofix changes in diff-match-patch format to this file (dry run unless --fix)")
	f.StringVar(&flags.format, "format", "text", "Output format: text or json")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	f.StringVar(&flags.configFile, "config", "", "Config file path (default "+config.DefaultFile+" when present)")
	f.StringVar(&flags.profileName, "profile", "default", "Rule profile: default, strict, or minimal")
	f.StringVar(&flags.severityThreshold, "severity-threshold", "warning", "Minimum severity to report: warning or error")
	f.IntVar(&flags.jobs, "jobs", 0, "Concurrent file workers (0 = number of CPUs)")
	f.BoolVar(&flags.verbose, "verbose", false, "Print processing steps to stderr")

	root.AddCommand(checkCmd)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(2)
	}
}

func runCheck(paths []string, flags checkFlags) error {
	// --- Step 1: Validate flags ---
	if err := validateFlags(flags); err != nil {
		return codeError(2, "invalid flags: %s", err)
	}

	// --- Step 2: Load config ---
	logVerbose(flags.verbose, "Loading config: %s", orDefault(flags.configFile, config.DefaultFile))
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return codeError(2, "loading config: %s", err)
	}

	// --- Step 3: Build the frozen rule registry from profile + config ---
	logVerbose(flags.verbose, "Loading profile: %s", flags.profileName)
	prof, err := profile.Get(flags.profileName)
	if err != nil {
		return codeError(2, "loading profile: %s", err)
	}
	reg, err := prof.Build(cfg)
	if err != nil {
		return codeError(2, "building rule registry: %s", err)
	}

	// --- Step 4: Expand paths to the file list ---
	files, err := walk.Expand(paths, cfg.Exclude)
	if err != nil {
		return codeError(2, "resolving paths: %s", err)
	}
	logVerbose(flags.verbose, "Scanning %d file(s) with %d rule(s)", len(files), reg.Len())

	// --- Step 5: Run the pipeline; interrupt stops dispatch, in-flight files finish ---
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs := flags.jobs
	if jobs == 0 {
		jobs = cfg.Jobs
	}
	res, runErr := runner.Run(ctx, files, reg, runner.Options{
		Fix:     flags.fix,
		Diff:    flags.diffOut != "",
		Jobs:    jobs,
		Verbose: flags.verbose,
		Stderr:  os.Stderr,
	})
	if errors.Is(runErr, context.Canceled) {
		fmt.Fprintln(os.Stderr, "WARN: interrupted; reporting files scanned so far")
	}

	// --- Step 6: Assemble the report ---
	report := &schema.Report{
		Tool:    "stylecritic",
		Version: version,
		Input: schema.Input{
			Paths:             paths,
			Profile:           flags.profileName,
			ConfigFile:        flags.configFile,
			Fix:               flags.fix,
			SeverityThreshold: flags.severityThreshold,
		},
		Summary: res.Summary,
		Files:   res.Files,
	}

	// --- Step 7: Apply severity threshold filter (output only; counts and exit code use all violations) ---
	threshold := schema.Severity(flags.severityThreshold)
	for i := range report.Files {
		report.Files[i].Violations = schema.FilterBySeverity(report.Files[i].Violations, threshold)
	}

	// --- Step 8: Write diff output ---
	if flags.diffOut != "" {
		logVerbose(flags.verbose, "Writing diff → %s", flags.diffOut)
		diffText := patch.GenerateDiff(res.Diffs)
		if err := os.WriteFile(flags.diffOut, []byte(diffText), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "WARN: diff write failed: %s\n", err)
			// Continue — the diff is advisory; the report still renders
		}
	}

	// --- Step 9: Render output ---
	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(2, "invalid format: %s", err)
	}
	outputBytes, err := renderer.Render(report)
	if err != nil {
		return codeError(2, "rendering output: %s", err)
	}

	// --- Step 10: Write output ---
	if flags.out != "" {
		if err := os.WriteFile(flags.out, outputBytes, 0o644); err != nil {
			return codeError(2, "writing output file: %s", err)
		}
	} else {
		if _, err := os.Stdout.Write(outputBytes); err != nil {
			return codeError(2, "writing output: %s", err)
		}
		// Ensure output ends with a newline for terminal friendliness.
		if len(outputBytes) > 0 && outputBytes[len(outputBytes)-1] != '\n' {
			fmt.Fprintln(os.Stdout)
		}
	}

	// --- Step 11: Exit-code policy ---
	// Unreadable input outranks rule violations; warnings alone exit 0.
	if res.Unreadable {
		return codeError(2, "one or more input files could not be read")
	}
	if res.Summary.ErrorCount > 0 {
		return codeError(1, "%d error-severity violation(s) found", res.Summary.ErrorCount)
	}
	return nil
}

// validateFlags returns an error if any flag value is invalid.
func validateFlags(flags checkFlags) error {
	switch flags.format {
	case "text", "json":
	default:
		return fmt.Errorf("--format must be text or json, got %q", flags.format)
	}

	switch schema.Severity(flags.severityThreshold) {
	case schema.SeverityWarning, schema.SeverityError:
	default:
		return fmt.Errorf("--severity-threshold must be warning or error, got %q", flags.severityThreshold)
	}

	if flags.jobs < 0 {
		return fmt.Errorf("--jobs must be >= 0, got %d", flags.jobs)
	}

	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// logVerbose writes an INFO line to stderr when verbose mode is enabled.
func logVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...)
	}
}
