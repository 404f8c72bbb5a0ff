package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/parity/internal/harness"
	"github.com/roach88/parity/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Jobs      int
	Database  string
	Filter    string
	NoHistory bool

	// StoreOptions are passed to store.Open (for testing).
	StoreOptions []store.Option
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	*harness.Report
	Database string `json:"database,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every fixture through both parsers",
		Long: `Resolve the configured fixture list, run each fixture through the
reference and candidate parsers, and compare the outcomes.

When a history database is configured (database in the config file or
--db), the run and its verdicts are saved for the history and show
commands.

Exit codes:
  0 - All fixtures passed
  1 - At least one fixture failed or a fixture entry did not resolve
  2 - Command error (bad config, database error, interrupted run)

Examples:
  parity run
  parity run --config ci/parity.toml --jobs 8
  parity run --filter 'errors/*' --verbose
  parity run --db ./parity.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHarness(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "fixtures checked concurrently (overrides config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "history database (overrides config)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run fixtures whose path matches this glob")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "do not save the run")

	return cmd
}

func runHarness(opts *RunOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return configError(f, err)
	}

	logger := opts.logger(cmd.ErrOrStderr())
	hcfg, err := cfg.HarnessConfig(logger)
	if err != nil {
		return configError(f, err)
	}
	if cmd.Flags().Changed("jobs") {
		hcfg.Jobs = opts.Jobs
	}
	hcfg.Filter = opts.Filter

	h, err := harness.New(hcfg)
	if err != nil {
		return configError(f, err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := h.Run(ctx, cfg.Fixtures)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "run failed", err)
	}

	result := RunResult{Report: report}
	var runID string
	if !opts.NoHistory {
		result.Database = cfg.Path(cfg.Database)
		if opts.Database != "" {
			result.Database = opts.Database
		}
	}
	if result.Database != "" {
		runID, err = saveRun(ctx, result.Database, report, opts.StoreOptions)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to save run", err)
		}
		logger.Info("run saved", "id", runID, "db", result.Database)
	}

	if f.JSON() {
		return outputRunJSON(f, result, runID)
	}
	return outputRunText(f, result, runID)
}

// saveRun writes the report to the history database and returns the run ID.
func saveRun(ctx context.Context, path string, report *harness.Report, opts []store.Option) (string, error) {
	st, err := store.Open(path, opts...)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run := st.NewRun(report.Reference, report.Candidate)
	run.Problems = report.Problems
	run, err = st.WriteRun(ctx, run, report.Verdicts)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// runFailure describes why a report did not pass, or "" when it passed.
func runFailure(report *harness.Report) string {
	if report.Summary.Failed > 0 {
		return fmt.Sprintf("%d fixture(s) failed", report.Summary.Failed)
	}
	if !report.Pass() {
		return "fixture list has unresolved entries"
	}
	return ""
}

func outputRunJSON(f *OutputFormatter, result RunResult, runID string) error {
	resp := CLIResponse{Status: "ok", Data: result, RunID: runID}

	msg := runFailure(result.Report)
	if msg != "" {
		resp.Status = "error"
		resp.Error = &CLIError{Code: ErrCodeRunFailed, Message: msg}
	}
	if err := f.encode(resp); err != nil {
		return err
	}

	if msg != "" {
		return NewExitError(ExitFailure, msg)
	}
	return nil
}

func outputRunText(f *OutputFormatter, result RunResult, runID string) error {
	report := result.Report

	for _, p := range report.Problems {
		f.PrintProblem(p)
	}
	for _, v := range report.Verdicts {
		f.PrintVerdict(v)
	}
	f.PrintSummary(report.Summary.Passed, report.Summary.Failed, report.Summary.Total)

	if runID != "" {
		fmt.Fprintf(f.Writer, "Run %s saved to %s\n", runID, result.Database)
	}

	if msg := runFailure(report); msg != "" {
		return NewExitError(ExitFailure, msg)
	}
	passColor.Fprintln(f.Writer, "✓ All fixtures passed")
	return nil
}

// commandContext returns cmd's context, or a background context when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
