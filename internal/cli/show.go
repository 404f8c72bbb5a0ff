package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/parity/internal/compare"
	"github.com/roach88/parity/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	Failed   bool
}

// ShowResult is the JSON payload of the show command.
type ShowResult struct {
	Run      store.Run         `json:"run"`
	Verdicts []compare.Verdict `json:"verdicts"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the verdicts of a saved run",
		Long: `Show one saved run and its verdicts in fixture order. A unique prefix
of the run ID is enough.

Exit codes:
  0 - Run found
  2 - Database or run not found, or the prefix is ambiguous

Examples:
  parity show --db ./parity.db 0192f3a4
  parity show --db ./parity.db 0192f3a4 --failed --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to history database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().BoolVar(&opts.Failed, "failed", false, "only show failing verdicts")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := openHistory(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, databaseErrCode(err), "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(ctx, id)
	if err != nil {
		return f.Fail(ExitCommandError, databaseErrCode(err), "failed to read run", err)
	}

	verdicts, err := st.ReadVerdicts(ctx, run.ID)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to read verdicts", err)
	}

	if opts.Failed {
		failing := []compare.Verdict{}
		for _, v := range verdicts {
			if !v.Pass {
				failing = append(failing, v)
			}
		}
		verdicts = failing
	}

	if f.JSON() {
		return f.Success(ShowResult{Run: run, Verdicts: verdicts})
	}

	fmt.Fprintf(f.Writer, "Run %s (%s)\n", run.ID, run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(f.Writer, "%s vs %s\n\n", run.Reference, run.Candidate)
	for _, p := range run.Problems {
		f.PrintProblem(p)
	}
	for _, v := range verdicts {
		f.PrintVerdict(v)
	}
	f.PrintSummary(run.Passed, run.Failed, run.Total)
	return nil
}
