package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/parity/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Fixture  string
	Keep     int
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Runs    []store.Run           `json:"runs,omitempty"`
	Fixture []store.FixtureResult `json:"fixture,omitempty"`
	Pruned  int64                 `json:"pruned,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs",
		Long: `List the runs saved in a history database, newest first.

With --fixture, list one fixture's verdict across runs instead. With
--keep, delete all but the newest N runs before listing.

Examples:
  parity history --db ./parity.db
  parity history --db ./parity.db --fixture errors/dup-param-strict.src
  parity history --db ./parity.db --keep 50 --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to history database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum entries to list (0 for all)")
	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "list the history of one fixture path")
	cmd.Flags().IntVar(&opts.Keep, "keep", -1, "prune all but the newest N runs")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := openHistory(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, databaseErrCode(err), "failed to open database", err)
	}
	defer st.Close()

	var result HistoryResult

	if opts.Keep >= 0 {
		result.Pruned, err = st.Prune(ctx, opts.Keep)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to prune runs", err)
		}
		f.VerboseLog("pruned %d run(s)", result.Pruned)
	}

	if opts.Fixture != "" {
		result.Fixture, err = st.FixtureHistory(ctx, opts.Fixture, opts.Limit)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to read fixture history", err)
		}
	} else {
		result.Runs, err = st.ListRuns(ctx, opts.Limit)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeDatabase, "failed to list runs", err)
		}
	}

	if f.JSON() {
		return f.Success(result)
	}

	if opts.Keep >= 0 {
		fmt.Fprintf(f.Writer, "Pruned %d run(s)\n", result.Pruned)
	}
	if opts.Fixture != "" {
		printFixtureHistory(f, opts.Fixture, result.Fixture)
	} else {
		printRuns(f, result.Runs)
	}
	return nil
}

func printRuns(f *OutputFormatter, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(f.Writer, "No runs recorded")
		return
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tPARSERS\tPASSED\tFAILED\tPROBLEMS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s vs %s\t%d/%d\t%d\t%d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Reference, r.Candidate,
			r.Passed, r.Total, r.Failed, len(r.Problems))
	}
	tw.Flush()
}

func printFixtureHistory(f *OutputFormatter, path string, results []store.FixtureResult) {
	if len(results) == 0 {
		fmt.Fprintf(f.Writer, "No verdicts recorded for %s\n", path)
		return
	}

	for _, r := range results {
		fmt.Fprintf(f.Writer, "%s  %s  ", r.RunID, r.StartedAt.Format(time.RFC3339))
		f.PrintVerdict(r.Verdict)
	}
}

// openHistory opens an existing history database. Unlike store.Open it
// does not create a missing file.
func openHistory(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return store.Open(path)
}

func databaseErrCode(err error) string {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, store.ErrRunNotFound) {
		return ErrCodeNotFound
	}
	return ErrCodeDatabase
}
