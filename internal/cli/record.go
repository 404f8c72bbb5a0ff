package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/parity/internal/config"
	"github.com/roach88/parity/internal/harness"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	Out    string
	Filter string
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <reference|candidate>",
		Short: "Capture one parser's outcomes for later replay",
		Long: `Run the configured reference or candidate parser over every resolved
fixture and store each outcome under --out. A parser of type "recorded"
pointing at that directory replays the outcomes without the original
parser being installed.

Each fixture is recorded with the options addressed to that parser's
name, so a recording is only replayed for the same source and options.

Exit codes:
  0 - Every fixture was recorded
  1 - Some fixtures could not be read
  2 - Command error

Examples:
  parity record reference --out recordings/reference
  parity record candidate --out /tmp/cand --filter 'errors/*'`,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     []string{SideReference, SideCandidate},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "recordings directory (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only record fixtures whose path matches this glob")

	return cmd
}

func runRecord(opts *RecordOptions, side string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return configError(f, err)
	}

	var pc config.ParserConfig
	switch side {
	case SideReference:
		pc = cfg.Reference
	case SideCandidate:
		pc = cfg.Candidate
	default:
		return f.Fail(ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("invalid parser %q: must be %s or %s", side, SideReference, SideCandidate), nil)
	}

	p, err := cfg.Parser(pc)
	if err != nil {
		return configError(f, err)
	}

	hcfg, err := cfg.HarnessConfig(opts.logger(cmd.ErrOrStderr()))
	if err != nil {
		return configError(f, err)
	}
	hcfg.Filter = opts.Filter
	h, err := harness.New(hcfg)
	if err != nil {
		return configError(f, err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := h.Record(ctx, cfg.Fixtures, p, opts.Out)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeWriteFailed, "recording failed", err)
	}

	if f.JSON() {
		if err := f.Success(summary); err != nil {
			return err
		}
	} else {
		for _, prob := range summary.Problems {
			f.PrintProblem(prob)
		}
		for _, path := range summary.Unreadable {
			failColor.Fprintf(f.Writer, "✗ %s: fixture unavailable\n", path)
		}
		fmt.Fprintf(f.Writer, "Recorded %d outcome(s) of %s to %s (%d accepted, %d rejected)\n",
			summary.Recorded, p.Name(), opts.Out, summary.Accepted, summary.Rejected)
	}

	if len(summary.Unreadable) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d fixture(s) could not be read", len(summary.Unreadable)))
	}
	return nil
}
