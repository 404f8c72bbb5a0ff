package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/parity/internal/fixture"
	"github.com/roach88/parity/internal/harness"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Filter string
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "List the fixtures a run would check",
		Long: `Expand the configured fixture list into concrete fixtures without
running any parser. Each fixture is printed with the spec entry that
produced it; with --verbose its parser options are printed too.

Exit codes:
  0 - Every entry resolved (warnings allowed)
  1 - At least one entry did not resolve
  2 - Command error

Examples:
  parity resolve
  parity resolve --filter 'modules/*' --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only list fixtures whose path matches this glob")

	return cmd
}

func runResolve(opts *ResolveOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
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

	res := h.Resolve(cfg.Fixtures)

	if f.JSON() {
		if err := f.Success(res); err != nil {
			return err
		}
	} else {
		printResolution(f, res)
	}

	if res.HasErrors() {
		return NewExitError(ExitFailure, "fixture list has unresolved entries")
	}
	return nil
}

func printResolution(f *OutputFormatter, res fixture.Resolution) {
	for _, p := range res.Problems {
		f.PrintProblem(p)
	}
	for _, r := range res.Fixtures {
		fmt.Fprintf(f.Writer, "%s (entry %d)\n", r.Path, r.Entry)
		if f.Verbose {
			for _, name := range slices.Sorted(maps.Keys(r.Options)) {
				fmt.Fprintf(f.Writer, "  %s: %v\n", name, r.Options[name])
			}
		}
	}
	fmt.Fprintf(f.Writer, "\n%d fixture(s), %d problem(s)\n", len(res.Fixtures), len(res.Problems))
}
