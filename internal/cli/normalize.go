package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/parity/internal/config"
	"github.com/roach88/parity/internal/normalize"
	"github.com/roach88/parity/internal/tree"
)

// Tree sides accepted by the normalize command.
const (
	SideReference = "reference"
	SideCandidate = "candidate"
)

// NormalizeOptions holds flags for the normalize command.
type NormalizeOptions struct {
	*RootOptions
	Side string
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NormalizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize <tree.json>",
		Short: "Print the normalized form of a parser tree",
		Long: `Apply the configured normalization to a JSON tree and print it as
canonical JSON. Use - to read from stdin.

Reference trees are unwrapped and stripped with the full rule table;
candidate trees (--side candidate) only lose their root span fields.
Without a config file the default rules are used.

Examples:
  parity normalize recordings/reference/3f/3f2a....json
  babel-parse < a.js | parity normalize -
  parity normalize --side candidate out.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Side, "side", SideReference, "which side the tree comes from (reference|candidate)")

	return cmd
}

func runNormalize(opts *NormalizeOptions, input string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if opts.Side != SideReference && opts.Side != SideCandidate {
		return f.Fail(ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("invalid side %q: must be %s or %s", opts.Side, SideReference, SideCandidate), nil)
	}

	n, err := opts.normalizer()
	if err != nil {
		return configError(f, err)
	}

	data, err := readInput(cmd, input)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeNotFound, "failed to read tree", err)
	}

	root, err := tree.Decode(data)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeParse, "failed to decode tree", err)
	}

	var out any
	if opts.Side == SideReference {
		out = n.Normalize(root)
	} else {
		out = n.StripRoot(root)
	}

	if f.JSON() {
		return f.Success(out)
	}

	canonical, err := tree.MarshalCanonical(out)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "failed to encode tree", err)
	}
	fmt.Fprintln(f.Writer, string(canonical))
	return nil
}

// normalizer uses the config's normalizer. Only when no config was named
// and none was discovered does it fall back to the default rules.
func (o *NormalizeOptions) normalizer() (*normalize.Normalizer, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		if o.Config == "" && errors.Is(err, config.ErrNotFound) {
			return normalize.Default(), nil
		}
		return nil, err
	}
	return cfg.Normalizer(), nil
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}
