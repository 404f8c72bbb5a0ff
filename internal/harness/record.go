package harness

import (
	"context"
	"fmt"

	"github.com/roach88/parity/internal/fixture"
	"github.com/roach88/parity/internal/parser"
)

// RecordSummary counts the outcomes captured by Record.
type RecordSummary struct {
	Recorded int               `json:"recorded"`
	Accepted int               `json:"accepted"`
	Rejected int               `json:"rejected"`
	Problems []fixture.Problem `json:"problems,omitempty"`

	// Unreadable lists fixtures whose source could not be read.
	Unreadable []string `json:"unreadable,omitempty"`
}

// Record runs p over every resolved fixture and stores each outcome under
// dir, so a parser.Recorded named like p can replay the run without the
// original parser. p receives the overrides keyed by its own name.
func (h *Harness) Record(ctx context.Context, specs []fixture.Spec, p parser.Parser, dir string) (RecordSummary, error) {
	res := h.Resolve(specs)
	summary := RecordSummary{Problems: res.Problems}

	for _, f := range res.Fixtures {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("record cancelled: %w", err)
		}

		source, err := fixture.ReadSource(h.corpus, f.Path)
		if err != nil {
			h.logger.Warn("fixture unavailable", "path", f.Path, "error", err)
			summary.Unreadable = append(summary.Unreadable, f.Path)
			continue
		}

		out, err := parser.Record(ctx, p, dir, source, f.Options.For(p.Name()))
		if err != nil {
			return summary, fmt.Errorf("record %s: %w", f.Path, err)
		}

		summary.Recorded++
		if out.Failed() {
			summary.Rejected++
		} else {
			summary.Accepted++
		}
		h.logger.Debug("recorded fixture", "path", f.Path, "parser", p.Name(), "failed", out.Failed())
	}

	h.logger.Info("recording finished",
		"parser", p.Name(),
		"recorded", summary.Recorded,
		"unreadable", len(summary.Unreadable),
	)
	return summary, nil
}
