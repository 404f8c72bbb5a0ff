package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/parity/internal/compare"
	"github.com/roach88/parity/internal/fixture"
	"github.com/roach88/parity/internal/normalize"
	"github.com/roach88/parity/internal/parser"
)

// Config wires a harness together.
type Config struct {
	// Corpus is the fixture tree. Fixture paths are relative to its root.
	Corpus fs.FS

	// Finder lists group members. Defaults to a DirFinder over Corpus with
	// fixture.DefaultInclude.
	Finder fixture.Finder

	// Reference is the parser treated as ground truth; Candidate is the
	// parser under validation. Both are required.
	Reference parser.Parser
	Candidate parser.Parser

	// Normalizer projects reference trees. Defaults to normalize.Default().
	Normalizer *normalize.Normalizer

	// Jobs bounds the number of fixtures checked concurrently. Values
	// below 2 run fixtures one at a time.
	Jobs int

	// Filter, when set, keeps only fixtures whose path matches this
	// path.Match pattern.
	Filter string

	// Logger receives progress and diagnostics. Defaults to a discarding
	// logger.
	Logger *slog.Logger
}

// ErrNoParser is returned by New when a parser is missing.
var ErrNoParser = errors.New("reference and candidate parsers are required")

// Harness runs every resolved fixture through both parsers and compares
// the outcomes.
type Harness struct {
	corpus     fs.FS
	resolver   *fixture.Resolver
	reference  parser.Parser
	candidate  parser.Parser
	comparator *compare.Comparator
	jobs       int
	filter     string
	logger     *slog.Logger
}

// New creates a harness from cfg.
func New(cfg Config) (*Harness, error) {
	if cfg.Reference == nil || cfg.Candidate == nil {
		return nil, ErrNoParser
	}
	if cfg.Corpus == nil {
		return nil, errors.New("corpus is required")
	}
	if cfg.Filter != "" {
		if _, err := path.Match(cfg.Filter, ""); err != nil {
			return nil, fmt.Errorf("filter %q: %w", cfg.Filter, err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	finder := cfg.Finder
	if finder == nil {
		finder = fixture.NewDirFinder(cfg.Corpus)
	}

	return &Harness{
		corpus:     cfg.Corpus,
		resolver:   fixture.NewResolver(finder, logger),
		reference:  cfg.Reference,
		candidate:  cfg.Candidate,
		comparator: compare.New(cfg.Normalizer),
		jobs:       cfg.Jobs,
		filter:     cfg.Filter,
		logger:     logger,
	}, nil
}

// Resolve expands specs into fixtures, applying the configured filter.
func (h *Harness) Resolve(specs []fixture.Spec) fixture.Resolution {
	res := h.resolver.Resolve(specs)
	if h.filter == "" {
		return res
	}

	kept := res.Fixtures[:0]
	for _, f := range res.Fixtures {
		// Pattern validity was checked in New.
		if ok, _ := path.Match(h.filter, f.Path); ok {
			kept = append(kept, f)
		}
	}
	res.Fixtures = kept
	return res
}

// Run resolves specs and checks every fixture, returning one verdict per
// fixture in declared order.
//
// Resolution problems are reported, not returned: an entry that fails to
// resolve contributes no verdicts and the rest of the run continues. Run
// returns an error only when ctx is cancelled before every fixture was
// checked.
func (h *Harness) Run(ctx context.Context, specs []fixture.Spec) (*Report, error) {
	res := h.Resolve(specs)

	h.logger.Info("running fixtures",
		"reference", h.reference.Name(),
		"candidate", h.candidate.Name(),
		"fixtures", len(res.Fixtures),
		"problems", len(res.Problems),
		"jobs", max(h.jobs, 1),
	)

	verdicts, err := h.CheckAll(ctx, res.Fixtures)
	if err != nil {
		return nil, err
	}

	report := NewReport(h.reference.Name(), h.candidate.Name(), res.Problems, verdicts)
	h.logger.Info("run finished",
		"total", report.Summary.Total,
		"passed", report.Summary.Passed,
		"failed", report.Summary.Failed,
	)
	return report, nil
}

// CheckAll checks fixtures and returns their verdicts in the same order.
//
// With more than one job, fixtures run concurrently on a bounded group and
// each verdict is stored at its fixture's index, so completion order never
// affects the result.
func (h *Harness) CheckAll(ctx context.Context, fixtures []fixture.Resolved) ([]compare.Verdict, error) {
	verdicts := make([]compare.Verdict, len(fixtures))

	if h.jobs < 2 {
		for i, f := range fixtures {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("run cancelled after %d of %d fixtures: %w", i, len(fixtures), err)
			}
			verdicts[i] = h.Check(ctx, f)
		}
		return verdicts, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.jobs)
	for i, f := range fixtures {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[i] = h.Check(gctx, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}
	return verdicts, nil
}

// Check runs one fixture through both parsers and compares the outcomes.
// A fixture that cannot be read yields a fixture-error verdict; neither
// parser is invoked.
func (h *Harness) Check(ctx context.Context, f fixture.Resolved) compare.Verdict {
	source, err := fixture.ReadSource(h.corpus, f.Path)
	if err != nil {
		h.logger.Warn("fixture unavailable", "path", f.Path, "error", err)
		return compare.FixtureError(f.Path, err)
	}

	ref := parser.Invoke(ctx, h.reference, source, f.Options.For(h.reference.Name()))
	cand := parser.Invoke(ctx, h.candidate, source, f.Options.For(h.candidate.Name()))

	v := h.comparator.Compare(f.Path, ref, cand)
	if v.Pass {
		h.logger.Debug("fixture passed", "path", f.Path, "case", v.Case)
	} else {
		h.logger.Info("fixture failed", "path", f.Path, "case", v.Case, "message", v.Message)
	}
	return v
}
