package config

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/roach88/parity/internal/fixture"
	"github.com/roach88/parity/internal/harness"
	"github.com/roach88/parity/internal/normalize"
	"github.com/roach88/parity/internal/parser"
)

// CorpusFS returns the fixture tree.
func (c *Config) CorpusFS() fs.FS {
	return os.DirFS(c.Path(c.Corpus))
}

// Normalizer builds the reference tree normalizer.
func (c *Config) Normalizer() *normalize.Normalizer {
	n := c.Normalize

	rules := normalize.DefaultRules
	if len(n.Rules) > 0 {
		rules = n.Rules
	}
	rules = append(append([]normalize.Rule(nil), rules...), n.ExtraRules...)

	unwrap := normalize.DefaultUnwrap
	switch {
	case n.NoUnwrap:
		unwrap = nil
	case n.Unwrap != nil:
		unwrap = n.Unwrap
	}

	spanKeys := normalize.DefaultRootSpanKeys
	if len(n.RootSpanKeys) > 0 {
		spanKeys = n.RootSpanKeys
	}

	return normalize.New(rules, unwrap, spanKeys)
}

// Parser builds the parser described by p.
func (c *Config) Parser(p ParserConfig) (parser.Parser, error) {
	switch p.Type {
	case TypeExec:
		timeout, err := p.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		opts := []parser.ExecOption{parser.WithTimeout(timeout), parser.WithEnv(p.Env...)}
		if p.Dir != "" {
			opts = append(opts, parser.WithDir(c.Path(p.Dir)))
		} else if c.dir != "" {
			opts = append(opts, parser.WithDir(c.dir))
		}
		return parser.NewExec(p.Name, p.Command, p.Args, opts...), nil

	case TypeRecorded:
		return parser.NewRecorded(p.Name, os.DirFS(c.Path(p.Recordings))), nil

	default:
		return nil, fmt.Errorf("parser %s: unknown type %q", p.Name, p.Type)
	}
}

// HarnessConfig wires a harness from the configuration.
func (c *Config) HarnessConfig(logger *slog.Logger) (harness.Config, error) {
	ref, err := c.Parser(c.Reference)
	if err != nil {
		return harness.Config{}, fmt.Errorf("reference: %w", err)
	}
	cand, err := c.Parser(c.Candidate)
	if err != nil {
		return harness.Config{}, fmt.Errorf("candidate: %w", err)
	}

	corpus := c.CorpusFS()
	return harness.Config{
		Corpus:     corpus,
		Finder:     fixture.NewDirFinder(corpus, c.Include...),
		Reference:  ref,
		Candidate:  cand,
		Normalizer: c.Normalizer(),
		Jobs:       c.Jobs,
		Logger:     logger,
	}, nil
}
