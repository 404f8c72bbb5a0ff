package fixture

import (
	"fmt"
	"io"
	"log/slog"
)

// Severity grades a resolution problem.
type Severity string

const (
	// SeverityWarning marks suspicious but harmless configuration, such as
	// a group that matches nothing or an exclusion that matches no file.
	SeverityWarning Severity = "warning"
	// SeverityError marks an entry that could not be resolved at all.
	// The entry contributes no fixtures; the rest of the run continues.
	SeverityError Severity = "error"
)

// Problem is an authoring defect found while resolving one spec entry.
type Problem struct {
	Entry    int      `json:"entry"`
	Spec     string   `json:"spec"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: entry %d (%s): %s", p.Severity, p.Entry, p.Spec, p.Message)
}

// Resolved is the atomic unit of work: one fixture file plus the options
// each parser receives for it. Empty options mean parser defaults.
type Resolved struct {
	Path    string    `json:"path"`
	Options Overrides `json:"options,omitempty"`

	// Entry is the index of the spec entry that produced this fixture.
	Entry int `json:"entry"`
}

// Resolution is the outcome of resolving a spec list.
type Resolution struct {
	Fixtures []Resolved `json:"fixtures"`
	Problems []Problem  `json:"problems,omitempty"`
}

// HasErrors reports whether any entry failed to resolve.
func (r *Resolution) HasErrors() bool {
	for _, p := range r.Problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Resolver expands spec entries into concrete fixtures.
type Resolver struct {
	finder Finder
	logger *slog.Logger
}

// NewResolver creates a resolver over finder. A nil logger discards output.
func NewResolver(finder Finder, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{finder: finder, logger: logger}
}

// Resolve expands specs in declared order.
//
// Resolution never fails as a whole: an entry that cannot be resolved is
// recorded as a Problem and contributes no fixtures.
func (r *Resolver) Resolve(specs []Spec) Resolution {
	res := Resolution{Fixtures: []Resolved{}}

	for i, spec := range specs {
		var (
			fixtures []Resolved
			problems []Problem
		)
		switch spec.Kind {
		case KindGroup:
			fixtures, problems = r.resolveGroup(i, spec)
		case KindFixture:
			fixtures, problems = r.resolveFixture(i, spec)
		default:
			problems = []Problem{{
				Entry:    i,
				Spec:     spec.String(),
				Severity: SeverityError,
				Message:  fmt.Sprintf("unknown spec kind %s", spec.Kind),
			}}
		}

		for _, p := range problems {
			r.logger.Warn("fixture resolution problem",
				"entry", p.Entry,
				"spec", p.Spec,
				"severity", p.Severity,
				"message", p.Message,
			)
		}
		res.Fixtures = append(res.Fixtures, fixtures...)
		res.Problems = append(res.Problems, problems...)

		r.logger.Debug("resolved spec entry",
			"entry", i,
			"spec", spec.String(),
			"fixtures", len(fixtures),
		)
	}

	return res
}

// resolveFixture attaches the entry's options verbatim to its one file.
// Group exclusions never apply here.
func (r *Resolver) resolveFixture(entry int, spec Spec) ([]Resolved, []Problem) {
	p, err := cleanPath(spec.Path)
	if err != nil {
		return nil, []Problem{errorProblem(entry, spec, err)}
	}
	return []Resolved{{Path: p, Options: spec.Options, Entry: entry}}, nil
}

// resolveGroup lists every fixture under the prefix and drops excluded names.
func (r *Resolver) resolveGroup(entry int, spec Spec) ([]Resolved, []Problem) {
	pattern, err := CompilePattern(spec.Path, spec.Exclude)
	if err != nil {
		return nil, []Problem{errorProblem(entry, spec, err)}
	}

	files, err := r.finder.List(pattern.Prefix)
	if err != nil {
		if isNotExist(err) {
			return nil, []Problem{warningProblem(entry, spec, fmt.Sprintf("no fixtures match %s", pattern))}
		}
		return nil, []Problem{errorProblem(entry, spec, fmt.Errorf("list %s: %w", pattern.Prefix, err))}
	}

	var (
		fixtures []Resolved
		problems []Problem
		present  = make(map[string]bool, len(files))
	)
	for _, file := range files {
		rel, ok := pattern.Rel(file)
		if !ok {
			continue
		}
		present[rel] = true
		if !pattern.Match(file) {
			continue
		}
		fixtures = append(fixtures, Resolved{Path: file, Options: spec.Options, Entry: entry})
	}

	for _, name := range pattern.Excluded {
		if !present[name] {
			problems = append(problems, warningProblem(entry, spec,
				fmt.Sprintf("exclusion %q matches no fixture", name)))
		}
	}
	if len(fixtures) == 0 {
		problems = append(problems, warningProblem(entry, spec, fmt.Sprintf("no fixtures match %s", pattern)))
	}

	return fixtures, problems
}

func errorProblem(entry int, spec Spec, err error) Problem {
	return Problem{Entry: entry, Spec: spec.String(), Severity: SeverityError, Message: err.Error()}
}

func warningProblem(entry int, spec Spec, msg string) Problem {
	return Problem{Entry: entry, Spec: spec.String(), Severity: SeverityWarning, Message: msg}
}
