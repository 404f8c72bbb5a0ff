package fixture

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// ErrBadExclusion is wrapped by every exclusion entry CompilePattern rejects.
var ErrBadExclusion = errors.New("bad exclusion")

// ErrBadPath is wrapped when a prefix or fixture path cannot name a
// location inside the corpus.
var ErrBadPath = errors.New("bad fixture path")

// Pattern is the matching expression for one fixture group: every fixture
// under Prefix whose prefix-relative name is not excluded.
type Pattern struct {
	Prefix string

	// Excluded holds the cleaned prefix-relative names, in declared order.
	Excluded []string

	include *regexp.Regexp
	exclude *regexp.Regexp // nil when nothing is excluded
}

// CompilePattern builds the matching expression for a group.
//
// Exclusion entries may be prefix-relative ("a.src") or carry the prefix
// ("basics/a.src"). They match exact names only, so excluding "a.src"
// leaves "a-extended.src" in place. A group without exclusions gets no
// exclusion clause at all.
func CompilePattern(prefix string, exclude []string) (*Pattern, error) {
	prefix, err := cleanPath(prefix)
	if err != nil {
		return nil, err
	}

	p := &Pattern{Prefix: prefix}
	if prefix == "." {
		p.include = regexp.MustCompile(`^.+$`)
	} else {
		p.include = regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `/.+$`)
	}

	if len(exclude) == 0 {
		return p, nil
	}

	seen := make(map[string]bool, len(exclude))
	alternatives := make([]string, 0, len(exclude))
	for _, entry := range exclude {
		name, err := exclusionName(prefix, entry)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		p.Excluded = append(p.Excluded, name)
		alternatives = append(alternatives, regexp.QuoteMeta(name))
	}
	p.exclude = regexp.MustCompile(`^(?:` + strings.Join(alternatives, "|") + `)$`)

	return p, nil
}

// exclusionName translates an exclusion entry into a prefix-relative name.
func exclusionName(prefix, entry string) (string, error) {
	if strings.TrimSpace(entry) == "" {
		return "", fmt.Errorf("%w: empty entry", ErrBadExclusion)
	}
	if path.IsAbs(entry) {
		return "", fmt.Errorf("%w: %q is absolute", ErrBadExclusion, entry)
	}

	name := path.Clean(entry)
	if prefix != "." {
		if name == prefix {
			return "", fmt.Errorf("%w: %q excludes the group itself", ErrBadExclusion, entry)
		}
		name = strings.TrimPrefix(name, prefix+"/")
	}
	if name == "." || name == ".." || strings.HasPrefix(name, "../") {
		return "", fmt.Errorf("%w: %q escapes group %q", ErrBadExclusion, entry, prefix)
	}
	return name, nil
}

// cleanPath validates a corpus-relative path and returns its clean form.
// The corpus root itself is ".".
func cleanPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("%w: empty path", ErrBadPath)
	}
	if path.IsAbs(p) {
		return "", fmt.Errorf("%w: %q is absolute", ErrBadPath, p)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes the corpus", ErrBadPath, p)
	}
	return clean, nil
}

// Rel returns the prefix-relative name of a corpus path, and whether the
// path lies under the prefix at all.
func (p *Pattern) Rel(name string) (string, bool) {
	if !p.include.MatchString(name) {
		return "", false
	}
	if p.Prefix == "." {
		return name, true
	}
	return strings.TrimPrefix(name, p.Prefix+"/"), true
}

// Match reports whether a corpus path belongs to the group.
func (p *Pattern) Match(name string) bool {
	rel, ok := p.Rel(name)
	if !ok {
		return false
	}
	return p.exclude == nil || !p.exclude.MatchString(rel)
}

// String renders the pattern in extglob form, e.g. "basics/**" or
// "basics/!(a.src|b.src)". The corpus root renders without a prefix.
func (p *Pattern) String() string {
	var prefix string
	if p.Prefix != "." {
		prefix = p.Prefix + "/"
	}
	if len(p.Excluded) == 0 {
		return prefix + "**"
	}
	return prefix + "!(" + strings.Join(p.Excluded, "|") + ")"
}
