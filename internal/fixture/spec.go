package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Kind tags the variant held by a Spec.
type Kind int

const (
	// KindFixture names a single fixture file.
	KindFixture Kind = iota
	// KindGroup names a directory of fixtures with optional exclusions.
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindFixture:
		return "fixture"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Overrides maps a parser name to the options that parser receives for a
// fixture. Each parser keeps its own option vocabulary; a parser without
// an entry runs with its defaults.
type Overrides map[string]map[string]any

// For returns a copy of the options for the named parser, or nil when the
// parser has no entry.
func (o Overrides) For(name string) map[string]any {
	opts, ok := o[name]
	if !ok || opts == nil {
		return nil
	}
	return maps.Clone(opts)
}

// Spec is one declarative entry of the fixture list.
//
// The list mixes three authoring forms which all decode into a Spec:
//
//	- "basics/simple-var.src"                   # KindFixture, defaults
//	- path: modules/export-default-number.src.js  # KindFixture with options
//	  options: { reference: { sourceType: module } }
//	- group: basics                              # KindGroup
//	  exclude: [a.src, basics/b.src]
//	  options: { candidate: { jsx: true } }
type Spec struct {
	Kind Kind

	// Path is the fixture path for KindFixture and the directory prefix
	// for KindGroup, relative to the corpus root.
	Path string

	// Exclude lists fixture names relative to the prefix (or full paths
	// under it) that a group skips. Only meaningful for KindGroup.
	Exclude []string

	// Options is applied to the fixture, or to every fixture of the group
	// that survives exclusion.
	Options Overrides
}

// File returns a single-fixture spec with default options.
func File(path string) Spec {
	return Spec{Kind: KindFixture, Path: path}
}

// Group returns a group spec over prefix skipping the given names.
func Group(prefix string, exclude ...string) Spec {
	return Spec{Kind: KindGroup, Path: prefix, Exclude: exclude}
}

// WithOptions returns a copy of s carrying the given overrides.
func (s Spec) WithOptions(o Overrides) Spec {
	s.Options = o
	return s
}

// String renders the spec for diagnostics.
func (s Spec) String() string {
	switch s.Kind {
	case KindGroup:
		if len(s.Exclude) == 0 {
			return fmt.Sprintf("group %s", s.Path)
		}
		return fmt.Sprintf("group %s (exclude %d)", s.Path, len(s.Exclude))
	default:
		return s.Path
	}
}

// specJSON is the object form of a spec entry.
type specJSON struct {
	Group   *string   `json:"group,omitempty"`
	Path    *string   `json:"path,omitempty"`
	Exclude []string  `json:"exclude,omitempty"`
	Options Overrides `json:"options,omitempty"`
}

// UnmarshalJSON accepts either a bare string or an object with exactly one
// of "group" or "path".
func (s *Spec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var path string
		if err := json.Unmarshal(data, &path); err != nil {
			return err
		}
		*s = File(path)
		return nil
	}

	var raw specJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("fixture entry: %w", err)
	}

	switch {
	case raw.Group != nil && raw.Path != nil:
		return fmt.Errorf("fixture entry: group and path are mutually exclusive")
	case raw.Group != nil:
		*s = Spec{Kind: KindGroup, Path: *raw.Group, Exclude: raw.Exclude, Options: raw.Options}
	case raw.Path != nil:
		if len(raw.Exclude) > 0 {
			return fmt.Errorf("fixture entry %q: exclude is only valid on groups", *raw.Path)
		}
		*s = Spec{Kind: KindFixture, Path: *raw.Path, Options: raw.Options}
	default:
		return fmt.Errorf("fixture entry: one of group or path is required")
	}
	return nil
}

// MarshalJSON writes the shortest form that decodes back to s.
func (s Spec) MarshalJSON() ([]byte, error) {
	if s.Kind == KindFixture && len(s.Options) == 0 {
		return json.Marshal(s.Path)
	}
	raw := specJSON{Exclude: s.Exclude, Options: s.Options}
	path := s.Path
	if s.Kind == KindGroup {
		raw.Group = &path
	} else {
		raw.Path = &path
	}
	return json.Marshal(raw)
}
