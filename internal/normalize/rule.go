package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/parity/internal/tree"
)

// Predicate decides, from a field's current value, whether a rule removes it.
type Predicate int

const (
	// Always removes the field whatever it holds.
	Always Predicate = iota
	// Numeric removes the field only when it holds a number. A field of the
	// same name holding an object (e.g. a {line, column} position) is kept.
	Numeric
)

// Holds reports whether the predicate matches value.
func (p Predicate) Holds(value any) bool {
	switch p {
	case Always:
		return true
	case Numeric:
		return tree.IsNumeric(value)
	default:
		return false
	}
}

func (p Predicate) String() string {
	switch p {
	case Always:
		return "always"
	case Numeric:
		return "numeric"
	default:
		return fmt.Sprintf("Predicate(%d)", int(p))
	}
}

// ParsePredicate maps a configuration name to a Predicate.
func ParsePredicate(name string) (Predicate, error) {
	switch name {
	case "", "always":
		return Always, nil
	case "numeric":
		return Numeric, nil
	default:
		return 0, fmt.Errorf("unknown predicate %q (want always or numeric)", name)
	}
}

// MarshalJSON writes the predicate by name.
func (p Predicate) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON reads a predicate name.
func (p *Predicate) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParsePredicate(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Rule removes any object field named Key when Predicate holds for its value.
type Rule struct {
	Key       string    `json:"key"`
	Predicate Predicate `json:"when"`
}

// DefaultRules strips the fields reference parsers are known to add that
// carry no syntactic meaning: byte offsets, attached comments, token
// streams, recovery errors and auxiliary annotations.
var DefaultRules = []Rule{
	{Key: "start", Predicate: Numeric},
	{Key: "end", Predicate: Numeric},
	{Key: "comments", Predicate: Always},
	{Key: "leadingComments", Predicate: Always},
	{Key: "trailingComments", Predicate: Always},
	{Key: "innerComments", Predicate: Always},
	{Key: "extra", Predicate: Always},
	{Key: "errors", Predicate: Always},
	{Key: "tokens", Predicate: Always},
	{Key: "identifierName", Predicate: Always},
	{Key: "filename", Predicate: Always},
}

// DefaultRootSpanKeys are the span fields removed from the root of both
// trees. Parsers disagree on whether the root span covers leading trivia
// and the trailing newline.
var DefaultRootSpanKeys = []string{"loc", "range"}
