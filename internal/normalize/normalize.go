package normalize

import (
	"github.com/roach88/parity/internal/tree"
)

// Unwrap describes an outer container node some reference parsers put
// around the syntactic root (for example {"type": "File", "program": {...}}).
type Unwrap struct {
	Type  string `json:"type"`
	Field string `json:"field"`
}

// DefaultUnwrap unwraps a File node to its program.
var DefaultUnwrap = &Unwrap{Type: "File", Field: "program"}

// Normalizer projects a reference tree onto the shape the candidate
// produces. The zero value copies trees without changing them; use New
// or Default.
type Normalizer struct {
	rules        map[string][]Predicate
	unwrap       *Unwrap
	rootSpanKeys []string
}

// New creates a normalizer. unwrap may be nil to disable root unwrapping.
func New(rules []Rule, unwrap *Unwrap, rootSpanKeys []string) *Normalizer {
	n := &Normalizer{
		rules:        make(map[string][]Predicate, len(rules)),
		unwrap:       unwrap,
		rootSpanKeys: rootSpanKeys,
	}
	for _, r := range rules {
		n.rules[r.Key] = append(n.rules[r.Key], r.Predicate)
	}
	return n
}

// Default returns a normalizer with DefaultRules, DefaultUnwrap and
// DefaultRootSpanKeys.
func Default() *Normalizer {
	return New(DefaultRules, DefaultUnwrap, DefaultRootSpanKeys)
}

// Normalize returns the normalized form of a reference tree. The input is
// never modified.
//
// Steps, in order:
//  1. unwrap an outer container node to the program it holds
//  2. remove every field a rule matches, at every depth
//  3. strip the root span fields
//
// Normalize is idempotent.
func (n *Normalizer) Normalize(root any) any {
	root = tree.Clone(root)
	root = n.unwrapRoot(root)
	n.strip(root)
	n.stripRoot(root)
	return root
}

// StripRoot returns a copy of root without its root span fields. It is the
// only transformation applied to candidate trees.
func (n *Normalizer) StripRoot(root any) any {
	obj, ok := root.(tree.Object)
	if !ok {
		return root
	}
	out := make(tree.Object, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	n.stripRoot(out)
	return out
}

func (n *Normalizer) unwrapRoot(root any) any {
	if n.unwrap == nil {
		return root
	}
	obj, ok := root.(tree.Object)
	if !ok || obj["type"] != n.unwrap.Type {
		return root
	}
	inner, ok := obj[n.unwrap.Field]
	if !ok {
		return root
	}
	return inner
}

func (n *Normalizer) stripRoot(root any) {
	obj, ok := root.(tree.Object)
	if !ok {
		return
	}
	for _, k := range n.rootSpanKeys {
		delete(obj, k)
	}
}

// strip applies the rule table to v in place. v is always a private clone.
func (n *Normalizer) strip(v any) {
	switch val := v.(type) {
	case tree.Object:
		for key, child := range val {
			if n.removes(key, child) {
				delete(val, key)
			}
		}
		for _, child := range val {
			n.strip(child)
		}
	case tree.Array:
		for _, elem := range val {
			n.strip(elem)
		}
	}
}

func (n *Normalizer) removes(key string, value any) bool {
	for _, p := range n.rules[key] {
		if p.Holds(value) {
			return true
		}
	}
	return false
}
