package tree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// MarshalCanonical produces RFC 8785 canonical JSON for a tree.
//
// Object keys are sorted by UTF-16 code units, numbers use the ECMAScript
// shortest round-trip form and no HTML escaping is applied. Two trees that
// compare equal always produce identical bytes, which is what golden
// snapshots and content hashes rely on.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal canonical: %w", err)
	}

	out, err := jsoncanonicalizer.Transform(bytes.TrimRight(buf.Bytes(), "\n"))
	if err != nil {
		return nil, fmt.Errorf("marshal canonical: %w", err)
	}
	return out, nil
}
