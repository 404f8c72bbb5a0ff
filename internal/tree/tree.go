package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Object is a tree node with named fields.
type Object = map[string]any

// Array is an ordered list of tree values.
type Array = []any

// ErrTrailingData is returned by Decode when the input holds more than one
// JSON value.
var ErrTrailingData = errors.New("trailing data after JSON value")

// Decode parses a single JSON document into tree shape.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode tree: %w", ErrTrailingData)
	}
	return v, nil
}

// FromGo converts an arbitrary Go value (structs, typed maps, ints) into
// tree shape by a JSON round trip. Values already in tree shape are
// returned as a deep copy.
func FromGo(v any) (any, error) {
	if isTreeShaped(v) {
		return Clone(v), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert to tree: %w", err)
	}
	return Decode(data)
}

// isTreeShaped reports whether v only contains the types Decode produces.
func isTreeShaped(v any) bool {
	switch val := v.(type) {
	case nil, bool, float64, string:
		return true
	case []any:
		for _, elem := range val {
			if !isTreeShaped(elem) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, elem := range val {
			if !isTreeShaped(elem) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of a tree. Objects and arrays are copied;
// scalars are shared.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Clone(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	default:
		return val
	}
}

// IsNumeric reports whether v is a JSON number.
func IsNumeric(v any) bool {
	switch v.(type) {
	case float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return true
	default:
		return false
	}
}

// Kind names the JSON kind of a tree value, for diagnostics.
func Kind(v any) string {
	switch {
	case v == nil:
		return "null"
	case IsNumeric(v):
		return "number"
	}
	switch v.(type) {
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
