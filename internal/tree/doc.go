// Package tree provides the JSON-shaped value model shared by every other
// package in parity.
//
// A tree is whatever encoding/json produces when decoding into an interface:
// nil, bool, float64, string, []any and map[string]any. Parser adapters
// convert their native output into this shape so that both sides of a
// comparison are built from the same Go types.
//
// This package imports nothing internal. Normalization, comparison and
// storage all build on it.
//
// Key constraints:
//   - Numbers are float64 after Decode/FromGo; IsNumeric also accepts the
//     other Go numeric kinds and json.Number for trees built by hand
//   - Clone is the only way other packages obtain a mutable copy
//   - MarshalCanonical (RFC 8785) is the only serialization used for
//     hashing and golden snapshots
package tree
