// Package normalize strips parser-specific noise from reference trees.
//
// A Normalizer is configured with a table of Rules, each pairing a field
// name with a predicate over the field's value (Always or Numeric). The
// numeric predicate exists because the same key carries different things
// in different places: "start" is a byte offset on most nodes but a
// {line, column} object inside "loc", and only the offset is noise.
//
// Normalize also unwraps an outer container node to the program it holds,
// so both trees are compared at the same depth, and removes root-level
// span fields. StripRoot applies the root span removal alone and is used
// on candidate trees.
//
// Normalization works on a private deep copy; callers' trees are never
// modified.
package normalize
