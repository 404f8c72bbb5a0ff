// Package fixture selects the fixtures a differential run covers.
//
// A run is configured with an ordered list of Spec entries. Each entry is
// either a single fixture path (optionally carrying per-parser options) or
// a group: a directory prefix, a list of excluded names and options shared
// by every surviving fixture. Resolver expands the list into Resolved
// values in declared order.
//
// # Exclusions
//
// Exclusions match exact prefix-relative names. A group with no exclusions
// compiles to an include-only pattern. Malformed exclusions (empty,
// absolute, escaping the prefix, naming the prefix itself) make the whole
// entry resolve to nothing and are reported as error Problems. Exclusions
// that match no file are reported as warnings and otherwise ignored.
//
// # Corpus access
//
// The directory walk sits behind the Finder interface; DirFinder implements
// it over any fs.FS. ReadSource loads fixture text with BOM handling and
// CRLF normalization.
package fixture
