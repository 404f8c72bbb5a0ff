// Package parser defines the uniform contract through which the harness
// calls the parsers it compares.
//
// Every parser, whatever its native error behaviour, is seen as a Parser
// returning an Outcome: a tree on success or an ErrorDescriptor on
// rejection, never both and never a panic. Three adapters are provided:
//
//   - Func wraps an in-process Go parse function
//   - Exec runs an external process speaking a small JSON envelope on
//     stdout (typically a script around a parser written in another
//     language)
//   - Recorded replays outcomes captured earlier with Record, keyed by the
//     source text and options
//
// Invoke is the harness-side entry point. It turns anything escaping an
// adapter into an Outcome.
package parser
