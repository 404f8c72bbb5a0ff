// Package harness runs differential parser tests.
//
// A Harness resolves a fixture list against a corpus, feeds every fixture's
// source to a reference and a candidate parser, and classifies each pair of
// outcomes with the comparator. The result is a Report with exactly one
// verdict per resolved fixture, in declared order.
//
// # Pipeline
//
//	specs ──resolve──▶ fixtures ──read──▶ source ──┬─ reference ─┐
//	                                               └─ candidate ─┴─compare──▶ verdict
//
// Each parser only ever sees the overrides keyed by its own name. A fixture
// that cannot be read becomes a fixture-error verdict; resolution problems
// are carried on the report and never stop the run.
//
// # Concurrency
//
// Fixtures are independent. With Config.Jobs > 1 they run on a bounded
// errgroup and each verdict is written to its fixture's slot, so the
// report is identical to a sequential run.
//
// # Golden Reports
//
// AssertGolden snapshots a report (names, cases, messages and the summary)
// as canonical JSON under testdata/golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
