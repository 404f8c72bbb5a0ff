// Package store provides SQLite-backed history for harness runs.
//
// Each run is stored with its header (parsers, counters, resolution
// problems) and one row per verdict. Verdicts keep their declared fixture
// order (seq), so reading a run back yields exactly the report that was
// printed. Compared trees and error payloads are kept as msgpack blobs and
// come back in tree shape.
//
// Run IDs are UUIDv7 and sort by creation time; tests inject a
// deterministic IDGenerator and Clock.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity (verdicts cascade
//     with their run)
//
// All queries order explicitly; results never depend on insertion order.
package store
