// Package repositories implements SQLite persistence for the upload history.
//
// Key Implementations:
//   - [RunRepository] : one row per upload run, with final counts
//   - [UploadRepository] : per-file outcomes keyed by run
//   - [HistoryRecorder] : adapts both repositories to the upload engine's recorder
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42) independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
