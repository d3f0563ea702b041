// Package repositories implements SQLite persistence for the mood history.
//
// [MoodRepository] implements models.Repository for [models.MoodEntry] and doubles as the detection
// session's recorder. Entries are soft-deleted via deleted_at and excluded from queries by default.
//
// Sequence numbers provide stable, human-readable ordering (e.g. mood #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
