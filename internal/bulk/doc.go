// Package bulk implements the resumable batch-fetch loop.
//
// # Batch layout
//
// Each Nikaya's pages are persisted as JSON batch files under its own
// directory. Batch spans are fixed and aligned to the start of the
// Nikaya's ID range: with batch size B, file N always covers IDs
// [start+(N-1)*B, min(start+N*B-1, end)] regardless of where a run
// started. Fixed spans make resumption deterministic and let the verify
// command check coverage from file names alone.
//
// # Resumability
//
// A batch file is written atomically (temp file + rename) only once every
// ID in its span has been attempted, and the database progress marker is
// advanced only after the rename. "Completed work" therefore means "IDs
// covered by a persisted batch file": a crash mid-span abandons at most
// one partial batch, which is re-fetched from its first ID on the next
// run. IDs covered by a persisted batch are never fetched again.
//
// The resume point is the maximum of the database marker and what the
// on-disk files show (CompletedThrough), so deleting the database does not
// lose progress and deleting batch files marks those spans for re-fetch
// only if the database is also gone.
package bulk
