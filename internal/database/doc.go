// Package database provides SQLite-based persistence for fetch history
// and per-Nikaya progress markers.
//
// The fetch log records every attempted page (successes and failures) for
// auditing and later re-fetch tooling. The progress table holds the single
// piece of durable state the resume logic needs: the last sutta ID covered
// by a persisted batch, per Nikaya.
//
// We use modernc.org/sqlite (pure Go) so the tool builds without cgo.
package database
