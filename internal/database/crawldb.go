package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// dbFileName is the SQLite database file name inside the data directory.
const dbFileName = "tipitakafetch.db"

// CrawlDB provides SQLite-based storage for fetch records and progress
// markers. It manages connection pooling and provides CRUD methods.
//
// Design decision: one database file for all Nikayas rather than one per
// division. This keeps cross-division queries (status, totals) simple and
// makes backup a single-file copy.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned; status-style commands use this to avoid creating empty
// databases.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY churn from the sequential fetch loop.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Fetch records store individual page attempts
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nikaya TEXT NOT NULL,
		sutta_id INTEGER NOT NULL,
		url TEXT NOT NULL,
		status_code INTEGER,
		title TEXT,
		hash TEXT,
		valid INTEGER DEFAULT 0,
		error TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(nikaya, sutta_id)
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_nikaya ON fetches(nikaya);
	CREATE INDEX IF NOT EXISTS idx_fetches_sutta ON fetches(sutta_id);
	CREATE INDEX IF NOT EXISTS idx_fetches_timestamp ON fetches(timestamp);

	-- Progress markers: last sutta ID covered by a persisted batch
	CREATE TABLE IF NOT EXISTS progress (
		nikaya TEXT PRIMARY KEY,
		last_completed_id INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// FetchRecord represents one attempted page fetch.
type FetchRecord struct {
	ID         int64
	Nikaya     string
	SuttaID    int
	URL        string
	StatusCode int
	Title      string
	Hash       string
	Valid      bool
	Error      string
	Timestamp  time.Time
}

// RecordFetch inserts or updates a fetch record.
// Uses UPSERT so a re-fetched span simply refreshes its rows.
func (cdb *CrawlDB) RecordFetch(ctx context.Context, record *FetchRecord) error {
	query := `
	INSERT INTO fetches (nikaya, sutta_id, url, status_code, title, hash, valid, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(nikaya, sutta_id) DO UPDATE SET
		url = excluded.url,
		status_code = excluded.status_code,
		title = excluded.title,
		hash = excluded.hash,
		valid = excluded.valid,
		error = excluded.error,
		timestamp = CURRENT_TIMESTAMP
	`

	valid := 0
	if record.Valid {
		valid = 1
	}

	_, err := cdb.db.ExecContext(ctx, query,
		record.Nikaya,
		record.SuttaID,
		record.URL,
		record.StatusCode,
		record.Title,
		record.Hash,
		valid,
		record.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record fetch: %w", err)
	}

	return nil
}

// GetFetch retrieves the fetch record for one sutta ID.
// Returns nil without error when no record exists.
func (cdb *CrawlDB) GetFetch(ctx context.Context, nikaya string, suttaID int) (*FetchRecord, error) {
	query := `
	SELECT id, nikaya, sutta_id, url, status_code, title, hash, valid, error, timestamp
	FROM fetches
	WHERE nikaya = ? AND sutta_id = ?
	`

	var record FetchRecord
	var valid int
	var timestamp string

	err := cdb.db.QueryRowContext(ctx, query, nikaya, suttaID).Scan(
		&record.ID,
		&record.Nikaya,
		&record.SuttaID,
		&record.URL,
		&record.StatusCode,
		&record.Title,
		&record.Hash,
		&valid,
		&record.Error,
		&timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fetch record: %w", err)
	}

	record.Valid = valid != 0
	record.Timestamp = parseTimestamp(timestamp)

	return &record, nil
}

// Progress returns the last completed sutta ID for a Nikaya.
// Returns 0 when no progress has been recorded.
func (cdb *CrawlDB) Progress(ctx context.Context, nikaya string) (int, error) {
	query := `SELECT last_completed_id FROM progress WHERE nikaya = ?`

	var last int
	err := cdb.db.QueryRowContext(ctx, query, nikaya).Scan(&last)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get progress: %w", err)
	}

	return last, nil
}

// SetProgress records the last completed sutta ID for a Nikaya.
// The marker is monotonic: attempts to lower it are ignored, so a
// concurrent or repeated run can never roll progress backwards.
func (cdb *CrawlDB) SetProgress(ctx context.Context, nikaya string, lastCompletedID int) error {
	query := `
	INSERT INTO progress (nikaya, last_completed_id, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(nikaya) DO UPDATE SET
		last_completed_id = excluded.last_completed_id,
		updated_at = CURRENT_TIMESTAMP
	WHERE excluded.last_completed_id > progress.last_completed_id
	`

	_, err := cdb.db.ExecContext(ctx, query, nikaya, lastCompletedID)
	if err != nil {
		return fmt.Errorf("failed to set progress: %w", err)
	}

	return nil
}

// ResetProgress removes the progress marker for a Nikaya.
// Fetch records are kept; only the resume point is cleared.
func (cdb *CrawlDB) ResetProgress(ctx context.Context, nikaya string) error {
	_, err := cdb.db.ExecContext(ctx, `DELETE FROM progress WHERE nikaya = ?`, nikaya)
	if err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	return nil
}

// FetchCounts summarises the fetch log for one Nikaya.
type FetchCounts struct {
	// Fetched is the number of pages fetched without error.
	Fetched int

	// Failed is the number of IDs recorded with an error.
	Failed int

	// Invalid is the number of fetched pages flagged as non-content.
	Invalid int
}

// CountFetches returns fetch log counts for a Nikaya.
func (cdb *CrawlDB) CountFetches(ctx context.Context, nikaya string) (FetchCounts, error) {
	query := `
	SELECT
		COUNT(CASE WHEN error = '' THEN 1 END),
		COUNT(CASE WHEN error != '' THEN 1 END),
		COUNT(CASE WHEN error = '' AND valid = 0 THEN 1 END)
	FROM fetches
	WHERE nikaya = ?
	`

	var counts FetchCounts
	err := cdb.db.QueryRowContext(ctx, query, nikaya).Scan(&counts.Fetched, &counts.Failed, &counts.Invalid)
	if err != nil {
		return FetchCounts{}, fmt.Errorf("failed to count fetches: %w", err)
	}

	return counts, nil
}

// FailedIDs returns the sutta IDs recorded with an error for a Nikaya,
// in ascending order.
func (cdb *CrawlDB) FailedIDs(ctx context.Context, nikaya string) ([]int, error) {
	query := `
	SELECT sutta_id FROM fetches
	WHERE nikaya = ? AND error != ''
	ORDER BY sutta_id
	`

	rows, err := cdb.db.QueryContext(ctx, query, nikaya)
	if err != nil {
		return nil, fmt.Errorf("failed to query failed IDs: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan sutta ID: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ListNikayas returns the Nikaya keys present in the progress table.
func (cdb *CrawlDB) ListNikayas(ctx context.Context) ([]string, error) {
	rows, err := cdb.db.QueryContext(ctx, `SELECT nikaya FROM progress ORDER BY nikaya`)
	if err != nil {
		return nil, fmt.Errorf("failed to list nikayas: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan nikaya: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
