// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package overlap persists precomputed overlap indexes in a SQLite
// database, keyed by instrument pair and tolerance. A multi-year scan
// takes minutes of filesystem globbing; the cache makes the default
// one-day-tolerance lookup instant.
package overlap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/heliolab/crosscal/internal/matching"
	"github.com/heliolab/crosscal/pkg/types"
)

const dbFile = "overlap.db"

const dayLayout = "2006-01-02"

// Store manages the overlap cache database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the overlap cache at dir/overlap.db, creating
// the schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			instrument1 TEXT NOT NULL,
			instrument2 TEXT NOT NULL,
			tolerance_days INTEGER NOT NULL,
			scanned_at TEXT NOT NULL,
			UNIQUE(instrument1, instrument2, tolerance_days)
		)`,
		`CREATE TABLE IF NOT EXISTS pairs (
			scan_id INTEGER NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			file1 TEXT NOT NULL,
			file2 TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS matched_dates (
			scan_id INTEGER NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			day TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pairs_scan ON pairs(scan_id)`,
		`CREATE INDEX IF NOT EXISTS idx_dates_scan ON matched_dates(scan_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores the overlap index for the instrument pair and tolerance,
// replacing any previous scan for the same key.
func (s *Store) Save(ctx context.Context, i1, i2 types.Instrument, tolDays int, idx matching.OverlapIndex) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scans WHERE instrument1 = ? AND instrument2 = ? AND tolerance_days = ?`,
		string(i1), string(i2), tolDays,
	); err != nil {
		return fmt.Errorf("deleting previous scan: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO scans (instrument1, instrument2, tolerance_days, scanned_at) VALUES (?, ?, ?, ?)`,
		string(i1), string(i2), tolDays, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting scan: %w", err)
	}
	scanID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading scan id: %w", err)
	}

	pairStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pairs (scan_id, seq, file1, file2) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing pair insert: %w", err)
	}
	defer pairStmt.Close()

	for i, p := range idx.Pairs {
		if _, err := pairStmt.ExecContext(ctx, scanID, i, p.First, p.Second); err != nil {
			return fmt.Errorf("inserting pair %d: %w", i, err)
		}
	}

	dateStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO matched_dates (scan_id, seq, day) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing date insert: %w", err)
	}
	defer dateStmt.Close()

	for i, d := range idx.Dates {
		if _, err := dateStmt.ExecContext(ctx, scanID, i, d.Format(dayLayout)); err != nil {
			return fmt.Errorf("inserting date %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Load returns the cached overlap index for the instrument pair and
// tolerance. The second return value reports whether a cached scan
// exists.
func (s *Store) Load(ctx context.Context, i1, i2 types.Instrument, tolDays int) (matching.OverlapIndex, bool, error) {
	var scanID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM scans WHERE instrument1 = ? AND instrument2 = ? AND tolerance_days = ?`,
		string(i1), string(i2), tolDays,
	).Scan(&scanID)
	if err == sql.ErrNoRows {
		return matching.OverlapIndex{}, false, nil
	}
	if err != nil {
		return matching.OverlapIndex{}, false, fmt.Errorf("looking up scan: %w", err)
	}

	var idx matching.OverlapIndex

	rows, err := s.db.QueryContext(ctx,
		`SELECT file1, file2 FROM pairs WHERE scan_id = ? ORDER BY seq`, scanID)
	if err != nil {
		return matching.OverlapIndex{}, false, fmt.Errorf("querying pairs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p matching.Pair
		if err := rows.Scan(&p.First, &p.Second); err != nil {
			return matching.OverlapIndex{}, false, fmt.Errorf("scanning pair: %w", err)
		}
		idx.Pairs = append(idx.Pairs, p)
	}
	if err := rows.Err(); err != nil {
		return matching.OverlapIndex{}, false, fmt.Errorf("iterating pairs: %w", err)
	}

	dateRows, err := s.db.QueryContext(ctx,
		`SELECT day FROM matched_dates WHERE scan_id = ? ORDER BY seq`, scanID)
	if err != nil {
		return matching.OverlapIndex{}, false, fmt.Errorf("querying dates: %w", err)
	}
	defer dateRows.Close()
	for dateRows.Next() {
		var day string
		if err := dateRows.Scan(&day); err != nil {
			return matching.OverlapIndex{}, false, fmt.Errorf("scanning date: %w", err)
		}
		d, err := time.Parse(dayLayout, day)
		if err != nil {
			return matching.OverlapIndex{}, false, fmt.Errorf("parsing cached date %q: %w", day, err)
		}
		idx.Dates = append(idx.Dates, d)
	}
	if err := dateRows.Err(); err != nil {
		return matching.OverlapIndex{}, false, fmt.Errorf("iterating dates: %w", err)
	}

	return idx, true, nil
}

// Entry describes one cached scan.
type Entry struct {
	Instrument1   types.Instrument
	Instrument2   types.Instrument
	ToleranceDays int
	ScannedAt     time.Time
	PairCount     int
	DateCount     int
}

// List returns a summary of every cached scan.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.instrument1, s.instrument2, s.tolerance_days, s.scanned_at,
			(SELECT COUNT(*) FROM pairs p WHERE p.scan_id = s.id),
			(SELECT COUNT(*) FROM matched_dates d WHERE d.scan_id = s.id)
		FROM scans s
		ORDER BY s.instrument1, s.instrument2, s.tolerance_days`)
	if err != nil {
		return nil, fmt.Errorf("querying scans: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var i1, i2, scannedAt string
		if err := rows.Scan(&i1, &i2, &e.ToleranceDays, &scannedAt, &e.PairCount, &e.DateCount); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Instrument1 = types.Instrument(i1)
		e.Instrument2 = types.Instrument(i2)
		if t, err := time.Parse(time.RFC3339, scannedAt); err == nil {
			e.ScannedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
