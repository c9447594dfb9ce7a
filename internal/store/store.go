// Package store archives aggregation runs in a local SQLite database so
// past scans can be listed and compared.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/username/git-overtime-tracker/internal/overtime"
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	author      TEXT NOT NULL,
	source      TEXT NOT NULL,
	days        INTEGER NOT NULL,
	total_min   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS day_overtime (
	scan_id          TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
	date             TEXT NOT NULL,
	before_morning   INTEGER NOT NULL,
	after_morning    INTEGER NOT NULL,
	before_afternoon INTEGER NOT NULL,
	afterwork        INTEGER NOT NULL,
	night            INTEGER NOT NULL,
	saturday         INTEGER NOT NULL,
	sunday           INTEGER NOT NULL,
	total            INTEGER NOT NULL,
	PRIMARY KEY (scan_id, date)
);
`

// Scan is the stored metadata of one archived aggregation run.
type Scan struct {
	ID           string
	CreatedAt    time.Time
	Author       string
	Source       string
	Days         int
	TotalMinutes int
}

// Store wraps the archive database. Not safe for concurrent use; the CLI
// opens it for the duration of one command.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the archive at the given path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun archives one aggregation result and returns the generated run id.
func (s *Store) SaveRun(author, source string, days []overtime.DayOvertime) (string, error) {
	id := uuid.NewString()

	total := 0
	for _, d := range days {
		total += d.Total
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("starting archive transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO scans (id, created_at, author, source, days, total_min) VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), author, source, len(days), total,
	)
	if err != nil {
		return "", fmt.Errorf("inserting scan row: %w", err)
	}

	for _, d := range days {
		_, err = tx.Exec(
			`INSERT INTO day_overtime
				(scan_id, date, before_morning, after_morning, before_afternoon, afterwork, night, saturday, sunday, total)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, d.Date, d.BeforeMorning, d.AfterMorning, d.BeforeAfternoon,
			d.Afterwork, d.Night, d.Saturday, d.Sunday, d.Total,
		)
		if err != nil {
			return "", fmt.Errorf("inserting day row for %s: %w", d.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing archive transaction: %w", err)
	}
	return id, nil
}

// ListRuns returns archived runs, newest first.
func (s *Store) ListRuns() ([]Scan, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, author, source, days, total_min FROM scans ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		var sc Scan
		var createdAt string
		if err := rows.Scan(&sc.ID, &createdAt, &sc.Author, &sc.Source, &sc.Days, &sc.TotalMinutes); err != nil {
			return nil, fmt.Errorf("scanning scan row: %w", err)
		}
		sc.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing scan timestamp %q: %w", createdAt, err)
		}
		scans = append(scans, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scan rows: %w", err)
	}

	return scans, nil
}

// DaysForRun returns the archived per-day breakdown of one run, sorted
// ascending by date.
func (s *Store) DaysForRun(runID string) ([]overtime.DayOvertime, error) {
	rows, err := s.db.Query(
		`SELECT date, before_morning, after_morning, before_afternoon, afterwork, night, saturday, sunday, total
			FROM day_overtime WHERE scan_id = ? ORDER BY date ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying day rows: %w", err)
	}
	defer rows.Close()

	var days []overtime.DayOvertime
	for rows.Next() {
		var d overtime.DayOvertime
		if err := rows.Scan(&d.Date, &d.BeforeMorning, &d.AfterMorning, &d.BeforeAfternoon,
			&d.Afterwork, &d.Night, &d.Saturday, &d.Sunday, &d.Total); err != nil {
			return nil, fmt.Errorf("scanning day row: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating day rows: %w", err)
	}

	return days, nil
}
