// Package session keeps the reader's navigation history in sqlite: every
// visited location plus the last one, so a new session can pick up where the
// previous one stopped. Article content is never stored.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const metaLastLocation = "last_location"

type Visit struct {
	ID        int64
	Location  string
	VisitedAt time.Time
}

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
	now     func() time.Time
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB, now: time.Now}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			location   TEXT NOT NULL,
			visited_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	return errors.Join(errs...)
}

// RecordVisit appends location to the history and makes it the last
// location.
func (s *Store) RecordVisit(location string) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO visits (location, visited_at) VALUES (?, ?)`,
		location, s.now().Unix()); err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaLastLocation, location); err != nil {
		return fmt.Errorf("saving last location: %w", err)
	}
	return tx.Commit()
}

// LastLocation returns the most recently recorded location, if any.
func (s *Store) LastLocation() (string, bool) {
	var value string
	err := s.readDB.QueryRow("SELECT value FROM meta WHERE key = ?", metaLastLocation).Scan(&value)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

// Recent returns up to limit visits, newest first.
func (s *Store) Recent(limit int) ([]Visit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.readDB.Query(
		"SELECT id, location, visited_at FROM visits ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var (
			v  Visit
			at int64
		)
		if err := rows.Scan(&v.ID, &v.Location, &at); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		v.VisitedAt = time.Unix(at, 0)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Prune deletes visits older than olderThan and reclaims the space. The last
// location is kept.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).Unix()
	res, err := s.writeDB.Exec("DELETE FROM visits WHERE visited_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting visits: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := s.writeDB.Exec("VACUUM"); err != nil {
			return n, fmt.Errorf("vacuum: %w", err)
		}
	}
	return n, nil
}

// Stats returns the number of recorded visits and the size of the database
// file at dbPath.
func (s *Store) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := s.readDB.QueryRow("SELECT COUNT(*) FROM visits").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting visits: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, fmt.Errorf("stat db: %w", err)
	}
	return count, info.Size(), nil
}
