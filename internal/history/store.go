// Package history keeps a capped record of saved screenshots in a small
// SQLite database, with a thumbnail per entry for listings.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one saved screenshot.
type Entry struct {
	ID        int64
	Path      string
	ThumbPath string
	Width     int
	Height    int
	CreatedAt time.Time
}

// Store is the history database. When the entry count exceeds the cap the
// oldest entries are evicted and their files deleted.
type Store struct {
	db  *sql.DB
	max int
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	path TEXT NOT NULL,
	thumb_path TEXT NOT NULL DEFAULT '',
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_created_at ON entries(created_at);
`

// Open opens or creates the history database at path. A max of 0 disables
// eviction.
func Open(path string, max int) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db, max: max}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Add records a saved screenshot and evicts past the cap.
func (s *Store) Add(e Entry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := s.db.Exec(
		"INSERT INTO entries (path, thumb_path, width, height, created_at) VALUES (?, ?, ?, ?, ?)",
		e.Path, e.ThumbPath, e.Width, e.Height, e.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert history entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert history entry: %w", err)
	}
	if err := s.evict(); err != nil {
		return id, err
	}
	return id, nil
}

// List returns all entries, newest first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(
		"SELECT id, path, thumb_path, width, height, created_at FROM entries ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Path, &e.ThumbPath, &e.Width, &e.Height, &created); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove deletes one entry and its files.
func (s *Store) Remove(id int64) error {
	var e Entry
	err := s.db.QueryRow("SELECT path, thumb_path FROM entries WHERE id = ?", id).
		Scan(&e.Path, &e.ThumbPath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find history entry: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM entries WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	removeFiles(e)
	return nil
}

// Clear deletes every entry and the files they point to.
func (s *Store) Clear() error {
	entries, err := s.List()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	for _, e := range entries {
		removeFiles(e)
	}
	return nil
}

// Count returns the number of recorded entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

// evict removes the oldest entries until the cap holds, deleting their
// files.
func (s *Store) evict() error {
	if s.max <= 0 {
		return nil
	}
	n, err := s.Count()
	if err != nil {
		return err
	}
	if n <= s.max {
		return nil
	}
	rows, err := s.db.Query(
		"SELECT id, path, thumb_path FROM entries ORDER BY created_at ASC, id ASC LIMIT ?", n-s.max)
	if err != nil {
		return fmt.Errorf("evict history: %w", err)
	}
	defer rows.Close()

	var victims []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Path, &e.ThumbPath); err != nil {
			return fmt.Errorf("evict history: %w", err)
		}
		victims = append(victims, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, e := range victims {
		if _, err := s.db.Exec("DELETE FROM entries WHERE id = ?", e.ID); err != nil {
			return fmt.Errorf("evict history entry %d: %w", e.ID, err)
		}
		removeFiles(e)
	}
	return nil
}

func removeFiles(e Entry) {
	for _, path := range []string{e.Path, e.ThumbPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "remove %s: %v\n", path, err)
		}
	}
}
