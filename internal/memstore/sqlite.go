package memstore

import (
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"
)

// SchemaVersion is the current database layout.
const SchemaVersion = "1"

// scalarSlot is the row in the memory table holding the scalar memory.
const scalarSlot = -1

// SQLite is a SQLite-backed store.
// Slots are stored sparsely; only non-zero values have a row.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens or creates the database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS memory (
			slot INTEGER PRIMARY KEY,
			value REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS memory_stack (
			pos INTEGER PRIMARY KEY,
			value REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}
	version, err := s.metadata(db, "schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}
	switch version {
	case "":
		if err := s.setMetadata(db, "schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
	default:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}
	return s, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func (s *SQLite) metadata(q execer, key string) (string, error) {
	var value string
	err := q.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *SQLite) setMetadata(q execer, key, value string) error {
	_, err := q.Exec("INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)", key, value)
	return err
}

// Load reads the stored memory.
func (s *SQLite) Load() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return Snapshot{}, ErrClosed
	}

	var snap Snapshot
	count, err := s.metadata(s.db, "slot_count")
	if err != nil {
		return snap, err
	}
	if count != "" {
		n, err := strconv.Atoi(count)
		if err != nil || n < 0 {
			return snap, fmt.Errorf("bad slot_count %q", count)
		}
		snap.Slots = make([]float64, n)
	}

	rows, err := s.db.Query("SELECT slot, value FROM memory")
	if err != nil {
		return snap, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			slot  int
			value float64
		)
		if err := rows.Scan(&slot, &value); err != nil {
			return snap, err
		}
		switch {
		case slot == scalarSlot:
			snap.Memory = value
		case slot >= 0 && slot < len(snap.Slots):
			snap.Slots[slot] = value
		}
	}
	if err := rows.Err(); err != nil {
		return snap, err
	}

	stackRows, err := s.db.Query("SELECT value FROM memory_stack ORDER BY pos")
	if err != nil {
		return snap, err
	}
	defer stackRows.Close()
	for stackRows.Next() {
		var value float64
		if err := stackRows.Scan(&value); err != nil {
			return snap, err
		}
		snap.Stack = append(snap.Stack, value)
	}
	return snap, stackRows.Err()
}

// Save replaces the stored memory in a single transaction.
func (s *SQLite) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM memory"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM memory_stack"); err != nil {
		return err
	}
	if snap.Memory != 0 {
		if _, err := tx.Exec("INSERT INTO memory (slot, value) VALUES (?, ?)", scalarSlot, snap.Memory); err != nil {
			return err
		}
	}
	for i, v := range snap.Slots {
		if v == 0 {
			continue
		}
		if _, err := tx.Exec("INSERT INTO memory (slot, value) VALUES (?, ?)", i, v); err != nil {
			return err
		}
	}
	for i, v := range snap.Stack {
		if _, err := tx.Exec("INSERT INTO memory_stack (pos, value) VALUES (?, ?)", i, v); err != nil {
			return err
		}
	}
	if err := s.setMetadata(tx, "slot_count", strconv.Itoa(len(snap.Slots))); err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
