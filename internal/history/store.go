// Package history persists processing history and user preferences in a
// local SQLite database. The pipeline only ever writes history; nothing in
// the core reads it back.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/merxbit/statement-ledger/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id           TEXT PRIMARY KEY,
	file_name    TEXT NOT NULL,
	processed_at TEXT NOT NULL,
	summary      TEXT NOT NULL,
	preview      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_processed_at ON history(processed_at DESC);

CREATE TABLE IF NOT EXISTS preferences (
	id   INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL
);
`

// Store is a SQLite-backed history and preferences store.
type Store struct {
	db        *sql.DB
	retention int
}

// Open opens (creating if needed) the history database at dbPath, keeping at
// most retention runs.
func Open(dbPath string, retention int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{db: db, retention: retention}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends a run to history and trims the table to the retention
// limit, oldest first.
func (s *Store) Record(item models.HistoryItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.ProcessedAt.IsZero() {
		item.ProcessedAt = time.Now()
	}

	summary, err := json.Marshal(item.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode history summary: %w", err)
	}
	preview, err := json.Marshal(item.Preview)
	if err != nil {
		return fmt.Errorf("failed to encode history preview: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO history (id, file_name, processed_at, summary, preview) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.FileName, item.ProcessedAt.Format(time.RFC3339Nano), string(summary), string(preview),
	); err != nil {
		return fmt.Errorf("failed to insert history item: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY processed_at DESC LIMIT ?
		)`, s.retention,
	); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history transaction: %w", err)
	}
	return nil
}

// List returns all retained runs, most recent first.
func (s *Store) List() ([]models.HistoryItem, error) {
	rows, err := s.db.Query(
		`SELECT id, file_name, processed_at, summary, preview FROM history ORDER BY processed_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var items []models.HistoryItem
	for rows.Next() {
		var item models.HistoryItem
		var processedAt, summary, preview string
		if err := rows.Scan(&item.ID, &item.FileName, &processedAt, &summary, &preview); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if item.ProcessedAt, err = time.Parse(time.RFC3339Nano, processedAt); err != nil {
			return nil, fmt.Errorf("failed to parse history timestamp: %w", err)
		}
		if err := json.Unmarshal([]byte(summary), &item.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode history summary: %w", err)
		}
		if err := json.Unmarshal([]byte(preview), &item.Preview); err != nil {
			return nil, fmt.Errorf("failed to decode history preview: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Delete removes one run by ID.
func (s *Store) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM history WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete history item: %w", err)
	}
	return nil
}

// Clear removes all retained runs.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// SavePreferences replaces the stored user preferences.
func (s *Store) SavePreferences(prefs models.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO preferences (id, data) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		string(data),
	); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// LoadPreferences returns the stored preferences, or the defaults when none
// have been saved yet.
func (s *Store) LoadPreferences() (models.Preferences, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM preferences WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultPreferences(), nil
	}
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to load preferences: %w", err)
	}

	prefs := models.DefaultPreferences()
	if err := json.Unmarshal([]byte(data), &prefs); err != nil {
		return models.Preferences{}, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return prefs, nil
}
