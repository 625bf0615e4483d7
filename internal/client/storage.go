package client

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// CredentialStore persists the single credential slot. It is the durable
// analog of the browser's local storage: one token, overwritten on login,
// deleted on logout.
type CredentialStore struct {
	db *sql.DB
}

// OpenCredentialStore prepares a SQLite database at the given path and
// ensures the schema exists.
func OpenCredentialStore(path string) (*CredentialStore, error) {
	if path == "" {
		return nil, errors.New("state path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS credential (
		slot INTEGER PRIMARY KEY CHECK (slot = 0),
		token TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &CredentialStore{db: db}, nil
}

// Token returns the persisted credential, or "" when the slot is empty.
func (s *CredentialStore) Token() (string, error) {
	var token string
	err := s.db.QueryRow(`SELECT token FROM credential WHERE slot = 0`).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	return token, nil
}

// Save overwrites the credential slot.
func (s *CredentialStore) Save(token string) error {
	_, err := s.db.Exec(`INSERT INTO credential (slot, token) VALUES (0, ?)
		ON CONFLICT(slot) DO UPDATE SET token = excluded.token`, token)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Clear empties the credential slot. Clearing an empty slot is a no-op.
func (s *CredentialStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM credential WHERE slot = 0`); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *CredentialStore) Close() error {
	return s.db.Close()
}
