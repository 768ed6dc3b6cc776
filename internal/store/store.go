// Package store persists client-side state scoped to this device: the
// auth token and the pairing payload the browser extension reads. Both
// are cleared on logout.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/commentify/commentify/internal/api"
)

// ErrNotFound indicates the requested record does not exist
var ErrNotFound = errors.New("not found")

// Store wraps the SQLite database holding local client state
type Store struct {
	conn *sql.DB
}

// DefaultPath returns the per-user database location
// (~/.commentify/state.db).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".commentify", "state.db"), nil
}

// Open creates or opens the state database at path, creating parent
// directories as needed. WAL mode is enabled and the schema is migrated
// on open.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// migrate creates or updates the schema
func (s *Store) migrate() error {
	schema := `
-- Credentials table: single-row key/value store for the auth token
CREATE TABLE IF NOT EXISTS credentials (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);

-- Pairing table: the payload the browser extension reads. At most one
-- row; replaced wholesale on each pairing attempt.
CREATE TABLE IF NOT EXISTS pairing (
    id         INTEGER PRIMARY KEY CHECK (id = 1),
    user_id    TEXT NOT NULL,
    user_email TEXT NOT NULL,
    auth_token TEXT NOT NULL,
    nonce      TEXT NOT NULL,
    created_at DATETIME NOT NULL
);
`
	_, err := s.conn.Exec(schema)
	return err
}

const tokenKey = "auth_token"

// SaveToken stores the auth token, replacing any prior value
func (s *Store) SaveToken(token string) error {
	_, err := s.conn.Exec(
		`INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		tokenKey, token, time.Now().UTC(),
	)
	return err
}

// Token returns the stored auth token, or ErrNotFound
func (s *Store) Token() (string, error) {
	var token string
	err := s.conn.QueryRow(
		`SELECT value FROM credentials WHERE key = ?`, tokenKey,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// ClearToken removes the stored auth token. Clearing an absent token is
// not an error.
func (s *Store) ClearToken() error {
	_, err := s.conn.Exec(`DELETE FROM credentials WHERE key = ?`, tokenKey)
	return err
}

// SavePairing writes the pairing payload, replacing any prior one.
// Written by Connect; the extension is the only reader.
func (s *Store) SavePairing(payload api.PairingPayload) error {
	_, err := s.conn.Exec(
		`INSERT INTO pairing (id, user_id, user_email, auth_token, nonce, created_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     user_id = excluded.user_id,
		     user_email = excluded.user_email,
		     auth_token = excluded.auth_token,
		     nonce = excluded.nonce,
		     created_at = excluded.created_at`,
		payload.UserID, payload.UserEmail, payload.AuthToken, payload.Nonce, payload.CreatedAt.UTC(),
	)
	return err
}

// Pairing returns the stored pairing payload, or ErrNotFound
func (s *Store) Pairing() (api.PairingPayload, error) {
	var p api.PairingPayload
	err := s.conn.QueryRow(
		`SELECT user_id, user_email, auth_token, nonce, created_at FROM pairing WHERE id = 1`,
	).Scan(&p.UserID, &p.UserEmail, &p.AuthToken, &p.Nonce, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return api.PairingPayload{}, ErrNotFound
	}
	if err != nil {
		return api.PairingPayload{}, err
	}
	return p, nil
}

// ClearPairing removes the pairing payload. Clearing an absent payload
// is not an error.
func (s *Store) ClearPairing() error {
	_, err := s.conn.Exec(`DELETE FROM pairing WHERE id = 1`)
	return err
}
