// Package session owns the credential pair and the authorization verdict.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Fixed keys for the persisted entries.
const (
	KeyAccessToken    = "access_token"
	KeyRefreshToken   = "refresh_token"
	KeyOTPRequestedAt = "otp_requested_at"
)

// Keyring is a durable string key-value store backed by SQLite. It holds the
// token pair and the OTP request timestamp, nothing else.
type Keyring struct {
	db *sql.DB
}

// OpenKeyring opens (creating if needed) the keyring database at dbPath.
func OpenKeyring(dbPath string) (*Keyring, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create keyring directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)

	k := &Keyring{db: db}
	if err := k.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate keyring: %w", err)
	}
	return k, nil
}

// Close closes the underlying database.
func (k *Keyring) Close() error {
	return k.db.Close()
}

func (k *Keyring) migrate() error {
	_, err := k.db.Exec(`
	CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

// Get returns the value stored under key, or "" if the key is absent.
func (k *Keyring) Get(key string) (string, error) {
	var value string
	err := k.db.QueryRow(`SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (k *Keyring) Set(key, value string) error {
	_, err := k.db.Exec(
		`INSERT INTO entries (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (k *Keyring) Delete(key string) error {
	if _, err := k.db.Exec(`DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// SaveCredentials persists a freshly-minted token pair.
func (k *Keyring) SaveCredentials(access, refresh string) error {
	if err := k.Set(KeyAccessToken, access); err != nil {
		return err
	}
	return k.Set(KeyRefreshToken, refresh)
}

// AccessToken returns the stored access token, "" if none.
func (k *Keyring) AccessToken() (string, error) {
	return k.Get(KeyAccessToken)
}

// RefreshToken returns the stored refresh token, "" if none.
func (k *Keyring) RefreshToken() (string, error) {
	return k.Get(KeyRefreshToken)
}

// ClearCredentials removes both tokens. This is the only path that destroys
// stored credentials; failed refreshes leave them in place.
func (k *Keyring) ClearCredentials() error {
	if err := k.Delete(KeyAccessToken); err != nil {
		return err
	}
	return k.Delete(KeyRefreshToken)
}
