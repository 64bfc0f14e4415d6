// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persisted key-value store behind NovaChat.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SQLITE STORE
// =============================================================================

// DBStore persists keys in a single-file SQLite database. It implements the
// same Store contract as FileStore for users who prefer one database file
// over loose JSON files.
type DBStore struct {
	db *sql.DB
}

// schema is the kv table holding one row per storage key.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// OpenDBStore opens (or creates) the SQLite store at the given path.
func OpenDBStore(path string) (*DBStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &StoreError{Message: "cannot create data directory", Cause: err}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Message: "cannot open database", Cause: err}
	}

	// Single writer: the controller serializes all mutations anyway, and a
	// single connection avoids SQLITE_BUSY between Set and Remove.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StoreError{Message: "cannot initialize schema", Cause: err}
	}

	return &DBStore{db: db}, nil
}

// Get returns the value stored for key, or false when no row exists.
func (s *DBStore) Get(key string) ([]byte, bool, error) {
	if s.db == nil {
		return nil, false, ErrClosed
	}

	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &StoreError{Message: "read failed for key " + key, Cause: err}
	}
	return value, true, nil
}

// Set writes the value for key, replacing any previous row.
func (s *DBStore) Set(key string, value []byte) error {
	if s.db == nil {
		return ErrClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return &StoreError{Message: "write failed for key " + key, Cause: err}
	}
	return nil
}

// Remove deletes the row for key. Absent keys are a no-op.
func (s *DBStore) Remove(key string) error {
	if s.db == nil {
		return ErrClosed
	}

	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return &StoreError{Message: "remove failed for key " + key, Cause: err}
	}
	return nil
}

// Close closes the underlying database.
func (s *DBStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
