// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persisted key-value store behind NovaChat.
package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/novachat/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore persists each key as one JSON file under a base directory.
// Writes go through an atomic rename with fsync, so a crash leaves either
// the old value or the complete new value, never a torn file.
type FileStore struct {
	// BaseDir is the directory holding the key files.
	// Default: ~/.novachat/
	BaseDir string
}

// NewFileStore creates a file store under the default NovaChat data directory.
func NewFileStore() (*FileStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, &StoreError{Message: "cannot resolve home directory", Cause: err}
	}
	return NewFileStoreWithDir(filepath.Join(homeDir, ".novachat"))
}

// NewFileStoreWithDir creates a file store under a custom directory.
func NewFileStoreWithDir(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, &StoreError{Message: "cannot create data directory", Cause: err}
	}
	return &FileStore{BaseDir: baseDir}, nil
}

// Get returns the value stored for key, or false when the key file is absent.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, &StoreError{Message: "read failed for key " + key, Cause: err}
	}
	return data, true, nil
}

// Set writes the value for key.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func (s *FileStore) Set(key string, value []byte) error {
	if err := util.AtomicWriteFile(s.keyPath(key), value, 0644); err != nil {
		return &StoreError{Message: "write failed for key " + key, Cause: err}
	}
	return nil
}

// Remove deletes the key file. Absent keys are a no-op.
func (s *FileStore) Remove(key string) error {
	if err := os.Remove(s.keyPath(key)); err != nil && !os.IsNotExist(err) {
		return &StoreError{Message: "remove failed for key " + key, Cause: err}
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

// keyPath maps a storage key to its file path. Keys are flat identifiers;
// path separators are flattened so a key can never escape the base dir.
func (s *FileStore) keyPath(key string) string {
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	key = strings.ReplaceAll(key, "/", "_")
	return filepath.Join(s.BaseDir, key+".json")
}
