// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persisted key-value store behind NovaChat.
package storage

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is the opaque key-value boundary the controller persists through.
// Values are JSON blobs; the store never inspects them.
type Store interface {
	// Get returns the value for key. The second return is false when the
	// key is absent; absence is not an error.
	Get(key string) ([]byte, bool, error)

	// Set writes the value for key, replacing any previous value.
	Set(key string, value []byte) error

	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Storage keys in use. Kept stable across releases so existing history and
// settings files stay readable.
const (
	KeyChatHistory = "chat-history"
	KeySettings    = "chat-settings"
)

// =============================================================================
// ERRORS
// =============================================================================

// StoreError represents a storage-related error.
// Use errors.Is to compare against the sentinel values below.
type StoreError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = &StoreError{Message: "store is closed"}
