// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persisted key-value store behind NovaChat.
package storage

import (
	"encoding/json"

	"github.com/jeranaias/novachat/internal/model"
)

// =============================================================================
// TYPED CHAT LAYER
// =============================================================================

// Chats is the typed persistence layer over a Store. It owns the JSON
// serialization of the session catalog and settings; the Store underneath
// only ever sees opaque blobs.
type Chats struct {
	store Store
}

// NewChats wraps a Store with the typed chat layer.
func NewChats(store Store) *Chats {
	return &Chats{store: store}
}

// Store returns the underlying key-value store.
func (c *Chats) Store() Store {
	return c.store
}

// =============================================================================
// HISTORY
// =============================================================================

// LoadHistory reads the persisted session catalog. A missing key or a
// malformed blob both load as an empty catalog; storage corruption is never
// fatal at startup.
func (c *Chats) LoadHistory() []model.Session {
	data, ok, err := c.store.Get(KeyChatHistory)
	if err != nil || !ok {
		return nil
	}

	var sessions []model.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil
	}
	return sessions
}

// SaveHistory writes the full session catalog.
func (c *Chats) SaveHistory(sessions []model.Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return &StoreError{Message: "cannot encode chat history", Cause: err}
	}
	return c.store.Set(KeyChatHistory, data)
}

// ClearHistory removes the history key entirely rather than writing an
// empty array, matching what a "clear history" action leaves behind.
func (c *Chats) ClearHistory() error {
	return c.store.Remove(KeyChatHistory)
}

// =============================================================================
// SETTINGS
// =============================================================================

// LoadSettings reads the persisted settings. Missing or malformed data loads
// as defaults; unknown enum values from other releases are normalized away.
func (c *Chats) LoadSettings() model.Settings {
	settings := model.DefaultSettings()

	data, ok, err := c.store.Get(KeySettings)
	if err != nil || !ok {
		return settings
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return model.DefaultSettings()
	}

	settings.Normalize()
	return settings
}

// SaveSettings writes the settings.
func (c *Chats) SaveSettings(settings model.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return &StoreError{Message: "cannot encode settings", Cause: err}
	}
	return c.store.Set(KeySettings, data)
}
