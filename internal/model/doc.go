// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions, messages,
// and user settings.
//
// The model package is pure state: every operation here is an in-memory
// transition with no I/O. Persistence lives in internal/store, and the
// orchestration that ties the two together lives in internal/session.
//
// Key types:
//   - Message: one turn in a conversation (user or assistant)
//   - Attachment: an optional file payload carried by a user message
//   - Session: one persisted, titled conversation
//   - Catalog: the set of persisted sessions, unique by ID
//   - Settings: user preferences (tone, theme, background animation)
package model
