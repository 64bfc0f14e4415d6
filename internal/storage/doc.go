// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persisted key-value store behind NovaChat.
//
// The controller sees a narrow Store interface (Get/Set/Remove) holding
// opaque JSON blobs under two keys: the chat history catalog and the user
// settings. Three implementations exist:
//
//   - FileStore: one JSON file per key, written atomically with fsync
//   - DBStore:   a single-file SQLite database (pure Go driver)
//   - MemStore:  in-memory fake for tests
//
// The typed layer (Chats) owns serialization and treats corrupted data as
// absent: a malformed history blob loads as an empty catalog, malformed
// settings load as defaults. Storage is last-write-wins; a second NovaChat
// instance can observe changes through Watch.
package storage
