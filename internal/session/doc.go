// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session controller.
//
// The Controller is the single owner of the in-memory conversation state:
// the active message list, the catalog of saved sessions, and the user
// settings. The persisted copy behind internal/storage is treated as a cache
// the controller refreshes after every mutation and reads once at startup.
//
// One suspending operation exists: Send, which calls the completion service.
// A second Send while one is in flight is rejected with ErrBusy rather than
// queued or raced. Every other operation is a synchronous state transition
// plus a persistence write.
package session
