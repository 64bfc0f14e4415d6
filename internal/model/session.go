// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions, messages,
// and user settings.
package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// TitleMaxRunes is the maximum length of an auto-generated session title.
const TitleMaxRunes = 30

// DefaultTitle is used when a session has no user message to derive a title from.
const DefaultTitle = "New Chat"

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is one persisted conversation. Timestamp is the last-modified time
// and drives the descending sort order of any session list.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSessionID generates an opaque unique session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

// TitleFromMessages derives a session title from the first user message:
// the first TitleMaxRunes characters, rune-safe, or DefaultTitle when no
// user message exists.
func TitleFromMessages(messages []Message) string {
	for i := range messages {
		if messages[i].Role == RoleUser && messages[i].Content != "" {
			return messages[i].Preview(TitleMaxRunes)
		}
	}
	return DefaultTitle
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.Messages = CloneMessages(s.Messages)
	return out
}

// CloneMessages returns a copy of a message slice. Attachments are copied
// too, so mutations on the clone never leak back.
func CloneMessages(messages []Message) []Message {
	if messages == nil {
		return nil
	}
	out := make([]Message, len(messages))
	copy(out, messages)
	for i := range out {
		if out[i].Attachment != nil {
			att := *out[i].Attachment
			out[i].Attachment = &att
		}
	}
	return out
}

// =============================================================================
// CATALOG TYPE
// =============================================================================

// Catalog is the set of persisted sessions, unique by ID. The zero value is
// an empty catalog ready for use.
type Catalog struct {
	sessions []Session
}

// NewCatalog builds a catalog from a session slice, keeping the last
// occurrence of any duplicated ID.
func NewCatalog(sessions []Session) *Catalog {
	c := &Catalog{}
	for _, s := range sessions {
		c.Upsert(s)
	}
	return c
}

// Len returns the number of sessions in the catalog.
func (c *Catalog) Len() int {
	return len(c.sessions)
}

// Get returns the session with the given ID, or false when absent.
func (c *Catalog) Get(id string) (Session, bool) {
	for i := range c.sessions {
		if c.sessions[i].ID == id {
			return c.sessions[i].Clone(), true
		}
	}
	return Session{}, false
}

// Contains reports whether a session with the given ID exists.
func (c *Catalog) Contains(id string) bool {
	for i := range c.sessions {
		if c.sessions[i].ID == id {
			return true
		}
	}
	return false
}

// Upsert inserts the session or replaces the existing one with the same ID.
func (c *Catalog) Upsert(s Session) {
	for i := range c.sessions {
		if c.sessions[i].ID == s.ID {
			c.sessions[i] = s.Clone()
			return
		}
	}
	c.sessions = append(c.sessions, s.Clone())
}

// Remove deletes the session with the given ID. Returns true when a session
// was actually removed.
func (c *Catalog) Remove(id string) bool {
	for i := range c.sessions {
		if c.sessions[i].ID == id {
			c.sessions = append(c.sessions[:i], c.sessions[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every session.
func (c *Catalog) Clear() {
	c.sessions = nil
}

// Sorted returns the sessions ordered by timestamp, most recent first.
func (c *Catalog) Sorted() []Session {
	out := make([]Session, 0, len(c.sessions))
	for i := range c.sessions {
		out = append(out, c.sessions[i].Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// MostRecent returns the session with the maximum timestamp, or false when
// the catalog is empty.
func (c *Catalog) MostRecent() (Session, bool) {
	if len(c.sessions) == 0 {
		return Session{}, false
	}
	best := 0
	for i := 1; i < len(c.sessions); i++ {
		if c.sessions[i].Timestamp.After(c.sessions[best].Timestamp) {
			best = i
		}
	}
	return c.sessions[best].Clone(), true
}
