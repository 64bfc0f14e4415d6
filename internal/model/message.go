// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions, messages,
// and user settings.
package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Nova"
	default:
		return string(r)
	}
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// ATTACHMENT TYPE
// =============================================================================

// Attachment is an optional file payload carried by a user message.
// Data holds the full data URI ("data:<mimetype>;base64,<encoded>") exactly
// as the presentation layer produced it.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// IsImage reports whether the attachment can be forwarded to the completion
// service. Only image/* MIME types are forwarded; everything else stays on the
// message for display but is dropped from the outgoing request.
func (a *Attachment) IsImage() bool {
	return strings.HasPrefix(a.MimeType, "image/")
}

// ValidDataURI reports whether Data is a syntactically valid base64 data URI.
func (a *Attachment) ValidDataURI() bool {
	if !strings.HasPrefix(a.Data, "data:") {
		return false
	}
	comma := strings.IndexByte(a.Data, ',')
	if comma < 0 {
		return false
	}
	header := a.Data[len("data:"):comma]
	return strings.HasSuffix(header, ";base64") && len(header) > len(";base64")
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a conversation.
type Message struct {
	Role       Role        `json:"role"`
	Content    string      `json:"content"`
	Timestamp  time.Time   `json:"timestamp"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// NewUserMessage creates a user message, optionally carrying an attachment.
func NewUserMessage(content string, attachment *Attachment) Message {
	return Message{
		Role:       RoleUser,
		Content:    content,
		Timestamp:  time.Now(),
		Attachment: attachment,
	}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// IsEmpty reports whether the message carries neither text nor an attachment.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == "" && m.Attachment == nil
}

// Preview returns a truncated, single-line preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	content = strings.ReplaceAll(content, "\r", "")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
