// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions, messages,
// and user settings.
package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// ROLE AND MESSAGE TESTS
// =============================================================================

func TestRoleDisplayName(t *testing.T) {
	if got := RoleUser.DisplayName(); got != "You" {
		t.Errorf("RoleUser.DisplayName() = %q, want %q", got, "You")
	}
	if got := RoleAssistant.DisplayName(); got != "Nova" {
		t.Errorf("RoleAssistant.DisplayName() = %q, want %q", got, "Nova")
	}
}

func TestMessageIsEmpty(t *testing.T) {
	msg := Message{Role: RoleUser, Content: "   \t\n"}
	if !msg.IsEmpty() {
		t.Error("whitespace-only message without attachment should be empty")
	}

	msg.Attachment = &Attachment{Name: "notes.txt", MimeType: "text/plain"}
	if msg.IsEmpty() {
		t.Error("message with attachment should not be empty")
	}
}

func TestMessagePreview(t *testing.T) {
	msg := Message{Role: RoleUser, Content: "line one\nline two"}
	if got := msg.Preview(50); got != "line one line two" {
		t.Errorf("Preview should flatten newlines, got %q", got)
	}

	long := Message{Role: RoleUser, Content: strings.Repeat("x", 100)}
	got := long.Preview(30)
	if len([]rune(got)) != 30 {
		t.Errorf("Preview(30) length = %d, want 30", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated preview should end with ellipsis, got %q", got)
	}

	// Unicode safety: no mid-rune cuts
	uni := Message{Role: RoleUser, Content: strings.Repeat("é", 40)}
	if p := uni.Preview(10); !strings.HasSuffix(p, "...") {
		t.Errorf("unicode preview = %q, want ellipsis suffix", p)
	}
}

// =============================================================================
// ATTACHMENT TESTS
// =============================================================================

func TestAttachmentIsImage(t *testing.T) {
	img := Attachment{MimeType: "image/png"}
	if !img.IsImage() {
		t.Error("image/png should be an image")
	}
	txt := Attachment{MimeType: "text/plain"}
	if txt.IsImage() {
		t.Error("text/plain should not be an image")
	}
}

func TestAttachmentValidDataURI(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"valid png", "data:image/png;base64,iVBORw0KGgo=", true},
		{"valid plain", "data:text/plain;base64,aGVsbG8=", true},
		{"missing prefix", "image/png;base64,AAAA", false},
		{"missing comma", "data:image/png;base64", false},
		{"not base64 encoded", "data:image/png,rawbytes", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Attachment{Data: tt.data}
			if got := a.ValidDataURI(); got != tt.want {
				t.Errorf("ValidDataURI(%q) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestSettingsNormalize(t *testing.T) {
	s := Settings{Tone: "sassy", Theme: "neon", Animation: "confetti"}
	s.Normalize()

	if s.Tone != DefaultTone {
		t.Errorf("unknown tone should normalize to %q, got %q", DefaultTone, s.Tone)
	}
	if s.Theme != DefaultTheme {
		t.Errorf("unknown theme should normalize to %q, got %q", DefaultTheme, s.Theme)
	}
	if s.Animation != DefaultAnimation {
		t.Errorf("unknown animation should normalize to %q, got %q", DefaultAnimation, s.Animation)
	}
}

func TestSettingsNormalizeKeepsValid(t *testing.T) {
	s := Settings{Tone: ToneBrutal, Theme: ThemeRose, Animation: AnimationNone}
	s.Normalize()

	if s.Tone != ToneBrutal || s.Theme != ThemeRose || s.Animation != AnimationNone {
		t.Errorf("valid settings should survive Normalize, got %+v", s)
	}
}

func TestSettingsApply(t *testing.T) {
	s := DefaultSettings()
	tone := ToneHumorous
	s.Apply(SettingsPatch{Tone: &tone})

	if s.Tone != ToneHumorous {
		t.Errorf("Tone = %q, want %q", s.Tone, ToneHumorous)
	}
	if s.Theme != DefaultTheme {
		t.Errorf("unpatched Theme changed: %q", s.Theme)
	}

	// Patching an invalid value normalizes instead of storing it.
	bad := Tone("villain")
	s.Apply(SettingsPatch{Tone: &bad})
	if s.Tone != DefaultTone {
		t.Errorf("invalid patched tone should normalize, got %q", s.Tone)
	}
}

// =============================================================================
// SESSION AND CATALOG TESTS
// =============================================================================

func TestTitleFromMessages(t *testing.T) {
	msgs := []Message{
		NewAssistantMessage("hello there"),
		NewUserMessage("what is the weather like on Europa today?", nil),
	}
	title := TitleFromMessages(msgs)
	if len([]rune(title)) > TitleMaxRunes {
		t.Errorf("title too long: %q", title)
	}
	if !strings.HasPrefix(title, "what is the weather like") {
		t.Errorf("title should come from first user message, got %q", title)
	}

	if got := TitleFromMessages(nil); got != DefaultTitle {
		t.Errorf("empty messages title = %q, want %q", got, DefaultTitle)
	}
}

func TestNewSessionIDUnique(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == "" || a == b {
		t.Errorf("session IDs should be unique and non-empty: %q, %q", a, b)
	}
}

func TestCatalogUpsertReplacesById(t *testing.T) {
	c := NewCatalog(nil)
	c.Upsert(Session{ID: "a", Title: "first", Timestamp: time.Now()})
	c.Upsert(Session{ID: "a", Title: "second", Timestamp: time.Now()})

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	s, ok := c.Get("a")
	if !ok || s.Title != "second" {
		t.Errorf("upsert should replace by ID, got %+v", s)
	}
}

func TestCatalogSortedDescending(t *testing.T) {
	base := time.Now()
	c := NewCatalog([]Session{
		{ID: "old", Timestamp: base.Add(-2 * time.Hour)},
		{ID: "new", Timestamp: base},
		{ID: "mid", Timestamp: base.Add(-1 * time.Hour)},
	})

	sorted := c.Sorted()
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d].ID = %q, want %q", i, sorted[i].ID, id)
		}
	}
}

func TestCatalogMostRecent(t *testing.T) {
	c := NewCatalog(nil)
	if _, ok := c.MostRecent(); ok {
		t.Error("empty catalog should have no most recent session")
	}

	base := time.Now()
	c.Upsert(Session{ID: "a", Timestamp: base.Add(-time.Minute)})
	c.Upsert(Session{ID: "b", Timestamp: base})

	s, ok := c.MostRecent()
	if !ok || s.ID != "b" {
		t.Errorf("MostRecent = %+v, want ID b", s)
	}
}

func TestCatalogRemove(t *testing.T) {
	c := NewCatalog([]Session{{ID: "a"}, {ID: "b"}})
	if !c.Remove("a") {
		t.Error("Remove of existing ID should return true")
	}
	if c.Remove("a") {
		t.Error("Remove of absent ID should return false")
	}
	if c.Contains("a") || !c.Contains("b") {
		t.Error("catalog membership wrong after Remove")
	}
}

func TestSessionCloneIsDeep(t *testing.T) {
	att := &Attachment{Name: "pic.png", MimeType: "image/png", Data: "data:image/png;base64,AA=="}
	s := Session{ID: "a", Messages: []Message{NewUserMessage("hi", att)}}

	clone := s.Clone()
	clone.Messages[0].Content = "changed"
	clone.Messages[0].Attachment.Name = "other.png"

	if s.Messages[0].Content != "hi" {
		t.Error("clone mutation leaked into original content")
	}
	if s.Messages[0].Attachment.Name != "pic.png" {
		t.Error("clone mutation leaked into original attachment")
	}
}
