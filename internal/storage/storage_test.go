// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persisted key-value store behind NovaChat.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/novachat/internal/model"
)

// =============================================================================
// STORE CONTRACT TESTS
// =============================================================================

// storeFactories builds each Store implementation against a temp location.
func storeFactories(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStoreWithDir failed: %v", err)
	}

	dbStore, err := OpenDBStore(filepath.Join(t.TempDir(), "novachat.db"))
	if err != nil {
		t.Fatalf("OpenDBStore failed: %v", err)
	}
	t.Cleanup(func() { dbStore.Close() })

	return map[string]Store{
		"file":   fileStore,
		"sqlite": dbStore,
		"mem":    NewMemStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			// Absent key
			_, ok, err := store.Get("missing")
			if err != nil {
				t.Fatalf("Get(missing) error: %v", err)
			}
			if ok {
				t.Error("absent key should report ok=false")
			}

			// Set then Get
			if err := store.Set("k", []byte(`{"v":1}`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, ok, err := store.Get("k")
			if err != nil || !ok {
				t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
			}
			if string(got) != `{"v":1}` {
				t.Errorf("Get = %q, want %q", got, `{"v":1}`)
			}

			// Overwrite
			if err := store.Set("k", []byte(`{"v":2}`)); err != nil {
				t.Fatalf("overwrite Set failed: %v", err)
			}
			got, _, _ = store.Get("k")
			if string(got) != `{"v":2}` {
				t.Errorf("Get after overwrite = %q, want %q", got, `{"v":2}`)
			}

			// Remove, twice (second is a no-op)
			if err := store.Remove("k"); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			if err := store.Remove("k"); err != nil {
				t.Errorf("Remove of absent key should be a no-op, got %v", err)
			}
			if _, ok, _ := store.Get("k"); ok {
				t.Error("key should be gone after Remove")
			}
		})
	}
}

func TestFileStoreKeyPathStaysInBaseDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStoreWithDir(dir)
	if err != nil {
		t.Fatalf("NewFileStoreWithDir failed: %v", err)
	}

	if err := store.Set("../escape", []byte("x")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in base dir, got %d", len(entries))
	}
}

func TestDBStoreClosed(t *testing.T) {
	store, err := OpenDBStore(filepath.Join(t.TempDir(), "novachat.db"))
	if err != nil {
		t.Fatalf("OpenDBStore failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := store.Set("k", []byte("v")); !errors.Is(err, ErrClosed) {
		t.Errorf("Set on closed store = %v, want ErrClosed", err)
	}
	if _, _, err := store.Get("k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get on closed store = %v, want ErrClosed", err)
	}
}

// =============================================================================
// TYPED LAYER TESTS
// =============================================================================

func TestChatsHistoryRoundTrip(t *testing.T) {
	chats := NewChats(NewMemStore())

	sessions := []model.Session{
		{
			ID:        "s1",
			Title:     "first chat",
			Timestamp: time.Now().Truncate(time.Second),
			Messages: []model.Message{
				model.NewUserMessage("hello", nil),
				model.NewAssistantMessage("hi there"),
			},
		},
	}

	if err := chats.SaveHistory(sessions); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}

	loaded := chats.LoadHistory()
	if len(loaded) != 1 {
		t.Fatalf("LoadHistory count = %d, want 1", len(loaded))
	}
	if loaded[0].ID != "s1" || loaded[0].Title != "first chat" {
		t.Errorf("loaded session = %+v", loaded[0])
	}
	if len(loaded[0].Messages) != 2 {
		t.Errorf("loaded messages = %d, want 2", len(loaded[0].Messages))
	}
}

func TestChatsCorruptHistoryLoadsEmpty(t *testing.T) {
	store := NewMemStore()
	store.Set(KeyChatHistory, []byte(`{not json`))

	chats := NewChats(store)
	if got := chats.LoadHistory(); got != nil {
		t.Errorf("corrupt history should load empty, got %d sessions", len(got))
	}
}

func TestChatsCorruptSettingsLoadDefaults(t *testing.T) {
	store := NewMemStore()
	store.Set(KeySettings, []byte(`]]]`))

	chats := NewChats(store)
	if got := chats.LoadSettings(); got != model.DefaultSettings() {
		t.Errorf("corrupt settings should load defaults, got %+v", got)
	}
}

func TestChatsUnknownToneNormalized(t *testing.T) {
	store := NewMemStore()
	store.Set(KeySettings, []byte(`{"tone":"chaotic","theme":"rose","animation":"pulse"}`))

	chats := NewChats(store)
	settings := chats.LoadSettings()
	if settings.Tone != model.DefaultTone {
		t.Errorf("unknown tone should normalize to default, got %q", settings.Tone)
	}
	if settings.Theme != model.ThemeRose || settings.Animation != model.AnimationPulse {
		t.Errorf("valid fields should survive, got %+v", settings)
	}
}

func TestChatsClearHistoryRemovesKey(t *testing.T) {
	store := NewMemStore()
	chats := NewChats(store)

	if err := chats.SaveHistory([]model.Session{{ID: "s1"}}); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}
	if err := chats.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}

	// The key is removed, not set to "[]".
	if _, ok, _ := store.Get(KeyChatHistory); ok {
		t.Error("ClearHistory should remove the key, not rewrite it")
	}
}

func TestChatsSettingsRoundTrip(t *testing.T) {
	chats := NewChats(NewMemStore())

	want := model.Settings{Tone: model.ToneHumorous, Theme: model.ThemeSunrise, Animation: model.AnimationNone}
	if err := chats.SaveSettings(want); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if got := chats.LoadSettings(); got != want {
		t.Errorf("LoadSettings = %+v, want %+v", got, want)
	}
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestWatcherReportsChangedKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStoreWithDir(dir)
	if err != nil {
		t.Fatalf("NewFileStoreWithDir failed: %v", err)
	}

	changed := make(chan string, 4)
	w, err := NewWatcher(store, func(key string) { changed <- key })
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := store.Set(KeySettings, []byte(`{"tone":"formal"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	select {
	case key := <-changed:
		if key != KeySettings {
			t.Errorf("changed key = %q, want %q", key, KeySettings)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}
}

func TestKeyFromPath(t *testing.T) {
	if key, ok := keyFromPath("/data/chat-settings.json"); !ok || key != "chat-settings" {
		t.Errorf("keyFromPath = %q, %v", key, ok)
	}
	if _, ok := keyFromPath("/data/.tmp-123456"); ok {
		t.Error("temp files should be ignored")
	}
	if _, ok := keyFromPath("/data/README.md"); ok {
		t.Error("non-json files should be ignored")
	}
}
