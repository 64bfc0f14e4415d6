// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/novachat/internal/completion"
	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/storage"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type harness struct {
	store  *storage.MemStore
	client *completion.MockClient
	ctrl   *Controller
	notes  *noteRecorder
	clock  *fakeClock
}

type noteRecorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *noteRecorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *noteRecorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(time.Second)
	return f.t
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:  storage.NewMemStore(),
		client: &completion.MockClient{Reply: "hello from Nova"},
		notes:  &noteRecorder{},
		clock:  &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	h.ctrl = New(h.store, h.client, WithNotifier(h.notes), withClock(h.clock.now))
	return h
}

// =============================================================================
// SEND TESTS
// =============================================================================

// Empty send with no attachment leaves everything unchanged.
func TestSendEmptyIsNoOp(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "   \t", nil))

	assert.Empty(t, h.ctrl.Messages())
	assert.Empty(t, h.ctrl.ChatHistory())
	assert.False(t, h.ctrl.IsLoading())
	assert.Zero(t, h.client.CallCount(), "no request should reach the client")
	assert.Empty(t, h.notes.all(), "no notification for a silent no-op")
}

// A successful send grows messages by exactly two and ends not loading.
func TestSendSuccess(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "hello", nil))

	msgs := h.ctrl.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "hello from Nova", msgs[1].Content)
	assert.False(t, h.ctrl.IsLoading())

	history := h.ctrl.ChatHistory()
	require.Len(t, history, 1)
	assert.Equal(t, h.ctrl.CurrentChatID(), history[0].ID)
	assert.Equal(t, "hello", history[0].Title)
}

// A failing send appends the fixed fallback turn, persists it, and clears
// the loading flag.
func TestSendFailure(t *testing.T) {
	h := newHarness(t)
	h.client.Err = completion.ErrUnavailable

	require.NoError(t, h.ctrl.Send(context.Background(), "hello", nil))

	msgs := h.ctrl.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, FallbackReply, msgs[1].Content)
	assert.False(t, h.ctrl.IsLoading())

	history := h.ctrl.ChatHistory()
	require.Len(t, history, 1, "only the upsert containing the fallback turn")
	require.Len(t, history[0].Messages, 2)
	assert.Equal(t, FallbackReply, history[0].Messages[1].Content)

	notes := h.notes.all()
	require.Len(t, notes, 1)
	assert.Equal(t, NoteError, notes[0].Kind)
}

// A non-image attachment stays on the stored message but is dropped from the
// outgoing request, with a warning.
func TestSendNonImageAttachment(t *testing.T) {
	h := newHarness(t)
	att := &model.Attachment{
		Name:     "notes.txt",
		MimeType: "text/plain",
		Data:     "data:text/plain;base64,aGVsbG8=",
	}

	require.NoError(t, h.ctrl.Send(context.Background(), "read this", att))

	req, ok := h.client.LastRequest()
	require.True(t, ok)
	assert.Empty(t, req.PhotoDataURI, "non-image data must not reach the client")

	msgs := h.ctrl.Messages()
	require.NotNil(t, msgs[0].Attachment)
	assert.Equal(t, "notes.txt", msgs[0].Attachment.Name)

	notes := h.notes.all()
	require.Len(t, notes, 1)
	assert.Equal(t, NoteWarning, notes[0].Kind)
	assert.Equal(t, "Unsupported File Type", notes[0].Title)
}

// An image attachment is forwarded as the photo data URI.
func TestSendImageAttachment(t *testing.T) {
	h := newHarness(t)
	att := &model.Attachment{
		Name:     "pic.png",
		MimeType: "image/png",
		Data:     "data:image/png;base64,QUJD",
	}

	require.NoError(t, h.ctrl.Send(context.Background(), "what is this?", att))

	req, ok := h.client.LastRequest()
	require.True(t, ok)
	assert.Equal(t, att.Data, req.PhotoDataURI)
	assert.Empty(t, h.notes.all())
}

// Attachment-only sends are real sends, not no-ops.
func TestSendAttachmentOnly(t *testing.T) {
	h := newHarness(t)
	att := &model.Attachment{Name: "pic.png", MimeType: "image/png", Data: "data:image/png;base64,QUJD"}

	require.NoError(t, h.ctrl.Send(context.Background(), "", att))
	assert.Len(t, h.ctrl.Messages(), 2)
}

// The request history is the pre-send snapshot: it excludes the message
// being sent.
func TestSendHistorySnapshot(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "first", nil))
	require.NoError(t, h.ctrl.Send(context.Background(), "second", nil))

	req, ok := h.client.LastRequest()
	require.True(t, ok)
	require.Len(t, req.History, 2, "prior user + assistant turns only")
	assert.Equal(t, "first", req.History[0].Content)
	assert.Equal(t, "hello from Nova", req.History[1].Content)
	assert.Equal(t, "second", req.Message)
}

// The request carries the current tone.
func TestSendUsesCurrentTone(t *testing.T) {
	h := newHarness(t)
	tone := model.ToneBrutal
	require.NoError(t, h.ctrl.UpdateSettings(model.SettingsPatch{Tone: &tone}))

	require.NoError(t, h.ctrl.Send(context.Background(), "roast me", nil))

	req, _ := h.client.LastRequest()
	assert.Equal(t, model.ToneBrutal, req.Tone)
}

// A second send while one is in flight is rejected with ErrBusy.
func TestSendRejectsWhileInFlight(t *testing.T) {
	h := newHarness(t)

	release := make(chan struct{})
	entered := make(chan struct{})
	h.client.Respond = func(req completion.Request) (*completion.Response, error) {
		close(entered)
		<-release
		return &completion.Response{Response: "done"}, nil
	}

	firstDone := make(chan error, 1)
	go func() { firstDone <- h.ctrl.Send(context.Background(), "slow", nil) }()

	<-entered
	assert.True(t, h.ctrl.IsLoading())
	assert.ErrorIs(t, h.ctrl.Send(context.Background(), "eager", nil), ErrBusy)

	close(release)
	require.NoError(t, <-firstDone)
	assert.False(t, h.ctrl.IsLoading())
	assert.Len(t, h.ctrl.Messages(), 2, "rejected send must not touch state")
}

// Switching sessions while a reply is in flight must not redirect the reply:
// the exchange lands in the session it started in, and the session switched
// to is left untouched.
func TestSendDeliversToOriginatingSession(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "other conversation", nil))
	otherID := h.ctrl.CurrentChatID()

	h.ctrl.StartNewChat()

	release := make(chan struct{})
	entered := make(chan struct{})
	h.client.Respond = func(req completion.Request) (*completion.Response, error) {
		close(entered)
		<-release
		return &completion.Response{Response: "slow reply"}, nil
	}

	done := make(chan error, 1)
	go func() { done <- h.ctrl.Send(context.Background(), "pending question", nil) }()
	<-entered
	slowID := h.ctrl.CurrentChatID()

	require.True(t, h.ctrl.LoadChat(otherID))

	close(release)
	require.NoError(t, <-done)

	// The foreground view still shows the session we switched to, unchanged.
	assert.Equal(t, otherID, h.ctrl.CurrentChatID())
	msgs := h.ctrl.Messages()
	require.Len(t, msgs, 2, "the switched-to session must not receive the reply")
	assert.Equal(t, "other conversation", msgs[0].Content)

	// The in-flight exchange is persisted under the session it started in.
	var slow, other *model.Session
	for _, s := range h.ctrl.ChatHistory() {
		switch s.ID {
		case slowID:
			c := s
			slow = &c
		case otherID:
			c := s
			other = &c
		}
	}
	require.NotNil(t, slow)
	require.Len(t, slow.Messages, 2)
	assert.Equal(t, "pending question", slow.Messages[0].Content)
	assert.Equal(t, "slow reply", slow.Messages[1].Content)
	require.NotNil(t, other)
	assert.Len(t, other.Messages, 2)
}

// Reloading the originating session mid-flight must not lose the pending user
// turn once the reply arrives.
func TestSendSurvivesReloadOfOriginatingSession(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "first question", nil))
	chatID := h.ctrl.CurrentChatID()

	release := make(chan struct{})
	entered := make(chan struct{})
	h.client.Respond = func(req completion.Request) (*completion.Response, error) {
		close(entered)
		<-release
		return &completion.Response{Response: "second answer"}, nil
	}

	done := make(chan error, 1)
	go func() { done <- h.ctrl.Send(context.Background(), "second question", nil) }()
	<-entered

	// Reload drops back to the persisted two-message state while the third
	// turn is still pending.
	require.True(t, h.ctrl.LoadChat(chatID))

	close(release)
	require.NoError(t, <-done)

	msgs := h.ctrl.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "second question", msgs[2].Content)
	assert.Equal(t, "second answer", msgs[3].Content)

	history := h.ctrl.ChatHistory()
	require.Len(t, history, 1)
	assert.Len(t, history[0].Messages, 4)
}

// Title derives from the first user message at creation and never changes.
func TestSessionTitleFixedAtCreation(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "the very first message", nil))
	require.NoError(t, h.ctrl.Send(context.Background(), "a later message", nil))

	history := h.ctrl.ChatHistory()
	require.Len(t, history, 1)
	assert.Equal(t, "the very first message", history[0].Title)
}

// =============================================================================
// SESSION COMMAND TESTS
// =============================================================================

// LoadChat of an existing ID replaces the active messages; an unknown ID
// changes nothing.
func TestLoadChat(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "saved conversation", nil))
	savedID := h.ctrl.CurrentChatID()
	savedMsgs := h.ctrl.Messages()

	h.ctrl.StartNewChat()
	require.Empty(t, h.ctrl.Messages())

	require.True(t, h.ctrl.LoadChat(savedID))
	assert.Equal(t, savedID, h.ctrl.CurrentChatID())
	assert.Equal(t, savedMsgs, h.ctrl.Messages())

	// Unknown ID: silent no-op.
	before := h.ctrl.CurrentChatID()
	assert.False(t, h.ctrl.LoadChat("no-such-id"))
	assert.Equal(t, before, h.ctrl.CurrentChatID())
	assert.Equal(t, savedMsgs, h.ctrl.Messages())
}

func TestStartNewChatGeneratesFreshID(t *testing.T) {
	h := newHarness(t)
	first := h.ctrl.CurrentChatID()

	h.ctrl.StartNewChat()
	assert.NotEqual(t, first, h.ctrl.CurrentChatID())
	assert.Empty(t, h.ctrl.Messages())
	assert.Empty(t, h.ctrl.ChatHistory(), "new chat must not touch history")
}

// Deleting the active session falls back to the most recently updated
// remaining session.
func TestDeleteActiveSessionFallsBackToMostRecent(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "oldest chat", nil))
	oldestID := h.ctrl.CurrentChatID()

	h.ctrl.StartNewChat()
	require.NoError(t, h.ctrl.Send(context.Background(), "middle chat", nil))
	middleID := h.ctrl.CurrentChatID()

	h.ctrl.StartNewChat()
	require.NoError(t, h.ctrl.Send(context.Background(), "newest chat", nil))
	newestID := h.ctrl.CurrentChatID()

	require.NoError(t, h.ctrl.DeleteSession(newestID))

	assert.Equal(t, middleID, h.ctrl.CurrentChatID(),
		"should fall back to the max-timestamp survivor")
	require.Len(t, h.ctrl.ChatHistory(), 2)
	assert.Equal(t, "middle chat", h.ctrl.Messages()[0].Content)
	_ = oldestID
}

func TestDeleteLastSessionStartsNewChat(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "only chat", nil))
	onlyID := h.ctrl.CurrentChatID()

	require.NoError(t, h.ctrl.DeleteSession(onlyID))

	assert.NotEqual(t, onlyID, h.ctrl.CurrentChatID())
	assert.Empty(t, h.ctrl.Messages())
	assert.Empty(t, h.ctrl.ChatHistory())
}

func TestDeleteInactiveSessionKeepsCurrent(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "first", nil))
	firstID := h.ctrl.CurrentChatID()

	h.ctrl.StartNewChat()
	require.NoError(t, h.ctrl.Send(context.Background(), "second", nil))
	secondID := h.ctrl.CurrentChatID()

	require.NoError(t, h.ctrl.DeleteSession(firstID))
	assert.Equal(t, secondID, h.ctrl.CurrentChatID())
	assert.Len(t, h.ctrl.ChatHistory(), 1)
}

// ClearHistory empties the catalog, removes the storage key, and moves to a
// fresh chat ID.
func TestClearHistory(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "hello", nil))
	priorID := h.ctrl.CurrentChatID()

	require.NoError(t, h.ctrl.ClearHistory())

	assert.Empty(t, h.ctrl.ChatHistory())
	assert.NotEqual(t, priorID, h.ctrl.CurrentChatID())

	// The storage key is removed, not rewritten as an empty list.
	_, ok, err := h.store.Get(storage.KeyChatHistory)
	require.NoError(t, err)
	assert.False(t, ok)
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

// Settings round-trip through the store.
func TestUpdateSettingsPersists(t *testing.T) {
	h := newHarness(t)

	tone := model.ToneHumorous
	require.NoError(t, h.ctrl.UpdateSettings(model.SettingsPatch{Tone: &tone}))

	// A fresh controller over the same store sees the change.
	reloaded := New(h.store, h.client)
	assert.Equal(t, model.ToneHumorous, reloaded.Settings().Tone)
}

func TestUpdateSettingsPartialMerge(t *testing.T) {
	h := newHarness(t)

	theme := model.ThemeSunrise
	require.NoError(t, h.ctrl.UpdateSettings(model.SettingsPatch{Theme: &theme}))

	s := h.ctrl.Settings()
	assert.Equal(t, model.ThemeSunrise, s.Theme)
	assert.Equal(t, model.DefaultTone, s.Tone, "unpatched fields keep their values")
}

// =============================================================================
// STARTUP TESTS
// =============================================================================

// History written by one controller is visible to the next.
func TestHistorySurvivesRestart(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.ctrl.Send(context.Background(), "persist me", nil))
	savedID := h.ctrl.CurrentChatID()

	reloaded := New(h.store, h.client)
	history := reloaded.ChatHistory()
	require.Len(t, history, 1)
	assert.Equal(t, savedID, history[0].ID)

	require.True(t, reloaded.LoadChat(savedID))
	assert.Equal(t, "persist me", reloaded.Messages()[0].Content)
}

// Corrupted storage degrades to empty state, never an error.
func TestCorruptStorageDegradesToDefaults(t *testing.T) {
	store := storage.NewMemStore()
	store.Set(storage.KeyChatHistory, []byte("{{{{"))
	store.Set(storage.KeySettings, []byte("not json"))

	ctrl := New(store, &completion.MockClient{})
	assert.Empty(t, ctrl.ChatHistory())
	assert.Equal(t, model.DefaultSettings(), ctrl.Settings())
}

// A persistence failure during send surfaces a notification but the
// conversation stays usable in memory.
func TestSendPersistFailureNotifies(t *testing.T) {
	h := newHarness(t)
	h.store.FailSet = &storage.StoreError{Message: "disk full"}

	require.NoError(t, h.ctrl.Send(context.Background(), "hello", nil))

	assert.Len(t, h.ctrl.Messages(), 2)
	assert.False(t, h.ctrl.IsLoading())

	notes := h.notes.all()
	require.NotEmpty(t, notes)
	assert.Equal(t, "Storage Error", notes[len(notes)-1].Title)
}
