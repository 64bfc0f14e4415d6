// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session controller.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/novachat/internal/completion"
	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/storage"
)

// =============================================================================
// USER-FACING COPY
// =============================================================================

// FallbackReply is appended as the assistant turn when a send fails. It is
// persisted like any other turn.
const FallbackReply = "Sorry, I encountered an error. Please try again."

const (
	unsupportedTitle   = "Unsupported File Type"
	unsupportedMessage = "This attachment stays in the chat but was not sent to Nova. Only images are supported."

	sendErrorTitle   = "Error"
	sendErrorMessage = "Failed to get a response from the AI. The model may be overloaded. Please try again later."

	persistErrorTitle   = "Storage Error"
	persistErrorMessage = "Your chat could not be saved. It remains available until you close NovaChat."
)

// ErrBusy is returned by Send while another send on the same controller is
// still in flight.
var ErrBusy = errors.New("a send is already in flight")

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller mediates between user intents, the completion service, and
// persisted history. All exported methods are safe for concurrent use; reads
// return copies of the underlying state.
type Controller struct {
	mu sync.Mutex

	chats    *storage.Chats
	client   completion.Client
	notifier Notifier

	messages      []model.Message
	catalog       *model.Catalog
	currentChatID string
	settings      model.Settings
	loading       bool

	// now is the clock, swappable for tests.
	now func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier routes controller warnings and errors to n.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// withClock replaces the controller clock. Test hook.
func withClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New builds a controller over the given store and completion client.
// Persisted history and settings are loaded once here; corrupted or missing
// data degrades to empty history and default settings. The controller starts
// on a fresh, unsaved chat.
func New(store storage.Store, client completion.Client, opts ...Option) *Controller {
	c := &Controller{
		chats:  storage.NewChats(store),
		client: client,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.catalog = model.NewCatalog(c.chats.LoadHistory())
	c.settings = c.chats.LoadSettings()
	c.currentChatID = model.NewSessionID()
	return c
}

// =============================================================================
// READ STATE
// =============================================================================

// Messages returns a copy of the active conversation.
func (c *Controller) Messages() []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneMessages(c.messages)
}

// ChatHistory returns the saved sessions, most recently updated first.
func (c *Controller) ChatHistory() []model.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Sorted()
}

// CurrentChatID returns the active session identifier.
func (c *Controller) CurrentChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentChatID
}

// Settings returns the current settings.
func (c *Controller) Settings() model.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// IsLoading reports whether a send is in flight.
func (c *Controller) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// =============================================================================
// SESSION COMMANDS
// =============================================================================

// StartNewChat clears the active conversation under a fresh session ID.
// Nothing is written to history until a message is actually exchanged.
func (c *Controller) StartNewChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentChatID = model.NewSessionID()
	c.messages = nil
}

// LoadChat activates the stored session with the given ID, replacing the
// active messages. An unknown ID leaves all state unchanged and returns
// false; callers decide whether that is worth surfacing.
func (c *Controller) LoadChat(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.catalog.Get(id)
	if !ok {
		return false
	}
	c.currentChatID = s.ID
	c.messages = s.Messages
	return true
}

// DeleteSession removes a session from history and persists the catalog.
// When the active session is deleted, the most recently updated remaining
// session takes its place, or a fresh chat when none remain.
func (c *Controller) DeleteSession(id string) error {
	c.mu.Lock()

	if !c.catalog.Remove(id) {
		c.mu.Unlock()
		return nil
	}

	if id == c.currentChatID {
		if next, ok := c.catalog.MostRecent(); ok {
			c.currentChatID = next.ID
			c.messages = next.Messages
		} else {
			c.currentChatID = model.NewSessionID()
			c.messages = nil
		}
	}

	err := c.chats.SaveHistory(c.catalog.Sorted())
	c.mu.Unlock()

	if err != nil {
		c.notify(Notification{Kind: NoteError, Title: persistErrorTitle, Message: persistErrorMessage})
	}
	return err
}

// ClearHistory deletes every saved session (removing the storage key, not
// writing an empty list) and starts a fresh chat.
func (c *Controller) ClearHistory() error {
	c.mu.Lock()
	c.catalog.Clear()
	c.currentChatID = model.NewSessionID()
	c.messages = nil
	err := c.chats.ClearHistory()
	c.mu.Unlock()

	if err != nil {
		c.notify(Notification{Kind: NoteError, Title: persistErrorTitle, Message: persistErrorMessage})
	}
	return err
}

// UpdateSettings shallow-merges the patch into the settings, normalizes the
// result, and persists immediately.
func (c *Controller) UpdateSettings(patch model.SettingsPatch) error {
	c.mu.Lock()
	c.settings.Apply(patch)
	err := c.chats.SaveSettings(c.settings)
	c.mu.Unlock()

	if err != nil {
		c.notify(Notification{Kind: NoteError, Title: persistErrorTitle, Message: persistErrorMessage})
	}
	return err
}

// =============================================================================
// SEND
// =============================================================================

// Send runs one exchange with the completion service.
//
// An empty message with no attachment is a silent no-op. A send issued while
// another is in flight returns ErrBusy. Otherwise the user message is
// appended immediately, the service is invoked with the pre-send history
// snapshot, and the reply (or FallbackReply on failure) is recorded and the
// session persisted. The exchange always lands in the session the send
// started in: switching or starting sessions while the reply is in flight
// does not redirect it, and the active view is only updated when it still
// shows the originating session. Completion failures are surfaced as
// notifications, not as a returned error; the loading flag is cleared on
// every exit path.
func (c *Controller) Send(ctx context.Context, text string, attachment *model.Attachment) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	if strings.TrimSpace(text) == "" && attachment == nil {
		c.mu.Unlock()
		return nil
	}

	c.loading = true
	chatID := c.currentChatID
	req := completion.Request{
		Message: text,
		Tone:    c.settings.Tone,
		History: completion.HistoryFromMessages(c.messages),
	}

	var warn *Notification
	if attachment != nil {
		if attachment.IsImage() {
			req.PhotoDataURI = attachment.Data
		} else {
			warn = &Notification{Kind: NoteWarning, Title: unsupportedTitle, Message: unsupportedMessage}
		}
	}
	c.messages = append(c.messages, model.NewUserMessage(text, attachment))
	sent := model.CloneMessages(c.messages)
	c.mu.Unlock()

	// Loading must clear on every exit path, including panics below.
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	if warn != nil {
		c.notify(*warn)
	}

	resp, err := c.client.Complete(ctx, req)

	reply := model.NewAssistantMessage(FallbackReply)
	if err == nil {
		reply = model.NewAssistantMessage(resp.Response)
	}

	// The full exchange is rebuilt from the pre-send snapshot so a session
	// switched away from (or reloaded) mid-flight still receives its own
	// reply, and only its own reply.
	c.mu.Lock()
	transcript := append(sent, reply)
	if c.currentChatID == chatID {
		c.messages = transcript
	}
	persistErr := c.persistSessionLocked(chatID, transcript)
	c.mu.Unlock()

	if err != nil {
		c.notify(Notification{Kind: NoteError, Title: sendErrorTitle, Message: sendErrorMessage})
	}
	if persistErr != nil {
		c.notify(Notification{Kind: NoteError, Title: persistErrorTitle, Message: persistErrorMessage})
	}
	return nil
}

// persistSessionLocked upserts the given conversation into the catalog and
// writes the catalog through. The title is set only at creation time, from
// the first user message. Caller holds c.mu.
func (c *Controller) persistSessionLocked(id string, messages []model.Message) error {
	s, ok := c.catalog.Get(id)
	if !ok {
		s = model.Session{
			ID:    id,
			Title: model.TitleFromMessages(messages),
		}
	}
	s.Messages = model.CloneMessages(messages)
	s.Timestamp = c.now()
	c.catalog.Upsert(s)

	return c.chats.SaveHistory(c.catalog.Sorted())
}

// notify delivers a notification outside the controller lock.
func (c *Controller) notify(n Notification) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}
