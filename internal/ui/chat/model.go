// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/novachat/internal/config"
	"github.com/jeranaias/novachat/internal/session"
	"github.com/jeranaias/novachat/internal/ui/components"
	"github.com/jeranaias/novachat/internal/ui/styles"
)

// Layout constants. Heights are in terminal rows.
const (
	sidebarWidth    = 32
	headerHeight    = 3
	inputHeight     = 3
	statusBarHeight = 1
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. It owns presentation
// state only; conversation and settings state live in the controller.
type Model struct {
	// Domain
	ctrl *session.Controller
	cfg  *config.Config

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// UI components
	header   *components.Header
	viewport viewport.Model
	input    *components.InputArea
	sidebar  *components.Sidebar
	settings *components.SettingsPanel // nil while closed
	welcome  components.Welcome
	typing   components.TypingIndicator
	toasts   *components.ToastManager

	// Key bindings
	keyMap KeyMap

	// Modes
	showSidebar  bool
	showHelp     bool
	attachPrompt bool // composer is capturing a file path
	sending      bool
	toastTicking bool

	// In-flight send cancellation
	cancelSend context.CancelFunc

	version string
}

// Option configures a chat Model.
type Option func(*Model)

// WithToasts uses an externally created toast manager. The caller typically
// shares it with the controller's notifier so storage and completion errors
// surface as toasts.
func WithToasts(tm *components.ToastManager) Option {
	return func(m *Model) { m.toasts = tm }
}

// WithVersion sets the version shown on the welcome screen.
func WithVersion(v string) Option {
	return func(m *Model) { m.version = v }
}

// New creates the chat model over an initialized controller.
func New(ctrl *session.Controller, cfg *config.Config, opts ...Option) Model {
	settings := ctrl.Settings()
	theme := styles.NewTheme(settings.Theme)

	m := Model{
		ctrl:   ctrl,
		cfg:    cfg,
		theme:  theme,
		keyMap: DefaultKeyMap(),

		header:  components.NewHeader(theme, settings.Animation),
		input:   components.NewInputArea(theme),
		sidebar: components.NewSidebar(theme),
		welcome: components.NewWelcome(theme),
		typing:  components.NewTypingIndicator(theme),
		toasts:  components.NewToastManager(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.header.SetTone(settings.Tone)
	m.welcome.SetVersion(m.version)
	if cfg != nil {
		m.welcome.SetModelName(cfg.Completion.Model)
	}
	m.refreshSidebar()
	m.refreshHeaderTitle()

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.input.Focus(),
	}
	if cmd := m.header.AnimationTickCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// SHARED STATE HELPERS
// =============================================================================

// refreshViewport rebuilds viewport content from the controller and pins
// the scroll position to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	ml := components.NewMessageList(m.theme)
	ml.SetMessages(m.ctrl.Messages())
	ml.SetWidth(m.viewport.Width)
	if m.cfg != nil {
		ml.ShowTimestamps = m.cfg.UI.ShowTimestamps
	}
	m.viewport.SetContent(ml.View())
	m.viewport.GotoBottom()
}

// refreshSidebar reloads the history list from the controller.
func (m *Model) refreshSidebar() {
	m.sidebar.SetActiveID(m.ctrl.CurrentChatID())
	m.sidebar.SetSessions(m.ctrl.ChatHistory())
}

// refreshHeaderTitle mirrors the active session title into the header.
func (m *Model) refreshHeaderTitle() {
	id := m.ctrl.CurrentChatID()
	for _, s := range m.ctrl.ChatHistory() {
		if s.ID == id {
			m.header.SetSessionTitle(s.Title)
			return
		}
	}
	m.header.SetSessionTitle("")
}

// applyTheme rebuilds every themed component after a theme change.
func (m *Model) applyTheme() {
	settings := m.ctrl.Settings()
	m.theme = styles.NewTheme(settings.Theme)
	m.theme.SetSize(m.width, m.height)

	// Components hold style references, so they are rebuilt rather than
	// restyled in place. Input text is preserved.
	draft := m.input.Value()
	att := m.input.Attachment()

	m.header = components.NewHeader(m.theme, settings.Animation)
	m.header.SetTone(settings.Tone)
	m.input = components.NewInputArea(m.theme)
	m.input.SetValue(draft)
	m.input.SetAttachment(att)
	m.sidebar = components.NewSidebar(m.theme)
	m.welcome = components.NewWelcome(m.theme)
	m.welcome.SetVersion(m.version)
	if m.cfg != nil {
		m.welcome.SetModelName(m.cfg.Completion.Model)
	}
	m.typing = components.NewTypingIndicator(m.theme)

	m.layout()
	m.refreshSidebar()
	m.refreshHeaderTitle()
	m.refreshViewport()
}

// layout recomputes component dimensions from the window size.
func (m *Model) layout() {
	chatWidth := m.width
	if m.showSidebar {
		chatWidth -= sidebarWidth
	}
	if chatWidth < 20 {
		chatWidth = 20
	}

	bodyHeight := m.height - headerHeight - inputHeight - statusBarHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	m.header.SetWidth(m.width)
	m.input.SetWidth(chatWidth)
	m.sidebar.SetSize(sidebarWidth, bodyHeight)
	m.welcome.SetSize(chatWidth, bodyHeight)

	if !m.ready {
		m.viewport = viewport.New(chatWidth, bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = bodyHeight
	}
}

// maybeToastTick starts the toast expiry loop when toasts are visible and
// no loop is running.
func (m *Model) maybeToastTick() tea.Cmd {
	if m.toastTicking || m.toasts.Len() == 0 {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

// pushToast adds a local UI toast (not routed through the controller).
func (m *Model) pushToast(kind components.ToastKind, title, message string) {
	m.toasts.Add(components.NewToast(kind, title, message))
}

// IsSending reports whether a completion request is in flight.
func (m *Model) IsSending() bool {
	return m.sending
}

// Theme returns the active theme.
func (m *Model) Theme() *styles.Theme {
	return m.theme
}

// handleSendDone finalizes a send: stop the indicator and resync every
// view that the exchange may have touched.
func (m Model) handleSendDone(msg sendDoneMsg) (tea.Model, tea.Cmd) {
	m.sending = false
	m.typing.Stop()
	m.cancelSend = nil

	m.refreshSidebar()
	m.refreshHeaderTitle()
	m.refreshViewport()

	var cmds []tea.Cmd
	if msg.Err != nil && msg.Err != session.ErrBusy && msg.Err != context.Canceled {
		m.pushToast(components.ToastError, "Error", msg.Err.Error())
	}
	if cmd := m.maybeToastTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleToastTick expires old toasts and keeps ticking while any remain.
func (m Model) handleToastTick(time.Time) (tea.Model, tea.Cmd) {
	if m.toasts.Tick(time.Now()) {
		return m, components.ToastTickCmd()
	}
	m.toastTicking = false
	return m, nil
}
