// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the Update loop: window resizes, key dispatch for the
// composer and the modal panels, and the async message handlers.
package chat

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/ui/components"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.AnimationTickMsg:
		m.header.Advance()
		return m, m.header.AnimationTickCmd()

	case components.ToastTickMsg:
		return m.handleToastTick(time.Time(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		if m.sending {
			// The controller appends turns from the send goroutine, so the
			// transcript is refreshed on the animation cadence.
			m.refreshViewport()
		}
		return m, cmd

	case sendDoneMsg:
		return m.handleSendDone(msg)

	case attachmentReadMsg:
		return m.handleAttachmentRead(msg)

	case exportDoneMsg:
		return m.handleExportDone(msg)

	case RefreshMsg:
		m.refreshViewport()
		m.refreshSidebar()
		m.refreshHeaderTitle()
		return m, nil
	}

	// Everything else (cursor blink and so on) belongs to the composer.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResize recomputes the layout for a new terminal size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.layout()
	m.refreshViewport()
	return m, nil
}

// =============================================================================
// KEY DISPATCH
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always wins.
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	// Modal panels capture the keyboard while open.
	if m.settings != nil {
		return m.handleSettingsKey(msg)
	}
	if m.showSidebar {
		return m.handleSidebarKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.attachPrompt {
		return m.handleAttachPromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.NewChat):
		if m.sending {
			m.pushToast(components.ToastWarning, "Please Wait", "Nova is still replying.")
			return m, m.maybeToastTick()
		}
		m.ctrl.StartNewChat()
		m.input.Reset()
		m.refreshSidebar()
		m.refreshHeaderTitle()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.History):
		m.showSidebar = true
		m.input.Blur()
		m.refreshSidebar()
		m.layout()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.Settings):
		m.settings = components.NewSettingsPanel(m.ctrl.Settings(), m.theme)
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keyMap.Attach):
		m.attachPrompt = true
		m.input.SetPlaceholder("Path to file... (enter to attach, esc to cancel)")
		m.input.SetValue("")
		return m, nil

	case key.Matches(msg, m.keyMap.Detach):
		m.input.ClearAttachment()
		return m, nil

	case key.Matches(msg, m.keyMap.Export):
		return m.startExport("markdown")

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		if m.sending && m.cancelSend != nil {
			m.cancelSend()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Home):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSettingsKey drives the settings panel.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.settings.CursorUp()
	case "down", "j":
		m.settings.CursorDown()
	case "left", "h":
		m.settings.CycleLeft()
	case "right", "l":
		m.settings.CycleRight()
	case "enter":
		return m.saveSettings()
	case "esc":
		m.settings = nil
		return m, m.input.Focus()
	}
	return m, nil
}

// saveSettings persists the edited settings and re-themes the UI.
func (m Model) saveSettings() (tea.Model, tea.Cmd) {
	edited := m.settings.Result()
	m.settings = nil

	prev := m.ctrl.Settings()
	_ = m.ctrl.UpdateSettings(model.SettingsPatch{
		Tone:      &edited.Tone,
		Theme:     &edited.Theme,
		Animation: &edited.Animation,
	})

	if edited.Theme != prev.Theme || edited.Animation != prev.Animation {
		m.applyTheme()
	} else {
		m.header.SetTone(edited.Tone)
	}

	var cmds []tea.Cmd
	cmds = append(cmds, m.input.Focus())
	if cmd := m.header.AnimationTickCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.maybeToastTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleSidebarKey drives the history panel.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.sidebar.CursorUp()
	case "down", "j":
		m.sidebar.CursorDown()
	case "enter":
		if sel, ok := m.sidebar.Selected(); ok {
			if m.ctrl.LoadChat(sel.ID) {
				m.refreshHeaderTitle()
				m.refreshViewport()
			}
		}
		return m.closeSidebar()
	case "d":
		if sel, ok := m.sidebar.Selected(); ok {
			_ = m.ctrl.DeleteSession(sel.ID)
			m.refreshSidebar()
			m.refreshHeaderTitle()
			m.refreshViewport()
			return m, m.maybeToastTick()
		}
	case "esc", "ctrl+h":
		return m.closeSidebar()
	}
	return m, nil
}

func (m Model) closeSidebar() (tea.Model, tea.Cmd) {
	m.showSidebar = false
	m.layout()
	m.refreshViewport()
	return m, m.input.Focus()
}

// handleAttachPromptKey captures a file path in the composer.
func (m Model) handleAttachPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(m.input.Value())
		m.exitAttachPrompt()
		if path == "" {
			return m, nil
		}
		return m, readAttachmentCmd(path)
	case "esc":
		m.exitAttachPrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) exitAttachPrompt() {
	m.attachPrompt = false
	m.input.SetValue("")
	m.input.SetPlaceholder("Message Nova... (ctrl+o to attach, / for commands)")
}

// handleAttachmentRead stages the read file or surfaces the error.
func (m Model) handleAttachmentRead(msg attachmentReadMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.pushToast(components.ToastError, "Attachment Failed", msg.Err.Error())
		return m, m.maybeToastTick()
	}
	m.input.SetAttachment(msg.Attachment)
	return m, nil
}

// handleExportDone reports the export outcome.
func (m Model) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.pushToast(components.ToastError, "Export Failed", msg.Err.Error())
	} else {
		m.pushToast(components.ToastStatus, "Export Complete", msg.Path)
	}
	return m, m.maybeToastTick()
}

// =============================================================================
// SUBMIT
// =============================================================================

// handleSubmit sends the composer content: a slash command or a chat turn.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	if strings.HasPrefix(text, "/") {
		return m.handleCommand(text)
	}

	attachment := m.input.Attachment()
	if text == "" && attachment == nil {
		return m, nil
	}

	if m.sending {
		m.pushToast(components.ToastWarning, "Please Wait", "Nova is still replying.")
		return m, m.maybeToastTick()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelSend = cancel
	m.sending = true
	m.input.Reset()

	return m, tea.Batch(
		sendCmd(m.ctrl, ctx, text, attachment),
		m.typing.Start(),
	)
}

// startExport snapshots the active session and writes it to disk.
func (m Model) startExport(format string) (tea.Model, tea.Cmd) {
	messages := m.ctrl.Messages()
	if len(messages) == 0 {
		m.pushToast(components.ToastWarning, "Nothing to Export", "This chat has no messages yet.")
		return m, m.maybeToastTick()
	}

	id := m.ctrl.CurrentChatID()
	sess := model.Session{ID: id, Messages: messages, Timestamp: time.Now()}
	for _, s := range m.ctrl.ChatHistory() {
		if s.ID == id {
			sess.Title = s.Title
			break
		}
	}

	outputDir := "."
	if m.cfg != nil {
		if dataDir, err := m.cfg.DataDir(); err == nil {
			outputDir = filepath.Join(dataDir, "exports")
		}
	}
	themeName := string(m.ctrl.Settings().Theme)

	return m, exportCmd(sess, format, outputDir, themeName)
}
