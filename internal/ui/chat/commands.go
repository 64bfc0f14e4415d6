// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements the slash commands typed into the composer.
package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/ui/components"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// CommandHandler processes one slash command.
type CommandHandler func(m *Model, args []string) (tea.Model, tea.Cmd)

// commandRegistry maps command names (and aliases) to handlers.
var commandRegistry = map[string]CommandHandler{
	"help":     handleHelpCommand,
	"new":      handleNewCommand,
	"clear":    handleClearCommand,
	"delete":   handleDeleteCommand,
	"export":   handleExportCommand,
	"tone":     handleToneCommand,
	"theme":    handleThemeCommand,
	"anim":     handleAnimCommand,
	"settings": handleSettingsCommand,
	"quit":     handleQuitCommand,
	"q":        handleQuitCommand,
}

// handleCommand parses "/name args..." and dispatches it.
func (m Model) handleCommand(content string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(strings.TrimPrefix(content, "/"))
	if len(parts) == 0 {
		return m, nil
	}
	name := strings.ToLower(parts[0])
	args := parts[1:]

	handler, ok := commandRegistry[name]
	if !ok {
		m.input.Reset()
		m.pushToast(components.ToastWarning, "Unknown Command",
			"/"+name+" is not a command. Try /help.")
		return m, m.maybeToastTick()
	}

	m.input.Reset()
	return handler(&m, args)
}

func handleHelpCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	m.showHelp = true
	return *m, nil
}

func handleNewCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	if m.sending {
		m.pushToast(components.ToastWarning, "Please Wait", "Nova is still replying.")
		return *m, m.maybeToastTick()
	}
	m.ctrl.StartNewChat()
	m.refreshSidebar()
	m.refreshHeaderTitle()
	m.refreshViewport()
	return *m, nil
}

func handleClearCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	_ = m.ctrl.ClearHistory()
	m.refreshSidebar()
	m.refreshHeaderTitle()
	m.refreshViewport()
	m.pushToast(components.ToastStatus, "History Cleared", "All saved chats were deleted.")
	return *m, m.maybeToastTick()
}

func handleDeleteCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	_ = m.ctrl.DeleteSession(m.ctrl.CurrentChatID())
	m.refreshSidebar()
	m.refreshHeaderTitle()
	m.refreshViewport()
	return *m, m.maybeToastTick()
}

func handleExportCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	format := "markdown"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}
	return m.startExport(format)
}

func handleToneCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.pushToast(components.ToastWarning, "Usage", "/tone "+enumChoices(toneNames()))
		return *m, m.maybeToastTick()
	}
	tone := model.Tone(strings.ToLower(args[0]))
	if !tone.Valid() {
		m.pushToast(components.ToastWarning, "Unknown Tone", enumChoices(toneNames()))
		return *m, m.maybeToastTick()
	}
	_ = m.ctrl.UpdateSettings(model.SettingsPatch{Tone: &tone})
	m.header.SetTone(tone)
	return *m, m.maybeToastTick()
}

func handleThemeCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.pushToast(components.ToastWarning, "Usage", "/theme "+enumChoices(themeNames()))
		return *m, m.maybeToastTick()
	}
	theme := model.Theme(strings.ToLower(args[0]))
	if !theme.Valid() {
		m.pushToast(components.ToastWarning, "Unknown Theme", enumChoices(themeNames()))
		return *m, m.maybeToastTick()
	}
	_ = m.ctrl.UpdateSettings(model.SettingsPatch{Theme: &theme})
	m.applyTheme()
	var cmds []tea.Cmd
	if cmd := m.header.AnimationTickCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.maybeToastTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return *m, tea.Batch(cmds...)
}

func handleAnimCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.pushToast(components.ToastWarning, "Usage", "/anim "+enumChoices(animationNames()))
		return *m, m.maybeToastTick()
	}
	anim := model.Animation(strings.ToLower(args[0]))
	if !anim.Valid() {
		m.pushToast(components.ToastWarning, "Unknown Animation", enumChoices(animationNames()))
		return *m, m.maybeToastTick()
	}
	_ = m.ctrl.UpdateSettings(model.SettingsPatch{Animation: &anim})
	m.header.SetAnimation(anim)
	var cmds []tea.Cmd
	if cmd := m.header.AnimationTickCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.maybeToastTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return *m, tea.Batch(cmds...)
}

func handleSettingsCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	m.settings = components.NewSettingsPanel(m.ctrl.Settings(), m.theme)
	m.input.Blur()
	return *m, nil
}

func handleQuitCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	return *m, tea.Quit
}

// =============================================================================
// ENUM HELP STRINGS
// =============================================================================

func toneNames() []string {
	names := make([]string, len(model.Tones))
	for i, t := range model.Tones {
		names[i] = string(t)
	}
	return names
}

func themeNames() []string {
	names := make([]string, len(model.Themes))
	for i, t := range model.Themes {
		names[i] = string(t)
	}
	return names
}

func animationNames() []string {
	names := make([]string, len(model.Animations))
	for i, a := range model.Animations {
		names[i] = string(a)
	}
	return names
}

func enumChoices(names []string) string {
	return "<" + strings.Join(names, "|") + ">"
}
