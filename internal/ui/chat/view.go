// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file renders the full frame: header, transcript (or welcome screen),
// optional sidebar and modal panels, composer, status bar, and toasts.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/ui/components"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting NovaChat..."
	}

	header := m.header.View()
	body := m.renderBody()
	composer := m.renderComposer()
	status := m.renderStatusBar()

	frame := lipgloss.JoinVertical(lipgloss.Left, header, body, composer, status)

	if m.toasts.Len() > 0 {
		// The stack overlays the bottom-right corner of the body area.
		overlay := components.RenderToastStack(m.toasts, m.theme, m.width, 0)
		frame = lipgloss.JoinVertical(lipgloss.Left, header, body, overlay, composer, status)
	}

	return frame
}

// renderBody renders the transcript area with any open panel.
func (m Model) renderBody() string {
	var main string
	switch {
	case m.settings != nil:
		main = lipgloss.Place(m.viewport.Width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center, m.settings.View())
	case m.showHelp:
		main = lipgloss.Place(m.viewport.Width, m.viewport.Height,
			lipgloss.Center, lipgloss.Center,
			m.theme.SettingsBox.Render(components.KeyboardShortcuts()))
	case len(m.ctrl.Messages()) == 0 && !m.sending:
		main = m.welcome.View()
	default:
		main = m.viewport.View()
	}

	if m.showSidebar {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
	}
	return main
}

// renderComposer renders the typing indicator line and the input box.
func (m Model) renderComposer() string {
	if m.sending {
		return lipgloss.JoinVertical(lipgloss.Left, " "+m.typing.View(), m.input.View())
	}
	return m.input.View()
}

// renderStatusBar renders the one-line shortcut help.
func (m Model) renderStatusBar() string {
	var parts []string
	for _, b := range m.keyMap.ShortHelp() {
		h := b.Help()
		parts = append(parts,
			m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	line := strings.Join(parts, "  ")
	return m.theme.StatusBar.Width(m.width).Render(line)
}
