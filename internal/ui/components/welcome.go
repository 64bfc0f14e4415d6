// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN - First-run / empty-session greeting
// =============================================================================

// Welcome renders the greeting shown before the first message of a session.
type Welcome struct {
	version string
	model   string
	width   int
	height  int
	theme   *styles.Theme
}

// NewWelcome creates a welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		width:  80,
		height: 24,
		theme:  theme,
	}
}

// SetVersion sets the version line.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetModelName sets the completion model shown in the info line.
func (w *Welcome) SetModelName(name string) {
	w.model = name
}

// SetSize sets the available area.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the centered welcome box.
func (w Welcome) View() string {
	sections := []string{
		w.renderLogo(),
	}

	if w.version != "" {
		sections = append(sections, w.theme.WelcomeInfo.Render("v"+w.version))
	}
	if w.model != "" {
		sections = append(sections, w.theme.WelcomeInfo.Render("model: "+w.model))
	}

	sections = append(sections, "", w.renderQuickStart())

	box := w.theme.WelcomeBox.Render(
		lipgloss.JoinVertical(lipgloss.Center, sections...))

	return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, box)
}

// renderLogo renders the ASCII wordmark, shrinking with the terminal.
func (w Welcome) renderLogo() string {
	if w.width >= 60 {
		logo := ` _   _                  ____ _           _
| \ | | _____   ____ _ / ___| |__   __ _| |_
|  \| |/ _ \ \ / / _' | |   | '_ \ / _' | __|
| |\  | (_) \ V / (_| | |___| | | | (_| | |_
|_| \_|\___/ \_/ \__,_|\____|_| |_|\__,_|\__|`
		return w.theme.WelcomeLogo.Render(logo)
	}

	if w.width >= 40 {
		return w.theme.WelcomeLogo.Render(`+--------------------+
|      NovaChat      |
+--------------------+`)
	}
	return w.theme.WelcomeLogo.Render("NovaChat")
}

// renderQuickStart lists the basics.
func (w Welcome) renderQuickStart() string {
	if w.height < 16 {
		return w.theme.WelcomeInfo.Render("Type a message, /help for commands")
	}

	bullet := lipgloss.NewStyle().Foreground(w.theme.Palette.Accent).Bold(true)
	tip := lipgloss.NewStyle().Foreground(w.theme.Palette.TextSecondary)

	tips := []string{
		bullet.Render("-") + tip.Render(" Type a message and press Enter"),
		bullet.Render("-") + tip.Render(" Ctrl+H opens chat history"),
		bullet.Render("-") + tip.Render(" Ctrl+T opens settings (tone, theme)"),
		bullet.Render("-") + tip.Render(" /help lists all commands"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, tips...)
}

// KeyboardShortcuts returns the help overlay body.
func KeyboardShortcuts() string {
	return `Keyboard shortcuts:

  enter       send message
  ctrl+n      new chat
  ctrl+h      toggle history sidebar
  ctrl+t      settings
  ctrl+o      attach a file
  ctrl+x      remove pending attachment
  ctrl+e      export current chat
  pgup/pgdn   scroll transcript
  ctrl+c      quit`
}
