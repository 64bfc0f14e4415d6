// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/ui/styles"
)

// =============================================================================
// SETTINGS PANEL - Tone / theme / animation pickers
// =============================================================================

// settingsRow indexes the three picker rows.
type settingsRow int

const (
	rowTone settingsRow = iota
	rowTheme
	rowAnimation
	rowCount
)

// SettingsPanel is the modal settings editor. It edits a working copy;
// the caller reads Result() when the user confirms.
type SettingsPanel struct {
	working model.Settings
	row     settingsRow
	width   int
	theme   *styles.Theme
}

// NewSettingsPanel creates a panel seeded with the current settings.
func NewSettingsPanel(current model.Settings, theme *styles.Theme) *SettingsPanel {
	current.Normalize()
	return &SettingsPanel{
		working: current,
		width:   48,
		theme:   theme,
	}
}

// SetWidth sets the panel width.
func (p *SettingsPanel) SetWidth(width int) {
	p.width = width
}

// Result returns the edited settings.
func (p *SettingsPanel) Result() model.Settings {
	return p.working
}

// CursorUp moves to the previous row.
func (p *SettingsPanel) CursorUp() {
	if p.row > 0 {
		p.row--
	}
}

// CursorDown moves to the next row.
func (p *SettingsPanel) CursorDown() {
	if p.row < rowCount-1 {
		p.row++
	}
}

// CycleLeft selects the previous value on the active row.
func (p *SettingsPanel) CycleLeft() {
	p.cycle(-1)
}

// CycleRight selects the next value on the active row.
func (p *SettingsPanel) CycleRight() {
	p.cycle(1)
}

func (p *SettingsPanel) cycle(dir int) {
	switch p.row {
	case rowTone:
		p.working.Tone = model.Tones[cycleIndex(indexOfTone(p.working.Tone), len(model.Tones), dir)]
	case rowTheme:
		p.working.Theme = model.Themes[cycleIndex(indexOfTheme(p.working.Theme), len(model.Themes), dir)]
	case rowAnimation:
		p.working.Animation = model.Animations[cycleIndex(indexOfAnimation(p.working.Animation), len(model.Animations), dir)]
	}
}

// View renders the panel.
func (p *SettingsPanel) View() string {
	title := p.theme.SidebarTitle.Render("Settings")

	rows := []string{
		title,
		"",
		p.renderRow(rowTone, "Tone", p.working.Tone.String()),
		p.renderRow(rowTheme, "Theme", p.working.Theme.String()),
		p.renderRow(rowAnimation, "Animation", p.working.Animation.String()),
		"",
		p.theme.SessionMeta.Render("arrows: change   enter: save   esc: cancel"),
	}

	return p.theme.SettingsBox.Width(p.width).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderRow renders "Tone      < informal >" with the active row highlighted.
func (p *SettingsPanel) renderRow(row settingsRow, label, value string) string {
	labelCell := p.theme.SettingsLabel.Width(12).Render(label)

	valueStyle := p.theme.SettingsValue
	if row == p.row {
		valueStyle = p.theme.SettingsSelected
	}
	valueCell := valueStyle.Render("< " + value + " >")

	return labelCell + valueCell
}

// cycleIndex steps an index with wraparound.
func cycleIndex(i, n, dir int) int {
	if n == 0 {
		return 0
	}
	i += dir
	if i < 0 {
		return n - 1
	}
	if i >= n {
		return 0
	}
	return i
}

func indexOfTone(t model.Tone) int {
	for i, v := range model.Tones {
		if v == t {
			return i
		}
	}
	return 0
}

func indexOfTheme(t model.Theme) int {
	for i, v := range model.Themes {
		if v == t {
			return i
		}
	}
	return 0
}

func indexOfAnimation(a model.Animation) int {
	for i, v := range model.Animations {
		if v == a {
			return i
		}
	}
	return 0
}
