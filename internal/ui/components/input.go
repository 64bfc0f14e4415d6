// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/ui/styles"
)

// =============================================================================
// INPUT AREA COMPONENT - Composer with attachment chip and char counter
// =============================================================================

const defaultMaxChars = 4096

// InputArea is the message composer at the bottom of the chat view.
type InputArea struct {
	input      textinput.Model
	attachment *model.Attachment
	maxChars   int
	width      int
	focused    bool
	theme      *styles.Theme
}

// NewInputArea creates a composer with the theme's input styles.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = "Message Nova... (ctrl+o to attach, / for commands)"
	ti.CharLimit = defaultMaxChars
	ti.Width = 70
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = theme.InputText
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Cursor.Style = theme.InputPrompt

	return &InputArea{
		input:    ti,
		maxChars: defaultMaxChars,
		width:    80,
		theme:    theme,
	}
}

// Focus focuses the input.
func (i *InputArea) Focus() tea.Cmd {
	i.focused = true
	return i.input.Focus()
}

// Blur removes focus.
func (i *InputArea) Blur() {
	i.focused = false
	i.input.Blur()
}

// Focused reports whether the input has focus.
func (i *InputArea) Focused() bool {
	return i.focused
}

// SetWidth sets the composer width.
func (i *InputArea) SetWidth(width int) {
	i.width = width
	inner := width - 8
	if inner < 20 {
		inner = 20
	}
	i.input.Width = inner
}

// SetPlaceholder replaces the placeholder text.
func (i *InputArea) SetPlaceholder(placeholder string) {
	i.input.Placeholder = placeholder
}

// Value returns the current text.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue replaces the current text.
func (i *InputArea) SetValue(value string) {
	i.input.SetValue(value)
}

// Reset clears text and any pending attachment.
func (i *InputArea) Reset() {
	i.input.Reset()
	i.attachment = nil
}

// Attachment returns the pending attachment, or nil.
func (i *InputArea) Attachment() *model.Attachment {
	return i.attachment
}

// SetAttachment stages a file to send with the next message.
func (i *InputArea) SetAttachment(att *model.Attachment) {
	i.attachment = att
}

// ClearAttachment drops the pending attachment.
func (i *InputArea) ClearAttachment() {
	i.attachment = nil
}

// Update handles key messages for the input.
func (i *InputArea) Update(msg tea.Msg) (*InputArea, tea.Cmd) {
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd
}

// View renders the composer box.
func (i *InputArea) View() string {
	var rows []string

	if i.attachment != nil {
		rows = append(rows, i.renderAttachmentChip())
	}

	inputLine := i.input.View()
	counter := i.renderCharCounter()
	if counter != "" {
		gap := i.width - 6 - lipgloss.Width(inputLine) - lipgloss.Width(counter)
		if gap > 0 {
			inputLine += lipgloss.NewStyle().Width(gap).Render("") + counter
		}
	}
	rows = append(rows, inputLine)

	box := i.theme.InputContainer.Width(i.width - 2)
	if i.focused {
		box = box.BorderForeground(i.theme.Palette.Accent)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderAttachmentChip shows the staged file above the input line.
func (i *InputArea) renderAttachmentChip() string {
	label := "@ " + i.attachment.Name
	if i.attachment.MimeType != "" {
		label += " (" + i.attachment.MimeType + ")"
	}
	chip := i.theme.AttachmentTag.Render(label)
	hint := i.theme.InputPlaceholder.Render(" ctrl+x to remove")
	return chip + hint
}

// renderCharCounter shows remaining characters once the user is close to
// the limit. Quiet until 90% full.
func (i *InputArea) renderCharCounter() string {
	count := len([]rune(i.input.Value()))
	if count < i.maxChars*9/10 {
		return ""
	}

	style := i.theme.InputPlaceholder
	if count >= i.maxChars {
		style = style.Foreground(i.theme.Palette.Error)
	}
	return style.Render(toStr(count) + "/" + toStr(i.maxChars))
}
