// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT - Styled chat bubbles
// =============================================================================

// MessageBubble renders a single message as a styled bubble. User messages
// hug the right edge; Nova replies hug the left.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	IsLatest      bool
	ShowTimestamp bool
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for the given message.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		msg = &model.Message{Role: model.RoleAssistant}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// SetIsLatest marks this as the newest message in the transcript.
func (b *MessageBubble) SetIsLatest(latest bool) {
	b.IsLatest = latest
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.Role == model.RoleUser {
		return b.renderUserBubble()
	}
	return b.renderNovaBubble()
}

// ==========================================================================
// USER BUBBLE - accent tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := strings.TrimRight(b.Message.Content, "\n")
	if content == "" && b.Message.Attachment != nil {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)

	header := b.renderHeader()
	if tag := b.renderAttachmentTag(); tag != "" {
		bubble = lipgloss.JoinVertical(lipgloss.Right, bubble, tag)
	}

	// Right-align with a left margin
	leftMargin := b.Width - lipgloss.Width(bubble) - 2
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// NOVA BUBBLE - surface tones, left-aligned, markdown-aware
// ==========================================================================

func (b *MessageBubble) renderNovaBubble() string {
	content := strings.TrimRight(b.Message.Content, "\n")
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	// UNICODE: code blocks keep their own width; prose is word-wrapped.
	rendered := RenderMarkdownBody(content, maxContentWidth, b.theme)

	contentWidth := minInt(maxLineWidth(rendered)+4, b.Width-8)

	bubble := b.theme.NovaBubble.Width(contentWidth).Render(rendered)
	header := b.renderHeader()

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// HELPERS
// ==========================================================================

// renderHeader renders "You · 3:04 PM" or "Nova · 3:04 PM".
func (b *MessageBubble) renderHeader() string {
	sender := b.theme.BubbleSender.Render(b.Message.Role.DisplayName())
	if !b.ShowTimestamp {
		return sender
	}
	ts := b.renderTimestamp()
	if ts == "" {
		return sender
	}
	return sender + " " + ts
}

// renderTimestamp renders a dimmed timestamp, date-prefixed when not today.
func (b *MessageBubble) renderTimestamp() string {
	ts := b.Message.Timestamp
	if ts.IsZero() {
		return ""
	}

	now := time.Now()
	var formatted string
	if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() {
		formatted = ts.Format("3:04 PM")
	} else {
		formatted = ts.Format("Jan 2, 3:04 PM")
	}
	return b.theme.BubbleTime.Render(formatted)
}

// renderAttachmentTag renders a small chip below the bubble for a message
// that carries a file.
func (b *MessageBubble) renderAttachmentTag() string {
	att := b.Message.Attachment
	if att == nil {
		return ""
	}
	name := att.Name
	if name == "" {
		name = "attachment"
	}
	label := "@ " + name
	if att.MimeType != "" && !att.IsImage() {
		label += " (" + att.MimeType + ")"
	}
	return b.theme.AttachmentTag.Render(label)
}

// wordWrap wraps text to fit within the specified width, preserving
// existing line breaks.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if runeLen(currentLine)+1+runeLen(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
	}
	return result.String()
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// runeLen returns the number of runes in a string.
// UNICODE: len() would count bytes.
func runeLen(s string) int {
	return len([]rune(s))
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a whole transcript of bubbles.
type MessageList struct {
	Messages       []model.Message
	Width          int
	ShowTimestamps bool
	theme          *styles.Theme
}

// NewMessageList creates an empty MessageList.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Width:          80,
		ShowTimestamps: true,
		theme:          theme,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// View renders all messages, blank-line separated.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(ml.theme.Palette.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)
		return emptyStyle.Render("No messages yet. Say hi to Nova!")
	}

	var bubbles []string
	for i := range ml.Messages {
		bubble := NewMessageBubble(&ml.Messages[i], ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubble.SetIsLatest(i == len(ml.Messages)-1)
		bubbles = append(bubbles, bubble.View())
	}

	return strings.Join(bubbles, "\n\n")
}
