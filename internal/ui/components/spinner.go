// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/novachat/internal/ui/styles"
)

// =============================================================================
// TYPING INDICATOR - "Nova is typing" while a reply is in flight
// =============================================================================

// TypingIndicator shows an animated spinner and elapsed time while the
// completion request runs.
type TypingIndicator struct {
	spinner   spinner.Model
	startTime time.Time
	active    bool
	showTimer bool
	theme     *styles.Theme
}

// NewTypingIndicator creates an indicator using the dots animation.
func NewTypingIndicator(theme *styles.Theme) TypingIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: styles.DotsSpinner.Frames,
		FPS:    styles.DotsSpinner.Duration(),
	}
	s.Style = theme.Spinner
	return TypingIndicator{
		spinner:   s,
		showTimer: true,
		theme:     theme,
	}
}

// Start activates the indicator and records the start time.
func (t *TypingIndicator) Start() tea.Cmd {
	t.active = true
	t.startTime = time.Now()
	return t.spinner.Tick
}

// Stop deactivates the indicator.
func (t *TypingIndicator) Stop() {
	t.active = false
}

// Active reports whether the indicator is running.
func (t *TypingIndicator) Active() bool {
	return t.active
}

// Elapsed returns the time since Start.
func (t *TypingIndicator) Elapsed() time.Duration {
	if t.startTime.IsZero() {
		return 0
	}
	return time.Since(t.startTime)
}

// Update advances the spinner animation.
func (t TypingIndicator) Update(msg tea.Msg) (TypingIndicator, tea.Cmd) {
	if !t.active {
		return t, nil
	}
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders "Nova is typing... (3s)".
func (t TypingIndicator) View() string {
	if !t.active {
		return ""
	}

	result := t.theme.ThinkingText.Render("Nova is typing") + t.spinner.View()

	if t.showTimer && !t.startTime.IsZero() {
		result += t.theme.BubbleTime.Render(" (" + formatElapsed(time.Since(t.startTime)) + ")")
	}
	return result
}

// =============================================================================
// INLINE SPINNER - bare frame for status lines
// =============================================================================

// InlineSpinner is a minimal spinner for embedding in a status bar.
type InlineSpinner struct {
	spinner spinner.Model
	active  bool
}

// NewInlineSpinner creates an inline spinner with the line animation.
func NewInlineSpinner(theme *styles.Theme) InlineSpinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    styles.LineSpinner.Duration(),
	}
	s.Style = theme.Spinner
	return InlineSpinner{spinner: s}
}

// Start activates the spinner.
func (i *InlineSpinner) Start() tea.Cmd {
	i.active = true
	return i.spinner.Tick
}

// Stop deactivates the spinner.
func (i *InlineSpinner) Stop() {
	i.active = false
}

// Update advances the animation.
func (i InlineSpinner) Update(msg tea.Msg) (InlineSpinner, tea.Cmd) {
	if !i.active {
		return i, nil
	}
	var cmd tea.Cmd
	i.spinner, cmd = i.spinner.Update(msg)
	return i, cmd
}

// View renders the current frame, or "" when stopped.
func (i InlineSpinner) View() string {
	if !i.active {
		return ""
	}
	return i.spinner.View()
}

// formatElapsed formats a duration as "42s" or "2m 3s".
func formatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return toStr(seconds) + "s"
	}
	return toStr(seconds/60) + "m " + toStr(seconds%60) + "s"
}
