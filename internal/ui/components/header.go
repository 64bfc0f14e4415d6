// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/ui/styles"
	"github.com/jeranaias/novachat/internal/util"
)

// =============================================================================
// HEADER COMPONENT - Brand bar with the ambient animation strip
// =============================================================================

// Header renders the top bar: brand, current session title, and the
// animated decoration configured in settings.
type Header struct {
	Width        int
	SessionTitle string
	Tone         model.Tone
	animation    styles.SpinnerConfig
	tick         int
	theme        *styles.Theme
}

// NewHeader creates a header with the given theme and animation.
func NewHeader(theme *styles.Theme, anim model.Animation) *Header {
	return &Header{
		Width:     80,
		animation: styles.AnimationFor(anim),
		theme:     theme,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetSessionTitle sets the active session title shown in the bar.
func (h *Header) SetSessionTitle(title string) {
	h.SessionTitle = title
}

// SetTone sets the tone badge.
func (h *Header) SetTone(tone model.Tone) {
	h.Tone = tone
}

// SetAnimation swaps the background animation.
func (h *Header) SetAnimation(anim model.Animation) {
	h.animation = styles.AnimationFor(anim)
	h.tick = 0
}

// Animated reports whether the header needs tick messages.
func (h *Header) Animated() bool {
	return len(h.animation.Frames) > 1
}

// =============================================================================
// ANIMATION TICKS
// =============================================================================

// AnimationTickMsg advances the header animation.
type AnimationTickMsg time.Time

// AnimationTickCmd schedules the next animation frame.
func (h *Header) AnimationTickCmd() tea.Cmd {
	if !h.Animated() {
		return nil
	}
	return tea.Tick(h.animation.Duration(), func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// Advance moves to the next animation frame.
func (h *Header) Advance() {
	h.tick++
}

// =============================================================================
// RENDERING
// =============================================================================

// View renders the full header bar.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		return h.ViewCompact()
	}
	innerWidth := width - 4

	brand := h.renderBrand()

	// Session title, truncated to leave room for brand and strip
	title := ""
	if h.SessionTitle != "" {
		title = h.theme.HeaderSubtitle.Render(
			util.TruncateWidth(h.SessionTitle, innerWidth/2))
	}

	strip := h.theme.Animation.Render(h.animation.Frame(h.tick))
	tone := h.renderToneBadge()

	left := brand
	if title != "" {
		left += "  " + title
	}
	right := strip
	if tone != "" {
		right = tone + "  " + strip
	}

	// Spread left and right across the inner width
	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	content := left + lipgloss.NewStyle().Width(gap).Render("") + right

	return h.theme.Header.Width(width).Render(content)
}

// ViewCompact renders a single-line header for narrow terminals.
func (h *Header) ViewCompact() string {
	line := h.renderBrand()
	if h.SessionTitle != "" {
		line += " " + h.theme.HeaderSubtitle.Render(
			util.TruncateWidth(h.SessionTitle, 20))
	}
	return line
}

// renderBrand renders "< NovaChat >" with a gradient title when the
// terminal supports true color.
func (h *Header) renderBrand() string {
	accent := lipgloss.NewStyle().Foreground(h.theme.Palette.AccentDeep)

	var title string
	if h.theme.HasTrueColor {
		title = GradientTitle("NovaChat", h.theme.Palette.Accent, h.theme.Palette.AccentDeep)
	} else {
		title = h.theme.HeaderTitle.Render("NovaChat")
	}

	return accent.Render("< ") + title + accent.Render(" >")
}

// renderToneBadge renders the active tone, e.g. "[informal]".
func (h *Header) renderToneBadge() string {
	if h.Tone == "" {
		return ""
	}
	return h.theme.HeaderSubtitle.Render("[" + h.Tone.String() + "]")
}

// =============================================================================
// GRADIENT TITLE
// =============================================================================

// GradientTitle renders text with a per-character color gradient.
// Needs true color support; callers should fall back to a flat style.
func GradientTitle(text string, startColor, endColor lipgloss.Color) string {
	if len(text) == 0 {
		return ""
	}
	if len(text) < 3 {
		return lipgloss.NewStyle().Foreground(startColor).Render(text)
	}

	var result []byte
	chars := []rune(text)
	n := len(chars)

	for i, char := range chars {
		t := float64(i) / float64(n-1)
		color := interpolateColor(startColor, endColor, t)
		style := lipgloss.NewStyle().Foreground(color)
		result = append(result, style.Render(string(char))...)
	}
	return string(result)
}

// interpolateColor blends two hex colors channel by channel.
func interpolateColor(start, end lipgloss.Color, t float64) lipgloss.Color {
	startHex := string(start)
	endHex := string(end)

	if len(startHex) > 0 && startHex[0] == '#' {
		startHex = startHex[1:]
	}
	if len(endHex) > 0 && endHex[0] == '#' {
		endHex = endHex[1:]
	}

	sr, sg, sb := parseHexColor(startHex)
	er, eg, eb := parseHexColor(endHex)

	r := uint8(float64(sr) + t*(float64(er)-float64(sr)))
	g := uint8(float64(sg) + t*(float64(eg)-float64(sg)))
	b := uint8(float64(sb) + t*(float64(eb)-float64(sb)))

	return lipgloss.Color(formatHexColor(r, g, b))
}

// parseHexColor parses "RRGGBB" into components, defaulting to white.
func parseHexColor(hex string) (r, g, b uint8) {
	if len(hex) < 6 {
		return 255, 255, 255
	}
	r = parseHexByte(hex[0:2])
	g = parseHexByte(hex[2:4])
	b = parseHexByte(hex[4:6])
	return
}

// parseHexByte parses a two-character hex string into a byte.
func parseHexByte(s string) uint8 {
	if len(s) != 2 {
		return 255
	}
	var result uint8
	for _, c := range s {
		result *= 16
		switch {
		case c >= '0' && c <= '9':
			result += uint8(c - '0')
		case c >= 'a' && c <= 'f':
			result += uint8(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			result += uint8(c - 'A' + 10)
		default:
			return 255
		}
	}
	return result
}

// formatHexColor formats RGB values as "#RRGGBB".
func formatHexColor(r, g, b uint8) string {
	const hexChars = "0123456789ABCDEF"
	return "#" +
		string(hexChars[r>>4]) + string(hexChars[r&0xF]) +
		string(hexChars[g>>4]) + string(hexChars[g&0xF]) +
		string(hexChars[b>>4]) + string(hexChars[b&0xF])
}
