// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/novachat/internal/model"
)

// Theme holds all the styled components for the application, built from one
// of the named palettes. It detects the terminal's color capability on
// construction.
type Theme struct {
	// Terminal capabilities
	HasTrueColor bool
	ColorProfile termenv.Profile

	// The theme name this Theme was built from
	Name model.Theme

	// Palette backing the styles, for components that need raw colors
	Palette Palette

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble    lipgloss.Style
	NovaBubble    lipgloss.Style
	BubbleSender  lipgloss.Style
	BubbleTime    lipgloss.Style
	AttachmentTag lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SIDEBAR (CHAT HISTORY) STYLES
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionMeta         lipgloss.Style

	// ==========================================================================
	// SPINNER AND TYPING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	Animation    lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style
	ToastTitle   lipgloss.Style
	ToastMessage lipgloss.Style

	// ==========================================================================
	// SETTINGS PANEL STYLES
	// ==========================================================================

	SettingsBox      lipgloss.Style
	SettingsLabel    lipgloss.Style
	SettingsValue    lipgloss.Style
	SettingsSelected lipgloss.Style

	// ==========================================================================
	// WELCOME SCREEN STYLES
	// ==========================================================================

	WelcomeBox  lipgloss.Style
	WelcomeLogo lipgloss.Style
	WelcomeInfo lipgloss.Style
}

// NewTheme creates a theme from a named palette with all styles configured.
func NewTheme(name model.Theme) *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		Name:         name,
		Palette:      PaletteFor(name),
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles from the palette.
func (t *Theme) initStyles() {
	p := t.Palette

	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserBubbleFg).
		Background(p.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.NovaBubble = lipgloss.NewStyle().
		Foreground(p.NovaBubbleFg).
		Background(p.NovaBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.NovaBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.BubbleSender = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.BubbleTime = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	t.AttachmentTag = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Background(p.Overlay).
		Padding(0, 1).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(p.SurfaceDim).
		Foreground(p.TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Padding(0, 1)

	t.SessionItem = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		Padding(0, 1)

	t.SessionItemSelected = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SessionMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Spinner and typing indicator
	t.Spinner = lipgloss.NewStyle().
		Foreground(p.Accent)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(p.TextSecondary)

	t.Animation = lipgloss.NewStyle().
		Foreground(p.AccentDeep)

	// Toasts
	t.ToastError = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(p.Error).
		Background(p.Surface).
		Padding(0, 2)

	t.ToastWarning = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Warning).
		Background(p.Surface).
		Padding(0, 2)

	t.ToastTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Error)

	t.ToastMessage = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	// Settings panel
	t.SettingsBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Background(p.Surface).
		Padding(1, 2)

	t.SettingsLabel = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Width(12)

	t.SettingsValue = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	t.SettingsSelected = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextInverse).
		Bold(true)

	// Welcome screen
	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(p.Accent).
		Padding(2, 4).
		Align(lipgloss.Center)

	t.WelcomeLogo = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(p.TextSecondary)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
