// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/model"
)

// =============================================================================
// PALETTE
// =============================================================================

// Palette holds the color tokens for one theme. Every UI style draws from
// these tokens so switching themes restyles the whole application at once.
type Palette struct {
	// Surfaces
	Background lipgloss.Color
	Surface    lipgloss.Color
	SurfaceDim lipgloss.Color
	Overlay    lipgloss.Color

	// Text
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextInverse   lipgloss.Color

	// Accent
	Accent     lipgloss.Color
	AccentDeep lipgloss.Color

	// Message bubbles
	UserBubbleBg     lipgloss.Color
	UserBubbleFg     lipgloss.Color
	UserBubbleBorder lipgloss.Color
	NovaBubbleBg     lipgloss.Color
	NovaBubbleFg     lipgloss.Color
	NovaBubbleBorder lipgloss.Color

	// Semantic
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// =============================================================================
// THEME PALETTES
// =============================================================================

// LightPalette - clean white surfaces with violet accent.
var LightPalette = Palette{
	Background:    lipgloss.Color("#FAFAFA"),
	Surface:       lipgloss.Color("#FFFFFF"),
	SurfaceDim:    lipgloss.Color("#F0F0F5"),
	Overlay:       lipgloss.Color("#E5E5EC"),
	TextPrimary:   lipgloss.Color("#1A1A2E"),
	TextSecondary: lipgloss.Color("#55556E"),
	TextMuted:     lipgloss.Color("#8888A0"),
	TextInverse:   lipgloss.Color("#FFFFFF"),
	Accent:        lipgloss.Color("#6C5CE7"),
	AccentDeep:    lipgloss.Color("#4834D4"),

	UserBubbleBg:     lipgloss.Color("#DBEAFE"),
	UserBubbleFg:     lipgloss.Color("#1E40AF"),
	UserBubbleBorder: lipgloss.Color("#3B82F6"),
	NovaBubbleBg:     lipgloss.Color("#F5F3FF"),
	NovaBubbleFg:     lipgloss.Color("#5B4B8A"),
	NovaBubbleBorder: lipgloss.Color("#C4B5FD"),

	Success: lipgloss.Color("#059669"),
	Warning: lipgloss.Color("#D97706"),
	Error:   lipgloss.Color("#E11D48"),
}

// DarkPalette - deep space blues, the default Nova look.
var DarkPalette = Palette{
	Background:    lipgloss.Color("#0F0F1A"),
	Surface:       lipgloss.Color("#1A1A2E"),
	SurfaceDim:    lipgloss.Color("#15152A"),
	Overlay:       lipgloss.Color("#313244"),
	TextPrimary:   lipgloss.Color("#E8E8F0"),
	TextSecondary: lipgloss.Color("#A6ADC8"),
	TextMuted:     lipgloss.Color("#6B6B85"),
	TextInverse:   lipgloss.Color("#0F0F1A"),
	Accent:        lipgloss.Color("#A29BFE"),
	AccentDeep:    lipgloss.Color("#6C5CE7"),

	UserBubbleBg:     lipgloss.Color("#1D4ED8"),
	UserBubbleFg:     lipgloss.Color("#E0F2FE"),
	UserBubbleBorder: lipgloss.Color("#3B82F6"),
	NovaBubbleBg:     lipgloss.Color("#3B3655"),
	NovaBubbleFg:     lipgloss.Color("#E9E4F5"),
	NovaBubbleBorder: lipgloss.Color("#A78BFA"),

	Success: lipgloss.Color("#34D399"),
	Warning: lipgloss.Color("#FBBF24"),
	Error:   lipgloss.Color("#FB7185"),
}

// SunrisePalette - warm amber tones.
var SunrisePalette = Palette{
	Background:    lipgloss.Color("#FFF4E6"),
	Surface:       lipgloss.Color("#FFFAF2"),
	SurfaceDim:    lipgloss.Color("#FCEEDC"),
	Overlay:       lipgloss.Color("#F0DCC3"),
	TextPrimary:   lipgloss.Color("#4A2C2A"),
	TextSecondary: lipgloss.Color("#7A5650"),
	TextMuted:     lipgloss.Color("#B08D84"),
	TextInverse:   lipgloss.Color("#FFF4E6"),
	Accent:        lipgloss.Color("#E17055"),
	AccentDeep:    lipgloss.Color("#C0523C"),

	UserBubbleBg:     lipgloss.Color("#FFE0C2"),
	UserBubbleFg:     lipgloss.Color("#8A3E1E"),
	UserBubbleBorder: lipgloss.Color("#F0932B"),
	NovaBubbleBg:     lipgloss.Color("#FDEBD3"),
	NovaBubbleFg:     lipgloss.Color("#6E3B2C"),
	NovaBubbleBorder: lipgloss.Color("#E17055"),

	Success: lipgloss.Color("#27AE60"),
	Warning: lipgloss.Color("#E67E22"),
	Error:   lipgloss.Color("#C0392B"),
}

// RosePalette - soft pink tones.
var RosePalette = Palette{
	Background:    lipgloss.Color("#FFF0F3"),
	Surface:       lipgloss.Color("#FFF8FA"),
	SurfaceDim:    lipgloss.Color("#FCE4EC"),
	Overlay:       lipgloss.Color("#F3CBD8"),
	TextPrimary:   lipgloss.Color("#43202C"),
	TextSecondary: lipgloss.Color("#7A4558"),
	TextMuted:     lipgloss.Color("#B38A99"),
	TextInverse:   lipgloss.Color("#FFF0F3"),
	Accent:        lipgloss.Color("#E84393"),
	AccentDeep:    lipgloss.Color("#B83279"),

	UserBubbleBg:     lipgloss.Color("#FAD1E2"),
	UserBubbleFg:     lipgloss.Color("#8F2457"),
	UserBubbleBorder: lipgloss.Color("#FD79A8"),
	NovaBubbleBg:     lipgloss.Color("#FBE4EE"),
	NovaBubbleFg:     lipgloss.Color("#6E2B45"),
	NovaBubbleBorder: lipgloss.Color("#E84393"),

	Success: lipgloss.Color("#2ECC71"),
	Warning: lipgloss.Color("#F39C12"),
	Error:   lipgloss.Color("#D63054"),
}

// PaletteFor returns the palette for a theme. Unknown themes fall back to
// the default theme's palette.
func PaletteFor(theme model.Theme) Palette {
	switch theme {
	case model.ThemeLight:
		return LightPalette
	case model.ThemeDark:
		return DarkPalette
	case model.ThemeSunrise:
		return SunrisePalette
	case model.ThemeRose:
		return RosePalette
	default:
		return PaletteFor(model.DefaultTheme)
	}
}
