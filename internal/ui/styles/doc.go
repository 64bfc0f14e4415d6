// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the novachat TUI.

This package defines the color palettes, theme construction, and animation
system used throughout the application.

# Palettes (palette.go)

One Palette per in-app theme:

	LightPalette   - clean white surfaces with violet accent
	DarkPalette    - deep space blues (default)
	SunrisePalette - warm amber tones
	RosePalette    - soft pink tones

Each palette carries surface, text, accent, bubble, and semantic color
tokens. PaletteFor maps a model.Theme to its palette.

# Theme System (theme.go)

The Theme struct builds every lipgloss style from a palette:

	theme := styles.NewTheme(model.ThemeDark)
	header := theme.Header.Render("NovaChat")

Themes also detect terminal color capability via termenv and carry the
current layout dimensions for responsive rendering.

# Animation System (animations.go)

Background animations for the idle header strip:

	OrbitAnimation  - a satellite circling a star
	NebulaAnimation - drifting cloud shimmer
	PulseAnimation  - expanding and contracting ring
	NoneAnimation   - disabled

AnimationFor maps a model.Animation to its frame set. LineSpinner and
DotsSpinner cover the waiting and typing indicators.
*/
package styles
