// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the NovaChat TUI.

This package contains a collection of styled, interactive components built on
top of the Bubble Tea and Lip Gloss libraries. Each component is designed to
be visually consistent with the NovaChat design language.

# Core Components

## Input Components

InputArea (input.go) - Message composer with attachment chip and char counter.

## Display Components

Header (header.go) - Brand bar with session title, tone badge and the
animated decoration strip.
MessageBubble / MessageList (message.go) - Styled chat bubbles.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma.
Sidebar (sidebar.go) - Chat history list with keyboard selection.
SettingsPanel (settings.go) - Tone / theme / animation pickers.
Welcome (welcome.go) - First-run greeting screen.

## Progress and Feedback

TypingIndicator / InlineSpinner (spinner.go) - Animated waiting states.
Toast / ToastManager (toast.go) - Transient overlay notifications fed by
controller events.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme(model.ThemeDark)
	header := components.NewHeader(theme, model.AnimationOrbit)
	header.SetWidth(80)
	view := header.View()
*/
package components
