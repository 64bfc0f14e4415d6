// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view component for the NovaChat TUI.

The chat package implements a complete terminal-based chat interface using
the Bubble Tea framework, driven by the session controller.

# Key Components

## Model (model.go)

The Model struct is the central Bubble Tea model. It owns presentation
state only: component instances, layout dimensions, and modal flags.
Conversation content, settings, and history live in the session controller
and are re-read after every operation.

## Update Loop (update.go)

Window resizes, keyboard dispatch for the composer and the modal panels
(history sidebar, settings, help, attach prompt), and the handlers for
async results: send completion, attachment reads, exports.

## View Rendering (view.go)

Renders the frame: header with the ambient animation strip, the transcript
viewport or welcome screen, the optional sidebar and panels, the composer
with the typing indicator, the shortcut status bar, and the toast stack.

## Commands (commands.go)

Slash commands typed into the composer: /help, /new, /clear, /delete,
/export, /tone, /theme, /anim, /settings, /quit.

# Threading

The controller's Send blocks, so it runs inside a tea.Cmd goroutine. The
transcript refreshes on the typing-indicator tick while a reply is in
flight, and fully resyncs when sendDoneMsg arrives. Controller
notifications reach the UI through the shared ToastManager, which is
mutex-guarded for exactly this cross-goroutine use.
*/
package chat
