// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the chat session controller.
package session

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// NotificationKind classifies a controller notification.
type NotificationKind int

const (
	// NoteWarning is a non-blocking caution (send still proceeds).
	NoteWarning NotificationKind = iota
	// NoteError reports a failed operation the user may want to retry.
	NoteError
)

// Notification is a toast-equivalent message for the presentation layer.
type Notification struct {
	Kind    NotificationKind
	Title   string
	Message string
}

// Notifier receives controller notifications. Implementations must not call
// back into the Controller; notifications are delivered outside its lock but
// on the calling goroutine.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}
