// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/session"
	"github.com/jeranaias/novachat/internal/ui/styles"
)

// =============================================================================
// TOAST NOTIFICATIONS - Transient overlay messages
// =============================================================================

// ToastKind classifies a toast for styling and duration.
type ToastKind int

const (
	// ToastError reports a failed operation (storage write, completion failure).
	ToastError ToastKind = iota
	// ToastWarning reports a degraded-but-continuing condition.
	ToastWarning
	// ToastStatus reports a neutral event (export complete, settings saved).
	ToastStatus
)

// Display durations per kind. Errors linger longer so the user can read
// the detail before it fades.
const (
	errorToastDuration   = 8 * time.Second
	warningToastDuration = 6 * time.Second
	statusToastDuration  = 4 * time.Second
)

// maxVisibleToasts bounds the stack so toasts never bury the chat.
const maxVisibleToasts = 5

// Toast is a single transient notification.
type Toast struct {
	ID        string
	Kind      ToastKind
	Title     string
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast creates a toast with the default duration for its kind.
func NewToast(kind ToastKind, title, message string) Toast {
	d := statusToastDuration
	switch kind {
	case ToastError:
		d = errorToastDuration
	case ToastWarning:
		d = warningToastDuration
	}
	return Toast{
		ID:        generateToastID(),
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// FromNotification converts a controller notification into a toast.
func FromNotification(n session.Notification) Toast {
	kind := ToastStatus
	switch n.Kind {
	case session.NoteError:
		kind = ToastError
	case session.NoteWarning:
		kind = ToastWarning
	}
	return NewToast(kind, n.Title, n.Message)
}

// Expired reports whether the toast has outlived its duration.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds the active toast stack.
// RELIABILITY: mutex-guarded because the controller notifier callback can
// fire from a completion goroutine while the UI renders.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{}
}

// Add pushes a toast onto the stack, newest first. The stack is trimmed
// to maxVisibleToasts, dropping the oldest.
func (tm *ToastManager) Add(t Toast) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.toasts = append([]Toast{t}, tm.toasts...)
	if len(tm.toasts) > maxVisibleToasts {
		tm.toasts = tm.toasts[:maxVisibleToasts]
	}
}

// Dismiss removes a toast by ID.
func (tm *ToastManager) Dismiss(id string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for i, t := range tm.toasts {
		if t.ID == id {
			tm.toasts = append(tm.toasts[:i], tm.toasts[i+1:]...)
			return
		}
	}
}

// DismissAll clears the stack.
func (tm *ToastManager) DismissAll() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.toasts = nil
}

// Tick drops expired toasts and reports whether any remain.
func (tm *ToastManager) Tick(now time.Time) bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	kept := tm.toasts[:0]
	for _, t := range tm.toasts {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	tm.toasts = kept
	return len(tm.toasts) > 0
}

// Active returns a snapshot of the current stack, newest first.
func (tm *ToastManager) Active() []Toast {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	out := make([]Toast, len(tm.toasts))
	copy(out, tm.toasts)
	return out
}

// Len returns the number of active toasts.
func (tm *ToastManager) Len() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.toasts)
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// ToastTickMsg drives toast expiry.
type ToastTickMsg time.Time

// ToastAddMsg carries a new toast into the update loop.
type ToastAddMsg struct {
	Toast Toast
}

// ToastDismissMsg dismisses a toast by ID.
type ToastDismissMsg struct {
	ID string
}

// ToastTickCmd schedules the next expiry check.
// PERFORMANCE: 100ms is fine-grained enough for smooth dismissal without
// re-rendering at animation rates.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg(t)
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// toastContentWidth is the wrap width inside a toast box.
const toastContentWidth = 44

// RenderToast renders a single toast box.
func RenderToast(t Toast, theme *styles.Theme) string {
	var box lipgloss.Style
	var icon string
	switch t.Kind {
	case ToastError:
		box = theme.ToastError
		icon = styles.StatusIndicators.Error
	case ToastWarning:
		box = theme.ToastWarning
		icon = styles.StatusIndicators.Warning
	default:
		box = theme.ToastWarning.BorderForeground(theme.Palette.Accent)
		icon = styles.StatusIndicators.Info
	}

	title := theme.ToastTitle.Render(icon + " " + t.Title)
	body := theme.ToastMessage.Render(wrapToastText(t.Message, toastContentWidth))

	if t.Message == "" {
		return box.Render(title)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

// RenderToastStack renders the active toasts anchored to the bottom-right
// corner of the given area. Returns "" when the stack is empty.
func RenderToastStack(tm *ToastManager, theme *styles.Theme, width, height int) string {
	toasts := tm.Active()
	if len(toasts) == 0 {
		return ""
	}

	var rendered []string
	for _, t := range toasts {
		rendered = append(rendered, RenderToast(t, theme))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)

	return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, stack)
}

// wrapToastText hard-wraps message text so long storage errors do not
// stretch the toast across the screen.
func wrapToastText(text string, width int) string {
	if width <= 0 || text == "" {
		return text
	}

	var out strings.Builder
	for li, line := range strings.Split(text, "\n") {
		if li > 0 {
			out.WriteString("\n")
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			if len([]rune(cur))+1+len([]rune(w)) <= width {
				cur += " " + w
			} else {
				out.WriteString(cur)
				out.WriteString("\n")
				cur = w
			}
		}
		out.WriteString(cur)
	}
	return out.String()
}

// generateToastID returns a short random identifier.
func generateToastID() string {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "toast-" + hex.EncodeToString([]byte{byte(time.Now().UnixNano())})
	}
	return "toast-" + hex.EncodeToString(b[:])
}
