// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/ui/styles"
	"github.com/jeranaias/novachat/internal/util"
)

// =============================================================================
// SIDEBAR COMPONENT - Chat history list
// =============================================================================

// Sidebar lists saved sessions, newest first, with keyboard selection.
type Sidebar struct {
	sessions []model.Session
	cursor   int
	activeID string
	width    int
	height   int
	theme    *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{
		width:  32,
		height: 20,
		theme:  theme,
	}
}

// SetSessions replaces the listed sessions. Callers pass them already
// sorted newest first. The cursor is clamped and the selection kept on
// the active session when it is still present.
func (s *Sidebar) SetSessions(sessions []model.Session) {
	s.sessions = sessions
	if s.cursor >= len(sessions) {
		s.cursor = len(sessions) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	for i, sess := range sessions {
		if sess.ID == s.activeID {
			s.cursor = i
			break
		}
	}
}

// SetActiveID marks the session currently open in the chat view.
func (s *Sidebar) SetActiveID(id string) {
	s.activeID = id
}

// SetSize sets the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Len returns the number of listed sessions.
func (s *Sidebar) Len() int {
	return len(s.sessions)
}

// CursorUp moves the selection up.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// CursorDown moves the selection down.
func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.sessions)-1 {
		s.cursor++
	}
}

// Selected returns the session under the cursor.
func (s *Sidebar) Selected() (model.Session, bool) {
	if s.cursor < 0 || s.cursor >= len(s.sessions) {
		return model.Session{}, false
	}
	return s.sessions[s.cursor], true
}

// View renders the sidebar panel.
func (s *Sidebar) View() string {
	title := s.theme.SidebarTitle.Render("History")

	var rows []string
	rows = append(rows, title)

	if len(s.sessions) == 0 {
		rows = append(rows, s.theme.SessionMeta.Render("no saved chats"))
	} else {
		// Window the list around the cursor so it fits the panel height.
		// Each item takes two rows (title + meta).
		visible := (s.height - 4) / 2
		if visible < 1 {
			visible = 1
		}
		start := 0
		if s.cursor >= visible {
			start = s.cursor - visible + 1
		}
		end := start + visible
		if end > len(s.sessions) {
			end = len(s.sessions)
		}

		for i := start; i < end; i++ {
			rows = append(rows, s.renderItem(i))
		}
	}

	panel := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return s.theme.Sidebar.Width(s.width).Height(s.height).Render(panel)
}

// renderItem renders one session entry: marker, title, relative time.
func (s *Sidebar) renderItem(i int) string {
	sess := s.sessions[i]
	innerWidth := s.width - 6
	if innerWidth < 10 {
		innerWidth = 10
	}

	marker := "  "
	if sess.ID == s.activeID {
		marker = "* "
	}

	title := util.TruncateWidth(sess.Title, innerWidth-2)
	if title == "" {
		title = "(untitled)"
	}

	line := marker + title
	meta := "  " + relativeTime(sess.Timestamp) + " - " + toStr(len(sess.Messages)) + " msgs"

	itemStyle := s.theme.SessionItem
	if i == s.cursor {
		itemStyle = s.theme.SessionItemSelected
	}

	return itemStyle.Width(innerWidth + 2).Render(line) + "\n" +
		s.theme.SessionMeta.Render(meta)
}

// relativeTime formats "2m ago" style timestamps for the list.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return toStr(int(d.Minutes())) + "m ago"
	case d < 24*time.Hour:
		return toStr(int(d.Hours())) + "h ago"
	case d < 7*24*time.Hour:
		return toStr(int(d.Hours()/24)) + "d ago"
	default:
		return t.Format("Jan 2")
	}
}
