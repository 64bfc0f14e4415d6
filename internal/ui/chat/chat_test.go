// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/novachat/internal/completion"
	"github.com/jeranaias/novachat/internal/config"
	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/session"
	"github.com/jeranaias/novachat/internal/storage"
	"github.com/jeranaias/novachat/internal/ui/components"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := storage.NewMemStore()
	client := &completion.MockClient{Reply: "mock reply"}
	ctrl := session.New(store, client)
	cfg := config.Default()
	m := New(ctrl, cfg, WithVersion("0.0.0-test"))

	// Simulate the first WindowSizeMsg so the viewport exists.
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+h":
		return tea.KeyMsg{Type: tea.KeyCtrlH}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestViewRendersWelcomeWhenEmpty(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	if !strings.Contains(view, "NovaChat") {
		t.Error("initial view should show the welcome screen")
	}
}

func TestSubmitStartsSend(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("hello nova")

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)

	if !m.IsSending() {
		t.Fatal("submit should enter the sending state")
	}
	if cmd == nil {
		t.Fatal("submit should return the send command batch")
	}
	if m.input.Value() != "" {
		t.Error("composer should clear on submit")
	}
}

func TestSubmitEmptyIsNoOp(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(keyMsg("enter"))
	m = next.(Model)
	if m.IsSending() {
		t.Error("empty submit should not start a send")
	}
}

func TestSecondSubmitWhileSendingWarns(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("first")
	next, _ := m.Update(keyMsg("enter"))
	m = next.(Model)

	m.input.SetValue("second")
	next, _ = m.Update(keyMsg("enter"))
	m = next.(Model)

	if m.toasts.Len() == 0 {
		t.Error("submitting during a send should raise a toast")
	}
}

func TestSendDoneResyncsState(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("hi")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)

	// Run the batched commands synchronously and feed the done message back.
	drainForSendDone(t, &m, cmd)

	if m.IsSending() {
		t.Error("sendDoneMsg should clear the sending state")
	}
	view := m.View()
	if !strings.Contains(view, "mock reply") {
		t.Error("transcript should contain the reply after send completes")
	}
}

// drainForSendDone executes commands until a sendDoneMsg is processed.
func drainForSendDone(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			for _, sub := range msg {
				queue = append(queue, sub)
			}
		case sendDoneMsg:
			next, _ := m.Update(msg)
			*m = next.(Model)
			return
		}
	}
	t.Fatal("send command batch never produced sendDoneMsg")
}

func TestNewChatKeyClearsTranscript(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("hi")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	drainForSendDone(t, &m, cmd)

	next, _ = m.Update(keyMsg("ctrl+n"))
	m = next.(Model)

	if len(m.ctrl.Messages()) != 0 {
		t.Error("ctrl+n should start an empty chat")
	}
}

func TestSidebarToggleAndLoad(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("remember me")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	drainForSendDone(t, &m, cmd)
	firstID := m.ctrl.CurrentChatID()

	next, _ = m.Update(keyMsg("ctrl+n"))
	m = next.(Model)

	next, _ = m.Update(keyMsg("ctrl+h"))
	m = next.(Model)
	if !m.showSidebar {
		t.Fatal("ctrl+h should open the sidebar")
	}

	next, _ = m.Update(keyMsg("enter"))
	m = next.(Model)
	if m.showSidebar {
		t.Error("selecting a session should close the sidebar")
	}
	if m.ctrl.CurrentChatID() != firstID {
		t.Error("selecting the saved session should load it")
	}
}

func TestSettingsPanelSavesTone(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyMsg("ctrl+t"))
	m = next.(Model)
	if m.settings == nil {
		t.Fatal("ctrl+t should open settings")
	}

	next, _ = m.Update(keyMsg("right"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("enter"))
	m = next.(Model)

	if m.settings != nil {
		t.Error("enter should close the settings panel")
	}
	if m.ctrl.Settings().Tone == model.DefaultTone {
		t.Error("cycled tone should be persisted")
	}
}

func TestSettingsPanelEscDiscards(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(keyMsg("ctrl+t"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("right"))
	m = next.(Model)
	next, _ = m.Update(keyMsg("esc"))
	m = next.(Model)

	if m.settings != nil {
		t.Error("esc should close the settings panel")
	}
	if m.ctrl.Settings().Tone != model.DefaultTone {
		t.Error("esc should discard the edit")
	}
}

func TestUnknownSlashCommandToasts(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/frobnicate")
	next, _ := m.Update(keyMsg("enter"))
	m = next.(Model)

	if m.toasts.Len() == 0 {
		t.Error("unknown command should raise a toast")
	}
	if m.IsSending() {
		t.Error("slash commands must not start a send")
	}
}

func TestToneCommand(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/tone brutal")
	next, _ := m.Update(keyMsg("enter"))
	m = next.(Model)

	if m.ctrl.Settings().Tone != model.ToneBrutal {
		t.Errorf("tone = %q after /tone brutal", m.ctrl.Settings().Tone)
	}
}

func TestThemeCommandRethemes(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/theme light")
	next, _ := m.Update(keyMsg("enter"))
	m = next.(Model)

	if m.ctrl.Settings().Theme != model.ThemeLight {
		t.Errorf("theme = %q after /theme light", m.ctrl.Settings().Theme)
	}
	if m.theme.Name != model.ThemeLight {
		t.Error("active theme should rebuild after /theme")
	}
}

func TestClearCommandEmptiesHistory(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("hi")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	drainForSendDone(t, &m, cmd)

	m.input.SetValue("/clear")
	next, _ = m.Update(keyMsg("enter"))
	m = next.(Model)

	if len(m.ctrl.ChatHistory()) != 0 {
		t.Error("/clear should delete all saved sessions")
	}
	if len(m.ctrl.Messages()) != 0 {
		t.Error("/clear should start a fresh chat")
	}
}

func TestAttachmentReadError(t *testing.T) {
	m := newTestModel(t)
	cmd := readAttachmentCmd("/does/not/exist-xyz")
	msg := cmd()
	read, ok := msg.(attachmentReadMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if read.Err == nil {
		t.Fatal("missing file should error")
	}

	next, _ := m.Update(read)
	m = next.(Model)
	if m.toasts.Len() == 0 {
		t.Error("failed read should raise a toast")
	}
}

func TestDetectMimeType(t *testing.T) {
	cases := []struct {
		path string
		data []byte
		want string
	}{
		{"photo.png", []byte("\x89PNG\r\n\x1a\n123456"), "image/png"},
		{"notes.md", []byte("# hi"), "text/markdown"},
		{"data.json", []byte(`{"a":1}`), "application/json"},
	}
	for _, tc := range cases {
		if got := detectMimeType(tc.path, tc.data); got != tc.want {
			t.Errorf("detectMimeType(%s) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestExportCommandOnEmptyChat(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("/export")
	next, _ := m.Update(keyMsg("enter"))
	m = next.(Model)

	if m.toasts.Len() == 0 {
		t.Error("/export on an empty chat should warn")
	}
}

func TestToastStackExpiresViaTick(t *testing.T) {
	m := newTestModel(t)
	m.pushToast(components.ToastStatus, "hello", "")
	if m.toasts.Len() != 1 {
		t.Fatal("toast not added")
	}

	m.toasts.DismissAll()

	next, _ := m.Update(components.ToastTickMsg{})
	m = next.(Model)
	if m.toasts.Len() != 0 {
		t.Error("dismissed toasts should be gone after tick")
	}
}
