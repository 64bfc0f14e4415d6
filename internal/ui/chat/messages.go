// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea message types and async commands used by
// the chat interface: sending turns through the controller, reading files
// for attachment, and exporting transcripts.
package chat

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/novachat/internal/export"
	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/session"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// sendDoneMsg reports that a controller Send finished. A nil Err covers
// the fallback-reply path too; the controller already recorded the turn.
type sendDoneMsg struct {
	Err error
}

// RefreshMsg asks the model to resync its views from the controller. Sent
// from outside the program when another process changes the data files.
type RefreshMsg struct{}

// attachmentReadMsg carries a file read for attachment, or the read error.
type attachmentReadMsg struct {
	Attachment *model.Attachment
	Err        error
}

// exportDoneMsg reports the outcome of a transcript export.
type exportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

// sendCmd runs the blocking controller Send off the UI goroutine.
func sendCmd(ctrl *session.Controller, ctx context.Context, text string, att *model.Attachment) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Send(ctx, text, att)
		return sendDoneMsg{Err: err}
	}
}

// maxAttachmentBytes caps attachment reads. Anything larger would bloat the
// persisted session file and the completion request.
const maxAttachmentBytes = 8 << 20

// readAttachmentCmd reads a file from disk and packages it as a data URI.
func readAttachmentCmd(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := os.Stat(path)
		if err != nil {
			return attachmentReadMsg{Err: err}
		}
		if info.Size() > maxAttachmentBytes {
			return attachmentReadMsg{Err: fmt.Errorf("%s exceeds the 8 MB attachment limit", filepath.Base(path))}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return attachmentReadMsg{Err: err}
		}

		mime := detectMimeType(path, data)
		uri := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)

		return attachmentReadMsg{Attachment: &model.Attachment{
			Name:     filepath.Base(path),
			MimeType: mime,
			Data:     uri,
		}}
	}
}

// detectMimeType sniffs content and falls back to the extension for types
// http.DetectContentType cannot distinguish.
func detectMimeType(path string, data []byte) string {
	mime := http.DetectContentType(data)
	if mime != "application/octet-stream" && mime != "text/plain; charset=utf-8" {
		return mime
	}
	switch filepath.Ext(path) {
	case ".md":
		return "text/markdown"
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	case ".svg":
		return "image/svg+xml"
	default:
		return mime
	}
}

// exportCmd writes the given session to disk in the requested format.
func exportCmd(sess model.Session, format, outputDir, theme string) tea.Cmd {
	return func() tea.Msg {
		opts := export.DefaultOptions()
		opts.OutputDir = outputDir
		opts.Theme = theme

		exporter, err := export.ForFormat(format, opts)
		if err != nil {
			return exportDoneMsg{Err: err}
		}

		path, err := export.ExportToFile(&sess, exporter, opts)
		return exportDoneMsg{Path: path, Err: err}
	}
}
