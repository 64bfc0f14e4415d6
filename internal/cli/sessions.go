// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Saved chat management for novachat CLI.
//
// Handles the "novachat sessions" command:
//   sessions list              List saved chats (default)
//   sessions show <id>         Print a chat transcript
//   sessions export <id> [fmt] Export a chat (markdown|html|json)
//   sessions delete <id>       Delete a chat
//   sessions clear             Delete all chats
//
// IDs may be abbreviated to any unique prefix.

package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/novachat/internal/config"
	"github.com/jeranaias/novachat/internal/export"
	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/storage"
)

// HandleSessions handles the "sessions" command.
func HandleSessions(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	chats := storage.NewChats(store)

	switch strings.ToLower(args.Subcommand) {
	case "", "list", "ls":
		return handleSessionsList(args, chats)
	case "show":
		return handleSessionsShow(args, chats)
	case "export":
		return handleSessionsExport(args, cfg, chats)
	case "delete", "rm":
		return handleSessionsDelete(args, chats)
	case "clear":
		return handleSessionsClear(chats)
	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand,
			Reason:  "unknown sessions subcommand",
			Example: "list, show, export, delete, clear",
		}
	}
}

// =============================================================================
// LIST
// =============================================================================

func handleSessionsList(args Args, chats *storage.Chats) error {
	catalog := model.NewCatalog(chats.LoadHistory())
	sessions := catalog.Sorted()

	if args.JSON {
		infos := make([]SessionInfo, 0, len(sessions))
		for i := range sessions {
			infos = append(infos, SessionInfo{
				ID:        sessions[i].ID,
				Title:     sessions[i].Title,
				Messages:  len(sessions[i].Messages),
				UpdatedAt: sessions[i].Timestamp.UTC().Format(time.RFC3339),
			})
		}
		return NewJSONResponse("sessions", SessionListData{
			Sessions: infos,
			Count:    len(infos),
		}).Print()
	}

	if len(sessions) == 0 {
		fmt.Println(mutedStyle.Render("No saved chats."))
		return nil
	}

	fmt.Printf("%-10s %-42s %-8s %s\n", "ID", "TITLE", "MSGS", "UPDATED")
	for i := range sessions {
		fmt.Printf("%-10s %-42s %-8d %s\n",
			shortID(sessions[i].ID),
			truncateTitle(sessions[i].Title, 40),
			len(sessions[i].Messages),
			sessions[i].Timestamp.Format("2006-01-02 15:04"))
	}
	fmt.Printf("\n%d chat(s)\n", len(sessions))

	return nil
}

// =============================================================================
// SHOW
// =============================================================================

func handleSessionsShow(args Args, chats *storage.Chats) error {
	sess, err := findSession(args, chats)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("sessions", sess).Print()
	}

	fmt.Println(promptStyle.Render(sess.Title))
	fmt.Printf("%s %s · %d messages\n\n",
		labelStyle.Render("id:"), sess.ID, len(sess.Messages))

	for i := range sess.Messages {
		msg := &sess.Messages[i]
		sender := msg.Role.DisplayName()
		fmt.Printf("%s %s\n",
			promptStyle.Render(sender+":"),
			mutedStyle.Render(msg.Timestamp.Format("2006-01-02 15:04")))
		fmt.Println(WrapText(msg.Content, 0))
		if msg.Attachment != nil {
			fmt.Println(mutedStyle.Render("  [attachment: " + msg.Attachment.Name + "]"))
		}
		fmt.Println()
	}

	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

func handleSessionsExport(args Args, cfg *config.Config, chats *storage.Chats) error {
	sess, err := findSession(args, chats)
	if err != nil {
		return err
	}

	format := "markdown"
	if len(args.Raw) > 2 {
		format = strings.ToLower(args.Raw[2])
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return fmt.Errorf("failed to resolve data directory: %w", err)
	}

	opts := export.DefaultOptions()
	opts.OutputDir = filepath.Join(dataDir, "exports")

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return ErrUnsupportedFormat(format, []string{"markdown", "html", "json"})
	}

	path, err := export.ExportToFile(sess, exporter, opts)
	if err != nil {
		return NewCommandError("sessions", "export", "failed to write export", err)
	}

	if args.JSON {
		return NewJSONResponse("sessions", map[string]string{
			"id":     sess.ID,
			"format": format,
			"path":   path,
		}).Print()
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

// =============================================================================
// DELETE / CLEAR
// =============================================================================

func handleSessionsDelete(args Args, chats *storage.Chats) error {
	sess, err := findSession(args, chats)
	if err != nil {
		return err
	}

	catalog := model.NewCatalog(chats.LoadHistory())
	catalog.Remove(sess.ID)
	if err := chats.SaveHistory(catalog.Sorted()); err != nil {
		return NewCommandError("sessions", "delete", "failed to save history", err)
	}

	fmt.Printf("Deleted chat %s (%s)\n", shortID(sess.ID), truncateTitle(sess.Title, 40))
	return nil
}

func handleSessionsClear(chats *storage.Chats) error {
	count := len(chats.LoadHistory())
	if count == 0 {
		fmt.Println(mutedStyle.Render("No saved chats."))
		return nil
	}

	if err := chats.ClearHistory(); err != nil {
		return NewCommandError("sessions", "clear", "failed to clear history", err)
	}

	fmt.Printf("Deleted %d chat(s)\n", count)
	return nil
}

// =============================================================================
// LOOKUP
// =============================================================================

// findSession resolves the first positional argument after the subcommand
// against saved chats, matching full IDs or unique prefixes.
func findSession(args Args, chats *storage.Chats) (*model.Session, error) {
	if len(args.Raw) < 2 {
		return nil, ErrMissingArgument("id", "novachat sessions "+args.Subcommand+" <id>")
	}
	id := args.Raw[1]

	history := chats.LoadHistory()
	full := resolveChatID(history, id)
	if full == "" {
		return nil, ErrNotFound("chat", id)
	}
	for i := range history {
		if history[i].ID == full {
			return &history[i], nil
		}
	}
	return nil, ErrNotFound("chat", id)
}
