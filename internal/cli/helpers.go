// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared helpers for novachat CLI commands.

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/novachat/internal/config"
	"github.com/jeranaias/novachat/internal/storage"
)

// openStore opens the persistence backend selected in config.
// The caller owns the returned store and must Close it.
func openStore(cfg *config.Config) (storage.Store, error) {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	switch cfg.Storage.Backend {
	case "sqlite":
		return storage.OpenDBStore(dataDir + "/novachat.db")
	case "file", "":
		return storage.NewFileStoreWithDir(dataDir)
	default:
		return nil, &ValidationError{
			Field:   "storage.backend",
			Value:   cfg.Storage.Backend,
			Reason:  "unknown storage backend",
			Example: "file, sqlite",
		}
	}
}

// formatDuration renders a duration like "1m 23s" for status output.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// truncateTitle shortens a chat title for list output.
func truncateTitle(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// shortID returns the first 8 characters of a chat ID for display.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
