// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures structured logging for novachat.
//
// Logs go to a rotating file, never to the terminal: the TUI owns stdout and
// stderr, and stray log lines would corrupt the display.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jeranaias/novachat/internal/config"
)

const maxLogAgeDays = 14

// Init configures slog to write structured JSON logs to a rotating file and
// installs the logger as the process default.
func Init(cfg *config.Config) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Logging.Level)}

	logPath, err := cfg.LogFile()
	if err != nil {
		logger := slog.New(slog.NewJSONHandler(io.Discard, opts))
		slog.SetDefault(logger)
		return logger, err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		logger := slog.New(slog.NewJSONHandler(io.Discard, opts))
		slog.SetDefault(logger)
		return logger, err
	}

	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}

	logger := slog.New(slog.NewJSONHandler(writer, opts))
	slog.SetDefault(logger)
	return logger, nil
}

// Discard installs a no-op logger. Used by tests and by one-shot CLI
// commands that should not touch the log file.
func Discard() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
