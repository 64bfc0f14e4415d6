// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the novachat command line: argument parsing,
// the plain-terminal commands (ask, chat, sessions, config, version),
// and the exit-code mapping main relies on.
//
// The TUI itself lives in internal/ui/chat; this package only decides
// which command runs and handles everything that prints to a regular
// stdout/stderr pipe.
package cli
