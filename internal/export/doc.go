// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides chat session export functionality for novachat.
//
// # Key Types
//
//   - Exporter: Main export interface
//   - Options: Export configuration options
//
// # Supported Formats
//
//   - JSON: Machine-readable, faithful to the stored session
//   - Markdown: Human-readable with YAML frontmatter
//   - HTML: Styled for viewing in browsers, themed to match the app
//
// # Usage
//
// Export a session:
//
//	exporter, err := export.ForFormat("markdown", nil)
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(session, exporter, nil)
package export
