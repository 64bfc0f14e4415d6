// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/novachat/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports sessions to HTML format with embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a session to HTML format.
func (e *HTMLExporter) Export(sess *model.Session) ([]byte, error) {
	if sess == nil {
		return nil, fmt.Errorf("session is nil")
	}
	if len(sess.Messages) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(sess.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"novachat\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", sess.Timestamp.Format(time.RFC3339)))
	sb.WriteString(e.getCSS())
	sb.WriteString("</head>\n<body>\n")

	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(sess.Title)))

	if e.options.IncludeMetadata {
		sb.WriteString("<div class=\"meta\">\n")
		sb.WriteString(fmt.Sprintf("    <span>%d messages</span>\n", len(sess.Messages)))
		sb.WriteString(fmt.Sprintf("    <span>updated %s</span>\n", formatTimestamp(sess.Timestamp)))
		sb.WriteString("</div>\n")
	}

	for _, msg := range sess.Messages {
		cssClass := "assistant"
		if msg.Role == model.RoleUser {
			cssClass = "user"
		}
		sb.WriteString(fmt.Sprintf("<div class=\"message %s\">\n", cssClass))
		sb.WriteString(fmt.Sprintf("    <div class=\"role\">%s", html.EscapeString(msg.Role.DisplayName())))
		if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf(" <span class=\"time\">%s</span>", formatShortTimestamp(msg.Timestamp)))
		}
		sb.WriteString("</div>\n")
		sb.WriteString("    <div class=\"content\">")
		sb.WriteString(renderContent(msg.Content))
		sb.WriteString("</div>\n")
		if msg.Attachment != nil {
			sb.WriteString(fmt.Sprintf("    <div class=\"attachment\">Attachment: %s (%s)</div>\n",
				html.EscapeString(msg.Attachment.Name), html.EscapeString(msg.Attachment.MimeType)))
		}
		sb.WriteString("</div>\n")
	}

	sb.WriteString(fmt.Sprintf("<footer>Exported from NovaChat on %s</footer>\n",
		time.Now().Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// renderContent converts message text to HTML. Fenced code blocks become
// <pre><code> sections; everything else is escaped with newlines preserved.
func renderContent(content string) string {
	var sb strings.Builder
	parts := strings.Split(content, "```")
	for i, part := range parts {
		if i%2 == 1 {
			// Inside a fence. The first line may carry a language tag.
			code := part
			if nl := strings.IndexByte(code, '\n'); nl >= 0 {
				code = code[nl+1:]
			}
			sb.WriteString("<pre><code>")
			sb.WriteString(html.EscapeString(code))
			sb.WriteString("</code></pre>")
		} else {
			escaped := html.EscapeString(strings.TrimSpace(part))
			if escaped != "" {
				sb.WriteString("<p>")
				sb.WriteString(strings.ReplaceAll(escaped, "\n", "<br>\n"))
				sb.WriteString("</p>")
			}
		}
	}
	return sb.String()
}

// =============================================================================
// THEMES
// =============================================================================

type htmlPalette struct {
	background string
	surface    string
	text       string
	accent     string
	muted      string
}

// htmlPalettes mirror the in-app theme names.
var htmlPalettes = map[string]htmlPalette{
	"light":   {background: "#fafafa", surface: "#ffffff", text: "#1a1a2e", accent: "#6c5ce7", muted: "#8888a0"},
	"dark":    {background: "#0f0f1a", surface: "#1a1a2e", text: "#e8e8f0", accent: "#a29bfe", muted: "#6b6b85"},
	"sunrise": {background: "#fff4e6", surface: "#fffaf2", text: "#4a2c2a", accent: "#e17055", muted: "#b08d84"},
	"rose":    {background: "#fff0f3", surface: "#fff8fa", text: "#43202c", accent: "#e84393", muted: "#b38a99"},
}

func (e *HTMLExporter) getCSS() string {
	p, ok := htmlPalettes[e.options.Theme]
	if !ok {
		p = htmlPalettes[model.DefaultTheme.String()]
	}

	return fmt.Sprintf(`    <style>
        body { font-family: -apple-system, "Segoe UI", sans-serif; max-width: 48rem;
               margin: 0 auto; padding: 2rem 1rem; background: %s; color: %s; }
        h1 { color: %s; }
        .meta { color: %s; font-size: 0.85rem; margin-bottom: 1.5rem; }
        .meta span { margin-right: 1rem; }
        .message { background: %s; border-radius: 0.75rem; padding: 0.75rem 1rem;
                   margin-bottom: 1rem; }
        .message.user { border-left: 3px solid %s; }
        .role { font-weight: 600; color: %s; margin-bottom: 0.25rem; }
        .role .time { font-weight: 400; color: %s; font-size: 0.8rem; }
        .attachment { color: %s; font-size: 0.85rem; font-style: italic; }
        pre { background: rgba(0,0,0,0.25); padding: 0.75rem; border-radius: 0.5rem;
              overflow-x: auto; }
        footer { color: %s; font-size: 0.8rem; margin-top: 2rem; }
    </style>
`, p.background, p.text, p.accent, p.muted, p.surface, p.accent, p.accent, p.muted, p.muted, p.muted)
}
