// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock renders a fenced code block with syntax highlighting.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
	theme    *styles.Theme
}

// NewCodeBlock creates a code block renderer.
func NewCodeBlock(language, code string, theme *styles.Theme) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
		theme:    theme,
	}
}

// SetMaxWidth sets the maximum width for the code block.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render renders the code block with line numbers and a language badge.
func (c CodeBlock) Render() string {
	code := strings.TrimRight(c.Code, "\n")

	language := c.Language
	if language == "" {
		language = detectLanguage(code)
	}

	highlighted := highlightCode(code, language, c.chromaStyle())
	lines := strings.Split(highlighted, "\n")

	lineNumStyle := lipgloss.NewStyle().
		Foreground(c.theme.Palette.TextMuted).
		Width(4).
		Align(lipgloss.Right).
		MarginRight(1)

	var renderedLines []string
	for i, line := range lines {
		lineNum := lineNumStyle.Render(toStr(i + 1))
		// chroma already emitted ANSI colors; no further styling on the line
		renderedLines = append(renderedLines, lineNum+line)
	}
	codeContent := strings.Join(renderedLines, "\n")

	var header string
	if c.Language != "" {
		langBadge := lipgloss.NewStyle().
			Foreground(c.theme.Palette.TextMuted).
			Background(c.theme.Palette.Overlay).
			Padding(0, 1).
			Bold(true).
			Render(c.Language)
		header = langBadge + "\n"
	}

	maxWidth := c.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	return lipgloss.NewStyle().
		Background(c.theme.Palette.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(c.theme.Palette.Overlay).
		Padding(0, 1).
		MaxWidth(maxWidth).
		Render(header + codeContent)
}

// chromaStyle picks a chroma style matching the active theme's brightness.
func (c CodeBlock) chromaStyle() string {
	if c.theme != nil && c.theme.Name == "light" {
		return "friendly"
	}
	return "monokai"
}

// =============================================================================
// MARKDOWN BODY RENDERER
// =============================================================================

// RenderMarkdownBody renders reply text for a bubble: fenced code blocks get
// syntax highlighting, inline code gets a subtle chip, everything else is
// word-wrapped prose.
func RenderMarkdownBody(text string, maxWidth int, theme *styles.Theme) string {
	lines := strings.Split(text, "\n")
	var result []string
	var inCodeBlock bool
	var codeLines []string
	var language string
	var prose []string

	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		wrapped := wordWrap(strings.Join(prose, "\n"), maxWidth)
		result = append(result, renderInlineSpans(wrapped, theme))
		prose = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			if inCodeBlock {
				flushProse()
				cb := NewCodeBlock(language, strings.Join(codeLines, "\n"), theme)
				cb.SetMaxWidth(maxWidth)
				result = append(result, cb.Render())
				codeLines = nil
				language = ""
				inCodeBlock = false
			} else {
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inCodeBlock = true
			}
			continue
		}
		if inCodeBlock {
			codeLines = append(codeLines, line)
		} else {
			prose = append(prose, line)
		}
	}

	// Unclosed fence: render what we have rather than dropping it.
	if inCodeBlock && len(codeLines) > 0 {
		flushProse()
		cb := NewCodeBlock(language, strings.Join(codeLines, "\n"), theme)
		cb.SetMaxWidth(maxWidth)
		result = append(result, cb.Render())
	}
	flushProse()

	return strings.Join(result, "\n")
}

// renderInlineSpans replaces `code` spans with styled inline code.
func renderInlineSpans(text string, theme *styles.Theme) string {
	if !strings.Contains(text, "`") {
		return text
	}

	inlineStyle := lipgloss.NewStyle().
		Background(theme.Palette.SurfaceDim).
		Foreground(theme.Palette.Accent)

	var result strings.Builder
	var inCode bool
	var codeBuffer strings.Builder

	for _, r := range text {
		switch {
		case r == '`':
			if inCode {
				result.WriteString(inlineStyle.Render(codeBuffer.String()))
				codeBuffer.Reset()
				inCode = false
			} else {
				inCode = true
			}
		case inCode:
			codeBuffer.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}

	if inCode {
		result.WriteString("`")
		result.WriteString(codeBuffer.String())
	}
	return result.String()
}

// =============================================================================
// SYNTAX HIGHLIGHTING (chroma)
// =============================================================================

// highlightCode applies ANSI syntax highlighting; returns the code
// unchanged when tokenizing or formatting fails.
func highlightCode(code, language, styleName string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// detectLanguage guesses the language of a bare code fence.
func detectLanguage(code string) string {
	lexer := lexers.Analyse(code)
	if lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
