// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for novachat CLI.
//
// USABILITY: Markdown rendering for readable terminal replies
//
// Handles the "novachat ask" command which sends one question to the
// completion endpoint and prints the reply to stdout. Nothing is saved to
// chat history; ask is for quick lookups and scripting.
//
// Examples:
//   novachat ask "What is the capital of France?"
//   novachat ask --tone brutal "Review this:" --file main.go
//   novachat ask --json "List three sorting algorithms" | jq .data.response

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/novachat/internal/completion"
	"github.com/jeranaias/novachat/internal/config"
	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// MaxFileSize is the maximum file size to include as context (50KB).
	MaxFileSize = 50 * 1024
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the global glamour renderer for markdown output.
// USABILITY: Renders markdown replies with syntax highlighting and formatting.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse displays a reply with markdown rendering when appropriate.
// Only renders markdown when stdout is a TTY to avoid corrupting piped output.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// STYLES
// =============================================================================

// CLI output styling draws on the dark palette; the plain commands do not
// carry the full theme machinery the TUI uses.
var (
	cliPalette = styles.PaletteFor(model.ThemeDark)

	promptStyle = lipgloss.NewStyle().
			Foreground(cliPalette.Accent).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(cliPalette.TextMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(cliPalette.TextSecondary)

	valueStyle = lipgloss.NewStyle().
			Foreground(cliPalette.Success)

	warningStyle = lipgloss.NewStyle().
			Foreground(cliPalette.Warning)

	errorStyle = lipgloss.NewStyle().
			Foreground(cliPalette.Error)
)

// =============================================================================
// FILE READING
// =============================================================================

// readFileForContext reads a file and formats it for inclusion in a prompt.
// Files larger than MaxFileSize are rejected.
func readFileForContext(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("cannot access file: %w", err)
	}

	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d bytes)", info.Size(), MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("\n--- File: %s ---\n", path))
	builder.Write(content)
	builder.WriteString("\n--- End of file ---\n")

	return builder.String(), nil
}

// =============================================================================
// CLIENT CONSTRUCTION
// =============================================================================

// clientFromConfig builds a completion client from config plus CLI overrides.
func clientFromConfig(cfg *config.Config, modelOverride string) *completion.HTTPClient {
	cc := completion.DefaultClientConfig()
	if cfg.Completion.Endpoint != "" {
		cc.BaseURL = cfg.Completion.Endpoint
	}
	if cfg.Completion.Model != "" {
		cc.Model = cfg.Completion.Model
	}
	if modelOverride != "" {
		cc.Model = modelOverride
	}
	if cfg.Completion.TimeoutSecs > 0 {
		cc.Timeout = time.Duration(cfg.Completion.TimeoutSecs) * time.Second
	}
	cc.APIKey = cfg.Completion.APIKey
	return completion.NewHTTPClient(cc)
}

// resolveTone picks the persona tone: CLI flag wins, then configured default.
func resolveTone(cfg *config.Config, override string) (model.Tone, error) {
	if override != "" {
		tone := model.Tone(strings.ToLower(override))
		if !tone.Valid() {
			return "", &ValidationError{
				Field:   "tone",
				Value:   override,
				Reason:  "unknown tone",
				Example: "formal, informal, humorous, normal, brutal",
			}
		}
		return tone, nil
	}
	return cfg.DefaultSettings().Tone, nil
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAskCommand handles the "ask" command.
func HandleAskCommand(args Args) error {
	if strings.TrimSpace(args.Query) == "" {
		return ErrMissingArgument("question", `novachat ask "What is a goroutine?"`)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	tone, err := resolveTone(cfg, args.Tone)
	if err != nil {
		return err
	}

	message := args.Query
	if args.File != "" {
		fileContent, err := readFileForContext(args.File)
		if err != nil {
			return err
		}
		message += "\n" + fileContent
	}

	client := clientFromConfig(cfg, args.Model)

	if !args.Quiet && !args.JSON && IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, mutedStyle.Render("Asking Nova..."))
	}

	start := time.Now()
	resp, err := client.Complete(context.Background(), completion.Request{
		Message: message,
		Tone:    tone,
	})
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("ask", err).Print()
			return nil
		}
		return err
	}
	elapsed := time.Since(start)

	if args.JSON {
		modelName := cfg.Completion.Model
		if args.Model != "" {
			modelName = args.Model
		}
		return NewJSONResponse("ask", AskData{
			Question: args.Query,
			Response: resp.Response,
			Model:    modelName,
			Tone:     string(tone),
			Duration: elapsed.Round(time.Millisecond).String(),
		}).Print()
	}

	displayResponse(resp.Response)

	if args.Verbose {
		fmt.Fprintf(os.Stderr, "\n%s %s\n",
			labelStyle.Render("Took:"),
			valueStyle.Render(elapsed.Round(time.Millisecond).String()))
	}

	return nil
}
