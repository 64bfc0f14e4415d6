// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain-terminal chat REPL for novachat CLI.
//
// USABILITY: Readline-style editing and input history via liner
//
// Handles the "novachat chat" command: an interactive loop without the
// full-screen TUI, for SSH sessions, minimal terminals, and people who just
// want a prompt. Chats are saved through the same controller the TUI uses,
// so history is shared between the two.
//
// Slash commands:
//   /help              Show commands
//   /new               Start a new chat
//   /history           List recent chats
//   /load <id>         Switch to a saved chat
//   /tone <tone>       Change the persona tone
//   /clear             Delete all saved chats
//   /exit, /quit       Leave

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/novachat/internal/config"
	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		// Fall back to temp directory if config dir unavailable
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}

	cli.LoadHistory()

	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Supports history navigation with arrow keys.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}

	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT SESSION STATE
// =============================================================================

// ChatSession bundles everything the REPL loop needs.
type ChatSession struct {
	Config     *config.Config
	Controller *session.Controller
	InputCLI   *ChatCLI
	Quiet      bool
	StartedAt  time.Time
	Sent       int

	// cancelMu guards cancelSend, which is armed by the REPL goroutine around
	// each send and fired by the signal-handler goroutine.
	cancelMu   sync.Mutex
	cancelSend context.CancelFunc
}

// armCancel installs the cancel func for an in-flight send so the signal
// handler can interrupt a slow reply without killing the REPL.
func (s *ChatSession) armCancel(cancel context.CancelFunc) {
	s.cancelMu.Lock()
	s.cancelSend = cancel
	s.cancelMu.Unlock()
}

// takeCancel removes and returns the armed cancel func, or nil if none.
// At most one caller gets a non-nil result per armed send.
func (s *ChatSession) takeCancel() context.CancelFunc {
	s.cancelMu.Lock()
	cancel := s.cancelSend
	s.cancelSend = nil
	s.cancelMu.Unlock()
	return cancel
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand handles the "chat" command.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client := clientFromConfig(cfg, args.Model)

	// Warnings from the controller (persistence failures, completion
	// errors) go straight to stderr in the plain REPL.
	notifier := session.NotifierFunc(func(n session.Notification) {
		fmt.Fprintf(os.Stderr, "%s %s: %s\n",
			warningStyle.Render("[!]"), n.Title, n.Message)
	})

	ctrl := session.New(store, client, session.WithNotifier(notifier))

	if args.Tone != "" {
		tone, err := resolveTone(cfg, args.Tone)
		if err != nil {
			return err
		}
		if err := ctrl.UpdateSettings(model.SettingsPatch{Tone: &tone}); err != nil {
			fmt.Fprintf(os.Stderr, "%s could not save tone: %v\n",
				warningStyle.Render("[!]"), err)
		}
	}

	sess := &ChatSession{
		Config:     cfg,
		Controller: ctrl,
		InputCLI:   NewChatCLI(),
		Quiet:      args.Quiet,
		StartedAt:  time.Now(),
	}
	defer sess.InputCLI.Close()

	if !sess.Quiet {
		printWelcome(sess)
	}

	// First Ctrl+C cancels the in-flight send instead of exiting.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		for range sigChan {
			if cancel := sess.takeCancel(); cancel != nil {
				cancel()
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
			}
		}
	}()

	// Main REPL loop
	for {
		input, err := sess.InputCLI.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C at the prompt or EOF (Ctrl+D): exit gracefully
			fmt.Println()
			printExitSummary(sess)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldContinue, err := handleSlashCommand(input, sess)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if !shouldContinue {
				printExitSummary(sess)
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printExitSummary(sess)
			return nil
		}

		if err := processMessage(sess, input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
	}
}

// =============================================================================
// MESSAGE PROCESSING
// =============================================================================

// processMessage sends a message through the controller and prints the reply.
func processMessage(sess *ChatSession, input string) error {
	ctx, cancel := context.WithCancel(context.Background())
	sess.armCancel(cancel)
	defer func() {
		sess.takeCancel()
		cancel()
	}()

	if !sess.Quiet {
		fmt.Println(mutedStyle.Render("Nova is typing..."))
	}

	start := time.Now()
	err := sess.Controller.Send(ctx, input, nil)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil
		}
		return err
	}
	sess.Sent++

	// The reply is the last message in the transcript.
	messages := sess.Controller.Messages()
	if len(messages) == 0 {
		return nil
	}
	last := messages[len(messages)-1]
	if last.Role != model.RoleAssistant {
		return nil
	}

	fmt.Println()
	displayResponse(last.Content)

	if !sess.Quiet {
		fmt.Println(mutedStyle.Render("(" + formatDuration(time.Since(start)) + ")"))
	}

	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand dispatches a /command. Returns false to exit the REPL.
func handleSlashCommand(input string, sess *ChatSession) (bool, error) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/help", "/?":
		printHelp()
		return true, nil

	case "/new":
		sess.Controller.StartNewChat()
		fmt.Println(mutedStyle.Render("Started a new chat."))
		return true, nil

	case "/history":
		printChatHistory(sess)
		return true, nil

	case "/load":
		if len(args) == 0 {
			return true, ErrMissingArgument("id", "/load <id>")
		}
		return true, loadChat(sess, args[0])

	case "/tone":
		if len(args) == 0 {
			fmt.Printf("Current tone: %s\n", sess.Controller.Settings().Tone)
			return true, nil
		}
		tone := model.Tone(strings.ToLower(args[0]))
		if !tone.Valid() {
			return true, &ValidationError{
				Field:   "tone",
				Value:   args[0],
				Reason:  "unknown tone",
				Example: "formal, informal, humorous, normal, brutal",
			}
		}
		if err := sess.Controller.UpdateSettings(model.SettingsPatch{Tone: &tone}); err != nil {
			return true, err
		}
		fmt.Printf("Tone set to %s.\n", tone)
		return true, nil

	case "/clear":
		if err := sess.Controller.ClearHistory(); err != nil {
			return true, err
		}
		fmt.Println(mutedStyle.Render("All chats deleted."))
		return true, nil

	case "/exit", "/quit", "/q":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

// loadChat switches the controller to a saved chat by ID or ID prefix.
func loadChat(sess *ChatSession, id string) error {
	target := resolveChatID(sess.Controller.ChatHistory(), id)
	if target == "" || !sess.Controller.LoadChat(target) {
		return ErrNotFound("chat", id)
	}
	messages := sess.Controller.Messages()
	fmt.Printf("Loaded chat %s (%d messages).\n", shortID(target), len(messages))
	return nil
}

// resolveChatID matches a full ID or unique prefix against saved chats.
func resolveChatID(history []model.Session, id string) string {
	var match string
	for i := range history {
		if history[i].ID == id {
			return id
		}
		if strings.HasPrefix(history[i].ID, id) {
			if match != "" {
				return "" // ambiguous prefix
			}
			match = history[i].ID
		}
	}
	return match
}

// =============================================================================
// DISPLAY
// =============================================================================

func printWelcome(sess *ChatSession) {
	settings := sess.Controller.Settings()
	fmt.Println(promptStyle.Render("NovaChat " + Version))
	fmt.Printf("%s %s · %s %s\n",
		labelStyle.Render("model:"), valueStyle.Render(sess.Config.Completion.Model),
		labelStyle.Render("tone:"), valueStyle.Render(string(settings.Tone)))
	fmt.Println(mutedStyle.Render("Type /help for commands, /exit to leave."))
	fmt.Println()
}

func printHelp() {
	fmt.Println(`Commands:
  /help              Show this help
  /new               Start a new chat
  /history           List recent chats
  /load <id>         Switch to a saved chat
  /tone [tone]       Show or change the persona tone
  /clear             Delete all saved chats
  /exit, /quit       Leave`)
}

func printChatHistory(sess *ChatSession) {
	history := sess.Controller.ChatHistory()
	if len(history) == 0 {
		fmt.Println(mutedStyle.Render("No saved chats."))
		return
	}
	current := sess.Controller.CurrentChatID()
	for i := range history {
		marker := "  "
		if history[i].ID == current {
			marker = "* "
		}
		fmt.Printf("%s%s  %-40s %d msgs\n",
			marker,
			valueStyle.Render(shortID(history[i].ID)),
			truncateTitle(history[i].Title, 40),
			len(history[i].Messages))
	}
}

func printExitSummary(sess *ChatSession) {
	if sess.Quiet {
		return
	}
	fmt.Printf("%s %d messages in %s\n",
		mutedStyle.Render("Session:"),
		sess.Sent,
		formatDuration(time.Since(sess.StartedAt)))
}
