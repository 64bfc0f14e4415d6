// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for novachat.
//
// The TUI is the default command: running `novachat` with no arguments
// launches the full-screen interface. Everything else (ask, chat, sessions,
// config) is a plain-stdout command for scripting and quick checks.

package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================

// Version information, set at build time via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMAND TYPES
// =============================================================================

// Command represents a CLI command.
type Command int

const (
	// CmdTUI launches the interactive chat interface (default).
	CmdTUI Command = iota
	// CmdAsk sends a single question and prints the reply.
	CmdAsk
	// CmdChat starts a plain-terminal REPL without the full TUI.
	CmdChat
	// CmdSessions lists, shows, exports, or deletes saved chats.
	CmdSessions
	// CmdConfig shows or edits configuration.
	CmdConfig
	// CmdVersion shows version information.
	CmdVersion
	// CmdHelp shows help.
	CmdHelp
)

// Args holds parsed command-line arguments.
type Args struct {
	// Global flags
	Quiet   bool   // -q, --quiet
	Verbose bool   // -v, --verbose
	JSON    bool   // --json
	Model   string // --model override

	// Command-specific
	Query      string   // ask: the question text
	File       string   // ask: file to include as context
	Tone       string   // ask/chat: persona override
	Subcommand string   // sessions/config: first positional arg
	ConfigKey  string   // config: key to get/set
	ConfigVal  string   // config: value to set
	Raw        []string // raw args after the command name
}

// =============================================================================
// USAGE TEXT
// =============================================================================

const usageText = `novachat %s - chat with Nova in your terminal

USAGE:
    novachat [COMMAND] [OPTIONS]

COMMANDS:
    tui                    Launch the chat interface (default)
    ask <question>         Ask a single question, print the reply
    chat                   Plain-terminal chat (no full-screen UI)
    sessions [SUBCOMMAND]  Manage saved chats
    config [SUBCOMMAND]    Show or edit configuration
    version                Show version information
    help                   Show this help

ASK OPTIONS:
    -f, --file FILE        Include a file with the question
    -t, --tone TONE        Persona tone (formal|informal|humorous|normal|brutal)
    -m, --model NAME       Use a specific model
    --json                 Output the reply as JSON

SESSIONS SUBCOMMANDS:
    list                   List saved chats (default)
    show <id>              Print a chat transcript
    export <id> [FORMAT]   Export a chat (markdown|html|json)
    delete <id>            Delete a chat
    clear                  Delete all chats

CONFIG SUBCOMMANDS:
    show                   Show current configuration (default)
    get <key>              Print one value
    set <key> <value>      Set a value
    path                   Print the config file location
    reset                  Restore defaults

GLOBAL OPTIONS:
    -q, --quiet            Minimal output
    -v, --verbose          Verbose output
    --json                 Machine-readable output where supported
    --model NAME           Override the configured model

EXAMPLES:
    novachat
    novachat ask "What is a goroutine?"
    novachat ask --tone brutal "Review this:" --file main.go
    novachat chat
    novachat sessions export 1a2b3c markdown
    novachat config set completion.model gemma3:4b
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("novachat version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse for testing.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// No remaining args: default to the TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		parseChatArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "session", "sessions":
		parseSessionsArgs(&parsedArgs, remaining)
		return CmdSessions, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "--version", "-V":
		return CmdVersion, parsedArgs

	case "help", "--help", "-h":
		return CmdHelp, parsedArgs

	default:
		// Unknown word: treat the whole remainder as an ask query so
		// `novachat what is X` does the obvious thing.
		parseAskArgs(&parsedArgs, append([]string{cmd}, remaining...))
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--model":
			if i+1 < len(args) {
				i++
				parsedArgs.Model = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				parsedArgs.Model = strings.TrimPrefix(arg, "--model=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		case "-t", "--tone":
			if i+1 < len(remaining) {
				i++
				args.Tone = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--file="):
				args.File = strings.TrimPrefix(arg, "--file=")
			case strings.HasPrefix(arg, "--model="):
				args.Model = strings.TrimPrefix(arg, "--model=")
			case strings.HasPrefix(arg, "--tone="):
				args.Tone = strings.TrimPrefix(arg, "--tone=")
			case !strings.HasPrefix(arg, "-"):
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		case "-t", "--tone":
			if i+1 < len(remaining) {
				i++
				args.Tone = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--model="):
				args.Model = strings.TrimPrefix(arg, "--model=")
			case strings.HasPrefix(arg, "--tone="):
				args.Tone = strings.TrimPrefix(arg, "--tone=")
			}
		}
	}
}

// parseSessionsArgs parses sessions command specific arguments.
// Detailed argument handling is done in sessions.go.
func parseSessionsArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleAsk handles the "ask" command.
// This delegates to the full implementation in ask.go.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
// This delegates to the full implementation in chat.go.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		resp := NewJSONResponse("version", data)
		resp.Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
