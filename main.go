// novachat - chat with Nova in your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/novachat/internal/cli"
	"github.com/jeranaias/novachat/internal/completion"
	"github.com/jeranaias/novachat/internal/config"
	"github.com/jeranaias/novachat/internal/logging"
	"github.com/jeranaias/novachat/internal/session"
	"github.com/jeranaias/novachat/internal/storage"
	"github.com/jeranaias/novachat/internal/ui/chat"
	"github.com/jeranaias/novachat/internal/ui/components"
)

// Version information (set at build time via ldflags)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdSessions:
		exitOnError(cli.HandleSessions(args))
	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(args))
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.PrintUsage()
		os.Exit(cli.ExitUsageError)
	}
}

// exitOnError prints the error and exits with its mapped code.
func exitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(cli.GetExitCode(err))
}

// =============================================================================
// TUI STARTUP
// =============================================================================

func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}
	config.SetGlobal(cfg)

	logger, err := logging.Init(cfg)
	if err != nil {
		// Logging is never worth refusing to start over
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger = logging.Discard()
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitGeneralError)
	}
	defer store.Close()

	client := buildClient(cfg, args.Model)

	// The controller notifies from its own goroutine during Send, so the
	// toast manager is shared with the UI and guarded internally.
	toasts := components.NewToastManager()
	notifier := session.NotifierFunc(func(n session.Notification) {
		toasts.Add(components.FromNotification(n))
	})

	ctrl := session.New(store, client, session.WithNotifier(notifier))

	m := chat.New(ctrl, cfg,
		chat.WithToasts(toasts),
		chat.WithVersion(Version),
	)

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(m, opts...)

	// With the file backend, pick up edits made by another process (or a
	// second novachat instance) while the TUI is open.
	if fileStore, ok := store.(*storage.FileStore); ok && cfg.Storage.WatchFiles {
		watcher, err := storage.NewWatcher(fileStore, func(key string) {
			p.Send(chat.RefreshMsg{})
		})
		if err != nil {
			logger.Warn("file watching disabled", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	logger.Info("starting",
		"version", Version,
		"backend", cfg.Storage.Backend,
		"model", cfg.Completion.Model,
	)

	start := time.Now()
	if _, err := p.Run(); err != nil {
		logger.Error("tui crashed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitGeneralError)
	}

	logger.Info("exited", "uptime", time.Since(start).Round(time.Second).String())
}

// openStore opens the persistence backend selected in config.
func openStore(cfg *config.Config) (storage.Store, error) {
	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	switch cfg.Storage.Backend {
	case "sqlite":
		return storage.OpenDBStore(filepath.Join(dataDir, "novachat.db"))
	case "file", "":
		return storage.NewFileStoreWithDir(dataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want file or sqlite)", cfg.Storage.Backend)
	}
}

// buildClient creates the completion client from config plus the CLI
// model override.
func buildClient(cfg *config.Config, modelOverride string) completion.Client {
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
