// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration command handlers for novachat CLI.
//
// Handles the "novachat config" command:
//   config show            Show current configuration (default)
//   config get <key>       Print one value
//   config set <key> <val> Set a value and save
//   config path            Print the config file location
//   config reset           Restore defaults

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeranaias/novachat/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch strings.ToLower(args.Subcommand) {
	case "", "show", "list":
		return handleConfigShow(args)
	case "get":
		if args.ConfigKey == "" {
			return ErrMissingArgument("key", "novachat config get completion.model")
		}
		return handleConfigGet(args)
	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return ErrMissingArgument("key/value", "novachat config set completion.model gemma3:4b")
		}
		return handleConfigSet(args.ConfigKey, args.ConfigVal)
	case "path":
		return handleConfigPath(args)
	case "reset":
		return handleConfigReset()
	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand,
			Reason:  "unknown config subcommand",
			Example: "show, get, set, path, reset",
		}
	}
}

// handleConfigShow prints every known key and its current value.
func handleConfigShow(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	keys := config.GetAllKeys()
	sort.Strings(keys)

	if args.JSON {
		values := make(map[string]interface{}, len(keys))
		for _, key := range keys {
			val, err := cfg.Get(key)
			if err != nil {
				continue
			}
			values[key] = maskIfSecret(key, val)
		}
		return NewJSONResponse("config", values).Print()
	}

	// Group by section for readability
	var section string
	for _, key := range keys {
		parts := strings.SplitN(key, ".", 2)
		if parts[0] != section {
			if section != "" {
				fmt.Println()
			}
			section = parts[0]
			fmt.Println(labelStyle.Render("[" + section + "]"))
		}
		val, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %-28s %v\n", key, maskIfSecret(key, val))
	}

	return nil
}

// handleConfigGet prints a single value.
func handleConfigGet(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	val, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return ErrNotFound("config key", args.ConfigKey)
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]interface{}{
			args.ConfigKey: maskIfSecret(args.ConfigKey, val),
		}).Print()
	}

	fmt.Printf("%v\n", val)
	return nil
}

// handleConfigSet updates a value and saves the config file.
func handleConfigSet(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Set(key, value); err != nil {
		return &ValidationError{
			Field:  key,
			Value:  value,
			Reason: err.Error(),
		}
	}

	if err := cfg.Validate(); err != nil {
		return &ValidationError{
			Field:  key,
			Value:  value,
			Reason: err.Error(),
		}
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s = %s\n", key, maskIfSecret(key, value))
	return nil
}

// handleConfigPath prints the config file location.
func handleConfigPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]string{"path": path}).Print()
	}

	fmt.Println(path)
	return nil
}

// handleConfigReset writes the default configuration back to disk.
func handleConfigReset() error {
	cfg := config.Default()
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Println("Configuration reset to defaults.")
	return nil
}

// maskIfSecret masks values for keys holding credentials.
func maskIfSecret(key string, val interface{}) interface{} {
	if !strings.Contains(key, "api_key") {
		return val
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return val
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
