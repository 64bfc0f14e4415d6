// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jeranaias/novachat/internal/model"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Completion.Endpoint != "http://127.0.0.1:11434" {
		t.Errorf("unexpected default endpoint: %s", cfg.Completion.Endpoint)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("unexpected default backend: %s", cfg.Storage.Backend)
	}
}

func TestLoadFromPathTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
version = "1.0.0"

[completion]
endpoint = "http://localhost:9999"
model = "test-model"
timeout_secs = 30

[storage]
backend = "sqlite"

[defaults]
tone = "brutal"
theme = "rose"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Completion.Endpoint != "http://localhost:9999" {
		t.Errorf("endpoint = %s", cfg.Completion.Endpoint)
	}
	if cfg.Completion.TimeoutSecs != 30 {
		t.Errorf("timeout_secs = %d", cfg.Completion.TimeoutSecs)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("backend = %s", cfg.Storage.Backend)
	}
	if cfg.Defaults.Tone != "brutal" {
		t.Errorf("tone = %s", cfg.Defaults.Tone)
	}
	// Unspecified fields fall back to defaults.
	if cfg.Defaults.Animation != model.DefaultAnimation.String() {
		t.Errorf("animation should default, got %s", cfg.Defaults.Animation)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level should default, got %s", cfg.Logging.Level)
	}
}

func TestLoadFromPathJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"completion": {"model": "json-model"}, "ui": {"compact_mode": true}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Completion.Model != "json-model" {
		t.Errorf("model = %s", cfg.Completion.Model)
	}
	if !cfg.UI.CompactMode {
		t.Error("compact_mode should be set")
	}
}

func TestLoadFromPathRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		content string
		field   string
	}{
		{"bad backend", "[storage]\nbackend = \"redis\"\n", "storage.backend"},
		{"bad tone", "[defaults]\ntone = \"sassy\"\n", "defaults.tone"},
		{"bad theme", "[defaults]\ntheme = \"midnight\"\n", "defaults.theme"},
		{"bad endpoint", "[completion]\nendpoint = \"not a url\"\n", "completion.endpoint"},
		{"bad level", "[logging]\nlevel = \"chatty\"\n", "logging.level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".toml")
			if err := os.WriteFile(path, []byte(tc.content), 0600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := LoadFromPath(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("error should name %s, got: %v", tc.field, err)
			}
		})
	}
}

func TestSaveTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Completion.Model = "round-trip"
	cfg.Storage.Backend = "sqlite"
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	// Saved with owner-only permissions.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file permissions = %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Completion.Model != "round-trip" {
		t.Errorf("model = %s", loaded.Completion.Model)
	}
	if loaded.Storage.Backend != "sqlite" {
		t.Errorf("backend = %s", loaded.Storage.Backend)
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := Default()
	cfg.Logging.MaxBackups = 7
	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Logging.MaxBackups != 7 {
		t.Errorf("max_backups = %d", loaded.Logging.MaxBackups)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("NOVACHAT_ENDPOINT", "http://envhost:1234")
	t.Setenv("NOVACHAT_MODEL", "env-model")
	t.Setenv("NOVACHAT_STORAGE", "sqlite")
	t.Setenv("NOVACHAT_TONE", "FORMAL")
	t.Setenv("NOVACHAT_LOG_LEVEL", "DEBUG")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Completion.Endpoint != "http://envhost:1234" {
		t.Errorf("endpoint = %s", cfg.Completion.Endpoint)
	}
	if cfg.Completion.Model != "env-model" {
		t.Errorf("model = %s", cfg.Completion.Model)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("backend = %s", cfg.Storage.Backend)
	}
	// Env values are lowercased before validation.
	if cfg.Defaults.Tone != "formal" {
		t.Errorf("tone = %s", cfg.Defaults.Tone)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %s", cfg.Logging.Level)
	}
}

func TestGetSetDotNotation(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("completion.model")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != "gemma3:4b" {
		t.Errorf("Get = %v", val)
	}

	if err := cfg.Set("completion.model", "other"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if cfg.Completion.Model != "other" {
		t.Errorf("model = %s", cfg.Completion.Model)
	}

	// String-to-type conversion for CLI input.
	if err := cfg.Set("completion.timeout_secs", "90"); err != nil {
		t.Fatalf("Set int: %v", err)
	}
	if cfg.Completion.TimeoutSecs != 90 {
		t.Errorf("timeout_secs = %d", cfg.Completion.TimeoutSecs)
	}
	if err := cfg.Set("ui.compact_mode", "true"); err != nil {
		t.Fatalf("Set bool: %v", err)
	}
	if !cfg.UI.CompactMode {
		t.Error("compact_mode should be true")
	}

	if _, err := cfg.Get("no.such.key"); err == nil {
		t.Error("Get of unknown key should fail")
	}
	if err := cfg.Set("storage.nope", "x"); err == nil {
		t.Error("Set of unknown key should fail")
	}
}

func TestGetAllKeysResolvable(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("key %q does not resolve: %v", key, err)
		}
	}
}

func TestDefaultSettingsConversion(t *testing.T) {
	cfg := Default()
	cfg.Defaults.Tone = "humorous"
	s := cfg.DefaultSettings()
	if s.Tone != model.ToneHumorous {
		t.Errorf("tone = %s", s.Tone)
	}
	if s.Theme != model.DefaultTheme {
		t.Errorf("theme = %s", s.Theme)
	}
}

func TestStringRedactsAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Completion.APIKey = "sk-secret-value"

	out := cfg.String()
	if strings.Contains(out, "sk-secret-value") {
		t.Error("String() must not expose the API key")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("String() should mark the key as redacted")
	}
	// Original untouched.
	if cfg.Completion.APIKey != "sk-secret-value" {
		t.Error("String() must not mutate the config")
	}
}

// Global() and SetGlobal() can be called concurrently.
// Run with: go test -race ./internal/config/
func TestGlobalConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global returned nil")
			}
		}()
	}
	wg.Wait()
}
