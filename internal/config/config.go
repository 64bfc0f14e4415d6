// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/novachat/internal/model"
	"github.com/jeranaias/novachat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete novachat configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Completion configuration (the model endpoint)
	Completion CompletionConfig `toml:"completion" json:"completion"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// Defaults applied to fresh installs (ignored once settings are saved)
	Defaults DefaultsConfig `toml:"defaults" json:"defaults"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

// CompletionConfig contains model endpoint configuration.
type CompletionConfig struct {
	// Endpoint is the base URL of the completion server
	Endpoint string `toml:"endpoint" json:"endpoint"`
	// Model is the model name passed to the endpoint
	Model string `toml:"model" json:"model"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// APIKey is sent as a bearer token when non-empty
	APIKey string `toml:"api_key" json:"api_key"`
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// Backend selects the store implementation: "file" or "sqlite"
	Backend string `toml:"backend" json:"backend"`
	// DataDir is where chat history and settings live (empty = ~/.novachat)
	DataDir string `toml:"data_dir" json:"data_dir"`
	// WatchFiles enables reloading when another process changes the data
	// files. Only meaningful with the file backend.
	WatchFiles bool `toml:"watch_files" json:"watch_files"`
}

// DefaultsConfig seeds the in-app settings on first run.
type DefaultsConfig struct {
	// Tone is one of: formal, informal, humorous, normal, brutal
	Tone string `toml:"tone" json:"tone"`
	// Theme is one of: light, dark, sunrise, rose
	Theme string `toml:"theme" json:"theme"`
	// Animation is one of: orbit, nebula, pulse, none
	Animation string `toml:"animation" json:"animation"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// AltScreen runs the TUI in the terminal's alternate screen buffer
	AltScreen bool `toml:"alt_screen" json:"alt_screen"`
	// Mouse enables mouse support in the TUI
	Mouse bool `toml:"mouse" json:"mouse"`
	// ShowTimestamps renders a timestamp under each message
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// LoggingConfig contains log file configuration.
type LoggingConfig struct {
	// Level is one of: debug, info, warn, error
	Level string `toml:"level" json:"level"`
	// File is the log file path (empty = <data_dir>/novachat.log)
	File string `toml:"file" json:"file"`
	// MaxSizeMB is the size at which the log file rotates
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb"`
	// MaxBackups is how many rotated files to keep
	MaxBackups int `toml:"max_backups" json:"max_backups"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Completion: CompletionConfig{
			Endpoint:    "http://127.0.0.1:11434",
			Model:       "gemma3:4b",
			TimeoutSecs: 60,
			APIKey:      "",
		},

		Storage: StorageConfig{
			Backend:    "file",
			DataDir:    "",
			WatchFiles: false,
		},

		Defaults: DefaultsConfig{
			Tone:      model.DefaultTone.String(),
			Theme:     model.DefaultTheme.String(),
			Animation: model.DefaultAnimation.String(),
		},

		UI: UIConfig{
			AltScreen:      true,
			Mouse:          true,
			ShowTimestamps: false,
			CompactMode:    false,
		},

		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the novachat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".novachat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect
// the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// finishLoad applies env overrides, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
// SECURITY: Checks and fixes file permissions on load.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. JSON is detected by extension; anything else parses as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Ensure permissions are correct even if the file already existed.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# novachat configuration file")
	fmt.Fprintln(file, "# Generated by novachat - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Completion
	if c.Completion.Endpoint != "" {
		u, err := url.Parse(c.Completion.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "completion.endpoint",
				Message: fmt.Sprintf("invalid URL '%s'", c.Completion.Endpoint),
			})
		}
	}
	if c.Completion.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "completion.timeout_secs",
			Message: "must be non-negative",
		})
	}

	// Storage
	validBackends := map[string]bool{"file": true, "sqlite": true}
	if !validBackends[strings.ToLower(c.Storage.Backend)] {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite", c.Storage.Backend),
		})
	}

	// Defaults
	if !model.Tone(c.Defaults.Tone).Valid() {
		errs = append(errs, ValidationError{
			Field:   "defaults.tone",
			Message: fmt.Sprintf("invalid tone '%s', must be one of: formal, informal, humorous, normal, brutal", c.Defaults.Tone),
		})
	}
	if !model.Theme(c.Defaults.Theme).Valid() {
		errs = append(errs, ValidationError{
			Field:   "defaults.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: light, dark, sunrise, rose", c.Defaults.Theme),
		})
	}
	if !model.Animation(c.Defaults.Animation).Valid() {
		errs = append(errs, ValidationError{
			Field:   "defaults.animation",
			Message: fmt.Sprintf("invalid animation '%s', must be one of: orbit, nebula, pulse, none", c.Defaults.Animation),
		})
	}

	// Logging
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Message: "must be non-negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Completion.Endpoint == "" {
		c.Completion.Endpoint = defaults.Completion.Endpoint
	}
	if c.Completion.Model == "" {
		c.Completion.Model = defaults.Completion.Model
	}
	if c.Completion.TimeoutSecs == 0 {
		c.Completion.TimeoutSecs = defaults.Completion.TimeoutSecs
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}

	if c.Defaults.Tone == "" {
		c.Defaults.Tone = defaults.Defaults.Tone
	}
	if c.Defaults.Theme == "" {
		c.Defaults.Theme = defaults.Defaults.Theme
	}
	if c.Defaults.Animation == "" {
		c.Defaults.Animation = defaults.Defaults.Animation
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = defaults.Logging.MaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = defaults.Logging.MaxBackups
	}
}

// DataDir resolves the storage directory, defaulting to the config dir.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	return ConfigDir()
}

// LogFile resolves the log file path, defaulting to <data_dir>/novachat.log.
func (c *Config) LogFile() (string, error) {
	if c.Logging.File != "" {
		return c.Logging.File, nil
	}
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "novachat.log"), nil
}

// DefaultSettings converts the configured defaults into model settings.
// Invalid values were already rejected by Validate.
func (c *Config) DefaultSettings() model.Settings {
	s := model.Settings{
		Tone:      model.Tone(c.Defaults.Tone),
		Theme:     model.Theme(c.Defaults.Theme),
		Animation: model.Animation(c.Defaults.Animation),
	}
	s.Normalize()
	return s
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - NOVACHAT_ENDPOINT: overrides completion.endpoint
//   - NOVACHAT_MODEL: overrides completion.model
//   - NOVACHAT_API_KEY: overrides completion.api_key
//   - NOVACHAT_STORAGE: overrides storage.backend
//   - NOVACHAT_DATA_DIR: overrides storage.data_dir
//   - NOVACHAT_TONE: overrides defaults.tone
//   - NOVACHAT_THEME: overrides defaults.theme
//   - NOVACHAT_LOG_LEVEL: overrides logging.level
func (c *Config) ApplyEnvOverrides() {
	if endpoint := os.Getenv("NOVACHAT_ENDPOINT"); endpoint != "" {
		c.Completion.Endpoint = endpoint
	}
	if m := os.Getenv("NOVACHAT_MODEL"); m != "" {
		c.Completion.Model = m
	}
	if key := os.Getenv("NOVACHAT_API_KEY"); key != "" {
		c.Completion.APIKey = key
	}
	if backend := os.Getenv("NOVACHAT_STORAGE"); backend != "" {
		c.Storage.Backend = backend
	}
	if dir := os.Getenv("NOVACHAT_DATA_DIR"); dir != "" {
		c.Storage.DataDir = dir
	}
	if tone := os.Getenv("NOVACHAT_TONE"); tone != "" {
		c.Defaults.Tone = strings.ToLower(tone)
	}
	if theme := os.Getenv("NOVACHAT_THEME"); theme != "" {
		c.Defaults.Theme = strings.ToLower(theme)
	}
	if level := os.Getenv("NOVACHAT_LOG_LEVEL"); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation
// (e.g., "completion.model").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation
// (e.g., "completion.model").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field
// equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type
// conversion. String inputs convert to the field's kind so CLI "config set"
// can pass raw argv values.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.EqualFold(strVal, "true") || strings.EqualFold(strVal, "yes")
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"completion.endpoint",
		"completion.model",
		"completion.timeout_secs",
		"completion.api_key",
		"storage.backend",
		"storage.data_dir",
		"storage.watch_files",
		"defaults.tone",
		"defaults.theme",
		"defaults.animation",
		"ui.alt_screen",
		"ui.mouse",
		"ui.show_timestamps",
		"ui.compact_mode",
		"logging.level",
		"logging.file",
		"logging.max_size_mb",
		"logging.max_backups",
	}
}

// String returns a string representation of the config for debugging.
// SECURITY: Redacts the API key to prevent accidental exposure in logs.
func (c *Config) String() string {
	safe := *c
	if safe.Completion.APIKey != "" {
		safe.Completion.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(&safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
			cfg.SetDefaults()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}
