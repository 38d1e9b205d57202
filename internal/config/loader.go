package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.bfhl.yaml",               // Project-specific config (highest priority)
	"~/.config/bfhl/config.yaml", // User config
	"/etc/bfhl/config.yaml",      // System config (lowest priority)
}

// DefaultEnvFile is read for BFHL_* variables that are not set in the environment
const DefaultEnvFile = ".env"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFile     string
	getenv      func(string) string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		envFile:     DefaultEnvFile,
		getenv:      os.Getenv,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. .env file
// 4. ./.bfhl.yaml
// 5. ~/.config/bfhl/config.yaml
// 6. /etc/bfhl/config.yaml
// 7. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// A key present in the file overrides the default even when it is false
	var keys map[string]map[string]any
	_ = yaml.Unmarshal(data, &keys)

	mergeConfigs(config, &fileConfig, keys)
	return nil
}

// lookupEnv returns the environment value, falling back to the .env file
func (l *Loader) lookupEnv() func(string) string {
	var dotenv map[string]string
	if l.envFile != "" && fileExists(l.envFile) {
		if values, err := godotenv.Read(l.envFile); err == nil {
			dotenv = values
		} else {
			fmt.Fprintf(os.Stderr, "Warning: Failed to read %s: %v\n", l.envFile, err)
		}
	}

	return func(key string) string {
		if v := l.getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		"BFHL_CLIENT_ENDPOINT":    func(v string) error { config.Client.Endpoint = v; return nil },
		"BFHL_CLIENT_TIMEOUT":     func(v string) error { return parseDuration(v, &config.Client.Timeout) },
		"BFHL_CLIENT_MAX_RETRIES": func(v string) error { return parseInt(v, &config.Client.MaxRetries) },

		"BFHL_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"BFHL_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"BFHL_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"BFHL_OUTPUT_NO_EMOJI":       func(v string) error { return parseBool(v, &config.Output.NoEmoji) },

		"BFHL_UI_THEME": func(v string) error { config.UI.Theme = v; return nil },
	}

	getenv := l.lookupEnv()
	for envVar, setter := range envMappings {
		if value := getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Comma-separated list
	if filters := getenv("BFHL_FILTERS_DEFAULT"); filters != "" {
		config.Filters.Default = nil
		for _, name := range strings.Split(filters, ",") {
			if name = strings.TrimSpace(name); name != "" {
				config.Filters.Default = append(config.Filters.Default, name)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Non-zero values always win; booleans win when their key was present.
func mergeConfigs(dst, src *Config, keys map[string]map[string]any) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeClientConfig(&dst.Client, &src.Client, keys["client"])
	if src.Filters.Default != nil {
		dst.Filters.Default = src.Filters.Default
	}
	mergeOutputConfig(&dst.Output, &src.Output, keys["output"])
	if src.UI.Theme != "" {
		dst.UI.Theme = src.UI.Theme
	}
}

// mergeClientConfig merges client configuration
func mergeClientConfig(dst, src *ClientConfig, present map[string]any) {
	if src.Endpoint != "" {
		dst.Endpoint = src.Endpoint
	}
	if _, ok := present["timeout"]; ok || src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if _, ok := present["max_retries"]; ok || src.MaxRetries != 0 {
		dst.MaxRetries = src.MaxRetries
	}
}

// mergeOutputConfig merges output configuration
func mergeOutputConfig(dst, src *OutputConfig, present map[string]any) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	mergeIfSet(&dst.Verbose, src.Verbose, present, "verbose")
	mergeIfSet(&dst.NoEmoji, src.NoEmoji, present, "no_emoji")
}

// mergeIfSet merges a boolean only when its key appeared in the file
func mergeIfSet(dst *bool, src bool, present map[string]any, key string) {
	if _, ok := present[key]; ok {
		*dst = src
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
