// Package config handles configuration loading and defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultOutput    = "-"
	DefaultExtension = ".md"
	DefaultFormat    = "text"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds the full configuration for a collection run.
type Config struct {
	// Who is the assignee name TODOs are collected for.
	Who string `toml:"who"`

	// Output is the report destination. "-" means stdout.
	Output string `toml:"output"`

	// Exclude lists paths (files or directories) left out of the scan.
	Exclude []string `toml:"exclude"`

	// SkipDone drops completed TODOs from the report.
	SkipDone bool `toml:"skip_done"`

	// Extension is the note file suffix. Config-file only; the CLI
	// surface stays markdown.
	Extension string `toml:"extension"`

	// Format selects the report serialization (text or json).
	Format string `toml:"format"`

	// Logging configuration
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Debug forces debug-level diagnostics. Flag/env only.
	Debug bool `toml:"-"`

	// Root is the positional scan root. Not read from files.
	Root string `toml:"-"`
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.todo-collector/todo-collector.toml or OS config dir)
// 3. Project config file (todo-collector.toml or .todo-collector.toml)
// 4. Environment variables (TODO_COLLECTOR_*)
// 5. CLI flags registered on fs
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if userFile := findUserConfigFile(); userFile != "" {
		if err := loadConfigFile(cfg, userFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userFile, err)
		}
	}
	if projFile := findProjectConfigFile(); projFile != "" {
		if err := loadConfigFile(cfg, projFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projFile, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Output = DefaultOutput
	cfg.Extension = DefaultExtension
	cfg.Format = DefaultFormat
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{"todo-collector.toml", ".todo-collector.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file. Checks
// ~/.todo-collector/todo-collector.toml first, then falls back to the
// OS-specific config directory.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		path := filepath.Join(home, ".todo-collector", "todo-collector.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		path := filepath.Join(cfgDir, "todo-collector", "todo-collector.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_COLLECTOR_WHO"); v != "" {
		cfg.Who = v
	}
	if v := os.Getenv("TODO_COLLECTOR_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("TODO_COLLECTOR_EXCLUDE"); v != "" {
		cfg.Exclude = splitAndTrim(v, ",")
	}
	if v := os.Getenv("TODO_COLLECTOR_SKIP_DONE"); v != "" {
		cfg.SkipDone = boolFromString(v)
	}
	if v := os.Getenv("TODO_COLLECTOR_EXTENSION"); v != "" {
		cfg.Extension = v
	}
	if v := os.Getenv("TODO_COLLECTOR_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("TODO_COLLECTOR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_COLLECTOR_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TODO_COLLECTOR_DEBUG"); v != "" {
		cfg.Debug = boolFromString(v)
	}
}

// parseFlags defines and parses CLI flags. Flags override every other
// source; a repeated -e/--exclude replaces the configured exclusion list.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo-collector", flag.ContinueOnError)
	}

	var excludes stringList
	fs.StringVar(&cfg.Who, "w", cfg.Who, "Name of the person to find TODOs for (required)")
	fs.StringVar(&cfg.Who, "who", cfg.Who, "Name of the person to find TODOs for (required)")
	fs.StringVar(&cfg.Output, "o", cfg.Output, "Report destination; '-' writes to stdout")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "Report destination; '-' writes to stdout")
	fs.Var(&excludes, "e", "Path to exclude from the scan (repeatable)")
	fs.Var(&excludes, "exclude", "Path to exclude from the scan (repeatable)")
	fs.BoolVar(&cfg.SkipDone, "s", cfg.SkipDone, "Only report TODOs that are not yet done")
	fs.BoolVar(&cfg.SkipDone, "skip-done", cfg.SkipDone, "Only report TODOs that are not yet done")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Report format (text, json)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Show additional debug diagnostics")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(excludes) > 0 {
		cfg.Exclude = excludes
	}
	return nil
}

// Validate checks that the config can drive a scan.
func (c *Config) Validate() error {
	if c.Who == "" {
		return fmt.Errorf("no assignee given (use -w/--who)")
	}
	if c.Root == "" {
		return fmt.Errorf("no scan path given")
	}
	switch c.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown report format %q (expected text or json)", c.Format)
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// splitAndTrim splits a string by sep and trims whitespace from each part.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
