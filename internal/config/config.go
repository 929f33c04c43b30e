// Package config loads and resolves vaulthunt configuration: a TOML file,
// environment overrides, and platform path resolution. Path lookups happen
// once at startup; the resolved values are passed explicitly into the
// client and cache constructors so the core never reads the environment.
package config

import (
	"fmt"
	"runtime"
	"time"
)

// Platform identifiers.
const (
	platformLinux  = "linux"
	platformDarwin = "darwin"
)

// Default clipboard programs per platform. The password is piped to this
// program's stdin; when it is unavailable the password is printed instead.
const (
	clipboardLinux  = "xclip"
	clipboardDarwin = "pbcopy"
)

// defaultExportInterval gates automatic exports: at most one per interval.
const defaultExportInterval = 24 * time.Hour

// Export configures the optional full-tree export pipeline. Export runs
// only when XMLPath is set.
type Export struct {
	// XMLPath is where the GPG-encrypted XML export is written.
	XMLPath string `toml:"xml_path"`
	// GPGRecipient is the key the export is encrypted to. Required when
	// XMLPath is set.
	GPGRecipient string `toml:"gpg_recipient"`
	// MinInterval between automatic exports, e.g. "24h". The export
	// command's --force flag bypasses it.
	MinInterval string `toml:"min_interval"`
}

// Config mirrors the TOML config file.
type Config struct {
	// Endpoint is the base URL of the store's HTTP API.
	Endpoint string `toml:"endpoint"`
	// Username for userpass login and the per-user KV prefix.
	Username string `toml:"username"`
	// CACerts are PEM files added to the HTTPS trust roots.
	CACerts []string `toml:"ca_certs"`
	// ClipboardProg overrides the platform default clipboard program.
	ClipboardProg string `toml:"clipboard_prog"`
	// CachePath overrides the default token-cache file location.
	CachePath string `toml:"cache_path"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	Export Export `toml:"export"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Endpoint: "https://localhost:8200",
		LogLevel: "info",
	}
}

// Validate checks the fields the client cannot function without.
func Validate(cfg *Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}

	if cfg.Username == "" {
		return fmt.Errorf("username must not be empty")
	}

	if cfg.Export.XMLPath != "" && cfg.Export.GPGRecipient == "" {
		return fmt.Errorf("export.gpg_recipient is required when export.xml_path is set")
	}

	if cfg.Export.MinInterval != "" {
		if _, err := time.ParseDuration(cfg.Export.MinInterval); err != nil {
			return fmt.Errorf("export.min_interval: %w", err)
		}
	}

	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", cfg.LogLevel)
	}

	return nil
}

// ClipboardProgram returns the configured clipboard program, falling back
// to the platform default. Empty means no clipboard is available and the
// password is printed.
func (c *Config) ClipboardProgram() string {
	if c.ClipboardProg != "" {
		return c.ClipboardProg
	}

	switch runtime.GOOS {
	case platformLinux:
		return clipboardLinux
	case platformDarwin:
		return clipboardDarwin
	default:
		return ""
	}
}

// ExportInterval returns the minimum interval between automatic exports.
func (c *Config) ExportInterval() time.Duration {
	if c.Export.MinInterval == "" {
		return defaultExportInterval
	}

	d, err := time.ParseDuration(c.Export.MinInterval)
	if err != nil {
		// Validate rejects unparseable intervals; this is the zero-config path.
		return defaultExportInterval
	}

	return d
}

// ExportEnabled reports whether the automatic export pipeline is configured.
func (c *Config) ExportEnabled() bool {
	return c.Export.XMLPath != ""
}
