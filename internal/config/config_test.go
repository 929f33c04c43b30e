package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }, "endpoint"},
		{"empty username", func(c *Config) { c.Username = "" }, "username"},
		{
			"export without recipient",
			func(c *Config) { c.Export.XMLPath = "/backup/x.gpg" },
			"gpg_recipient",
		},
		{
			"bad interval",
			func(c *Config) { c.Export.MinInterval = "yesterday" },
			"min_interval",
		},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Username = "alice"
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestClipboardProgram(t *testing.T) {
	cfg := &Config{ClipboardProg: "wl-copy"}
	assert.Equal(t, "wl-copy", cfg.ClipboardProgram())

	cfg = &Config{}
	switch runtime.GOOS {
	case "linux":
		assert.Equal(t, "xclip", cfg.ClipboardProgram())
	case "darwin":
		assert.Equal(t, "pbcopy", cfg.ClipboardProgram())
	default:
		assert.Empty(t, cfg.ClipboardProgram())
	}
}

func TestExportInterval(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 24*time.Hour, cfg.ExportInterval())

	cfg.Export.MinInterval = "6h"
	assert.Equal(t, 6*time.Hour, cfg.ExportInterval())
}

func TestExportEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.ExportEnabled())

	cfg.Export.XMLPath = "/backup/x.gpg"
	assert.True(t, cfg.ExportEnabled())
}
