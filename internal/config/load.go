package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment variable names for overrides.
const (
	EnvConfig   = "VAULTHUNT_CONFIG"
	EnvEndpoint = "VAULTHUNT_ENDPOINT"
	EnvUsername = "VAULTHUNT_USERNAME"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath string // VAULTHUNT_CONFIG: override config file path
	Endpoint   string // VAULTHUNT_ENDPOINT: override store endpoint
	Username   string // VAULTHUNT_USERNAME: override username
}

// ReadEnvOverrides reads environment variables once. This is the only place
// the configuration layer touches the environment.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath: os.Getenv(EnvConfig),
		Endpoint:   os.Getenv(EnvEndpoint),
		Username:   os.Getenv(EnvUsername),
	}
}

// Load reads and parses a TOML config file. Unknown keys are fatal —
// silently ignoring a typo in a config file leads to hard-to-debug
// behavior. Validation happens in Resolve, after env and flag overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return nil, fmt.Errorf("unknown keys in config file %s: %s", path, strings.Join(keys, ", "))
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns a
// Config populated with defaults. The defaults still fail validation if no
// username arrives via env or flags — there is no usable zero config for a
// remote store.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// CLIOverrides holds values from command-line flags. Flags always win.
type CLIOverrides struct {
	ConfigPath string
	Endpoint   string
	Username   string
}

// Resolve applies the override chain: defaults -> config file -> env ->
// CLI flags, then validates the result.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Config, error) {
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	if env.Endpoint != "" {
		cfg.Endpoint = env.Endpoint
	}

	if env.Username != "" {
		cfg.Username = env.Username
	}

	if cli.Endpoint != "" {
		cfg.Endpoint = cli.Endpoint
	}

	if cli.Username != "" {
		cfg.Username = cli.Username
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
