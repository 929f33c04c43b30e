package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaulthunt/vaulthunt/internal/cachefile"
	"github.com/vaulthunt/vaulthunt/internal/config"
	"github.com/vaulthunt/vaulthunt/internal/vault"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagEndpoint   string
	flagUsername   string
	flagVerbose    bool
	flagQuiet      bool
)

// resolvedCfg holds the effective configuration loaded by
// PersistentPreRunE. Available to all subcommands after the pre-run phase.
var resolvedCfg *config.Config

// newRootCmd builds the fully-assembled root command. Called once from
// main(). Running the root command with a bare pattern argument performs
// the search-and-reveal workflow, matching the everyday use of the tool.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vaulthunt [pattern]",
		Short:   "Personal password lookup for a Vault KV store",
		Long:    "vaulthunt searches a personal Vault-style secret store and reveals matching entries.",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		// Silence cobra's default error/usage printing — main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: runHunt,
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "store API endpoint override")
	cmd.PersistentFlags().StringVar(&flagUsername, "username", "", "username override")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newTokenInfoCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newMountsCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the override chain
// and stores it in resolvedCfg for subcommands.
func loadConfig() error {
	cli := config.CLIOverrides{
		ConfigPath: flagConfigPath,
		Endpoint:   flagEndpoint,
		Username:   flagUsername,
	}

	env := config.ReadEnvOverrides()

	cfg, err := config.Resolve(env, cli)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = cfg

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level is the baseline; --verbose and --quiet
// override it because CLI flags always win.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo

	if resolvedCfg != nil {
		switch resolvedCfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newClient assembles the vault client from the resolved config: token
// cache at the resolved path, masked password prompt when stdin is a
// terminal, custom trust roots from the config.
func newClient(logger *slog.Logger) (*vault.Client, error) {
	cache := cachefile.New(config.CachePath(resolvedCfg))

	return vault.New(vault.Options{
		Endpoint: resolvedCfg.Endpoint,
		Username: resolvedCfg.Username,
		CACerts:  resolvedCfg.CACerts,
		Cache:    cache,
		Prompt:   passwordPrompt(),
		Logger:   logger,
	})
}
