package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaulthunt/vaulthunt/internal/cachefile"
	"github.com/vaulthunt/vaulthunt/internal/config"
	"github.com/vaulthunt/vaulthunt/internal/export"
	"github.com/vaulthunt/vaulthunt/internal/ledger"
	"github.com/vaulthunt/vaulthunt/internal/vault"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the whole tree to an encrypted XML file",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	cmd.Flags().Bool("force", false, "export even if the last run is recent")
	cmd.Flags().Bool("history", false, "print past export runs instead of exporting")

	return cmd
}

// buildPipeline wires the export pipeline from the resolved config. The
// ledger is best-effort: a failure to open it is logged, not fatal.
func buildPipeline(ctx context.Context, client *vault.Client, logger *slog.Logger) *export.Pipeline {
	pipeline := &export.Pipeline{
		Inventory:   client,
		Marker:      cachefile.New(config.CachePath(resolvedCfg)),
		Encrypt:     export.GPGEncrypt,
		Logger:      logger,
		XMLPath:     resolvedCfg.Export.XMLPath,
		Recipient:   resolvedCfg.Export.GPGRecipient,
		MinInterval: resolvedCfg.ExportInterval(),
	}

	ldg, err := ledger.Open(ctx, config.LedgerPath())
	if err != nil {
		logger.Warn("export ledger unavailable", slog.String("error", err.Error()))

		return pipeline
	}

	pipeline.Recorder = ldg

	return pipeline
}

// maybeAutoExport runs the configured export when the last run is older
// than the configured interval. Called from the default hunt workflow.
func maybeAutoExport(ctx context.Context, client *vault.Client, logger *slog.Logger) error {
	pipeline := buildPipeline(ctx, client, logger)
	if !pipeline.Due(time.Now()) {
		logger.Debug("automatic export not due")

		return nil
	}

	return pipeline.Run(ctx)
}

func runExport(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()
	ctx := cmd.Context()

	if history, _ := cmd.Flags().GetBool("history"); history {
		return printExportHistory(ctx)
	}

	if !resolvedCfg.ExportEnabled() {
		return fmt.Errorf("export is not configured — set export.xml_path and export.gpg_recipient")
	}

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	if err := client.Login(ctx); err != nil {
		return err
	}

	pipeline := buildPipeline(ctx, client, logger)

	force, _ := cmd.Flags().GetBool("force")
	if !force && !pipeline.Due(time.Now()) {
		fmt.Println("Last export is recent; use --force to export anyway.")

		return nil
	}

	return pipeline.Run(ctx)
}

// printExportHistory lists recorded export runs, newest first.
func printExportHistory(ctx context.Context) error {
	ldg, err := ledger.Open(ctx, config.LedgerPath())
	if err != nil {
		return err
	}
	defer ldg.Close()

	runs, err := ldg.History(ctx)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No export runs recorded.")

		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %4d entries  %s\n",
			run.StartedAt.Local().Format(time.RFC3339), run.EntryCount, run.Destination)
	}

	return nil
}
