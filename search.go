package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// runHunt is the default workflow: log in, run the automatic export when
// one is configured and due, then search and reveal the pattern.
func runHunt(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("expecting a search pattern (see --help)")
	}

	logger := buildLogger()

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if err := client.Login(ctx); err != nil {
		return err
	}

	if resolvedCfg.ExportEnabled() {
		if err := maybeAutoExport(ctx, client, logger); err != nil {
			return err
		}
	}

	return searchReveal(ctx, client, args[0])
}

// newSearchCmd lists matching paths without revealing anything.
func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <pattern>",
		Short: "List entry paths matching a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := buildLogger()

			client, err := newClient(logger)
			if err != nil {
				return err
			}

			if err := client.Login(cmd.Context()); err != nil {
				return err
			}

			paths, err := client.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, path := range paths {
				fmt.Println(path)
			}

			return nil
		},
	}
}
