package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vaulthunt/vaulthunt/internal/vault"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Print the full field map of one entry",
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

			record, err := client.Get(cmd.Context(), vault.ParsePath(args[0]))
			if err != nil {
				return err
			}

			names := make([]string, 0, len(record))
			for name := range record {
				names = append(names, name)
			}

			sort.Strings(names)

			for _, name := range names {
				fmt.Printf("%s: %s\n", name, record[name])
			}

			return nil
		},
	}
}
