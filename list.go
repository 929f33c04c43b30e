package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaulthunt/vaulthunt/internal/vault"
)

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List one directory of the secret tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := buildLogger()

			client, err := newClient(logger)
			if err != nil {
				return err
			}

			if err := client.Login(cmd.Context()); err != nil {
				return err
			}

			path := vault.RootPath()
			if len(args) == 1 {
				path = vault.ParsePath(args[0])
			}

			entries, err := client.List(cmd.Context(), path)
			if err != nil {
				return err
			}

			for _, entry := range entries {
				if entry.Kind == vault.EntryDir {
					fmt.Println(entry.Name + vault.Separator)
				} else {
					fmt.Println(entry.Name)
				}
			}

			return nil
		},
	}
}
