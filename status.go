package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print the store's health state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := buildLogger()

			client, err := newClient(logger)
			if err != nil {
				return err
			}

			// Health is unauthenticated; no login needed.
			status, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println(status)

			return nil
		},
	}
}

func newMountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mounts",
		Short: "Print the store's mount table (diagnostic)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := buildLogger()

			client, err := newClient(logger)
			if err != nil {
				return err
			}

			if err := client.Login(cmd.Context()); err != nil {
				return err
			}

			mounts, err := client.Mounts(cmd.Context())
			if err != nil {
				return err
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, mounts, "", "  "); err != nil {
				return fmt.Errorf("formatting mount table: %w", err)
			}

			pretty.WriteByte('\n')
			_, err = pretty.WriteTo(os.Stdout)

			return err
		},
	}
}
