package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Establish a session (cached token or password prompt)",
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

			fmt.Println("Logged in.")

			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session token and clear the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := buildLogger()

			client, err := newClient(logger)
			if err != nil {
				return err
			}

			// Only a cached token can be revoked; without one there is
			// nothing to do.
			if err := client.LoginCached(); err != nil {
				logger.Debug("nothing to log out", "reason", err.Error())

				return nil
			}

			return client.Logout(cmd.Context())
		},
	}
}

func newTokenInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token-info",
		Short: "Print the server's view of the cached session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := buildLogger()

			client, err := newClient(logger)
			if err != nil {
				return err
			}

			// Strict: token-info inspects an existing session, so a
			// missing cache file is a hard error here, not a fallback.
			if err := client.LoginCached(); err != nil {
				return errors.New("no cached session token — run 'vaulthunt login' first")
			}

			info, err := client.LookupToken(cmd.Context())
			if err != nil {
				return err
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, info, "", "  "); err != nil {
				return fmt.Errorf("formatting token info: %w", err)
			}

			pretty.WriteByte('\n')
			_, err = pretty.WriteTo(os.Stdout)

			return err
		},
	}
}
