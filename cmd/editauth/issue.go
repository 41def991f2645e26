package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/editauth/internal/editauth/app"
	"github.com/aussiebroadwan/editauth/internal/editauth/domain"
	"github.com/spf13/cobra"
)

// errDenied lets callers tell a refusal from a failure by message.
var errDenied = errors.New("permission denied")

func newIssueCommand() *cobra.Command {
	var userID, recordID string

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue one edit token against the configured metadata service",
		Long: "Runs the same permission check and signing the HTTP endpoint does and\n" +
			"prints the resulting {userId, token} JSON. Useful to debug permission\n" +
			"problems for a given user and record.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			cfg.LogOutput = cmd.ErrOrStderr()

			application, err := app.New(cfg)
			if err != nil {
				return err
			}

			token, err := application.TokenService().Issue(cmd.Context(), userID, recordID)
			switch {
			case errors.Is(err, domain.ErrUnauthorized):
				return fmt.Errorf("%w: %s may not edit %s", errDenied, userID, recordID)
			case err != nil:
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(token)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id to issue the token for")
	cmd.Flags().StringVar(&recordID, "record", "", "Record id to check edit permission on")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("record")

	return cmd
}
