package main

import (
	"fmt"

	"github.com/aussiebroadwan/editauth/pkg/cryptox"
	"github.com/spf13/cobra"
)

func newSecretCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Print a random secret for EDITAUTH_SIGNING_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := cryptox.GenerateSecret(size)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
			return err
		},
	}

	cmd.Flags().IntVar(&size, "bytes", cryptox.SecretSize256, "Random bytes before base64url encoding")

	return cmd
}
