package main

import (
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/editauth/internal/editauth/app"
	"github.com/aussiebroadwan/editauth/pkg/jwtx"
	"github.com/spf13/cobra"
)

func newVerifyCommand() *cobra.Command {
	var leeway time.Duration

	cmd := &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Verify an edit token with the configured signing secret",
		Long: "Checks signature, algorithm, expiry and APP tag, then prints the claims.\n" +
			"Needs only EDITAUTH_SIGNING_SECRET and EDITAUTH_APP_TAG.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()

			claims, err := jwtx.NewVerifierHS256(cfg.SigningSecret, cfg.AppTag, leeway).Verify(args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(claims)
		},
	}

	cmd.Flags().DurationVar(&leeway, "leeway", 0, "Clock skew allowed on exp and iat")

	return cmd
}
