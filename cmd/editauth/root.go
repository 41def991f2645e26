package main

import (
	"github.com/aussiebroadwan/editauth/internal/editauth/app"
	"github.com/spf13/cobra"
)

// newRootCommand builds the CLI. Running it without a subcommand serves
// HTTP, so the container entrypoint stays a bare binary.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "editauth",
		Short: "Edit token service",
		Long: "Issues short-lived HS256 edit tokens after the metadata service confirms\n" +
			"the caller may update a record. Configuration is read from the\n" +
			"environment and an optional .env file.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(
		newServeCommand(),
		newIssueCommand(),
		newVerifyCommand(),
		newSecretCommand(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the build version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				cmd.Printf("%s\n", app.BuildVersion)
			},
		},
	)

	return root
}
