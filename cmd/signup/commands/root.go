// Package commands defines the signup CLI commands and their flags.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

var version = "dev"

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Root returns the root command for the signup CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "signup",
		Short:         "Join the LusoConnect community from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Run())
	cmd.AddCommand(Plans())
	cmd.AddCommand(Version())

	return cmd
}

// Version returns the version command.
func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "signup %s\n", version)
		},
	}
}
