// Package commands implements the Floppa CLI commands using cobra.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root CLI command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "floppa",
		Short: "Floppa - persona-driven Discord chat bot",
		Long: `Floppa is a Discord bot that relays conversation context to a
completion API and answers in character, persisting interaction history.

Examples:
  floppa serve
  floppa serve --config ./config.yaml
  floppa health`,
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newHealthCmd(),
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logs")

	return rootCmd
}
