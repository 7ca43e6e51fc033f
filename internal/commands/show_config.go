package commands

import (
	"github.com/mwiater/hubble-tool/internal/appconfig"
	"github.com/spf13/cobra"
)

// showCmd groups the 'show' subcommands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show runtime information",
}

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overriden by environment and flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		appconfig.ShowConfig(cmd.OutOrStdout(), *GetConfig())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
