// internal/commands/root.go
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwiater/hubble-tool/internal/appconfig"
	"github.com/mwiater/hubble-tool/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd serves MCP over stdio when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hubble-tool",
	Short: "MCP tool server for Hubble search, charts and tables",
	Long: `hubble-tool exposes search-hubble, generate_chart, download_chart and generate_table
to MCP clients over stdio. Run without a subcommand to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetDebug(currentConfig.Debug)
		return nil
	},
	RunE: runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("hubbleUrl", "", "Hubble workflow service base URL (env HUBBLE_URL)")
	rootCmd.PersistentFlags().String("hubbleWorkflow", "", "Hubble workflow id")
	rootCmd.PersistentFlags().String("chartUrl", "", "chart rendering endpoint (env HUBBLE_CHART_URL)")
	rootCmd.PersistentFlags().Int("timeout", 0, "HTTP request timeout in seconds (0 = default)")

	bindFlags()
}

// bindFlags connects the persistent flags to their viper keys.
func bindFlags() {
	for _, name := range []string{"debug", "logFile", "hubbleUrl", "hubbleWorkflow", "chartUrl", "timeout"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
