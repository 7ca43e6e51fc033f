package commands

import (
	"net/http"

	"github.com/mwiater/hubble-tool/internal/appconfig"
	"github.com/mwiater/hubble-tool/internal/chart"
	"github.com/mwiater/hubble-tool/internal/hubble"
	"github.com/mwiater/hubble-tool/internal/logging"
	"github.com/mwiater/hubble-tool/internal/mcpserver"
	"github.com/mwiater/hubble-tool/mcp/tools"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// serveCmd implements 'serve', the explicit form of running the root command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools over MCP on stdin/stdout",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := *GetConfig()
	registry := newRegistry(cfg)
	logging.LogEvent("hubble-tool %s serving %d tools (hubble=%s chart=%s)",
		appVersion, len(registry.Definitions()), cfg.HubbleBaseURL(), cfg.ChartEndpoint())
	return mcpserver.New(registry).Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

// newRegistry wires the tool registry from cfg. All outbound calls share one
// HTTP client carrying the configured timeout.
func newRegistry(cfg appconfig.Config) *tools.Registry {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout()}

	searcher := hubble.NewClient(cfg.HubbleBaseURL(),
		hubble.WithWorkflow(cfg.Workflow()),
		hubble.WithAPIKey(cfg.HubbleAPIKey),
		hubble.WithHTTPClient(httpClient),
	)
	renderer := chart.NewClient(cfg.ChartEndpoint()).
		WithHTTPClient(httpClient).
		WithSize(cfg.ChartWidth, cfg.ChartHeight).
		WithFormat(cfg.ChartFormat)

	return tools.NewRegistry(tools.Deps{
		Hubble:   searcher,
		Charts:   chart.NewBuilder(cfg.ChartEndpoint()),
		Renderer: renderer,
		Fs:       afero.NewOsFs(),
	})
}
