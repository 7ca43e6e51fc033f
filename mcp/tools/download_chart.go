package tools

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/mwiater/hubble-tool/internal/schema"
	"github.com/mwiater/hubble-tool/internal/toolerr"
	"github.com/spf13/afero"
)

const downloadChartErrPrefix = "Failed to download chart"

// Renderer renders a chart configuration into image bytes.
type Renderer interface {
	Render(ctx context.Context, config map[string]any) ([]byte, error)
}

// DownloadChartArgs is the validated input of download_chart.
type DownloadChartArgs struct {
	Config     map[string]any `json:"config"`
	OutputPath string         `json:"outputPath"`
}

// DownloadChartDefinition describes the chart download tool.
func DownloadChartDefinition() Definition {
	return Definition{
		Name:        DownloadChartName,
		Description: "Download a chart image to a local file",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"config": map[string]any{
					"type":        "object",
					"description": "Chart configuration object",
				},
				"outputPath": map[string]any{
					"type":        "string",
					"minLength":   1,
					"description": "Path where the chart image should be saved",
				},
			},
			"required": []any{"config", "outputPath"},
		},
	}
}

// DownloadChartTool renders a chart through the rendering service and writes
// the image to disk.
type DownloadChartTool struct {
	renderer Renderer
	fs       afero.Fs
}

// NewDownloadChartTool returns the download tool. A nil fs writes to the OS filesystem.
func NewDownloadChartTool(renderer Renderer, fs afero.Fs) *DownloadChartTool {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DownloadChartTool{renderer: renderer, fs: fs}
}

// Definition returns the tool's name, description and input schema.
func (t *DownloadChartTool) Definition() Definition { return DownloadChartDefinition() }

// Parse validates raw and decodes the chart config and output path.
func (t *DownloadChartTool) Parse(raw map[string]any) (DownloadChartArgs, error) {
	var args DownloadChartArgs
	err := schema.Parse(t.Definition().InputSchema, raw, &args)
	return args, err
}

// Run renders the config and writes the image to OutputPath, creating parent directories.
func (t *DownloadChartTool) Run(ctx context.Context, args DownloadChartArgs) (*Result, error) {
	image, err := t.renderer.Render(ctx, args.Config)
	if err != nil {
		return nil, toolerr.Upstream(err, downloadChartErrPrefix)
	}

	if dir := filepath.Dir(args.OutputPath); dir != "" && dir != "." {
		if err := t.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create directory %s", dir)
		}
	}
	if err := afero.WriteFile(t.fs, args.OutputPath, image, 0o644); err != nil {
		return nil, errors.Wrapf(err, "write %s", args.OutputPath)
	}
	return TextResult("Chart saved to " + args.OutputPath), nil
}
