package tools

import (
	"context"

	"github.com/mwiater/hubble-tool/internal/chart"
	"github.com/mwiater/hubble-tool/internal/schema"
)

// URLBuilder turns a chart configuration into a fetchable image URL.
type URLBuilder interface {
	ToURL(cfg chart.Config) (string, error)
}

func colorSchema() map[string]any {
	return map[string]any{
		"oneOf": []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}

func chartKindEnum() []any {
	kinds := chart.Kinds()
	out := make([]any, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

// GenerateChartDefinition describes the chart URL tool.
func GenerateChartDefinition() Definition {
	return Definition{
		Name:        GenerateChartName,
		Description: "Generate a chart using QuickChart",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type": map[string]any{
					"type":        "string",
					"enum":        chartKindEnum(),
					"description": "Chart type (bar, line, pie, doughnut, radar, polarArea, scatter, bubble, radialGauge, speedometer)",
				},
				"labels": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Labels for data points",
				},
				"datasets": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"label": map[string]any{"type": "string"},
							"data": map[string]any{
								"type": "array",
								"items": map[string]any{
									"oneOf": []any{
										map[string]any{"type": "number"},
										map[string]any{"type": "array", "items": map[string]any{"type": "number"}},
									},
								},
							},
							"backgroundColor":  colorSchema(),
							"borderColor":      colorSchema(),
							"additionalConfig": map[string]any{"type": "object"},
						},
						"required": []any{"data"},
					},
				},
				"title":   map[string]any{"type": "string"},
				"options": map[string]any{"type": "object"},
			},
			"required": []any{"type", "datasets"},
		},
	}
}

// GenerateChartTool builds a chart configuration and returns it as a markdown
// image pointing at the rendering service.
type GenerateChartTool struct {
	urls URLBuilder
}

// NewGenerateChartTool returns the chart URL tool using urls to encode configs.
func NewGenerateChartTool(urls URLBuilder) *GenerateChartTool {
	return &GenerateChartTool{urls: urls}
}

// Definition returns the tool's name, description and input schema.
func (t *GenerateChartTool) Definition() Definition { return GenerateChartDefinition() }

// Parse validates raw and decodes it into a chart.Spec.
func (t *GenerateChartTool) Parse(raw map[string]any) (chart.Spec, error) {
	var spec chart.Spec
	err := schema.Parse(t.Definition().InputSchema, raw, &spec)
	return spec, err
}

// Run builds the chart config and returns a markdown image link to it.
func (t *GenerateChartTool) Run(_ context.Context, spec chart.Spec) (*Result, error) {
	link, err := t.urls.ToURL(chart.Build(spec))
	if err != nil {
		return nil, err
	}
	return MarkdownResult("![Chart]("+link+")", ""), nil
}
