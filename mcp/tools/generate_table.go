package tools

import (
	"context"

	"github.com/mwiater/hubble-tool/internal/schema"
	"github.com/mwiater/hubble-tool/internal/table"
)

const defaultTableTitle = "Table"

// GenerateTableDefinition describes the markdown table tool.
func GenerateTableDefinition() Definition {
	return Definition{
		Name:        GenerateTableName,
		Description: "Generate a markdown table visualization from data",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"data": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "array",
						"items": map[string]any{
							"oneOf": []any{
								map[string]any{"type": "string"},
								map[string]any{"type": "number"},
								map[string]any{"type": "null"},
							},
						},
					},
					"description": "2D array of data for the table. First row can be used as headers if columns not provided. Use ['-'] for separator rows.",
				},
				"columns": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Optional column headers. If not provided, first row of data will be used as headers.",
				},
				"title": map[string]any{
					"type":        "string",
					"description": "Optional title for the table",
				},
				"tableOptions": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"alignment": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
								"enum": []any{"left", "center", "right"},
							},
							"description": "Optional alignment for each column",
						},
						"compact": map[string]any{
							"type":        "boolean",
							"description": "Whether to generate a compact table with less whitespace",
						},
						"showTitle": map[string]any{
							"type":        "boolean",
							"description": "Whether to show the title above the table",
						},
					},
					"description": "Optional styling options for the markdown table",
				},
			},
			"required": []any{"data"},
		},
	}
}

// GenerateTableTool renders tabular data as markdown.
type GenerateTableTool struct{}

// NewGenerateTableTool returns the markdown table tool.
func NewGenerateTableTool() *GenerateTableTool { return &GenerateTableTool{} }

// Definition returns the tool's name, description and input schema.
func (t *GenerateTableTool) Definition() Definition { return GenerateTableDefinition() }

// Parse validates raw and decodes it into a table.Spec.
func (t *GenerateTableTool) Parse(raw map[string]any) (table.Spec, error) {
	var spec table.Spec
	err := schema.Parse(t.Definition().InputSchema, raw, &spec)
	return spec, err
}

// Run renders the table; the result title defaults to "Table".
func (t *GenerateTableTool) Run(_ context.Context, spec table.Spec) (*Result, error) {
	md, err := table.Render(spec)
	if err != nil {
		return nil, err
	}
	title := spec.Title
	if title == "" {
		title = defaultTableTitle
	}
	return MarkdownResult(md, title), nil
}
