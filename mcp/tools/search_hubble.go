package tools

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/mwiater/hubble-tool/internal/schema"
)

// Searcher runs a query through the Hubble workflow service.
type Searcher interface {
	Search(ctx context.Context, query string) (json.RawMessage, error)
}

// SearchHubbleArgs is the validated input of search-hubble.
type SearchHubbleArgs struct {
	Query string `json:"query"`
}

// SearchHubbleDefinition describes the Hubble search tool.
func SearchHubbleDefinition() Definition {
	return Definition{
		Name:        SearchHubbleName,
		Description: "Get pumpfun data from Hubble",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query",
				},
			},
			"required": []any{"query"},
		},
	}
}

// SearchHubbleTool forwards the query to Hubble and returns the workflow
// output as compact JSON text.
type SearchHubbleTool struct {
	searcher Searcher
}

// NewSearchHubbleTool returns the search tool backed by searcher.
func NewSearchHubbleTool(searcher Searcher) *SearchHubbleTool {
	return &SearchHubbleTool{searcher: searcher}
}

// Definition returns the tool's name, description and input schema.
func (t *SearchHubbleTool) Definition() Definition { return SearchHubbleDefinition() }

// Parse validates raw against the declared schema and decodes the query.
func (t *SearchHubbleTool) Parse(raw map[string]any) (SearchHubbleArgs, error) {
	var args SearchHubbleArgs
	err := schema.Parse(t.Definition().InputSchema, raw, &args)
	return args, err
}

// Run executes the Hubble workflow and returns its output as compact JSON text.
func (t *SearchHubbleTool) Run(ctx context.Context, args SearchHubbleArgs) (*Result, error) {
	out, err := t.searcher.Search(ctx, args.Query)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, out); err != nil {
		return nil, errors.Wrap(err, "compact search result")
	}
	return TextResult(buf.String()), nil
}
