package tools

import (
	"context"

	"github.com/mwiater/hubble-tool/internal/toolerr"
)

// Definition describes the metadata the MCP server exposes for a tool.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// ContentPart represents a piece of data returned from a tool invocation.
// Text parts fill Text; markdown parts fill Content and optionally Title.
type ContentPart struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content string `json:"content,omitempty"`
	Title   string `json:"title,omitempty"`
}

// Result is the successful outcome of a tool call.
type Result struct {
	Content []ContentPart `json:"content"`
}

// TextResult returns a result holding one text part.
func TextResult(text string) *Result {
	return &Result{Content: []ContentPart{{Type: "text", Text: text}}}
}

// MarkdownResult returns a result holding one markdown part.
func MarkdownResult(content, title string) *Result {
	return &Result{Content: []ContentPart{{Type: "markdown", Content: content, Title: title}}}
}

// Handler executes a tool using the provided arguments. Every error it returns
// is a *toolerr.Error.
type Handler interface {
	Definition() Definition
	Execute(ctx context.Context, args map[string]any) (*Result, error)
}

// Tool is a tool with a typed argument value A. Parse validates and decodes the
// raw arguments; Run performs the work.
type Tool[A any] interface {
	Definition() Definition
	Parse(raw map[string]any) (A, error)
	Run(ctx context.Context, args A) (*Result, error)
}

// Bind adapts t into a Handler. Failures from either step are normalized with
// errPrefix.
func Bind[A any](t Tool[A], errPrefix string) Handler {
	return &bound[A]{tool: t, errPrefix: errPrefix}
}

type bound[A any] struct {
	tool      Tool[A]
	errPrefix string
}

func (b *bound[A]) Definition() Definition { return b.tool.Definition() }

func (b *bound[A]) Execute(ctx context.Context, raw map[string]any) (*Result, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	args, err := b.tool.Parse(raw)
	if err != nil {
		return nil, toolerr.Normalize(err, b.errPrefix)
	}
	res, err := b.tool.Run(ctx, args)
	if err != nil {
		return nil, toolerr.Normalize(err, b.errPrefix)
	}
	return res, nil
}

const (
	// SearchHubbleName is the canonical name for the Hubble search tool.
	SearchHubbleName = "search-hubble"
	// GenerateChartName is the canonical name for the chart URL tool.
	GenerateChartName = "generate_chart"
	// DownloadChartName is the canonical name for the chart download tool.
	DownloadChartName = "download_chart"
	// GenerateTableName is the canonical name for the markdown table tool.
	GenerateTableName = "generate_table"
)
