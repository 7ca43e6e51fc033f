package tools

import (
	"context"

	"github.com/mwiater/hubble-tool/internal/chart"
	"github.com/mwiater/hubble-tool/internal/table"
	"github.com/mwiater/hubble-tool/internal/toolerr"
	"github.com/spf13/afero"
)

// Deps are the collaborators the built-in tools call out to.
type Deps struct {
	Hubble   Searcher
	Charts   URLBuilder
	Renderer Renderer
	// Fs receives downloaded charts; nil means the OS filesystem.
	Fs afero.Fs
}

// Registry maps tool names to handlers. It is fixed at construction and safe
// for concurrent reads.
type Registry struct {
	order    []string
	handlers map[string]Handler
}

// NewRegistry registers the four built-in tools in discovery order.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{handlers: make(map[string]Handler, 4)}
	r.register(Bind[SearchHubbleArgs](NewSearchHubbleTool(deps.Hubble), "Failed to search Hubble"))
	r.register(Bind[chart.Spec](NewGenerateChartTool(deps.Charts), "Failed to generate chart"))
	r.register(Bind[DownloadChartArgs](NewDownloadChartTool(deps.Renderer, deps.Fs), downloadChartErrPrefix))
	r.register(Bind[table.Spec](NewGenerateTableTool(), "Failed to generate table"))
	return r
}

func (r *Registry) register(h Handler) {
	name := h.Definition().Name
	r.order = append(r.order, name)
	r.handlers[name] = h
}

// Definitions returns the tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.handlers[name].Definition())
	}
	return defs
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Dispatch runs the tool registered under name. An unknown name fails with
// UnknownTool before any handler runs.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (*Result, error) {
	h, ok := r.Lookup(name)
	if !ok {
		return nil, toolerr.Unknown(name)
	}
	return h.Execute(ctx, args)
}
