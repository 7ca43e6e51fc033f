package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Summary is the short form of a Definition used by the CLI listing.
type Summary struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"required,omitempty"`
	Optional    []string `json:"optional,omitempty"`
}

// Summaries reduces definitions to name, description and top-level arguments.
func Summaries(defs []Definition) []Summary {
	out := make([]Summary, 0, len(defs))
	for _, def := range defs {
		required := map[string]bool{}
		if req, ok := def.InputSchema["required"].([]any); ok {
			for _, r := range req {
				if name, ok := r.(string); ok {
					required[name] = true
				}
			}
		}
		s := Summary{Name: def.Name, Description: def.Description}
		if props, ok := def.InputSchema["properties"].(map[string]any); ok {
			for name := range props {
				if required[name] {
					s.Required = append(s.Required, name)
				} else {
					s.Optional = append(s.Optional, name)
				}
			}
		}
		sort.Strings(s.Required)
		sort.Strings(s.Optional)
		out = append(out, s)
	}
	return out
}

// SummaryText renders one "- name: description" line per tool.
func SummaryText(defs []Definition) string {
	var b strings.Builder
	for _, s := range Summaries(defs) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("- %s: %s", s.Name, s.Description))
	}
	return b.String()
}

// SummaryJSON returns Summaries as indented JSON.
func SummaryJSON(defs []Definition) ([]byte, error) {
	data, err := json.MarshalIndent(Summaries(defs), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare available tools response")
	}
	return data, nil
}
