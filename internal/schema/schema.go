// Package schema enforces a tool's declared input schema at call time and
// decodes the validated arguments into the tool's typed argument value.
//
// The schema passed to Validate is the same value a tool advertises through
// tools/list, so what is declared and what is enforced cannot drift apart.
package schema

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/mwiater/hubble-tool/internal/toolerr"
	"github.com/xeipuuv/gojsonschema"
)

const rootField = "(root)"

// Validate checks raw against def and returns an InvalidArguments error that
// lists one violation per failing field. A nil raw map is treated as empty.
func Validate(def map[string]any, raw map[string]any) error {
	if raw == nil {
		raw = map[string]any{}
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(def), gojsonschema.NewGoLoader(raw))
	if err != nil {
		// A schema that fails to load is a programming error, not bad input.
		return toolerr.Internal(err, "schema validation error")
	}
	if result.Valid() {
		return nil
	}

	violations := make([]toolerr.Violation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		violations = append(violations, toViolation(re))
	}
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Path != violations[j].Path {
			return violations[i].Path < violations[j].Path
		}
		return violations[i].Message < violations[j].Message
	})
	return toolerr.Invalid(violations...)
}

// Decode converts validated arguments into out. Fields the target type does not
// declare are dropped.
func Decode(raw map[string]any, out any) error {
	if raw == nil {
		raw = map[string]any{}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return toolerr.Invalid(toolerr.Violation{Message: errors.Wrap(err, "arguments are not JSON").Error()})
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return toolerr.Invalid(toolerr.Violation{Message: errors.Wrap(err, "failed to decode arguments").Error()})
	}
	return nil
}

// Parse validates raw against def and decodes it into out.
func Parse(def map[string]any, raw map[string]any, out any) error {
	if err := Validate(def, raw); err != nil {
		return err
	}
	return Decode(raw, out)
}

func toViolation(re gojsonschema.ResultError) toolerr.Violation {
	path := re.Field()
	if path == rootField {
		path = ""
	}
	switch re.Type() {
	case "required", "additional_property_not_allowed":
		if prop, ok := re.Details()["property"].(string); ok {
			path = joinPath(path, prop)
		}
	}
	return toolerr.Violation{Path: path, Message: re.Description()}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
