// Package chart turns a declarative chart description into a QuickChart
// configuration, the GET URL that renders it, and (through Client) the
// rendered image itself.
package chart

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Kind is a supported chart type.
type Kind string

const (
	Bar         Kind = "bar"
	Line        Kind = "line"
	Pie         Kind = "pie"
	Doughnut    Kind = "doughnut"
	Radar       Kind = "radar"
	PolarArea   Kind = "polarArea"
	Scatter     Kind = "scatter"
	Bubble      Kind = "bubble"
	RadialGauge Kind = "radialGauge"
	Speedometer Kind = "speedometer"
)

// Kinds returns the closed set of chart types in declaration order.
func Kinds() []Kind {
	return []Kind{Bar, Line, Pie, Doughnut, Radar, PolarArea, Scatter, Bubble, RadialGauge, Speedometer}
}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Spec is the validated input of generate_chart.
type Spec struct {
	Type     Kind           `json:"type"`
	Labels   []string       `json:"labels,omitempty"`
	Datasets []Dataset      `json:"datasets"`
	Title    string         `json:"title,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// Config is the provider-side chart configuration.
type Config struct {
	Type    Kind           `json:"type"`
	Data    Data           `json:"data"`
	Options map[string]any `json:"options,omitempty"`
}

// Data holds the category axis and the series of a chart.
type Data struct {
	Labels   []string  `json:"labels,omitempty"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one series. Keys other than the well-known ones are kept in Extra
// and written back verbatim.
type Dataset struct {
	Label           *string
	Data            []DataPoint
	BackgroundColor *Color
	BorderColor     *Color
	Extra           map[string]any
}

const additionalConfigKey = "additionalConfig"

// UnmarshalJSON reads the known keys and collects the rest into Extra. The
// entries of additionalConfig are then applied on top, the way an object
// spread would: a label, data or color given there replaces the top-level one.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return errors.Wrap(err, "dataset must be an object")
	}

	out := Dataset{}
	for key, raw := range fields {
		if key == additionalConfigKey {
			continue
		}
		if err := out.set(key, raw); err != nil {
			return errors.Wrapf(err, "dataset %s", key)
		}
	}
	if raw, ok := fields[additionalConfigKey]; ok {
		var extra map[string]json.RawMessage
		if err := json.Unmarshal(raw, &extra); err != nil {
			return errors.Wrap(err, "dataset additionalConfig")
		}
		for key, rawVal := range extra {
			if err := out.set(key, rawVal); err != nil {
				return errors.Wrapf(err, "dataset additionalConfig.%s", key)
			}
		}
	}

	*d = out
	return nil
}

func (d *Dataset) set(key string, raw json.RawMessage) error {
	switch key {
	case "label":
		var label string
		if err := json.Unmarshal(raw, &label); err != nil {
			return err
		}
		d.Label = &label
	case "data":
		var points []DataPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			return err
		}
		d.Data = points
	case "backgroundColor":
		c := &Color{}
		if err := json.Unmarshal(raw, c); err != nil {
			return err
		}
		d.BackgroundColor = c
	case "borderColor":
		c := &Color{}
		if err := json.Unmarshal(raw, c); err != nil {
			return err
		}
		d.BorderColor = c
	default:
		v, err := decodeAny(raw)
		if err != nil {
			return err
		}
		d.setExtra(key, v)
	}
	return nil
}

func (d *Dataset) setExtra(key string, v any) {
	if d.Extra == nil {
		d.Extra = make(map[string]any)
	}
	d.Extra[key] = v
}

// MarshalJSON writes the dataset as a single object with sorted keys.
func (d Dataset) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(d.Extra)+4)
	for k, v := range d.Extra {
		obj[k] = v
	}
	if d.Label != nil {
		obj["label"] = *d.Label
	}
	points := d.Data
	if points == nil {
		points = []DataPoint{}
	}
	obj["data"] = points
	if d.BackgroundColor != nil {
		obj["backgroundColor"] = d.BackgroundColor
	}
	if d.BorderColor != nil {
		obj["borderColor"] = d.BorderColor
	}
	return json.Marshal(obj)
}

// DataPoint is either a single number or a tuple of numbers (scatter, bubble).
type DataPoint struct {
	Value json.Number
	Tuple []json.Number
}

// Num returns a scalar data point.
func Num(n json.Number) DataPoint { return DataPoint{Value: n} }

// Tuple returns a tuple data point.
func Tuple(values ...json.Number) DataPoint { return DataPoint{Tuple: values} }

// UnmarshalJSON accepts a number or an array of numbers.
func (p *DataPoint) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tuple []json.Number
		if err := json.Unmarshal(trimmed, &tuple); err != nil {
			return err
		}
		*p = DataPoint{Tuple: tuple}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	if n == "" {
		return errors.Newf("data point must be a number, got %s", trimmed)
	}
	*p = DataPoint{Value: n}
	return nil
}

// MarshalJSON writes the number or the tuple.
func (p DataPoint) MarshalJSON() ([]byte, error) {
	if p.Tuple != nil {
		return json.Marshal(p.Tuple)
	}
	return json.Marshal(p.Value)
}

// Color is a single CSS colour or one colour per data point.
type Color struct {
	Values []string
	Multi  bool
}

// SingleColor returns a colour applied to the whole series.
func SingleColor(c string) *Color { return &Color{Values: []string{c}} }

// ColorList returns one colour per data point.
func ColorList(cs ...string) *Color { return &Color{Values: cs, Multi: true} }

// UnmarshalJSON accepts a string or an array of strings.
func (c *Color) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*c = Color{Values: list, Multi: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return err
	}
	*c = Color{Values: []string{s}}
	return nil
}

// MarshalJSON writes a string or an array.
func (c Color) MarshalJSON() ([]byte, error) {
	if c.Multi {
		values := c.Values
		if values == nil {
			values = []string{}
		}
		return json.Marshal(values)
	}
	if len(c.Values) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(c.Values[0])
}

func decodeAny(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Build derives the chart configuration from spec. It is pure: the same spec
// always yields the same Config, and spec.Options is never modified.
//
// A non-empty title becomes options.title unless the caller already set one.
func Build(spec Spec) Config {
	cfg := Config{
		Type: spec.Type,
		Data: Data{
			Labels:   spec.Labels,
			Datasets: spec.Datasets,
		},
	}

	if len(spec.Options) > 0 {
		cfg.Options = make(map[string]any, len(spec.Options)+1)
		for k, v := range spec.Options {
			cfg.Options[k] = v
		}
	}
	if spec.Title != "" {
		if _, ok := cfg.Options["title"]; !ok {
			if cfg.Options == nil {
				cfg.Options = make(map[string]any, 1)
			}
			cfg.Options["title"] = map[string]any{"display": true, "text": spec.Title}
		}
	}
	return cfg
}
