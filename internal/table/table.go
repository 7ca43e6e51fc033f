// Package table renders tabular tool input as a markdown table.
package table

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mwiater/hubble-tool/internal/toolerr"
)

// SeparatorMarker is the single cell value that turns a row into a visual divider.
const SeparatorMarker = "-"

// Alignment is a per-column alignment keyword.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

func (a Alignment) marker() string {
	switch a {
	case AlignCenter:
		return ":---:"
	case AlignRight:
		return "---:"
	default:
		return "---"
	}
}

// Options are the optional styling switches of a table.
type Options struct {
	Alignment []Alignment `json:"alignment,omitempty"`
	Compact   bool        `json:"compact,omitempty"`
	ShowTitle *bool       `json:"showTitle,omitempty"`
}

// Spec is the validated input of a table render.
type Spec struct {
	Data    [][]Cell `json:"data"`
	Columns []string `json:"columns,omitempty"`
	Title   string   `json:"title,omitempty"`
	Options *Options `json:"tableOptions,omitempty"`
}

type cellKind uint8

const (
	cellNull cellKind = iota
	cellString
	cellNumber
)

// Cell is one table value: a string, a number or null.
type Cell struct {
	kind cellKind
	text string
}

// String returns a string cell.
func String(s string) Cell { return Cell{kind: cellString, text: s} }

// Number returns a numeric cell rendered with its JSON text.
func Number(n json.Number) Cell { return Cell{kind: cellNumber, text: n.String()} }

// Null returns an empty cell.
func Null() Cell { return Cell{} }

// Text is the rendered value of the cell; null renders as the empty string.
func (c Cell) Text() string { return c.text }

// IsNull reports whether the cell holds JSON null.
func (c Cell) IsNull() bool { return c.kind == cellNull }

// UnmarshalJSON accepts a string, a number or null.
func (c *Cell) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = Null()
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = String(s)
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return errors.Newf("table cell must be a string, number or null, got %s", trimmed)
	}
	*c = Number(n)
	return nil
}

// MarshalJSON writes the cell back in its original JSON type.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case cellString:
		return json.Marshal(c.text)
	case cellNumber:
		return []byte(c.text), nil
	default:
		return []byte("null"), nil
	}
}

// IsSeparator reports whether row is the one-cell "-" divider row.
func IsSeparator(row []Cell) bool {
	return len(row) == 1 && row[0].kind == cellString && row[0].text == SeparatorMarker
}

// Render returns the markdown table described by spec. It fails with
// InvalidArguments when no header can be resolved.
//
// Rows shorter than the header are padded with empty cells and longer rows are
// truncated to the header width.
func Render(spec Spec) (string, error) {
	opts := Options{}
	if spec.Options != nil {
		opts = *spec.Options
	}

	var b strings.Builder
	if spec.Title != "" && (opts.ShowTitle == nil || *opts.ShowTitle) {
		b.WriteString("# " + spec.Title + "\n\n")
	}

	headers := spec.Columns
	startRow := 0
	if headers == nil {
		if len(spec.Data) > 0 {
			headers = texts(spec.Data[0])
		}
		startRow = 1
	}
	if len(headers) == 0 {
		return "", toolerr.InvalidMessage("No headers available for table generation")
	}

	writeRow(&b, headers, opts.Compact)

	aligns := make([]string, len(headers))
	for i := range headers {
		a := AlignLeft
		if i < len(opts.Alignment) {
			a = opts.Alignment[i]
		}
		aligns[i] = a.marker()
	}
	writeRow(&b, aligns, opts.Compact)

	for i := startRow; i < len(spec.Data); i++ {
		row := spec.Data[i]
		cells := make([]string, len(headers))
		if IsSeparator(row) {
			for j := range cells {
				cells[j] = "   "
			}
			writeRow(&b, cells, opts.Compact)
			continue
		}
		for j := range cells {
			if j < len(row) {
				cells[j] = row[j].Text()
			}
		}
		writeRow(&b, cells, opts.Compact)
	}

	return b.String(), nil
}

func texts(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.Text()
	}
	return out
}

func writeRow(b *strings.Builder, cells []string, compact bool) {
	if compact {
		b.WriteString("|" + strings.Join(cells, "|") + "|\n")
		return
	}
	b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
}
