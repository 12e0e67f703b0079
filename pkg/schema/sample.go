package schema

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CellKind discriminates the contents of a sample cell.
type CellKind uint8

const (
	CellEmpty    CellKind = iota // No value entered
	CellNumeric                  // A number
	CellUnparsed                 // Raw text as typed; read as a number on demand
)

// Cell is one sample slot of a parameter row.
type Cell struct {
	kind  CellKind
	value float64
	text  string
}

// EmptyCell returns an unset cell.
func EmptyCell() Cell { return Cell{} }

// NumericCell returns a cell holding v.
func NumericCell(v float64) Cell { return Cell{kind: CellNumeric, value: v} }

// UnparsedCell returns a cell holding raw text. Empty text yields an empty cell.
func UnparsedCell(text string) Cell {
	if text == "" {
		return Cell{}
	}
	return Cell{kind: CellUnparsed, text: text}
}

// Kind reports which variant the cell holds.
func (c Cell) Kind() CellKind { return c.kind }

// Text returns the raw text of an unparsed cell.
func (c Cell) Text() string { return c.text }

// Float returns the numeric reading of the cell. Numeric cells are returned
// as-is; unparsed text goes through ParseDecimal; anything else is not a value.
func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case CellNumeric:
		return c.value, true
	case CellUnparsed:
		return ParseDecimal(c.text)
	default:
		return 0, false
	}
}

// String renders the cell the way an editor would display it.
func (c Cell) String() string {
	switch c.kind {
	case CellNumeric:
		return strconv.FormatFloat(c.value, 'f', -1, 64)
	case CellUnparsed:
		return c.text
	default:
		return ""
	}
}

// MarshalJSON writes numbers as JSON numbers, text as strings and empty as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CellNumeric:
		return json.Marshal(c.value)
	case CellUnparsed:
		return json.Marshal(c.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements custom JSON unmarshaling for Cell.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*c = EmptyCell()
	case float64:
		*c = NumericCell(v)
	case string:
		*c = UnparsedCell(v)
	default:
		return fmt.Errorf("sample cell must be a number, string or null, got %T", raw)
	}
	return nil
}

// MarshalYAML implements custom YAML marshaling for Cell.
func (c Cell) MarshalYAML() (interface{}, error) {
	switch c.kind {
	case CellNumeric:
		return c.value, nil
	case CellUnparsed:
		return c.text, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML implements custom YAML unmarshaling for Cell.
func (c *Cell) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("sample cell must be a scalar (line %d)", node.Line)
	}

	switch node.ShortTag() {
	case "!!null":
		*c = EmptyCell()
	case "!!int", "!!float":
		var v float64
		if err := node.Decode(&v); err != nil {
			return err
		}
		*c = NumericCell(v)
	default:
		*c = UnparsedCell(node.Value)
	}
	return nil
}

// SampleColumn returns the column name of the i-th sample (1-based).
func SampleColumn(i int) string {
	return fmt.Sprintf("Sample %d", i)
}

// SampleColumns returns the names of the first n sample columns in order.
func SampleColumns(n int) []string {
	cols := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		cols = append(cols, SampleColumn(i))
	}
	return cols
}

// SampleRow holds the measurements of one parameter. The parameter identity
// is copied from the standard; Samples maps column names to cells.
type SampleRow struct {
	ID            string          `json:"id" yaml:"id"`
	ParameterID   string          `json:"parameterId" yaml:"parameter_id"`
	ParameterName string          `json:"parameterName" yaml:"parameter_name"`
	Unit          string          `json:"unit" yaml:"unit"`
	Limit         float64         `json:"limit" yaml:"limit"`
	Type          LimitType       `json:"type" yaml:"type"`
	Samples       map[string]Cell `json:"samples" yaml:"samples"`
}

// NewSampleRow creates an empty row for a parameter.
func NewSampleRow(p Parameter) SampleRow {
	return SampleRow{
		ID:            p.ID,
		ParameterID:   p.ID,
		ParameterName: p.Name,
		Unit:          p.Unit,
		Limit:         p.Limit,
		Type:          p.Type,
		Samples:       make(map[string]Cell),
	}
}

// Cell returns the cell stored under column, or an empty cell.
func (r SampleRow) Cell(column string) Cell {
	return r.Samples[column]
}

// Set stores a cell under column, allocating the map when needed.
func (r *SampleRow) Set(column string, c Cell) {
	if r.Samples == nil {
		r.Samples = make(map[string]Cell)
	}
	r.Samples[column] = c
}

// Clone returns a copy of the row with its own sample map.
func (r SampleRow) Clone() SampleRow {
	clone := r
	clone.Samples = make(map[string]Cell, len(r.Samples))
	for k, v := range r.Samples {
		clone.Samples[k] = v
	}
	return clone
}
