// ABOUTME: Tagged query result: either a bounded table or the QueryFailed marker
// ABOUTME: Tables render as text grids for inclusion in generation prompts
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// QueryFailedMarker is the rendered form of a failed answer
const QueryFailedMarker = "<query_failed>"

// Table is a bounded tabular result. Every row has len(Columns) values.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// String renders the table as a text grid
func (t *Table) String() string {
	if t == nil {
		return ""
	}
	if len(t.Rows) == 0 {
		return fmt.Sprintf("(no rows; columns: %s)", strings.Join(t.Columns, ", "))
	}

	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(t.Columns)
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = FormatValue(v)
		}
		table.Append(cells)
	}
	table.Render()
	return sb.String()
}

// FormatValue formats a single cell for display to the generation service.
// Floats are rounded to two decimals so long fractions don't read as noise;
// everything else is rendered in full.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%.2f", val)
	case float32:
		if val == float32(int32(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%.2f", val)
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Answer is either Ok(Table) or QueryFailed. The zero value is QueryFailed.
type Answer struct {
	Table  *Table
	Reason error // why the query failed; diagnostic only
}

// Ok wraps a successful tabular result
func Ok(t *Table) Answer {
	return Answer{Table: t}
}

// Failed builds a QueryFailed answer carrying the underlying cause
func Failed(reason error) Answer {
	return Answer{Reason: reason}
}

// OK reports whether the answer carries a table
func (a Answer) OK() bool {
	return a.Table != nil
}

// String renders the table, or the failure marker
func (a Answer) String() string {
	if !a.OK() {
		return QueryFailedMarker
	}
	return a.Table.String()
}

// MarshalJSON encodes a failed answer as the marker string
func (a Answer) MarshalJSON() ([]byte, error) {
	if !a.OK() {
		return json.Marshal(QueryFailedMarker)
	}
	return json.Marshal(a.Table)
}
