// ABOUTME: Table schema as returned by introspection
// ABOUTME: Rendered inline for prompts and as a grid for the CLI
package models

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Column is one column of a table and its declared type
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema is the ordered column list of a table
type Schema []Column

// String renders the schema inline, e.g. "name (TEXT), salary (REAL)"
func (s Schema) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		if c.Type == "" {
			parts[i] = c.Name
			continue
		}
		parts[i] = fmt.Sprintf("%s (%s)", c.Name, c.Type)
	}
	return strings.Join(parts, ", ")
}

// Render writes the schema as a two-column grid
func (s Schema) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Column", "Type"})
	for _, c := range s {
		table.Append([]string{c.Name, c.Type})
	}
	table.Render()
}
