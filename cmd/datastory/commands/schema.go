// ABOUTME: CLI command to show the columns of a table
// ABOUTME: Renders the schema as a grid or JSON
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/datastory/internal/storage/sqlite"
)

var (
	schemaDB    string
	schemaTable string
)

// NewSchemaCmd creates the schema command
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show a table's columns",
		Long: `Show the column names and types of a SQLite table.

This is the schema the analyze command hands to the language model.

Examples:
  datastory schema --db salaries.db --table salaries
  datastory schema --db salaries.db --table salaries --format json`,
		Args: cobra.NoArgs,
		RunE: runSchema,
	}

	cmd.Flags().StringVar(&schemaDB, "db", "", "Path to the SQLite database")
	cmd.Flags().StringVar(&schemaTable, "table", "", "Table to describe")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	db, err := sqlite.Open(schemaDB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	schema, err := db.Schema(cmd.Context(), schemaTable)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}

	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), schema)
	}

	schema.Render(cmd.OutOrStdout())
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d column(s) in %s\n", len(schema), schemaTable)
	}
	return nil
}
