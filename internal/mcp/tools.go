// ABOUTME: MCP tool definitions and registration for the analysis server
// ABOUTME: Exposes analyze_table and describe_table over stdio
package mcp

import (
	"log/slog"
	"sync"
	"time"

	"github.com/harper/datastory/internal/core"
	"github.com/harper/datastory/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// DefaultQuestionCount is used when a caller omits question_count
const DefaultQuestionCount = 7

// Options configures the tool handlers
type Options struct {
	Analyst      core.AnalystConfig
	DefaultDB    string        // used when a call omits db_path
	QueryTimeout time.Duration // per-query limit; 0 keeps the sqlite default
	Logger       *slog.Logger
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, gen core.Generator, opts Options) *Handlers {
	handlers := newHandlers(gen, opts, openSQLite(opts.QueryTimeout))

	// 1. analyze_table - full pipeline over one table
	server.AddTool(mcp.Tool{
		Name:        "analyze_table",
		Description: "Analyze a SQLite table against an objective. Generates questions, answers them with SQL, and returns a narrative report.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"objective": map[string]interface{}{
					"type":        "string",
					"description": "What the analysis should find out",
				},
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Table to analyze",
				},
				"db_path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the SQLite database file",
				},
				"question_count": map[string]interface{}{
					"type":        "number",
					"description": "How many questions to generate (default: 7)",
					"default":     DefaultQuestionCount,
				},
			},
			Required: []string{"objective", "table"},
		},
	}, handlers.AnalyzeTable)

	// 2. describe_table - column names and types
	server.AddTool(mcp.Tool{
		Name:        "describe_table",
		Description: "Describe the columns of a SQLite table.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Table to describe",
				},
				"db_path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the SQLite database file",
				},
			},
			Required: []string{"table"},
		},
	}, handlers.DescribeTable)

	return handlers
}

func openSQLite(timeout time.Duration) func(string) (Database, error) {
	return func(path string) (Database, error) {
		db, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		if timeout > 0 {
			db.SetQueryTimeout(timeout)
		}
		return db, nil
	}
}

func newHandlers(gen core.Generator, opts Options, open func(string) (Database, error)) *Handlers {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Handlers{
		gen:        gen,
		opts:       opts,
		open:       open,
		log:        opts.Logger,
		shutdownWg: &sync.WaitGroup{},
	}
}
