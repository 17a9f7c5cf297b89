// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents run table analyses over stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/datastory/internal/core"
	"github.com/harper/datastory/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var mcpDefaultDB string

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs datastory as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to analyze and describe SQLite tables via stdio.

Configure in Claude Desktop's config file to enable the tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  datastory mcp --db salaries.db

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "datastory": {
  #       "command": "datastory",
  #       "args": ["mcp", "--db", "/path/to/salaries.db"]
  #     }
  #   }
  # }`,
	}

	cmd.Flags().StringVar(&mcpDefaultDB, "db", "", "Database used when a tool call omits db_path")

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer("datastory", versionInfo.Version)

	handlers := mcp.RegisterTools(server, gen, mcp.Options{
		Analyst: core.AnalystConfig{
			Logger:      logger,
			Concurrency: cfg.Concurrency,
			MaxRows:     cfg.MaxRows,
		},
		DefaultDB:    mcpDefaultDB,
		QueryTimeout: cfg.QueryTimeout,
		Logger:       logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, waiting for running analyses")
		handlers.Shutdown()
		logger.Info("shutdown complete")

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
