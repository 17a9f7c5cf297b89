// ABOUTME: MCP tool handler implementations for the analysis server
// ABOUTME: Each call opens its database read-only and closes it when done
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/harper/datastory/internal/core"
	"github.com/harper/datastory/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Database is what a handler needs from an opened source database
type Database interface {
	core.Executor
	Schema(ctx context.Context, table string) (models.Schema, error)
	Close() error
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	gen        core.Generator
	opts       Options
	open       func(path string) (Database, error)
	log        *slog.Logger
	shutdownWg *sync.WaitGroup // tracks in-flight calls

	mu     sync.Mutex
	closed bool // set by Shutdown; guards shutdownWg.Add
}

// AnalyzeTable handles the analyze_table tool
func (h *Handlers) AnalyzeTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !h.begin() {
		return mcp.NewToolResultError("server is shutting down"), nil
	}
	defer h.shutdownWg.Done()

	objective, err := request.RequireString("objective")
	if err != nil || strings.TrimSpace(objective) == "" {
		return mcp.NewToolResultError("objective argument is required and must be a string"), nil
	}
	table, err := request.RequireString("table")
	if err != nil || strings.TrimSpace(table) == "" {
		return mcp.NewToolResultError("table argument is required and must be a string"), nil
	}
	count := request.GetInt("question_count", DefaultQuestionCount)
	if count <= 0 {
		return mcp.NewToolResultError("question_count must be positive"), nil
	}

	db, err := h.openDB(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = db.Close() }()

	schema, err := db.Schema(ctx, table)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read schema: %v", err)), nil
	}

	analyst := core.NewAnalyst(h.gen, db, h.opts.Analyst)
	analysis, err := analyst.Run(ctx, core.Request{
		Objective:     objective,
		TableName:     table,
		Schema:        schema,
		QuestionCount: count,
	})
	if err != nil {
		h.log.Error("analysis failed", "table", table, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"run_id":    analysis.RunID,
		"report":    analysis.EnhancedReport,
		"completed": analysis.Completed,
		"total":     analysis.Total,
		"questions": analysis.Ordered.Facts.Questions(),
	}
	if analysis.Summary != "" {
		response["summary"] = analysis.Summary
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// DescribeTable handles the describe_table tool
func (h *Handlers) DescribeTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !h.begin() {
		return mcp.NewToolResultError("server is shutting down"), nil
	}
	defer h.shutdownWg.Done()

	table, err := request.RequireString("table")
	if err != nil || strings.TrimSpace(table) == "" {
		return mcp.NewToolResultError("table argument is required and must be a string"), nil
	}

	db, err := h.openDB(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer func() { _ = db.Close() }()

	schema, err := db.Schema(ctx, table)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read schema: %v", err)), nil
	}

	return mcp.NewToolResultText(schema.String()), nil
}

// Shutdown rejects new calls and waits for in-flight ones to finish
func (h *Handlers) Shutdown() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	h.log.Info("waiting for pending analyses to complete")
	h.shutdownWg.Wait()
	h.log.Info("all analyses completed")
}

// begin registers a call unless Shutdown has started
func (h *Handlers) begin() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.shutdownWg.Add(1)
	return true
}

func (h *Handlers) openDB(request mcp.CallToolRequest) (Database, error) {
	path := request.GetString("db_path", h.opts.DefaultDB)
	if path == "" {
		return nil, fmt.Errorf("db_path argument is required when no default database is configured")
	}
	db, err := h.open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
