// ABOUTME: Tests for MCP command structure
// ABOUTME: Verifies MCP command configuration

package commands

import (
	"strings"
	"testing"
)

func TestNewMCPCmd(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.Use != "mcp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "mcp")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}

	if cmd.Example == "" {
		t.Error("Example should not be empty")
	}
}

func TestMCPCmd_Description(t *testing.T) {
	cmd := NewMCPCmd()

	for _, want := range []string{"MCP", "LLM", "stdio"} {
		if !strings.Contains(cmd.Long, want) {
			t.Errorf("Long description should mention %s", want)
		}
	}
}

func TestMCPCmd_DBFlag(t *testing.T) {
	cmd := NewMCPCmd()

	flag := cmd.Flags().Lookup("db")
	if flag == nil {
		t.Fatal("--db flag not found")
	}
	if flag.DefValue != "" {
		t.Errorf("--db default = %q, want empty", flag.DefValue)
	}
}
