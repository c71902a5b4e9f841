package target

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codalotl/agent-evals/internal/types"
)

// ToolCallFromMCP converts one MCP tool invocation into the ToolCall shape
// a TargetOutput carries. It documents the data this module expects a
// target wrapping an MCP tool-using agent to populate; it is not a live
// MCP client, only a shape adapter for whatever client the caller wires
// up independently.
func ToolCallFromMCP(name string, args map[string]any, res *mcp.CallToolResult) types.ToolCall {
	call := types.ToolCall{Name: name, Args: args}
	if res == nil {
		return call
	}
	if res.IsError {
		call.Result = map[string]any{"error": mcpContentText(res.Content)}
		return call
	}
	call.Result = mcpContentText(res.Content)
	return call
}

// mcpContentText joins every text block in an MCP content list, ignoring
// non-text content (images, embedded resources), since grader primitives
// only ever read string/number-shaped tool results.
func mcpContentText(content []mcp.Content) string {
	var parts []string
	for _, c := range content {
		if tc, ok := c.(mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
