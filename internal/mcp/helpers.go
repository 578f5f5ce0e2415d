package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler is the signature mcp-go expects for tool handlers.
type toolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// checkArguments rejects requests whose arguments are not a JSON object.
func checkArguments(request mcp.CallToolRequest) *mcp.CallToolResult {
	if request.Params.Arguments == nil {
		return nil
	}
	if _, ok := request.GetRawArguments().(map[string]any); !ok {
		return mcp.NewToolResultError("invalid arguments format")
	}
	return nil
}

// marshalToolResponse marshals a response to JSON and returns it as an MCP tool result.
func marshalToolResponse(response any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
