package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcputils "github.com/mvp-joe/codespace/internal/mcp-utils"
	"github.com/mvp-joe/codespace/internal/outline"
	"github.com/mvp-joe/codespace/internal/symbols"
	"github.com/mvp-joe/codespace/internal/workspace"
)

// OutlineRequest is the argument set of codespace_outline.
type OutlineRequest struct {
	Path string `json:"path"`
}

// OutlineResponse is the result of codespace_outline.
type OutlineResponse struct {
	Path      string           `json:"path"`
	State     string           `json:"state"`
	Symbols   []symbols.Symbol `json:"symbols"`
	EmptyText string           `json:"empty_text,omitempty"`
}

// SymbolRequest is the argument set of codespace_symbol.
type SymbolRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// SymbolResponse is the result of codespace_symbol.
type SymbolResponse struct {
	Path     string           `json:"path"`
	Symbol   symbols.Symbol   `json:"symbol"`
	Position outline.Position `json:"position"`
}

// AddCodespaceOutlineTool registers the codespace_outline tool with an MCP server.
func AddCodespaceOutlineTool(s *server.MCPServer, ws Workspace) {
	tool := mcp.NewTool(
		"codespace_outline",
		mcp.WithDescription("List the functions, classes and methods declared in a code file of the vault, in source order. Files outside the managed extension set return an empty outline."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Vault-relative path of the file, e.g. 'src/app.py'")),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, createCodespaceOutlineHandler(ws))
}

func createCodespaceOutlineHandler(ws Workspace) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := checkArguments(request); res != nil {
			return res, nil
		}

		req, err := mcputils.Bind[OutlineRequest](request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if req.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}

		o, err := ws.Outline(ctx, req.Path)
		if err != nil {
			if errors.Is(err, workspace.ErrFileNotFound) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		syms := o.Symbols
		if syms == nil {
			syms = []symbols.Symbol{}
		}
		return marshalToolResponse(OutlineResponse{
			Path:      o.File.Path,
			State:     o.State.String(),
			Symbols:   syms,
			EmptyText: o.EmptyText,
		})
	}
}

// AddCodespaceSymbolTool registers the codespace_symbol tool with an MCP server.
func AddCodespaceSymbolTool(s *server.MCPServer, ws Workspace) {
	tool := mcp.NewTool(
		"codespace_symbol",
		mcp.WithDescription("Locate a named symbol in a code file and return its 1-based line and the byte offset where that line starts."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Vault-relative path of the file")),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Symbol name as listed by codespace_outline")),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, createCodespaceSymbolHandler(ws))
}

func createCodespaceSymbolHandler(ws Workspace) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := checkArguments(request); res != nil {
			return res, nil
		}

		req, err := mcputils.Bind[SymbolRequest](request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if req.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}
		if req.Name == "" {
			return mcp.NewToolResultError("name parameter is required"), nil
		}

		sym, pos, err := ws.Symbol(ctx, req.Path, req.Name)
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, fmt.Errorf("symbol lookup failed: %w", err)
		}

		return marshalToolResponse(SymbolResponse{Path: req.Path, Symbol: sym, Position: pos})
	}
}

// isUserError reports errors caused by the request rather than the server.
func isUserError(err error) bool {
	return errors.Is(err, workspace.ErrFileNotFound) || errors.Is(err, workspace.ErrSymbolNotFound)
}
