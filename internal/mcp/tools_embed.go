package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/codespace/internal/embed"
	mcputils "github.com/mvp-joe/codespace/internal/mcp-utils"
)

// ReferenceRequest is the argument set of codespace_resolve and codespace_embed.
type ReferenceRequest struct {
	Reference  string `json:"reference"`
	SourcePath string `json:"source_path"`
}

// EmbedResponse is the result of codespace_embed.
type EmbedResponse struct {
	Found bool        `json:"found"`
	View  *embed.View `json:"view,omitempty"`
}

const (
	referenceDescription = "Embed reference as written in a note: a wiki link ('[[src/app.py#L10-L20|alias]]'), a path with an optional '#Lstart-Lend' fragment, or an internal URL such as 'obsidian://open?vault=notes&file=src/app.py'"
	sourceDescription    = "Vault-relative path of the note containing the reference; relative links are resolved from its folder"
)

// AddCodespaceResolveTool registers the codespace_resolve tool with an MCP server.
func AddCodespaceResolveTool(s *server.MCPServer, ws Workspace) {
	tool := mcp.NewTool(
		"codespace_resolve",
		mcp.WithDescription("Resolve an embed reference to a managed file of the vault. Reports the parsed path and line range, whether a file was found and which lookup found it (absolute, link, direct, root-name)."),
		mcp.WithString("reference",
			mcp.Required(),
			mcp.Description(referenceDescription)),
		mcp.WithString("source_path",
			mcp.Description(sourceDescription)),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, createCodespaceResolveHandler(ws))
}

func createCodespaceResolveHandler(ws Workspace) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, res := bindReference(request)
		if res != nil {
			return res, nil
		}
		return marshalToolResponse(ws.Resolve(req.Reference, req.SourcePath))
	}
}

// AddCodespaceEmbedTool registers the codespace_embed tool with an MCP server.
func AddCodespaceEmbedTool(s *server.MCPServer, ws Workspace) {
	tool := mcp.NewTool(
		"codespace_embed",
		mcp.WithDescription("Render an embed reference the way a note shows it: the referenced line window of the file, capped by the configured line limit unless an explicit end line is given, with its caption."),
		mcp.WithString("reference",
			mcp.Required(),
			mcp.Description(referenceDescription)),
		mcp.WithString("source_path",
			mcp.Description(sourceDescription)),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, createCodespaceEmbedHandler(ws))
}

func createCodespaceEmbedHandler(ws Workspace) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, res := bindReference(request)
		if res != nil {
			return res, nil
		}

		view, ok, err := ws.Embed(ctx, req.Reference, req.SourcePath)
		if err != nil {
			return nil, err
		}
		if !ok {
			return marshalToolResponse(EmbedResponse{Found: false})
		}
		return marshalToolResponse(EmbedResponse{Found: true, View: &view})
	}
}

func bindReference(request mcp.CallToolRequest) (ReferenceRequest, *mcp.CallToolResult) {
	if res := checkArguments(request); res != nil {
		return ReferenceRequest{}, res
	}

	req, err := mcputils.Bind[ReferenceRequest](request)
	if err != nil {
		return ReferenceRequest{}, mcp.NewToolResultError(err.Error())
	}
	if req.Reference == "" {
		return ReferenceRequest{}, mcp.NewToolResultError("reference parameter is required")
	}
	return req, nil
}
