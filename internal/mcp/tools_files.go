package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcputils "github.com/mvp-joe/codespace/internal/mcp-utils"
	"github.com/mvp-joe/codespace/internal/workspace"
)

// FilesRequest is the argument set of codespace_files.
type FilesRequest struct {
	Folder string `json:"folder"`
	Limit  int    `json:"limit"`
}

// FilesResponse is the result of codespace_files.
type FilesResponse struct {
	Files []workspace.FileEntry `json:"files"`
	Total int                   `json:"total"`
}

// AddCodespaceFilesTool registers the codespace_files tool with an MCP server.
func AddCodespaceFilesTool(s *server.MCPServer, ws Workspace) {
	tool := mcp.NewTool(
		"codespace_files",
		mcp.WithDescription("List the code files of the vault whose extension is managed, in path order."),
		mcp.WithString("folder",
			mcp.Description("Only list files under this vault-relative folder")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of files to return (0 for all)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, createCodespaceFilesHandler(ws))
}

func createCodespaceFilesHandler(ws Workspace) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := checkArguments(request); res != nil {
			return res, nil
		}

		req, err := mcputils.Bind[FilesRequest](request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if req.Limit < 0 {
			return mcp.NewToolResultError("limit must be non-negative"), nil
		}

		folder := strings.Trim(req.Folder, "/")
		files := []workspace.FileEntry{}
		for _, entry := range ws.Files() {
			if folder != "" && entry.Folder != folder && !strings.HasPrefix(entry.Folder, folder+"/") {
				continue
			}
			files = append(files, entry)
		}

		total := len(files)
		if req.Limit > 0 && len(files) > req.Limit {
			files = files[:req.Limit]
		}
		return marshalToolResponse(FilesResponse{Files: files, Total: total})
	}
}
