package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/codespace/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for the vault",
	Long: `Start the Model Context Protocol (MCP) server that lets LLM-powered coding
assistants read code embedded in your notes.

The MCP server:
- Serves codespace_outline, codespace_symbol, codespace_resolve,
  codespace_embed and codespace_files
- Follows file changes so outlines and embeds stay current
- Communicates via stdio (standard MCP transport)

Example:
  codespace mcp --vault ~/notes`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	// Startup information goes to stderr; stdout carries the protocol
	fmt.Fprintf(os.Stderr, "Codespace MCP Server\n")
	fmt.Fprintf(os.Stderr, "Vault: %s\n", ws.Vault().Root())
	fmt.Fprintf(os.Stderr, "Managed files: %d\n\n", len(ws.Files()))

	server, err := mcp.NewMCPServer(ws, &mcp.MCPServerConfig{
		Name:    "codespace-mcp",
		Version: Version,
		Watch: func(ctx context.Context) error {
			return ws.Watch(ctx, nil)
		},
		Logger: slog.Default().With("component", "mcp"),
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return server.Serve(context.Background())
}
