// Package mcp exposes a codespace vault to MCP clients over stdio: symbol
// outlines, reference resolution and code embeds.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/codespace/internal/embed"
	"github.com/mvp-joe/codespace/internal/outline"
	"github.com/mvp-joe/codespace/internal/symbols"
	"github.com/mvp-joe/codespace/internal/workspace"
)

// Workspace is what the tools need from an opened vault.
type Workspace interface {
	Resolve(raw, sourcePath string) workspace.Resolution
	Embed(ctx context.Context, raw, sourcePath string) (embed.View, bool, error)
	Outline(ctx context.Context, p string) (outline.Outline, error)
	Symbol(ctx context.Context, p, name string) (symbols.Symbol, outline.Position, error)
	Files() []workspace.FileEntry
}

// WatchFunc follows vault changes until ctx is done.
type WatchFunc func(ctx context.Context) error

// MCPServerConfig configures the MCP server.
type MCPServerConfig struct {
	Name    string
	Version string
	Watch   WatchFunc // optional; runs for the lifetime of Serve
	Logger  *slog.Logger
}

// MCPServer manages the MCP server lifecycle.
type MCPServer struct {
	config *MCPServerConfig
	ws     Workspace
	mcp    *server.MCPServer
	logger *slog.Logger
}

// NewMCPServer creates an MCP server with every codespace tool registered.
func NewMCPServer(ws Workspace, config *MCPServerConfig) (*MCPServer, error) {
	if ws == nil {
		return nil, fmt.Errorf("workspace is required")
	}
	if config == nil {
		config = &MCPServerConfig{}
	}
	if config.Name == "" {
		config.Name = "codespace-mcp"
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	AddCodespaceOutlineTool(mcpServer, ws)
	AddCodespaceSymbolTool(mcpServer, ws)
	AddCodespaceResolveTool(mcpServer, ws)
	AddCodespaceEmbedTool(mcpServer, ws)
	AddCodespaceFilesTool(mcpServer, ws)

	return &MCPServer{
		config: config,
		ws:     ws,
		mcp:    mcpServer,
		logger: logger,
	}, nil
}

// Serve starts the MCP server and blocks until shutdown.
func (s *MCPServer) Serve(ctx context.Context) error {
	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.config.Watch != nil {
		go func() {
			if err := s.config.Watch(ctx); err != nil {
				s.logger.Warn("vault watcher stopped", "error", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Start MCP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server on stdio", "name", s.config.Name, "version", s.config.Version)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigCh:
		s.logger.Info("received shutdown signal, stopping gracefully")
		cancel()
		return nil
	case err := <-errCh:
		cancel()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
