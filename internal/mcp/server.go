// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docfold/docfold/domain/page"
	"github.com/docfold/docfold/domain/service"
	"github.com/docfold/docfold/infrastructure/archive"
)

// Exporter provides the export operations exposed as MCP tools.
type Exporter interface {
	ExportTo(ctx context.Context, rawURL string, sink service.Sink) (page.Tree, error)
	ReadPage(ctx context.Context, rawURL string) (page.Entry, error)
}

// Server wraps the MCP server with docfold tools.
type Server struct {
	mcpServer *server.MCPServer
	exporter  Exporter
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(exporter Exporter, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		exporter: exporter,
		logger:   logger,
	}

	mcpServer := server.NewMCPServer(
		"docfold",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)
	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	exportTool := mcp.NewTool("export_wiki",
		mcp.WithDescription("Export a wiki page, its descendants, and attachments as a Markdown file tree"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("URL of the wiki page to export"),
		),
		mcp.WithString("output_dir",
			mcp.Required(),
			mcp.Description("Directory to materialize the exported files into"),
		),
	)
	mcpServer.AddTool(exportTool, s.handleExportWiki)

	readTool := mcp.NewTool("read_page",
		mcp.WithDescription("Fetch a single wiki page and return it as Markdown"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("URL of the wiki page to read"),
		),
	)
	mcpServer.AddTool(readTool, s.handleReadPage)
}

// handleExportWiki handles the export_wiki tool invocation.
func (s *Server) handleExportWiki(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url is required"), nil
	}
	outputDir, err := request.RequireString("output_dir")
	if err != nil {
		return mcp.NewToolResultError("output_dir is required"), nil
	}

	sink, err := archive.NewDir(outputDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("open output directory: %v", err)), nil
	}

	tree, err := s.exporter.ExportTo(ctx, rawURL, sink)
	if err != nil {
		s.logger.Error("export failed", slog.String("url", rawURL), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}

	type exportResult struct {
		OutputDir string   `json:"output_dir"`
		Files     []string `json:"files"`
	}

	result := exportResult{OutputDir: sink.Root()}
	for _, e := range tree.Entries() {
		result.Files = append(result.Files, e.Path())
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// handleReadPage handles the read_page tool invocation.
func (s *Server) handleReadPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url is required"), nil
	}

	entry, err := s.exporter.ReadPage(ctx, rawURL)
	if err != nil {
		s.logger.Error("read page failed", slog.String("url", rawURL), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("read page failed: %v", err)), nil
	}

	return mcp.NewToolResultText(string(entry.Content())), nil
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
