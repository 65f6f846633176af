package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/docfold/docfold/internal/log"
	"github.com/docfold/docfold/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var (
		envFile   string
		hostsFile string
	)

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This allows AI assistants to export wiki page trees and read individual
pages as Markdown. Configuration is loaded from environment variables
and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile, hostsFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVar(&hostsFile, "hosts-file", "", "Path to a YAML hosts file with wiki credentials")

	return cmd
}

func runStdio(envFile, hostsFile string) error {
	cfg, err := loadConfig(envFile, hostsFile)
	if err != nil {
		return err
	}

	// Log to stderr, stdout belongs to the MCP transport.
	logger := log.NewLoggerWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())
	slogger := logger.Slog()

	slogger.Info("starting MCP server", slog.String("version", version))

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	mcpServer := mcp.NewServer(client.Export, version, slogger)
	return mcpServer.ServeStdio()
}
