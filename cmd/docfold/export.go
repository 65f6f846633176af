package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docfold/docfold"
	"github.com/docfold/docfold/infrastructure/archive"
	"github.com/docfold/docfold/internal/log"
)

func exportCmd() *cobra.Command {
	var (
		envFile   string
		hostsFile string
		outDir    string
		zipPath   string
	)

	cmd := &cobra.Command{
		Use:   "export <url>",
		Short: "Export a wiki page tree as Markdown files",
		Long: `Export a wiki page, its descendants, and attachments as a Markdown
file tree, written either to a directory or to a zip archive.

Credentials for the wiki host are taken from the environment
(WIKI_HOST/WIKI_TOKEN), a .env file, or a hosts file:

  hosts:
    - host: example.atlassian.net
      token: ${WIKI_TOKEN}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], envFile, hostsFile, outDir, zipPath)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&hostsFile, "hosts-file", "", "Path to a YAML hosts file with wiki credentials")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write the exported files into (default: ./docs-export)")
	cmd.Flags().StringVar(&zipPath, "zip", "", "Write a zip archive to this path instead of a directory")

	return cmd
}

func runExport(rawURL, envFile, hostsFile, outDir, zipPath string) error {
	cfg, err := loadConfig(envFile, hostsFile)
	if err != nil {
		return err
	}

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if zipPath != "" {
		return exportZip(ctx, client, rawURL, zipPath, slogger)
	}

	if outDir == "" {
		outDir = "./docs-export"
	}

	sink, err := archive.NewDir(outDir)
	if err != nil {
		return err
	}

	tree, err := client.Export.ExportTo(ctx, rawURL, sink)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	slogger.Info("export complete",
		slog.String("output_dir", sink.Root()),
		slog.Int("files", tree.Len()),
	)
	return nil
}

func exportZip(ctx context.Context, client *docfold.Client, rawURL, zipPath string, slogger *slog.Logger) error {
	f, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sink := archive.NewZip(f)
	tree, err := client.Export.ExportTo(ctx, rawURL, sink)
	if err != nil {
		// Remove the torn archive so a failed export leaves nothing behind.
		_ = f.Close()
		_ = os.Remove(zipPath)
		return fmt.Errorf("export: %w", err)
	}
	if err := sink.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	slogger.Info("export complete",
		slog.String("archive", zipPath),
		slog.Int("files", tree.Len()),
	)
	return nil
}
