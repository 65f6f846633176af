// Package main is the entry point for the docfold CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docfold/docfold"
	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/log"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docfold",
		Short: "Materialize wiki page trees as Markdown file trees",
		Long:  `Docfold fetches a wiki page, its descendants, and attachments, converts the pages to Markdown, and writes the result as a local directory or zip archive.`,
	}

	cmd.AddCommand(exportCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables,
// then applies the hosts file flag when one was given.
func loadConfig(envFile, hostsFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}

	if hostsFile != "" {
		wikis, err := config.LoadHosts(hostsFile)
		if err != nil {
			return config.AppConfig{}, fmt.Errorf("load hosts file: %w", err)
		}
		var opts []config.AppConfigOption
		for _, w := range wikis {
			opts = append(opts, config.WithWiki(w))
		}
		cfg = cfg.Apply(opts...)
	}

	return cfg, nil
}

// newClient builds a docfold client from the loaded configuration.
func newClient(cfg config.AppConfig, logger *log.Logger) (*docfold.Client, error) {
	opts := []docfold.Option{
		docfold.WithLogger(logger.Slog()),
		docfold.WithAttachmentParallelism(cfg.AttachmentParallelism()),
	}
	for _, w := range cfg.Wikis() {
		opts = append(opts, docfold.WithWiki(w.Host(), w.Token()))
	}

	client, err := docfold.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docfold client: %w", err)
	}
	return client, nil
}
