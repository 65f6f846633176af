// Package docfold materializes remote wiki page trees as local Markdown
// file trees.
//
// Given a wiki page URL, docfold resolves the page id, fetches the page and
// recursively its children and attachments, converts page bodies from HTML
// to Markdown, and produces an ordered file collection with deterministic
// relative paths plus a synthesized index file.
//
// Basic usage:
//
//	client, err := docfold.New(
//	    docfold.WithWiki("example.atlassian.net", os.Getenv("WIKI_TOKEN")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sink, _ := archive.NewDir("./site")
//	tree, err := client.Export.ExportTo(ctx,
//	    "https://example.atlassian.net/wiki/spaces/DOC/pages/3032744732/Page-title", sink)
//
//	for _, entry := range tree.Entries() {
//	    fmt.Println(entry.Path())
//	}
package docfold

import (
	"errors"
	"log/slog"

	"github.com/docfold/docfold/application/service"
	"github.com/docfold/docfold/infrastructure/confluence"
	"github.com/docfold/docfold/infrastructure/markdown"
)

// ErrNoWikis indicates that no wiki host credentials were configured.
var ErrNoWikis = errors.New("docfold: no wiki hosts configured")

// Client is the main entry point for the docfold library.
//
// Access operations via the Export service:
//
//	client.Export.ReadTree(ctx, url)
//	client.Export.ExportTo(ctx, url, sink)
//	client.Export.ReadPage(ctx, url)
type Client struct {
	Export *service.Export

	registry *confluence.Registry
	logger   *slog.Logger
}

// New creates a new Client with the given options. At least one wiki host
// must be configured.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.wikis) == 0 {
		return nil, ErrNoWikis
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := confluence.NewRegistry(cfg.httpClient, logger)
	for _, w := range cfg.wikis {
		registry.Add(w.host, w.token)
	}

	converter := cfg.converter
	if converter == nil {
		converter = markdown.NewConverter()
	}

	export := service.NewExport(registry, converter, logger).
		WithAttachmentParallelism(cfg.attachmentParallelism)

	return &Client{
		Export:   export,
		registry: registry,
		logger:   logger,
	}, nil
}

// Hosts returns the configured wiki hosts.
func (c *Client) Hosts() []string {
	return c.registry.Hosts()
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}
