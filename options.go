package docfold

import (
	"log/slog"
	"net/http"

	appservice "github.com/docfold/docfold/application/service"
	"github.com/docfold/docfold/domain/service"
)

type wikiCredential struct {
	host  string
	token string
}

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	wikis                 []wikiCredential
	httpClient            *http.Client
	converter             service.Converter
	logger                *slog.Logger
	attachmentParallelism int
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		attachmentParallelism: appservice.DefaultAttachmentParallelism,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithWiki registers credentials for a wiki host. May be given multiple
// times for multi-host setups.
func WithWiki(host, token string) Option {
	return func(c *clientConfig) {
		c.wikis = append(c.wikis, wikiCredential{host: host, token: token})
	}
}

// WithHTTPClient sets the HTTP client used for all wiki requests. Useful
// for custom timeouts or transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithConverter replaces the default HTML-to-Markdown converter.
func WithConverter(conv service.Converter) Option {
	return func(c *clientConfig) {
		c.converter = conv
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithAttachmentParallelism sets how many attachment downloads may run
// concurrently per page. Values <= 0 are ignored.
func WithAttachmentParallelism(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.attachmentParallelism = n
		}
	}
}
