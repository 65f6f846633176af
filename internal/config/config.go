// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Default configuration values.
const (
	DefaultHost                  = "0.0.0.0"
	DefaultPort                  = 8080
	DefaultLogLevel              = "INFO"
	DefaultAttachmentParallelism = 4
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// ParseLogFormat parses a log format string, defaulting to pretty.
func ParseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}

// WikiHost pairs a wiki host with its API token.
type WikiHost struct {
	host  string
	token string
}

// NewWikiHost creates a WikiHost credential entry.
func NewWikiHost(host, token string) WikiHost {
	return WikiHost{host: host, token: token}
}

// Host returns the wiki host.
func (w WikiHost) Host() string { return w.host }

// Token returns the API token.
func (w WikiHost) Token() string { return w.token }

// IsConfigured reports whether both host and token are present.
func (w WikiHost) IsConfigured() bool {
	return w.host != "" && w.token != ""
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host                  string
	port                  int
	logLevel              string
	logFormat             LogFormat
	wikis                 []WikiHost
	attachmentParallelism int
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:                  DefaultHost,
		port:                  DefaultPort,
		logLevel:              DefaultLogLevel,
		logFormat:             LogFormatPretty,
		attachmentParallelism: DefaultAttachmentParallelism,
	}
}

// Host returns the server bind host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the host:port bind address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// Wikis returns the configured wiki credentials.
func (c AppConfig) Wikis() []WikiHost { return c.wikis }

// AttachmentParallelism returns the per-page attachment download bound.
func (c AppConfig) AttachmentParallelism() int { return c.attachmentParallelism }

// LogAttrs returns the config as slog attributes for startup logging.
// Tokens are never included.
func (c AppConfig) LogAttrs() []slog.Attr {
	hosts := make([]string, len(c.wikis))
	for i, w := range c.wikis {
		hosts[i] = w.Host()
	}
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("log_level", c.logLevel),
		slog.String("log_format", string(c.logFormat)),
		slog.String("wiki_hosts", strings.Join(hosts, ",")),
	}
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server bind host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithLogLevel sets the log verbosity level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log output format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithWiki appends a wiki credential entry.
func WithWiki(w WikiHost) AppConfigOption {
	return func(c *AppConfig) { c.wikis = append(c.wikis, w) }
}

// WithAttachmentParallelism sets the attachment download bound.
// Values <= 0 are ignored.
func WithAttachmentParallelism(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.attachmentParallelism = n
		}
	}
}

// Apply returns a copy of the config with the options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
