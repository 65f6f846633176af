package confluence

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/docfold/docfold/domain/service"
)

// Registry resolves PageReaders from per-host credentials. Hosts are added
// during construction; the registry is read-only afterwards and safe for
// concurrent use.
type Registry struct {
	clients    map[string]*Client
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRegistry creates an empty Registry. A nil httpClient falls back to
// http.DefaultClient.
func NewRegistry(httpClient *http.Client, logger *slog.Logger) *Registry {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		clients:    map[string]*Client{},
		httpClient: httpClient,
		logger:     logger,
	}
}

// Add registers credentials for a host, replacing any previous entry.
func (r *Registry) Add(host, token string) {
	r.clients[host] = NewClient(host, token,
		WithHTTPClient(r.httpClient),
		WithLogger(r.logger),
	)
}

// Hosts returns the configured hosts in sorted order.
func (r *Registry) Hosts() []string {
	hosts := make([]string, 0, len(r.clients))
	for h := range r.clients {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

// ReaderFor returns the reader for host, or an error when no credentials
// are configured for it.
func (r *Registry) ReaderFor(host string) (service.PageReader, error) {
	client, ok := r.clients[host]
	if !ok {
		return nil, fmt.Errorf("no credentials configured for wiki host %q", host)
	}
	return client, nil
}

// Ensure Registry implements ReaderProvider.
var _ service.ReaderProvider = (*Registry)(nil)
