// Package confluence implements the PageReader contract against the
// Confluence Cloud REST API.
package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/docfold/docfold/domain/page"
	"github.com/docfold/docfold/domain/service"
)

const listLimit = 250

// Client talks to one Confluence host. It is immutable after construction
// and safe for concurrent use.
type Client struct {
	host       string
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBaseURL overrides the https://{host} API base. Used in tests to point
// the client at a local server.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// NewClient creates a Client for the given host, authenticating with the
// given API token.
func NewClient(host, token string, opts ...ClientOption) *Client {
	c := &Client{
		host:       host,
		token:      token,
		baseURL:    "https://" + host,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Host returns the wiki host this client targets.
func (c *Client) Host() string { return c.host }

// contentPayload mirrors the fields of the content resource we consume.
type contentPayload struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Body struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
}

type listPayload struct {
	Results []contentPayload `json:"results"`
}

// Page fetches a page's metadata and storage-format HTML body.
func (c *Client) Page(ctx context.Context, id string) (page.Page, error) {
	url := fmt.Sprintf("%s/wiki/rest/api/content/%s?expand=body.storage,version", c.baseURL, id)
	body, err := c.get(ctx, url)
	if err != nil {
		return page.Page{}, err
	}

	var payload contentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return page.Page{}, &service.RemoteError{Status: http.StatusOK, URL: url}
	}
	return page.NewPage(payload.ID, payload.Title, payload.Version.Number, payload.Body.Storage.Value), nil
}

// Children lists a page's direct child pages in host order.
func (c *Client) Children(ctx context.Context, id string) ([]page.Page, error) {
	url := fmt.Sprintf("%s/wiki/rest/api/content/%s/child/page?limit=%d", c.baseURL, id, listLimit)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload listPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &service.RemoteError{Status: http.StatusOK, URL: url}
	}

	children := make([]page.Page, len(payload.Results))
	for i, r := range payload.Results {
		children[i] = page.NewPage(r.ID, r.Title, r.Version.Number, "")
	}
	return children, nil
}

// Attachments lists a page's attachments in host order.
func (c *Client) Attachments(ctx context.Context, id string) ([]page.Attachment, error) {
	url := fmt.Sprintf("%s/wiki/rest/api/content/%s/child/attachment?limit=%d", c.baseURL, id, listLimit)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var payload listPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &service.RemoteError{Status: http.StatusOK, URL: url}
	}

	attachments := make([]page.Attachment, len(payload.Results))
	for i, r := range payload.Results {
		attachments[i] = page.NewAttachment(r.ID, r.Title, id)
	}
	return attachments, nil
}

// Download fetches an attachment's raw bytes.
func (c *Client) Download(ctx context.Context, pageID, attachmentID string) ([]byte, error) {
	url := fmt.Sprintf("%s/wiki/rest/api/content/%s/child/attachment/%s/download", c.baseURL, pageID, attachmentID)
	return c.get(ctx, url)
}

// get performs a single authenticated request. No retries: the traversal's
// error policy wants the first failure surfaced, not papered over.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := statusError(resp.StatusCode, url); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", url, err)
	}
	return body, nil
}

func statusError(status int, url string) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", service.ErrNotFound, url)
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", service.ErrUnauthorized, url)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", service.ErrForbidden, url)
	default:
		return &service.RemoteError{Status: status, URL: url}
	}
}

// Ensure Client implements PageReader.
var _ service.PageReader = (*Client)(nil)
