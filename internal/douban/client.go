package douban

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kinocache/internal/metrics"
)

// maxBodySize bounds upstream response bodies; posters and payloads are far
// below this in practice.
const maxBodySize = 32 << 20

// Client provides access to the Douban catalog API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	recorder   *metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRecorder attaches a metrics recorder to the client.
func WithRecorder(recorder *metrics.Recorder) Option {
	return func(c *Client) {
		c.recorder = recorder
	}
}

// New creates a Douban client rooted at baseURL.
func New(baseURL, userAgent string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("douban base url required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  strings.TrimSpace(userAgent),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search queries the catalog by title and returns the raw JSON payload.
func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	endpoint, err := url.Parse(c.baseURL + "/movie/search")
	if err != nil {
		return nil, fmt.Errorf("parse douban url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	endpoint.RawQuery = params.Encode()

	return c.get(ctx, "search", endpoint.String())
}

// Subject fetches the full catalog record for one subject ID and returns the
// raw JSON payload.
func (c *Client) Subject(ctx context.Context, id string) ([]byte, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("subject id must not be empty")
	}
	return c.get(ctx, "subject", fmt.Sprintf("%s/movie/subject/%s", c.baseURL, url.PathEscape(id)))
}

// Download retrieves the bytes behind an absolute URL, typically a poster or
// avatar image hosted outside the API origin.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse image url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("image url %q must be absolute http(s)", rawURL)
	}
	return c.get(ctx, "image", parsed.String())
}

func (c *Client) get(ctx context.Context, endpoint, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	c.recorder.RecordUpstreamRequest(endpoint, err, latency)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("douban %s returned %d (latency=%v)", endpoint, resp.StatusCode, latency)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	return body, nil
}
