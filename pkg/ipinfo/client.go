// Package ipinfo resolves the public IP address of this host via the
// ipify API. Lookups are advisory: callers substitute a sentinel on
// failure rather than propagating the error.
package ipinfo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the production ipify endpoint.
const DefaultBaseURL = "https://api.ipify.org"

// Client defines the IP lookup operation.
type Client interface {
	// Lookup returns the public IP address as a string (v4 or v6).
	Lookup(ctx context.Context) (string, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	group   singleflight.Group
}

// NewClient creates a new ipify client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: DefaultBaseURL,
		http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type ipResponse struct {
	IP string `json:"ip"`
}

// Lookup resolves the public IP. Concurrent lookups are coalesced into
// a single upstream request; the egress IP does not change between
// navigations, so every waiter shares one answer.
func (c *httpClient) Lookup(ctx context.Context) (string, error) {
	v, err, _ := c.group.Do("ip", func() (any, error) {
		return c.lookup(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *httpClient) lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?format=json", nil)
	if err != nil {
		return "", eris.Wrap(err, "ipinfo: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "ipinfo: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "ipinfo: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("ipinfo: unexpected status %d", resp.StatusCode)
	}

	var out ipResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", eris.Wrap(err, "ipinfo: unmarshal response")
	}
	if out.IP == "" {
		return "", eris.New("ipinfo: empty ip in response")
	}

	return out.IP, nil
}
