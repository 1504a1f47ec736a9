// Package airtable provides a minimal client for creating records in an
// Airtable base.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the production Airtable API host.
const DefaultBaseURL = "https://api.airtable.com"

// Client defines the record-store operations.
type Client interface {
	// CreateRecord creates exactly one record in the named table.
	// Fields are passed through opaquely; typecast is always enabled so
	// string values are coerced to match existing column types (select
	// options in particular). The call is attempted exactly once: no
	// retries, no backoff. Failures are always an *Error.
	CreateRecord(ctx context.Context, table string, fields map[string]any) (*CreateResponse, error)
}

// Config holds the credentials required for any write. Both values are
// checked at call time so a client can be constructed before
// configuration is fully loaded.
type Config struct {
	APIKey string
	BaseID string
}

// CreateResponse is the decoded Airtable create response.
type CreateResponse struct {
	Records []Record `json:"records"`
}

// Record is a single created record. Fields echo what the server
// stored, after typecast coercion.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
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
	cfg     Config
	baseURL string
	http    *http.Client
}

// NewClient creates a new Airtable client.
func NewClient(cfg Config, opts ...Option) Client {
	c := &httpClient{
		cfg:     cfg,
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

type createRequest struct {
	Records  []recordFields `json:"records"`
	Typecast bool           `json:"typecast"`
}

type recordFields struct {
	Fields map[string]any `json:"fields"`
}

// errorEnvelope is the optional Airtable error body.
type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *httpClient) CreateRecord(ctx context.Context, table string, fields map[string]any) (*CreateResponse, error) {
	if c.cfg.APIKey == "" || c.cfg.BaseID == "" {
		zap.L().Warn("airtable credentials missing, skipping write",
			zap.String("table", table))
		return nil, &Error{
			Kind:    KindConfigMissing,
			Message: "airtable API key or base ID not configured",
		}
	}

	reqURL := fmt.Sprintf("%s/v0/%s/%s", c.baseURL, c.cfg.BaseID, url.PathEscape(table))

	payload, err := json.Marshal(createRequest{
		Records:  []recordFields{{Fields: fields}},
		Typecast: true,
	})
	if err != nil {
		return nil, &Error{Kind: KindRemote, Message: "encode request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "connection failed"}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Never log or expose the raw transport error's URL query or
		// credentials; the key lives only in the header.
		zap.L().Warn("airtable request failed",
			zap.String("table", table),
			zap.Error(err))
		return nil, &Error{Kind: KindTransport, Message: "connection failed"}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "connection failed"}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var out CreateResponse
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, &Error{Kind: KindRemote, Message: "decode response: " + err.Error()}
		}
		zap.L().Debug("airtable record created",
			zap.String("table", table),
			zap.Int("status", resp.StatusCode))
		return &out, nil
	}

	ferr := classifyStatus(resp.StatusCode, body, table)
	zap.L().Warn("airtable write rejected",
		zap.String("table", table),
		zap.Int("status", resp.StatusCode),
		zap.String("kind", string(ferr.Kind)))
	return nil, ferr
}

// classifyStatus maps a non-2xx response to the failure taxonomy.
func classifyStatus(status int, body []byte, table string) *Error {
	switch status {
	case http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, Message: "invalid API key"}
	case http.StatusForbidden:
		return &Error{Kind: KindForbidden, Message: "API key lacks write access to the base"}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: fmt.Sprintf("table or base not found: %s (names are case-sensitive)", table)}
	}

	msg := remoteMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Kind: KindRemote, Message: msg}
}

// remoteMessage pulls the message out of Airtable's error envelope, if
// one was sent.
func remoteMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Error.Message
}
