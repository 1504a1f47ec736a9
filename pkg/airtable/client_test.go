package airtable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRecord_Success(t *testing.T) {
	t.Parallel()

	fields := map[string]any{
		"Full Name": "Jane Doe",
		"Email":     "jane@acme.com",
		"Status":    "New",
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "/v0/appBase123/Leads", r.URL.Path)

		var req createRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Typecast)
		require.Len(t, req.Records, 1)
		assert.Equal(t, fields, req.Records[0].Fields)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CreateResponse{Records: []Record{
			{ID: "recABC", CreatedTime: "2026-01-02T03:04:05.000Z", Fields: fields},
		}})
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseID: "appBase123"}, WithBaseURL(srv.URL))
	got, err := client.CreateRecord(context.Background(), "Leads", fields)

	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "recABC", got.Records[0].ID)
	assert.Equal(t, "Jane Doe", got.Records[0].Fields["Full Name"])
}

func TestCreateRecord_TableNameEscaped(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/appBase123/Traffic%20Analysis", r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CreateResponse{Records: []Record{{ID: "rec1"}}})
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseID: "appBase123"}, WithBaseURL(srv.URL))
	_, err := client.CreateRecord(context.Background(), "Traffic Analysis", map[string]any{"Page Path": "/"})

	require.NoError(t, err)
}

func TestCreateRecord_ConfigMissing(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	for _, cfg := range []Config{
		{},
		{APIKey: "key-only"},
		{BaseID: "base-only"},
	} {
		client := NewClient(cfg, WithBaseURL(srv.URL))
		_, err := client.CreateRecord(context.Background(), "Leads", map[string]any{"Email": "x@y.z"})

		require.Error(t, err)
		assert.Equal(t, KindConfigMissing, KindOf(err))
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestCreateRecord_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"type":"AUTHENTICATION_REQUIRED","message":"Invalid authentication token"}}`, KindUnauthorized},
		{"forbidden", http.StatusForbidden, `{"error":{"type":"NOT_AUTHORIZED"}}`, KindForbidden},
		{"not found", http.StatusNotFound, `{"error":"NOT_FOUND"}`, KindNotFound},
		{"unprocessable", http.StatusUnprocessableEntity, `{"error":{"type":"INVALID_VALUE_FOR_COLUMN","message":"Field cannot accept value"}}`, KindRemote},
		{"server error", http.StatusInternalServerError, ``, KindRemote},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(Config{APIKey: "k", BaseID: "b"}, WithBaseURL(srv.URL))
			_, err := client.CreateRecord(context.Background(), "Leads", map[string]any{"Email": "x@y.z"})

			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))

			var ae *Error
			require.ErrorAs(t, err, &ae)
			assert.NotEmpty(t, ae.Message)
		})
	}
}

func TestCreateRecord_RemoteMessagePreserved(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"type":"INVALID_REQUEST_BODY","message":"Could not parse request body"}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseID: "b"}, WithBaseURL(srv.URL))
	_, err := client.CreateRecord(context.Background(), "Leads", map[string]any{})

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Could not parse request body", ae.Message)
}

func TestCreateRecord_RemoteMessageFallsBackToStatusText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream gone`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseID: "b"}, WithBaseURL(srv.URL))
	_, err := client.CreateRecord(context.Background(), "Leads", map[string]any{})

	var ae *Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, KindRemote, ae.Kind)
	assert.Equal(t, "Bad Gateway", ae.Message)
}

func TestCreateRecord_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(Config{APIKey: "k", BaseID: "b"}, WithBaseURL(srv.URL))
	_, err := client.CreateRecord(context.Background(), "Leads", map[string]any{"Email": "x@y.z"})

	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	// Raw transport details never leak to callers.
	assert.NotContains(t, err.Error(), "refused")
}

func TestCreateRecord_NoRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseID: "b"}, WithBaseURL(srv.URL))
	_, err := client.CreateRecord(context.Background(), "Leads", map[string]any{})

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreateRecord_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(Config{APIKey: "k", BaseID: "b"}, WithBaseURL(srv.URL))
	_, err := client.CreateRecord(ctx, "Leads", map[string]any{})

	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{APIKey: "k", BaseID: "b"})
	hc := c.(*httpClient)
	assert.Equal(t, DefaultBaseURL, hc.baseURL)
	assert.NotNil(t, hc.http)
	assert.Equal(t, 5*time.Second, hc.http.Timeout)
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := NewClient(Config{APIKey: "k", BaseID: "b"}, WithHTTPClient(custom))
	hc := c.(*httpClient)
	assert.Equal(t, custom, hc.http)
}
