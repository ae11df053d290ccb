package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formclient/pkg/model"
	"github.com/goliatone/go-formclient/pkg/transport"
)

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := transport.New("")
	require.Error(t, err)

	_, err = transport.New("not a url")
	require.Error(t, err)

	c, err := transport.New("http://api.local/")
	require.NoError(t, err)
	assert.Equal(t, "http://api.local", c.BaseURL())
}

func TestDo_SendsJSONAndDecodes(t *testing.T) {
	var gotBody map[string]any
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pets", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id":"9","name":"Rex","category":"dog","available":true}`)
	}))
	defer srv.Close()

	c, err := transport.New(srv.URL,
		transport.WithAPIKey("secret"),
		transport.WithHeaders(map[string]string{"X-Tenant": "acme"}),
		transport.WithRequestID(func() string { return "req-1" }),
	)
	require.NoError(t, err)

	var pet model.Pet
	err = c.DoJSON(context.Background(), http.MethodPost, "/pets", model.PetPayload{Name: "Rex", Category: "dog", Available: true}, &pet)
	require.NoError(t, err)

	assert.Equal(t, model.Pet{ID: "9", Name: "Rex", Category: "dog", Available: true}, pet)
	assert.Equal(t, map[string]any{"name": "Rex", "category": "dog", "available": true}, gotBody)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Equal(t, "secret", gotHeaders.Get(transport.HeaderAPIKey))
	assert.Equal(t, "acme", gotHeaders.Get("X-Tenant"))
	assert.Equal(t, "req-1", gotHeaders.Get(transport.HeaderRequestID))
}

func TestDo_NoBodyMeansNoContentType(t *testing.T) {
	var contentLength int64 = -2
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentLength = r.ContentLength
		contentType = r.Header.Get("Content-Type")
		_, _ = io.WriteString(w, `{"user_id":"jdoe","active":true}`)
	}))
	defer srv.Close()

	c, err := transport.New(srv.URL)
	require.NoError(t, err)

	var customer model.Customer
	require.NoError(t, c.DoJSON(context.Background(), http.MethodPut, "/customers/jdoe/activate", nil, &customer))
	assert.Equal(t, int64(0), contentLength)
	assert.Empty(t, contentType)
	assert.True(t, customer.Active)
}

func TestDo_EmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := transport.New(srv.URL)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, c.DoJSON(context.Background(), http.MethodDelete, "/pets/1", nil, &out))
	assert.Nil(t, out)
}

func TestDo_APIErrorMessage(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "message", status: http.StatusBadRequest, body: `{"status":400,"error":"Bad Request","message":"name is required"}`, wantMessage: "name is required"},
		{name: "error fallback", status: http.StatusNotFound, body: `{"error":"Customer not found"}`, wantMessage: "Customer not found"},
		{name: "no json", status: http.StatusInternalServerError, body: `<html>boom</html>`, wantMessage: ""},
		{name: "empty", status: http.StatusConflict, body: ``, wantMessage: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c, err := transport.New(srv.URL)
			require.NoError(t, err)

			err = c.DoJSON(context.Background(), http.MethodGet, "/customers/x", nil, nil)
			apiErr, ok := transport.AsAPIError(err)
			require.True(t, ok, "expected APIError, got %v", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, strings.TrimSpace(tt.body), apiErr.Body)
			assert.False(t, errors.Is(err, transport.ErrTransport))
		})
	}
}

func TestDo_TransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))

	c, err := transport.New(srv.URL)
	require.NoError(t, err)

	var out map[string]any
	err = c.DoJSON(context.Background(), http.MethodGet, "/pets", nil, &out)
	require.ErrorIs(t, err, transport.ErrTransport)

	srv.Close()
	err = c.DoJSON(context.Background(), http.MethodGet, "/pets", nil, &out)
	require.ErrorIs(t, err, transport.ErrTransport)
	_, isAPI := transport.AsAPIError(err)
	assert.False(t, isAPI)
}

func TestDo_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := transport.New(srv.URL, transport.WithRateLimit(0.001, 1))
	require.NoError(t, err)

	require.NoError(t, c.DoJSON(context.Background(), http.MethodGet, "/pets", nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = c.DoJSON(ctx, http.MethodGet, "/pets", nil, nil)
	require.ErrorIs(t, err, transport.ErrTransport)
}

func TestDo_RecordsMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pets/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	metrics := transport.NewMetrics(prometheus.NewRegistry())
	c, err := transport.New(srv.URL, transport.WithMetrics(metrics))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/pets/1", Route: "/pets/{pet_id}"}, nil))
	require.Error(t, c.Do(ctx, transport.Request{Method: http.MethodGet, Path: "/pets/missing", Route: "/pets/{pet_id}"}, nil))

	expected := `
		# HELP formclient_api_requests_total Total number of requests sent to the customer/pet API.
		# TYPE formclient_api_requests_total counter
		formclient_api_requests_total{code="200",method="GET",route="/pets/{pet_id}"} 1
		formclient_api_requests_total{code="404",method="GET",route="/pets/{pet_id}"} 1
	`
	if err := testutil.CollectAndCompare(metrics.RequestsTotal, strings.NewReader(expected)); err != nil {
		t.Fatalf("unexpected metrics: %v", err)
	}
}
