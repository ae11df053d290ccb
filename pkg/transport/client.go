// Package transport performs the single JSON HTTP call behind every form
// action. A call has exactly one outcome: nil (2xx, body decoded), an
// *APIError (non-2xx) or an error wrapping ErrTransport.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-formclient/internal/logging"
)

const (
	DefaultTimeout = 10 * time.Second

	HeaderAPIKey    = "X-Api-Key"
	HeaderRequestID = "X-Request-ID"

	maxBodyBytes = 1 << 20
)

// Request describes one API call. Route is the path template used for
// metrics and logs (e.g. /pets/{pet_id}); it defaults to Path.
type Request struct {
	Method string
	Path   string
	Route  string
	Body   any
}

// Client issues JSON requests against a base URL.
type Client struct {
	http      *http.Client
	baseURL   string
	headers   map[string]string
	limiter   *rate.Limiter
	metrics   *Metrics
	logger    logrus.FieldLogger
	requestID func() string
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("transport: base url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("transport: invalid base url: %w", err)
	}

	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		headers:   make(map[string]string),
		logger:    logging.Discard(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DoJSON is Do for callers that do not need a route template.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	return c.Do(ctx, Request{Method: method, Path: path, Body: in}, out)
}

// Do sends req and decodes a 2xx body into out (when out is non-nil and the
// body is non-empty). Non-2xx responses return *APIError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if c == nil || c.http == nil {
		return transportErr("client", errors.New("nil client"))
	}
	route := req.Route
	if route == "" {
		route = req.Path
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportErr("rate limit", err)
		}
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}
	requestID := httpReq.Header.Get(HeaderRequestID)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.record(req.Method, route, 0, time.Since(start))
		c.logger.WithFields(logrus.Fields{
			"method":     req.Method,
			"route":      route,
			"request_id": requestID,
			"error":      err,
		}).Debug("api request failed")
		return transportErr("do request", err)
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	c.metrics.record(req.Method, route, resp.StatusCode, elapsed)
	c.logger.WithFields(logrus.Fields{
		"method":     req.Method,
		"path":       req.Path,
		"route":      route,
		"status":     resp.StatusCode,
		"duration":   elapsed,
		"request_id": requestID,
	}).Debug("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, raw)
	}
	if readErr != nil {
		return transportErr("read body", readErr)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return transportErr("decode json", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	path := strings.TrimSpace(req.Path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, transportErr("encode json", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+path, body)
	if err != nil {
		return nil, transportErr("new request", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		httpReq.Header.Set(k, v)
	}
	if httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, c.requestID())
	}
	return httpReq, nil
}
