// Package client provides the HTTP client for the PolyBites REST API.
// It handles request construction, JSON codecs, error mapping, and
// per-request tracing.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	pberrors "github.com/polybites/polybites-cli/pkg/errors"
	"github.com/polybites/polybites-cli/pkg/logging"
)

// Default client settings.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "polybites-cli"

	tracerName = "github.com/polybites/polybites-cli/client"
)

// Options configures the API client behavior.
type Options struct {
	// Timeout is the per-request timeout. Zero means DefaultTimeout.
	Timeout time.Duration

	// UserAgent overrides the User-Agent header.
	UserAgent string

	// Logger receives debug logging for every request. Nil disables it.
	Logger logging.Logger

	// HTTPClient allows injecting a custom transport, mainly for tests.
	// When set, Timeout is ignored in favor of the injected client's.
	HTTPClient *http.Client
}

// DefaultOptions returns Options with default values.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client is the HTTP client for the PolyBites REST API. A single Client is
// safe for concurrent use; the review engine packages share one instance.
type Client struct {
	baseURL   string
	httpc     *http.Client
	log       logging.Logger
	tracer    trace.Tracer
	userAgent string
}

// New creates a new API client for the given base URL.
func New(baseURL string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}

	httpc := opts.HTTPClient
	if httpc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpc = &http.Client{Timeout: timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		httpc:     httpc,
		log:       log,
		tracer:    otel.Tracer(tracerName),
		userAgent: userAgent,
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiURL joins the base URL with an endpoint path, avoiding double slashes.
func (c *Client) apiURL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
}

// get issues a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

// post issues a POST request with a JSON body and decodes the response into out.
// out may be nil when the response body is not needed.
func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

// del issues a DELETE request with an optional JSON body.
func (c *Client) del(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.do(ctx, http.MethodDelete, endpoint, body, out)
}

// do performs one HTTP round trip against the API.
//
// Error mapping: transport errors become ErrNetworkFailure, HTTP 404 becomes
// ErrNotFound, HTTP 401/403 become ErrSignInRequired, and any other
// non-success status becomes ErrFetchFailed. Callers rely on these sentinels
// to decide between degrading gracefully and surfacing the failure.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	requestID := uuid.New().String()

	ctx, span := c.tracer.Start(ctx, "polybites.api "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", endpoint),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL(endpoint), reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.log.Debug("request failed",
			logging.F("method", method),
			logging.F("endpoint", endpoint),
			logging.Err(err),
		)
		return fmt.Errorf("%s %s: %w: %v", method, endpoint, pberrors.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.log.Debug("request completed",
		logging.F("method", method),
		logging.F("endpoint", endpoint),
		logging.F("status", resp.StatusCode),
		logging.F("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, resp.Status)
		return statusError(method, endpoint, resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.SetStatus(codes.Error, "decode failed")
		return fmt.Errorf("%s %s: decoding response: %w", method, endpoint, err)
	}

	return nil
}

// statusError converts a non-success response into a sentinel-wrapped error,
// including the server's error message when it sent one.
func statusError(method, endpoint string, resp *http.Response) error {
	var sentinel error
	switch resp.StatusCode {
	case http.StatusNotFound:
		sentinel = pberrors.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = pberrors.ErrSignInRequired
	default:
		sentinel = pberrors.ErrFetchFailed
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("%s %s: %w: %s (%s)", method, endpoint, sentinel, apiErr.Error, resp.Status)
	}
	return fmt.Errorf("%s %s: %w: %s", method, endpoint, sentinel, resp.Status)
}
