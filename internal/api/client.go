package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/odyssey-erp/inventory-console/internal/platform/httpx"
)

const (
	// RequestIDHeader correlates console calls with API logs.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 8 << 20
)

// Notifier receives the display message of every failed call.
type Notifier interface {
	NotifyError(message string)
}

// Observer records per-call outcomes, typically as metrics.
type Observer interface {
	ObserveCall(method, route string, status int, err error, elapsed time.Duration)
}

// Client wraps interactions with the inventory REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	notifier   Notifier
	observer   Observer
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger used for failed calls.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver attaches a call observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient constructs a new client for the API rooted at baseURL
// (for example http://127.0.0.1:8000/api).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithNotifier returns a copy of the client that reports failures to n.
// The copy shares the underlying http.Client.
func (c *Client) WithNotifier(n Notifier) *Client {
	clone := *c
	clone.notifier = n
	return &clone
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type callSettings struct {
	route   string
	headers http.Header
}

// CallOption customises a single Call.
type CallOption func(*callSettings)

// WithHeader adds a request header. Setting Content-Type here replaces
// the JSON default.
func WithHeader(key, value string) CallOption {
	return func(s *callSettings) {
		s.headers.Set(key, value)
	}
}

// WithRoute labels the call for observers with a low-cardinality route
// such as "/items/{id}".
func WithRoute(route string) CallOption {
	return func(s *callSettings) {
		s.route = route
	}
}

// Call performs a JSON request against endpoint (path plus query, relative
// to the base URL). A non-nil body is JSON encoded; a non-nil out receives
// the decoded response. Failures are logged, forwarded to the notifier and
// returned as *RequestError.
func (c *Client) Call(ctx context.Context, method, endpoint string, body, out any, opts ...CallOption) error {
	settings := callSettings{route: endpoint, headers: http.Header{}}
	for _, opt := range opts {
		opt(&settings)
	}

	start := time.Now()
	status, err := c.do(ctx, method, endpoint, body, out, settings.headers)
	if c.observer != nil {
		var observed error
		if err != nil {
			observed = err
		}
		c.observer.ObserveCall(method, settings.route, status, observed, time.Since(start))
	}
	if err != nil {
		c.logger.Error("api error",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.Int("status", status),
			slog.Any("error", err))
		if c.notifier != nil {
			c.notifier.NotifyError(err.Message)
		}
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any, headers http.Header) (int, *RequestError) {
	fail := func(status int, message string, cause error) *RequestError {
		return &RequestError{Method: method, Endpoint: endpoint, Status: status, Message: message, Err: cause}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fail(0, "Unable to encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return 0, fail(0, "Invalid API request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	for key, values := range headers {
		req.Header[key] = values
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fail(0, "Unable to reach the inventory API", transportError{err: err})
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fail(0, "Unable to reach the inventory API", transportError{err: err})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message, ok := httpx.ProblemMessage(data)
		if !ok {
			message = DefaultErrorMessage
		}
		return resp.StatusCode, fail(resp.StatusCode, message, nil)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fail(resp.StatusCode, "Invalid response from the inventory API", err)
	}
	return resp.StatusCode, nil
}
