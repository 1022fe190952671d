package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/octofit/octofit/internal/listview"
)

var _ listview.Fetcher = (*Client)(nil)

// RequestIDHeader carries the per-attempt request ID.
const RequestIDHeader = "X-Request-ID"

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.Endpoint, e.Status)
}

// ClientOptions configures a Client.
type ClientOptions struct {
	Timeout time.Duration
	Logger  *slog.Logger
	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
	UserAgent string
}

// Client fetches list payloads over HTTP. It never retries: every Fetch is
// exactly one request.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a Client.
func NewClient(opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		SetLogger(restyLogger{logger: logger})
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}

	return &Client{http: client, logger: logger}
}

// Fetch performs a GET on endpoint and returns the response body.
func (c *Client) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	requestID := uuid.NewString()
	c.logger.Debug("fetching list", "endpoint", endpoint, "request_id", requestID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	if resp.IsError() {
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
		}
	}

	c.logger.Debug("fetched list", "endpoint", endpoint, "request_id", requestID,
		"status", resp.StatusCode(), "bytes", len(resp.Body()))
	return resp.Body(), nil
}

// restyLogger routes resty's printf-style logging into slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
