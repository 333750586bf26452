// Package client is the Go SDK for the patent infringement analysis service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/patentlens/pkg/errors"
	"github.com/turtacn/patentlens/pkg/types/analysis"
)

const Version = "0.1.0"

const (
	// DefaultEndpoint is the analysis path appended to the base URL.
	DefaultEndpoint = "/api/analyze"
	// DefaultTimeout bounds a single analysis round trip. Analyses are slow.
	DefaultTimeout = 120 * time.Second

	// DefaultFailureMessage is used when a non-2xx response carries no error text.
	DefaultFailureMessage = "Analysis failed"
)

// Logger defines the logging interface used by the Client
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger is a no-op implementation of Logger
type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to a single analysis service. It never retries: each call is
// exactly one HTTP round trip.
type Client struct {
	baseURL    string
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration // negative until WithTimeout is applied
	userAgent  string
	logger     Logger
}

// APIError is returned when the analysis service answers with a non-2xx status.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("patentlens: %s (HTTP %d) [request_id=%s]", e.Message, e.StatusCode, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient creates a client for the analysis service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.ErrInvalidConfig.WithDetail("base URL is empty")
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid baseURL: %v", errors.ErrInvalidConfig, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: baseURL scheme must be http or https", errors.ErrInvalidConfig)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("%w: baseURL has no host", errors.ErrInvalidConfig)
	}

	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		endpoint:  DefaultEndpoint,
		timeout:   -1,
		userAgent: fmt.Sprintf("patentlens-go-sdk/%s", Version),
		logger:    noopLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.timeout >= 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	return c, nil
}

// BaseURL returns the normalised service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint returns the full analysis URL.
func (c *Client) Endpoint() string {
	return c.baseURL + c.endpoint
}

// Analyze submits req to the analysis service and returns the parsed result.
//
// The response body is always decoded as JSON. A body that does not decode is
// reported as ErrCodeSerialization whatever the status. A non-2xx status
// yields *APIError whose Message is the body's "error" field, or
// DefaultFailureMessage when that is absent or empty.
func (c *Client) Analyze(ctx context.Context, req analysis.Request) (*analysis.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode analysis request")
	}

	status, requestID, body, err := c.do(ctx, http.MethodPost, c.endpoint, payload)
	if err != nil {
		return nil, err
	}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.logger.Errorf("analysis response is not JSON: status=%d request_id=%s: %v", status, requestID, err)
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "analysis response is not valid JSON").
			WithDetail(err.Error())
	}

	if status < 200 || status > 299 {
		apiErr := &APIError{
			StatusCode: status,
			Message:    DefaultFailureMessage,
			RequestID:  requestID,
		}
		if obj, ok := decoded.(map[string]interface{}); ok {
			if msg, ok := obj["error"].(string); ok && msg != "" {
				apiErr.Message = msg
			}
		}
		c.logger.Errorf("analysis rejected: status=%d request_id=%s: %s", status, requestID, apiErr.Message)
		return nil, apiErr
	}

	result, err := analysis.ParseResult(body)
	if err != nil {
		c.logger.Errorf("analysis response rejected: request_id=%s: %v", requestID, err)
		return nil, err
	}
	return result, nil
}

// Ping checks that the analysis service is reachable. Any HTTP response,
// whatever its status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, _, _, err := c.do(ctx, http.MethodGet, "/", nil)
	return err
}

// do performs exactly one HTTP request and returns the status, the request id
// it sent, and the full response body.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, string, []byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return 0, "", nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create request")
	}

	requestID := uuid.New().String()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Errorf("%s %s failed after %v: %v", method, path, duration, err)
		return 0, requestID, nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	c.logger.Debugf("%s %s %d (%v) request_id=%s", method, path, resp.StatusCode, duration, requestID)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, requestID, nil, transportError(ctx, err)
	}
	return resp.StatusCode, requestID, respBody, nil
}

func transportError(ctx context.Context, err error) error {
	switch {
	case stderrors.Is(err, context.Canceled) || stderrors.Is(ctx.Err(), context.Canceled):
		return errors.Wrap(err, errors.ErrCodeCancelled, "analysis request cancelled")
	case stderrors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		return errors.Wrap(err, errors.ErrCodeTimeout, "analysis request timed out")
	default:
		return errors.Wrap(err, errors.ErrCodeExternalService, "analysis request failed").
			WithDetail(err.Error())
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return stderrors.As(err, &t) && t.Timeout()
}
