// Package gateway wraps the remote Arkavidia REST service. Every method makes
// exactly one request and classifies failures into the operation family's
// status enumeration.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ResponseError is a failure that carried a response from the service.
type ResponseError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *ResponseError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Code)
}

// Client is the base HTTP client shared by the API wrappers.
// It holds no mutable state between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
	logger     *slog.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	return c.WithTokenSource(func() string { return token })
}

// WithTokenSource returns a copy of the client that asks source for the
// bearer token on every request. An empty token sends no Authorization header.
func (c *Client) WithTokenSource(source func() string) *Client {
	clone := *c
	clone.token = source
	return &clone
}

// Token returns the bearer token the client is currently bound to.
func (c *Client) Token() string {
	if c.token == nil {
		return ""
	}
	return c.token()
}

// do sends one request and returns the raw response body of a 2xx response.
// An empty token argument falls back to the client's bound token.
func (c *Client) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token == "" {
		token = c.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newResponseError(resp.StatusCode, raw)
	}
	return raw, nil
}

// errorBody is the error envelope the service answers with.
type errorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func newResponseError(status int, raw []byte) *ResponseError {
	respErr := &ResponseError{StatusCode: status}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		respErr.Code = body.Code
		respErr.Detail = body.Detail
	}
	return respErr
}
