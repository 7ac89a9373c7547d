// Package client talks to a gong over its HTTP control surface.
package client

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

	gongerrors "github.com/tessro/gong/internal/errors"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 5 * time.Second

	// Retry configuration for transient errors
	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client is a gong HTTP client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryWait  time.Duration
	verbose    bool
	logFunc    func(format string, args ...interface{})
}

// New creates a client for the gong at baseURL, e.g. "http://gong.local".
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if baseURL != "" && !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retryWait:  baseRetryWait,
	}
}

// BaseURL returns the device address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetVerbose enables verbose logging.
func (c *Client) SetVerbose(verbose bool, logFunc func(format string, args ...interface{})) {
	c.verbose = verbose
	c.logFunc = logFunc
}

func (c *Client) log(format string, args ...interface{}) {
	if c.verbose && c.logFunc != nil {
		c.logFunc(format, args...)
	}
}

// APIError is an error response from the device.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gong error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the device.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.request(ctx, http.MethodGet, path, nil, nil, result)
}

// post sends params in the query string, like the device's own audio page.
func (c *Client) post(ctx context.Context, path string, params url.Values, result interface{}) error {
	return c.request(ctx, http.MethodPost, path, params, nil, result)
}

func (c *Client) request(ctx context.Context, method, path string, params url.Values, body interface{}, result interface{}) error {
	return c.send(ctx, method, path, params, body, result, maxRetries)
}

// send performs a request, retrying network errors and 5xx answers up to
// retries times. Calls that must not be repeated pass 0.
func (c *Client) send(ctx context.Context, method, path string, params url.Values, body interface{}, result interface{}, retries int) error {
	if c.baseURL == "" {
		return gongerrors.WithSuggestion(gongerrors.ErrDeviceUnreachable,
			"Set the device address with --device, GONG_DEVICE_URL or [client] device_url")
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		c.log("[gong] %s %s\n  body: %s", method, fullURL, string(jsonBody))
	} else {
		c.log("[gong] %s %s", method, fullURL)
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			wait := c.retryWait * time.Duration(1<<(attempt-1))
			c.log("[gong] retry %d/%d after %v (last error: %v)", attempt, retries, wait, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		if jsonBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", gongerrors.ErrDeviceUnreachable, err)
			c.log("[gong] network error: %v", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		c.log("[gong] response: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))

		if resp.StatusCode >= 500 {
			lastErr = decodeError(resp.StatusCode, respBody)
			c.log("[gong] server error, will retry: %v", lastErr)
			continue
		}
		if resp.StatusCode >= 400 {
			return decodeError(resp.StatusCode, respBody)
		}

		if result != nil && len(respBody) > 0 {
			if s, ok := result.(*string); ok {
				*s = string(respBody)
				return nil
			}
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
		}
		return nil
	}

	if retries == 0 {
		return lastErr
	}
	return fmt.Errorf("request failed after %d retries: %w", retries, lastErr)
}

func decodeError(status int, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return &APIError{Status: status, Message: e.Error}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" || strings.HasPrefix(msg, "<") {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}
