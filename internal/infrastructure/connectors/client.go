package connectors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nicksmagento/syncbridge/internal/domain/connector"
	"github.com/nicksmagento/syncbridge/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from a remote API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// maxAttempts bounds retries on transport errors and 5xx responses
const maxAttempts = 3

// APIError describes a non-2xx response from a remote system
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: HTTP %d", e.StatusCode)
}

// Unwrap lets callers match APIError against ErrRequestFailed
func (e *APIError) Unwrap() error {
	return connector.ErrRequestFailed
}

// Request describes one API call made through APIClient.Do
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any               // JSON-encoded when non-nil
	Headers map[string]string // merged over the default JSON headers
}

// APIClient is the shared HTTP helper composed into concrete connectors.
// It resolves settings per call so runtime configuration changes and
// connection-test overlays take effect without rebuilding the connector.
type APIClient struct {
	code       string
	name       string
	source     config.ConnectorSource
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAPIClient creates the shared helper for one connector code
func NewAPIClient(code, name string, source config.ConnectorSource, logger *zap.Logger) *APIClient {
	return &APIClient{
		code:       code,
		name:       name,
		source:     source,
		httpClient: &http.Client{},
		logger:     logger.Named("connector." + code),
	}
}

// Code returns the connector slug
func (c *APIClient) Code() string { return c.code }

// Name returns the connector display name
func (c *APIClient) Name() string { return c.name }

// Settings resolves the current settings for this connector. It returns
// ErrNotConfigured when the code is absent from configuration and
// ErrNotEnabled when it is present but switched off.
func (c *APIClient) Settings() (config.ConnectorSettings, error) {
	cs, ok := c.source.ConnectorSettings(c.code)
	if !ok {
		return cs, fmt.Errorf("%w: %s", connector.ErrNotConfigured, c.code)
	}
	if !cs.Enabled {
		return cs, fmt.Errorf("%w: %s", connector.ErrNotEnabled, c.code)
	}
	return cs, nil
}

// Endpoint joins the configured base URL with a request path
func (c *APIClient) Endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Do performs an API call and returns the raw response body. Transport
// errors and 5xx responses are retried with backoff; 4xx responses are not.
// Non-2xx responses surface as *APIError.
func (c *APIClient) Do(ctx context.Context, req Request) ([]byte, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}

	endpoint := c.Endpoint(settings.APIURL, req.Path)
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var payload []byte
	if req.Body != nil {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request body: %w", c.code, err)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, settings.Timeout())
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, endpoint, body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to create request: %w", c.code, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")
		for k, v := range req.Headers {
			httpReq.Header.Set(k, v)
		}

		respBody, retryable, err := c.roundTrip(httpReq)
		if err == nil {
			return respBody, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		if attempt < maxAttempts {
			if err := sleepWithContext(reqCtx, backoff(attempt)); err != nil {
				break
			}
		}
	}

	c.logger.Error("API request failed",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Error(lastErr),
	)
	return nil, lastErr
}

// roundTrip performs one HTTP exchange. The second return reports whether
// the failure is worth retrying.
func (c *APIClient) roundTrip(httpReq *http.Request) ([]byte, bool, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", connector.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, true, fmt.Errorf("%s: failed to read response: %w", c.code, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		return nil, resp.StatusCode >= 500, apiErr
	}

	return body, false, nil
}

// DoJSON performs an API call and decodes the JSON response into out
func (c *APIClient) DoJSON(ctx context.Context, req Request, out any) error {
	body, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", connector.ErrInvalidResponse, err)
	}
	return nil
}

// LogActivity records a connector operation at info level
func (c *APIClient) LogActivity(action, message string, fields ...zap.Field) {
	all := make([]zap.Field, 0, len(fields)+2)
	all = append(all, zap.String("connector", c.code), zap.String("action", action))
	all = append(all, fields...)
	c.logger.Info(message, all...)
}

// Logger exposes the connector-scoped logger for adapters
func (c *APIClient) Logger() *zap.Logger {
	return c.logger
}

// backoff returns the delay before the given retry attempt
func backoff(attempt int) time.Duration {
	return time.Duration(attempt) * 500 * time.Millisecond
}

// sleepWithContext waits for d unless the context is canceled first
func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
