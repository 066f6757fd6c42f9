package bevault

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

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// Doer is the transport capability consumed by resource clients.
type Doer interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	PostJSON(ctx context.Context, path string, body, out any) error
	PutJSON(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// APIError is a non-success response from the remote service. It is terminal:
// the transport never retries on status codes, only on transport faults.
type APIError struct {
	Status    int
	Method    string
	Path      string
	RequestID string
	Body      string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("%s %s: status %d (request %s): %s", e.Method, e.Path, e.Status, e.RequestID, body)
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// TransportOptions tune the retry policy.
type TransportOptions struct {
	Timeout     time.Duration
	MaxAttempts int
}

// Transport sends JSON requests with bounded retries over transient faults.
type Transport struct {
	baseURL string
	token   string
	client  *retryablehttp.Client
	logger  *log.Logger
}

// NewTransport builds a transport for the given service root. Retries apply
// only to connection failures and timeouts; HTTP status errors surface as-is.
func NewTransport(baseURL, token string, opts TransportOptions, logger *log.Logger) *Transport {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.MaxAttempts - 1
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 4 * time.Second
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = retryLogger{logger}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return err != nil, nil
	}

	return &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  rc,
		logger:  logger,
	}
}

// BaseURL returns the service root used for building payload references.
func (t *Transport) BaseURL() string { return t.baseURL }

func (t *Transport) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	p := path
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	return t.do(ctx, http.MethodGet, p, nil, out)
}

func (t *Transport) PostJSON(ctx context.Context, path string, body, out any) error {
	return t.do(ctx, http.MethodPost, path, body, out)
}

func (t *Transport) PutJSON(ctx context.Context, path string, body, out any) error {
	return t.do(ctx, http.MethodPut, path, body, out)
}

func (t *Transport) Delete(ctx context.Context, path string) error {
	return t.do(ctx, http.MethodDelete, path, nil, nil)
}

func (t *Transport) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = b
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	started := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s (request %s): %w", method, path, requestID, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	t.logger.Debug("api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode >= 400 {
		return &APIError{
			Status:    resp.StatusCode,
			Method:    method,
			Path:      path,
			RequestID: requestID,
			Body:      string(raw),
		}
	}

	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// retryLogger adapts the structured logger to retryablehttp's LeveledLogger.
type retryLogger struct {
	l *log.Logger
}

func (r retryLogger) Error(msg string, keysAndValues ...interface{}) {
	r.l.Error(msg, keysAndValues...)
}

func (r retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	r.l.Warn(msg, keysAndValues...)
}

func (r retryLogger) Info(msg string, keysAndValues ...interface{}) {
	r.l.Debug(msg, keysAndValues...)
}

func (r retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	r.l.Debug(msg, keysAndValues...)
}
