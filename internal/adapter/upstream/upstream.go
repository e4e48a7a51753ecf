// Package upstream holds the HTTP plumbing shared by third-party data provider clients.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/home-valuation/internal/observability"
	"github.com/hashicorp/go-retryablehttp"
)

// maxBody caps provider responses.
const maxBody = 4 << 20

// Outcome labels for provider metrics.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeEmpty   = "empty"
)

// StatusError is returned for non-2xx provider responses.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.Code, e.Body)
}

// NewClient returns a retrying HTTP client with short backoff, logging retries through logger.
func NewClient(timeout time.Duration, logger *slog.Logger) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = timeout
	// Hand the last response back after retries so callers see the status.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if logger != nil {
		rc.Logger = redactingLogger{logger: logger}
	}
	return rc
}

// GetJSON issues a GET and decodes the JSON body into out.
func GetJSON(ctx context.Context, c *retryablehttp.Client, provider, url string, header http.Header, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.Do(req)
	if err != nil {
		return &requestError{provider: provider, err: err}
	}
	defer resp.Body.Close()

	body, err := readAllLimit(resp.Body, maxBody)
	if err != nil {
		return fmt.Errorf("%s read body: %w", provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Provider: provider, Code: resp.StatusCode, Body: truncate(string(body), 256)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s decode response: %w", provider, err)
	}
	return nil
}

// Observe records one provider call. A nil metrics is a no-op.
func Observe(m *observability.Metrics, provider string, start time.Time, outcome string) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

// OutcomeOf maps a provider error to its metric label.
func OutcomeOf(err error, empty error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case empty != nil && errors.Is(err, empty):
		return OutcomeEmpty
	default:
		return OutcomeError
	}
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
