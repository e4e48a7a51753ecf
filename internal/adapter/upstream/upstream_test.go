package upstream

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/home-valuation/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	c := NewClient(time.Second, nil)
	err := GetJSON(context.Background(), c, "test", srv.URL, http.Header{"apikey": {"secret"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
}

func TestGetJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	var out map[string]any
	err := GetJSON(context.Background(), NewClient(time.Second, nil), "test", srv.URL, nil, &out)
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Not Authorized")
}

func TestGetJSON_RetriesThenReportsStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(time.Second, nil)
	c.RetryWaitMin = time.Millisecond
	c.RetryWaitMax = time.Millisecond

	var out map[string]any
	err := GetJSON(context.Background(), c, "test", srv.URL, nil, &out)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Equal(t, int32(c.RetryMax+1), calls.Load())
}

func TestGetJSON_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := GetJSON(context.Background(), NewClient(time.Second, nil), "test", srv.URL, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestReadAllLimit(t *testing.T) {
	b, err := readAllLimit(strings.NewReader("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))

	_, err = readAllLimit(strings.NewReader("abcd"), 3)
	require.Error(t, err)
}

func TestObserve(t *testing.T) {
	m := observability.NewMetricsForTesting()
	Observe(m, "estated", time.Now(), OutcomeEmpty)
	Observe(nil, "estated", time.Now(), OutcomeEmpty)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("estated", OutcomeEmpty)))
}

func TestOutcomeOf(t *testing.T) {
	errEmpty := errors.New("empty")
	assert.Equal(t, OutcomeSuccess, OutcomeOf(nil, errEmpty))
	assert.Equal(t, OutcomeEmpty, OutcomeOf(errors.Join(errEmpty, errors.New("x")), errEmpty))
	assert.Equal(t, OutcomeError, OutcomeOf(errors.New("boom"), errEmpty))
	assert.Equal(t, OutcomeError, OutcomeOf(errors.New("boom"), nil))
}

func TestNewClient_DebugLogsOmitQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := NewClient(time.Second, logger)
	c.RetryMax = 1
	c.RetryWaitMin = time.Millisecond
	c.RetryWaitMax = time.Millisecond

	var out map[string]any
	err := GetJSON(context.Background(), c, "test", srv.URL+"/geocode/json?address=1+Main&key=SECRET-KEY", nil, &out)
	require.Error(t, err)

	assert.Contains(t, buf.String(), "performing request")
	assert.Contains(t, buf.String(), "/geocode/json")
	assert.NotContains(t, buf.String(), "SECRET-KEY")
}

func TestGetJSON_TransportErrorOmitsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c := NewClient(time.Second, nil)
	c.RetryMax = 0

	var out map[string]any
	err := GetJSON(context.Background(), c, "test", addr+"/schools?appKey=SECRET-KEY", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test request:")
	assert.NotContains(t, err.Error(), "SECRET-KEY")
}

func TestRedact(t *testing.T) {
	u, err := url.Parse("https://api.example.com/v5?token=abc")
	require.NoError(t, err)

	got := redact([]any{"url", "GET https://api.example.com/v5?token=abc giving up", "parsed", u, "attempt", 2, "error", errors.New(`Get "https://x/y?k=abc": EOF`)})

	assert.Equal(t, []any{"url", "GET https://api.example.com/v5 giving up", "parsed", "https://api.example.com/v5", "attempt", 2, "error", `Get "https://x/y": EOF`}, got)
}
