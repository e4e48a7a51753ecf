package estated

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/home-valuation/internal/adapter/upstream"
	"github.com/couchcryptid/home-valuation/internal/domain"
	"github.com/couchcryptid/home-valuation/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	c := NewClient("test-token", 5*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.baseURL = baseURL
	c.httpClient.RetryMax = 0
	return c
}

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))
		assert.Equal(t, "123 Main St, Seattle, WA", r.URL.Query().Get("address"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupProperty_StructureFields(t *testing.T) {
	srv := serve(t, `{"data":{"structure":{"total_area":1820,"year_built":1994},"lot":{"lot_size":6250.4}}}`)

	c := testClient(srv.URL)
	rec, err := c.LookupProperty(context.Background(), "123 Main St, Seattle, WA")
	require.NoError(t, err)

	assert.Equal(t, domain.PropertyRecord{Sqft: 1820, LotSqft: 6250, YearBuilt: 1994}, rec)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.ProviderRequests.WithLabelValues(provider, upstream.OutcomeSuccess)))
}

func TestLookupProperty_FallbackFields(t *testing.T) {
	srv := serve(t, `{"data":{"building_size":{"living_area":2100},"lot_size":{"lot_size_sq_ft":8000},"year_built":1978}}`)

	rec, err := testClient(srv.URL).LookupProperty(context.Background(), "123 Main St, Seattle, WA")
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyRecord{Sqft: 2100, LotSqft: 8000, YearBuilt: 1978}, rec)
}

func TestLookupProperty_NoData(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null data", `{"data":null,"warnings":[{"code":"NO_MATCH"}]}`},
		{"empty parcel", `{"data":{"structure":{}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.body)
			c := testClient(srv.URL)
			_, err := c.LookupProperty(context.Background(), "123 Main St, Seattle, WA")
			require.ErrorIs(t, err, domain.ErrNoData)
			assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.ProviderRequests.WithLabelValues(provider, upstream.OutcomeEmpty)))
		})
	}
}

func TestLookupProperty_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"INVALID_TOKEN"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.LookupProperty(context.Background(), "123 Main St")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoData)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.ProviderRequests.WithLabelValues(provider, upstream.OutcomeError)))
}
