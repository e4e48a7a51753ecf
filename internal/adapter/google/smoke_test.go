//go:build google

package google

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/home-valuation/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Google Maps Platform and require GOOGLE_MAPS_API_KEY.
// Run with: go test -tags=google ./internal/adapter/google/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("GOOGLE_MAPS_API_KEY")
	if key == "" {
		t.Fatal("GOOGLE_MAPS_API_KEY must be set to run smoke tests")
	}
	return NewClient(key, 10*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_Geocode(t *testing.T) {
	c := smokeClient(t)

	loc, err := c.Geocode(context.Background(), "400 Broad St, Seattle, WA")
	require.NoError(t, err)

	assert.InDelta(t, 47.62, loc.Lat, 0.05, "lat should be near the Space Needle")
	assert.InDelta(t, -122.35, loc.Lng, 0.05, "lng should be near the Space Needle")
	assert.Equal(t, "98109", loc.Zipcode)
	assert.Equal(t, "King County", loc.County)
}

func TestSmoke_Autocomplete(t *testing.T) {
	c := smokeClient(t)

	preds, err := c.Autocomplete(context.Background(), "400 Broad St Seat")
	require.NoError(t, err)
	require.NotEmpty(t, preds)
	assert.NotEmpty(t, preds[0].PlaceID)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, observability.NewMetricsForTesting())

	// First call: cache miss, real API call.
	r1, err := cached.Geocode(context.Background(), "1 Microsoft Way, Redmond, WA")
	require.NoError(t, err)
	assert.Contains(t, r1.FormattedAddress, "Redmond")

	// Second call: cache hit, no API call.
	r2, err := cached.Geocode(context.Background(), "1 MICROSOFT WAY REDMOND WASHINGTON")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
