// Package attom finds comparable sales through the ATTOM property API.
package attom

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/home-valuation/internal/adapter/upstream"
	"github.com/couchcryptid/home-valuation/internal/domain"
	"github.com/couchcryptid/home-valuation/internal/observability"
	"github.com/hashicorp/go-retryablehttp"
)

const provider = "attom"

// Comparable size window around the subject's living area.
const (
	minSizeRatio = 0.85
	maxSizeRatio = 1.15
)

// Client implements domain.CompSales using the sales snapshot endpoint.
type Client struct {
	key         string
	radiusMiles float64
	limit       int
	httpClient  *retryablehttp.Client
	baseURL     string
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewClient creates an ATTOM client returning at most limit sales within radiusMiles.
func NewClient(apiKey string, radiusMiles float64, limit int, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key:         apiKey,
		radiusMiles: radiusMiles,
		limit:       limit,
		httpClient:  upstream.NewClient(timeout, logger),
		baseURL:     "https://api.gateway.attomdata.com",
		metrics:     metrics,
		logger:      logger,
	}
}

// ComparableSales returns recent sales near lat/lng. When sqft is positive the
// search is restricted to homes within ±15% of it.
func (c *Client) ComparableSales(ctx context.Context, lat, lng float64, sqft int) ([]domain.Comp, error) {
	start := time.Now()
	comps, err := c.comparableSales(ctx, lat, lng, sqft)
	upstream.Observe(c.metrics, provider, start, upstream.OutcomeOf(err, domain.ErrNoData))
	return comps, err
}

func (c *Client) comparableSales(ctx context.Context, lat, lng float64, sqft int) ([]domain.Comp, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("longitude", strconv.FormatFloat(lng, 'f', 6, 64))
	q.Set("radius", strconv.FormatFloat(c.radiusMiles, 'f', -1, 64))
	if sqft > 0 {
		q.Set("minbuildingareasqft", strconv.Itoa(int(math.Floor(float64(sqft)*minSizeRatio))))
		q.Set("maxbuildingareasqft", strconv.Itoa(int(math.Ceil(float64(sqft)*maxSizeRatio))))
	}

	u := fmt.Sprintf("%s/propertyapi/v1.0.0/sales/snapshot?%s", c.baseURL, q.Encode())
	var payload snapshotPayload
	if err := upstream.GetJSON(ctx, c.httpClient, provider, u, http.Header{"apikey": {c.key}}, &payload); err != nil {
		return nil, err
	}

	comps := mapSales(payload, c.limit)
	if len(comps) == 0 {
		return nil, fmt.Errorf("no usable sales nearby: %w", domain.ErrNoData)
	}
	c.logger.Debug("comparable sales found", "count", len(comps), "radius_miles", c.radiusMiles)
	return comps, nil
}
