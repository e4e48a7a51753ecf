// Package estated looks up public property records through the Estated v5 API.
package estated

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"time"

	"github.com/couchcryptid/home-valuation/internal/adapter/upstream"
	"github.com/couchcryptid/home-valuation/internal/domain"
	"github.com/couchcryptid/home-valuation/internal/observability"
	"github.com/hashicorp/go-retryablehttp"
)

const provider = "estated"

// Client implements domain.PropertyRecords.
type Client struct {
	token      string
	httpClient *retryablehttp.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Estated client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token:      token,
		httpClient: upstream.NewClient(timeout, logger),
		baseURL:    "https://api.estated.com/property/v5",
		metrics:    metrics,
		logger:     logger,
	}
}

// LookupProperty returns living area, lot size, and year built for an address.
// Returns domain.ErrNoData when Estated has no parcel for it.
func (c *Client) LookupProperty(ctx context.Context, address string) (domain.PropertyRecord, error) {
	start := time.Now()
	rec, err := c.lookup(ctx, address)
	upstream.Observe(c.metrics, provider, start, upstream.OutcomeOf(err, domain.ErrNoData))
	return rec, err
}

func (c *Client) lookup(ctx context.Context, address string) (domain.PropertyRecord, error) {
	params := url.Values{
		"token":   {c.token},
		"address": {address},
	}

	var resp response
	if err := upstream.GetJSON(ctx, c.httpClient, provider, c.baseURL+"?"+params.Encode(), nil, &resp); err != nil {
		return domain.PropertyRecord{}, err
	}
	if resp.Data == nil {
		return domain.PropertyRecord{}, fmt.Errorf("no parcel for address: %w", domain.ErrNoData)
	}

	rec := resp.Data.record()
	if rec == (domain.PropertyRecord{}) {
		return rec, fmt.Errorf("parcel has no usable fields: %w", domain.ErrNoData)
	}
	return rec, nil
}

// Estated API response types. Field placement varies between plan versions,
// so each value has a fallback location.

type response struct {
	Data *parcel `json:"data"`
}

type parcel struct {
	Structure struct {
		TotalArea float64 `json:"total_area"`
		YearBuilt float64 `json:"year_built"`
	} `json:"structure"`
	BuildingSize struct {
		LivingArea float64 `json:"living_area"`
	} `json:"building_size"`
	Lot struct {
		LotSize float64 `json:"lot_size"`
	} `json:"lot"`
	LotSize struct {
		LotSizeSqFt float64 `json:"lot_size_sq_ft"`
	} `json:"lot_size"`
	YearBuilt float64 `json:"year_built"`
}

func (p *parcel) record() domain.PropertyRecord {
	return domain.PropertyRecord{
		Sqft:      firstPositive(p.Structure.TotalArea, p.BuildingSize.LivingArea),
		LotSqft:   firstPositive(p.Lot.LotSize, p.LotSize.LotSizeSqFt),
		YearBuilt: firstPositive(p.Structure.YearBuilt, p.YearBuilt),
	}
}

func firstPositive(vals ...float64) int {
	for _, v := range vals {
		if v > 0 {
			return int(math.Round(v))
		}
	}
	return 0
}
