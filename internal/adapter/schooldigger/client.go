// Package schooldigger rates nearby schools through the SchoolDigger v2 API.
package schooldigger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/home-valuation/internal/adapter/upstream"
	"github.com/couchcryptid/home-valuation/internal/domain"
	"github.com/couchcryptid/home-valuation/internal/observability"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	provider    = "schooldigger"
	radiusMiles = "3"
)

// Client implements domain.SchoolRatings.
type Client struct {
	appID      string
	appKey     string
	state      string
	httpClient *retryablehttp.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a SchoolDigger client searching schools in state.
func NewClient(appID, appKey, state string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		appID:      appID,
		appKey:     appKey,
		state:      state,
		httpClient: upstream.NewClient(timeout, logger),
		baseURL:    "https://api.schooldigger.com/v2.0",
		metrics:    metrics,
		logger:     logger,
	}
}

// SchoolRating returns the nearest ranked school's score on a 1–10 scale.
func (c *Client) SchoolRating(ctx context.Context, lat, lng float64) (int, error) {
	start := time.Now()
	rating, err := c.schoolRating(ctx, lat, lng)
	upstream.Observe(c.metrics, provider, start, upstream.OutcomeOf(err, domain.ErrNoData))
	return rating, err
}

func (c *Client) schoolRating(ctx context.Context, lat, lng float64) (int, error) {
	params := url.Values{
		"st":            {c.state},
		"nearLatitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"nearLongitude": {strconv.FormatFloat(lng, 'f', -1, 64)},
		"radiusMiles":   {radiusMiles},
		"appID":         {c.appID},
		"appKey":        {c.appKey},
	}

	var resp response
	if err := upstream.GetJSON(ctx, c.httpClient, provider, c.baseURL+"/schools?"+params.Encode(), nil, &resp); err != nil {
		return 0, err
	}
	if len(resp.SchoolList) == 0 || len(resp.SchoolList[0].RankHistory) == 0 {
		return 0, fmt.Errorf("no ranked schools nearby: %w", domain.ErrNoData)
	}

	score := resp.SchoolList[0].RankHistory[0].RankScore
	if score <= 0 {
		return 0, fmt.Errorf("school has no rank score: %w", domain.ErrNoData)
	}
	return normalizeScore(score), nil
}

// normalizeScore maps SchoolDigger's star (0–5) or percentile (0–100)
// scores onto 1–10.
func normalizeScore(score float64) int {
	switch {
	case score <= 5:
		score = score / 5 * 10
	case score <= 100:
		score = score / 100 * 10
	}
	return int(math.Round(score))
}

// SchoolDigger API response types.

type response struct {
	NumberOfSchools int      `json:"numberOfSchools"`
	SchoolList      []school `json:"schoolList"`
}

type school struct {
	SchoolName  string `json:"schoolName"`
	RankHistory []struct {
		Year      int     `json:"year"`
		RankScore float64 `json:"rankScore"`
	} `json:"rankHistory"`
}
