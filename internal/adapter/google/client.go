package google

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/couchcryptid/home-valuation/internal/adapter/upstream"
	"github.com/couchcryptid/home-valuation/internal/domain"
	"github.com/couchcryptid/home-valuation/internal/observability"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	providerGeocode = "google_geocode"
	providerPlaces  = "google_places"

	// Autocomplete bias toward Washington State without hiding other results.
	biasLocation     = "47.5,-120.5"
	biasRadiusMeters = "350000"
)

// Client implements domain.Geocoder and domain.Autocompleter using the
// Google Geocoding and Places Autocomplete APIs.
type Client struct {
	apiKey     string
	httpClient *retryablehttp.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Google Maps Platform client.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: upstream.NewClient(timeout, logger),
		baseURL:    "https://maps.googleapis.com/maps/api",
		metrics:    metrics,
		logger:     logger,
	}
}

// Geocode resolves a free-text address to coordinates, postal code, and county.
// Returns domain.ErrNoData when Google finds no match.
func (c *Client) Geocode(ctx context.Context, address string) (domain.Location, error) {
	start := time.Now()
	loc, err := c.geocode(ctx, address)
	upstream.Observe(c.metrics, providerGeocode, start, upstream.OutcomeOf(err, domain.ErrNoData))
	return loc, err
}

func (c *Client) geocode(ctx context.Context, address string) (domain.Location, error) {
	params := url.Values{
		"address": {address},
		"key":     {c.apiKey},
	}

	var resp geocodeResponse
	if err := upstream.GetJSON(ctx, c.httpClient, providerGeocode, c.baseURL+"/geocode/json?"+params.Encode(), nil, &resp); err != nil {
		return domain.Location{}, err
	}
	if resp.Status == statusZeroResults || (resp.Status == statusOK && len(resp.Results) == 0) {
		return domain.Location{}, fmt.Errorf("address not found: %w", domain.ErrNoData)
	}
	if resp.Status != statusOK {
		return domain.Location{}, fmt.Errorf("google geocode status %s: %s", resp.Status, resp.ErrorMessage)
	}

	r := resp.Results[0]
	return domain.Location{
		Lat:              r.Geometry.Location.Lat,
		Lng:              r.Geometry.Location.Lng,
		FormattedAddress: r.FormattedAddress,
		Zipcode:          r.component("postal_code"),
		County:           r.component("administrative_area_level_2"),
	}, nil
}

// Autocomplete returns US address predictions for a partial query.
func (c *Client) Autocomplete(ctx context.Context, query string) ([]domain.Prediction, error) {
	start := time.Now()
	preds, err := c.autocomplete(ctx, query)
	upstream.Observe(c.metrics, providerPlaces, start, upstream.OutcomeOf(err, nil))
	return preds, err
}

func (c *Client) autocomplete(ctx context.Context, query string) ([]domain.Prediction, error) {
	params := url.Values{
		"input":        {query},
		"key":          {c.apiKey},
		"types":        {"address"},
		"components":   {"country:us"},
		"location":     {biasLocation},
		"radius":       {biasRadiusMeters},
		"strictbounds": {"false"},
	}

	var resp placesResponse
	if err := upstream.GetJSON(ctx, c.httpClient, providerPlaces, c.baseURL+"/place/autocomplete/json?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != statusOK && resp.Status != statusZeroResults {
		return nil, fmt.Errorf("google places status %s: %s", resp.Status, resp.ErrorMessage)
	}

	out := make([]domain.Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, domain.Prediction{Description: p.Description, PlaceID: p.PlaceID})
	}
	return out, nil
}

// Google API response types.

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	Geometry          geometry           `json:"geometry"`
	AddressComponents []addressComponent `json:"address_components"`
}

type geometry struct {
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}

type addressComponent struct {
	LongName string   `json:"long_name"`
	Types    []string `json:"types"`
}

func (r geocodeResult) component(kind string) string {
	for _, c := range r.AddressComponents {
		if slices.Contains(c.Types, kind) {
			return c.LongName
		}
	}
	return ""
}

type placesResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Predictions  []prediction `json:"predictions"`
}

type prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}
