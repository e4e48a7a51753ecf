package domain

import (
	"context"
	"errors"
)

// ErrNoData is returned by providers when the upstream answered but had
// nothing for the query. Callers treat it like any other provider failure.
var ErrNoData = errors.New("no data available")

// Location is a geocoded address.
type Location struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted"`
	Zipcode          string  `json:"zipcode,omitempty"`
	County           string  `json:"county,omitempty"`
}

// PropertyRecord is the public-record subset used to fill missing inputs.
// Zero means unknown.
type PropertyRecord struct {
	Sqft      int `json:"sqft,omitempty"`
	LotSqft   int `json:"lotSqft,omitempty"`
	YearBuilt int `json:"yearBuilt,omitempty"`
}

// Prediction is one address autocomplete suggestion.
type Prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id,omitempty"`
}

// Geocoder resolves a free-text address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Location, error)
}

// PropertyRecords looks up public records by normalized address.
type PropertyRecords interface {
	LookupProperty(ctx context.Context, address string) (PropertyRecord, error)
}

// SchoolRatings returns a 1–10 rating for schools near a coordinate.
type SchoolRatings interface {
	SchoolRating(ctx context.Context, lat, lng float64) (int, error)
}

// CompSales returns recent nearby sales similar in size to sqft (0 = any size).
type CompSales interface {
	ComparableSales(ctx context.Context, lat, lng float64, sqft int) ([]Comp, error)
}

// Autocompleter suggests addresses for a partial query.
type Autocompleter interface {
	Autocomplete(ctx context.Context, query string) ([]Prediction, error)
}
