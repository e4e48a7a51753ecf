package service

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/couchcryptid/home-valuation/internal/domain"
)

const (
	minQueryLen    = 3
	maxSuggestions = 8
)

var waSuffixRe = regexp.MustCompile(`(?i),\s*WA\b`)

// PrefillResponse is the geocoded address and any public record found for it.
type PrefillResponse struct {
	Geo     domain.Location        `json:"geo"`
	Subject *domain.PropertyRecord `json:"subject"`
}

// Prefill geocodes an address and looks up its property record so a form can
// be filled before the caller asks for an estimate. The record is best effort.
func (e *Estimator) Prefill(ctx context.Context, address string) (PrefillResponse, error) {
	address = strings.TrimSpace(address)
	if err := validateAddress(address); err != nil {
		return PrefillResponse{}, err
	}
	if e.providers.Geocoder == nil {
		return PrefillResponse{}, fmt.Errorf("%w: geocoder %w", ErrGeocodeFailed, ErrNotConfigured)
	}

	geo, err := e.geocode(ctx, address)
	if err != nil {
		return PrefillResponse{}, err
	}

	resp := PrefillResponse{Geo: geo}
	if e.providers.Records != nil {
		ctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		rec, err := e.providers.Records.LookupProperty(ctx, geo.FormattedAddress)
		if e.ok(err, domain.SourceRecords) {
			resp.Subject = &rec
		}
	}
	return resp, nil
}

// Suggest returns address completions for a partial query, Washington
// addresses first. Queries shorter than three characters return nothing.
func (e *Estimator) Suggest(ctx context.Context, query string) ([]domain.Prediction, error) {
	if e.providers.Places == nil {
		return nil, fmt.Errorf("autocomplete: %w", ErrNotConfigured)
	}
	query = strings.TrimSpace(query)
	if len(query) < minQueryLen {
		return []domain.Prediction{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	preds, err := e.providers.Places.Autocomplete(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w", err)
	}
	return rankPredictions(preds), nil
}

// rankPredictions stably moves Washington predictions ahead of the rest and
// truncates to maxSuggestions.
func rankPredictions(preds []domain.Prediction) []domain.Prediction {
	out := slices.Clone(preds)
	slices.SortStableFunc(out, func(a, b domain.Prediction) int {
		return waRank(a) - waRank(b)
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	if out == nil {
		out = []domain.Prediction{}
	}
	return out
}

func waRank(p domain.Prediction) int {
	if waSuffixRe.MatchString(p.Description) {
		return 0
	}
	return 1
}
