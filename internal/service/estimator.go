// Package service orchestrates provider lookups around the valuation engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/home-valuation/internal/domain"
	"github.com/couchcryptid/home-valuation/internal/observability"
	"golang.org/x/sync/errgroup"
)

const minAddressLen = 8

// EventPublisher records completed estimates.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.EstimateEvent) error
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Providers holds the optional data sources. A nil member is skipped.
type Providers struct {
	Geocoder domain.Geocoder
	Records  domain.PropertyRecords
	Schools  domain.SchoolRatings
	Comps    domain.CompSales
	Places   domain.Autocompleter
}

// EstimateRequest is the caller's description of the property.
type EstimateRequest = domain.PropertyInput

// EstimateResponse is the valuation plus the enriched input it was computed from.
type EstimateResponse struct {
	domain.ValuationResult
	Breakdown []string             `json:"breakdown"`
	Input     domain.PropertyInput `json:"input"`
	Location  *domain.Location     `json:"location,omitempty"`
	Sources   domain.Filled        `json:"sources,omitempty"`
}

// Estimator runs the estimate pipeline: validate, geocode, enrich, value, publish.
type Estimator struct {
	providers Providers
	publisher EventPublisher
	checks    []ReadinessCheck
	timeout   time.Duration
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithPublisher publishes an event after each successful estimate.
func WithPublisher(p EventPublisher) Option {
	return func(e *Estimator) { e.publisher = p }
}

// WithReadinessCheck adds a dependency check to CheckReadiness.
func WithReadinessCheck(c ReadinessCheck) Option {
	return func(e *Estimator) { e.checks = append(e.checks, c) }
}

// New creates an Estimator. timeout bounds each provider call.
func New(p Providers, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Estimator {
	e := &Estimator{
		providers: p,
		timeout:   timeout,
		metrics:   metrics,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckReadiness runs every registered dependency check.
func (e *Estimator) CheckReadiness(ctx context.Context) error {
	for _, check := range e.checks {
		if err := check(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Estimate values a property, filling absent inputs from the configured
// providers. Only validation and a failed required geocode are errors;
// every other provider failure leaves its field absent.
func (e *Estimator) Estimate(ctx context.Context, req EstimateRequest) (EstimateResponse, error) {
	start := time.Now()
	resp, err := e.estimate(ctx, req)
	e.metrics.EstimatesTotal.WithLabelValues(outcomeOf(err)).Inc()
	e.metrics.EstimateDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		e.metrics.EstimateValue.Observe(resp.Estimate)
	}
	return resp, err
}

func (e *Estimator) estimate(ctx context.Context, in EstimateRequest) (EstimateResponse, error) {
	in.Address = strings.TrimSpace(in.Address)
	if err := validateAddress(in.Address); err != nil {
		return EstimateResponse{}, err
	}
	if in.Sqft <= 0 && e.providers.Records == nil {
		return EstimateResponse{}, &ValidationError{Field: "sqft", Reason: "must be greater than zero"}
	}

	var loc *domain.Location
	if e.providers.Geocoder != nil {
		l, err := e.geocode(ctx, in.Address)
		if err != nil {
			return EstimateResponse{}, err
		}
		loc = &l
	}

	enrichment := e.enrich(ctx, in, loc)
	enriched, filled := domain.Enrich(in, enrichment)
	if enriched.Sqft <= 0 {
		return EstimateResponse{}, &ValidationError{Field: "sqft", Reason: "must be greater than zero and no property record was found"}
	}

	result := domain.Estimate(enriched)
	e.logger.Info("estimate computed",
		"zip_prefix", result.ZipPrefix,
		"estimate", result.Estimate,
		"band", result.Band,
		"comps", result.CompCount,
		"filled", len(filled),
	)

	if e.publisher != nil {
		e.publish(ctx, domain.NewEstimateEvent(enriched, result, loc, filled))
	}

	return EstimateResponse{
		ValuationResult: result,
		Breakdown:       result.Breakdown(),
		Input:           enriched,
		Location:        loc,
		Sources:         filled,
	}, nil
}

func (e *Estimator) geocode(ctx context.Context, address string) (domain.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	loc, err := e.providers.Geocoder.Geocode(ctx, address)
	if err != nil {
		e.logger.Warn("geocode failed", "error", err)
		return domain.Location{}, fmt.Errorf("%w: %w", ErrGeocodeFailed, err)
	}
	return loc, nil
}

// enrich queries the lookup providers concurrently. Failures are logged and
// leave their member of the Enrichment empty.
func (e *Estimator) enrich(ctx context.Context, in domain.PropertyInput, loc *domain.Location) domain.Enrichment {
	en := domain.Enrichment{Location: loc}
	var g errgroup.Group

	if e.providers.Records != nil && needsRecord(in) {
		address := in.Address
		if loc != nil && loc.FormattedAddress != "" {
			address = loc.FormattedAddress
		}
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			rec, err := e.providers.Records.LookupProperty(ctx, address)
			if e.ok(err, domain.SourceRecords) {
				en.Record = &rec
			}
			return nil
		})
	}

	if loc != nil && e.providers.Schools != nil && in.SchoolRating == nil {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			rating, err := e.providers.Schools.SchoolRating(ctx, loc.Lat, loc.Lng)
			if e.ok(err, domain.SourceSchools) {
				en.School = rating
			}
			return nil
		})
	}

	if loc != nil && e.providers.Comps != nil && len(in.Comps) == 0 {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			comps, err := e.providers.Comps.ComparableSales(ctx, loc.Lat, loc.Lng, in.Sqft)
			if e.ok(err, domain.SourceComps) {
				en.Comps = comps
			}
			return nil
		})
	}

	_ = g.Wait() // lookups never fail the group
	return en
}

// ok logs a provider failure and reports whether the call succeeded.
func (e *Estimator) ok(err error, source string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrNoData):
		e.logger.Debug("provider had no data", "source", source)
	default:
		e.logger.Warn("provider lookup failed", "source", source, "error", err)
	}
	return false
}

func (e *Estimator) publish(ctx context.Context, event domain.EstimateEvent) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("estimate event not published", "id", event.ID, "error", err)
	}
}

func needsRecord(in domain.PropertyInput) bool {
	return in.Sqft <= 0 || in.LotSqft == nil || in.YearBuilt == nil
}

func validateAddress(address string) error {
	if len(address) < minAddressLen {
		return &ValidationError{Field: "address", Reason: fmt.Sprintf("must be at least %d characters", minAddressLen)}
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsValidation(err):
		return "invalid"
	case errors.Is(err, ErrGeocodeFailed):
		return "geocode_failed"
	default:
		return "error"
	}
}
