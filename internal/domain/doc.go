// Package domain models residential property valuation.
//
// # Valuation Model
//
// An estimate starts from a regional baseline price per square foot (PPSF)
// keyed by the first three digits of the property's ZIP code:
//
//	"400 Broad St, Seattle, WA 98109"  →  ZIP3 "981"  →  $520/sqft
//
// ZIP3 prefixes missing from the table, and addresses without a standalone
// five-digit token, fall back to the wildcard entry "*". Coverage is
// Washington State only; everything else is priced at the wildcard.
//
// When comparable sales are supplied, the median comp PPSF is blended 50/50
// with the baseline. Comps never fully replace the baseline.
//
// The base value (PPSF × living area) is then multiplied by a fixed sequence
// of adjustment factors:
//
//	bed/bath → condition → age → renovations → view → lot → garage → school → market trend
//
// An adjustment is skipped when its input is absent or its factor is exactly
// 1. Every applied factor produces one [Step] in the result's breakdown, in
// application order, so the trace can be replayed to reproduce the estimate.
//
// # Confidence Band
//
// The low/high range is a symmetric percentage band around the estimate. It
// starts at 8%, narrows by up to 3 points as more of the seven core fields are
// supplied (address, sqft, beds, baths, condition, year built, lot size), and
// by 2 more points when comps are present. It is always clamped to [3%, 10%].
//
// # Determinism
//
// [EstimateAsOf] is a pure function of its input and the valuation year.
// [Estimate] reads the year from the package clock, which tests freeze via
// [SetClock].
package domain
