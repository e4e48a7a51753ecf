package domain

import "strings"

// View is the dominant outlook from the property.
type View string

const (
	ViewNone     View = "none"
	ViewCity     View = "city"
	ViewMountain View = "mountain"
	ViewWater    View = "water"
)

// MarketTrend is the caller's read on short-term local price movement.
type MarketTrend string

const (
	TrendDeclining MarketTrend = "declining"
	TrendFlat      MarketTrend = "flat"
	TrendRising    MarketTrend = "rising"
)

// Renovations flags recent upgrades. Absent flags are false.
type Renovations struct {
	Kitchen bool `json:"kitchen,omitempty"`
	Bath    bool `json:"bath,omitempty"`
	Roof    bool `json:"roof,omitempty"`
	HVAC    bool `json:"hvac,omitempty"`
	Windows bool `json:"windows,omitempty"`
}

// Comp is a comparable sale. Only Price and Sqft affect valuation; the other
// fields are carried through from the sales provider for display.
type Comp struct {
	Price         float64 `json:"price"`
	Sqft          float64 `json:"sqft"`
	ClosingDate   string  `json:"closingDate,omitempty"`
	DistanceMiles float64 `json:"distanceMiles,omitempty"`
}

// PPSF returns the comp's implied price per square foot, or false when the
// sale is unusable (non-positive price or area).
func (c Comp) PPSF() (float64, bool) {
	if c.Price <= 0 || c.Sqft <= 0 {
		return 0, false
	}
	return c.Price / c.Sqft, true
}

// PropertyInput describes the subject property. Optional numeric fields are
// pointers; nil means "not supplied" and skips the matching adjustment.
type PropertyInput struct {
	Address      string      `json:"address"`
	Zipcode      string      `json:"zipcode,omitempty"`
	Sqft         int         `json:"sqft"`
	LotSqft      *int        `json:"lotSqft,omitempty"`
	Beds         *int        `json:"beds,omitempty"`
	Baths        *int        `json:"baths,omitempty"`
	YearBuilt    *int        `json:"yearBuilt,omitempty"`
	GarageSpots  *int        `json:"garageSpots,omitempty"`
	SchoolRating *int        `json:"schoolRating,omitempty"`
	Condition    *int        `json:"condition,omitempty"`
	View         View        `json:"view,omitempty"`
	MarketTrend  MarketTrend `json:"marketTrend,omitempty"`
	Renovations  Renovations `json:"renovations,omitempty"`
	Comps        []Comp      `json:"comps,omitempty"`
}

// Int returns a pointer to v, for building PropertyInput literals.
func Int(v int) *int { return &v }

// present reports whether an optional field was supplied with a positive value.
func present(p *int) bool {
	return p != nil && *p > 0
}

// value dereferences an optional field, treating nil as 0.
func value(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// normalizeView maps unknown or empty views to ViewNone.
func normalizeView(v View) View {
	switch View(strings.ToLower(strings.TrimSpace(string(v)))) {
	case ViewCity:
		return ViewCity
	case ViewMountain:
		return ViewMountain
	case ViewWater:
		return ViewWater
	default:
		return ViewNone
	}
}

// normalizeTrend maps unknown or empty trends to TrendFlat.
func normalizeTrend(t MarketTrend) MarketTrend {
	switch MarketTrend(strings.ToLower(strings.TrimSpace(string(t)))) {
	case TrendDeclining:
		return TrendDeclining
	case TrendRising:
		return TrendRising
	default:
		return TrendFlat
	}
}

// conditionScore returns the 1–5 condition, defaulting to 3 when unset.
func conditionScore(p *int) int {
	if p == nil || *p == 0 {
		return 3
	}
	return clampInt(*p, 1, 5)
}
