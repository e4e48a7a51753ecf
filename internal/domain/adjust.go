package domain

import (
	"fmt"
	"math"
	"strings"
)

// conditionFactor maps the 1–5 condition score to a multiplier.
var conditionFactor = map[int]float64{
	1: 0.85,
	2: 0.93,
	3: 1.00,
	4: 1.06,
	5: 1.12,
}

// viewPremium is the fractional premium per view type.
var viewPremium = map[View]float64{
	ViewNone:     0,
	ViewCity:     0.03,
	ViewMountain: 0.04,
	ViewWater:    0.08,
}

// trendDelta is the fractional short-term market adjustment.
var trendDelta = map[MarketTrend]float64{
	TrendDeclining: -0.02,
	TrendFlat:      0,
	TrendRising:    0.02,
}

// Renovation premiums, summed without re-clamping.
const (
	premiumKitchen = 0.05
	premiumBath    = 0.04
	premiumRoof    = 0.02
	premiumHVAC    = 0.015
	premiumWindows = 0.01
)

const (
	maxAge          = 120
	maxDepreciation = 80 // years; older homes depreciate no further
	modernizedBonus = 0.03
)

// adjustment computes one multiplicative factor. ok is false when the input
// it depends on is absent; a factor of exactly 1 is dropped by the caller.
type adjustment struct {
	name   string
	factor func(in PropertyInput, year int) (f float64, detail string, ok bool)
}

// adjustments run in this order. The order is part of the breakdown contract.
var adjustments = []adjustment{
	{"Bedrooms/bathrooms", bedBathFactor},
	{"Condition", conditionAdjustment},
	{"Age", ageFactor},
	{"Renovations", renovationFactor},
	{"View", viewFactor},
	{"Lot size", lotFactor},
	{"Garage", garageFactor},
	{"School quality", schoolFactor},
	{"Market trend", trendFactor},
}

func bedBathFactor(in PropertyInput, _ int) (float64, string, bool) {
	if in.Beds == nil && in.Baths == nil {
		return 1, "", false
	}
	beds, baths := value(in.Beds), value(in.Baths)
	bedAdj := clamp(positive(float64(beds-2))*0.01, 0, 0.03)
	bathAdj := clamp(positive(float64(baths-1))*0.015, 0, 0.045)
	return 1 + bedAdj + bathAdj, fmt.Sprintf("%d bd / %d ba", beds, baths), true
}

func conditionAdjustment(in PropertyInput, _ int) (float64, string, bool) {
	score := conditionScore(in.Condition)
	return conditionFactor[score], fmt.Sprintf("%d/5", score), true
}

func ageFactor(in PropertyInput, year int) (float64, string, bool) {
	if !present(in.YearBuilt) {
		return 1, "", false
	}
	age := clampInt(year-*in.YearBuilt, 0, maxAge)
	f := 1 - float64(min(age, maxDepreciation))*0.001
	detail := fmt.Sprintf("built %d, %d yrs", *in.YearBuilt, age)
	if in.Renovations.Kitchen || in.Renovations.Bath {
		f += modernizedBonus
		detail += ", modernized"
	}
	return f, detail, true
}

func renovationFactor(in PropertyInput, _ int) (float64, string, bool) {
	var sum float64
	var names []string
	r := in.Renovations
	for _, p := range []struct {
		set   bool
		name  string
		value float64
	}{
		{r.Kitchen, "kitchen", premiumKitchen},
		{r.Bath, "bath", premiumBath},
		{r.Roof, "roof", premiumRoof},
		{r.HVAC, "hvac", premiumHVAC},
		{r.Windows, "windows", premiumWindows},
	} {
		if p.set {
			sum += p.value
			names = append(names, p.name)
		}
	}
	if sum <= 0 {
		return 1, "", false
	}
	return 1 + sum, strings.Join(names, ", "), true
}

func viewFactor(in PropertyInput, _ int) (float64, string, bool) {
	v := normalizeView(in.View)
	p := viewPremium[v]
	if p <= 0 {
		return 1, "", false
	}
	return 1 + p, string(v), true
}

func lotFactor(in PropertyInput, _ int) (float64, string, bool) {
	if !present(in.LotSqft) || in.Sqft <= 0 {
		return 1, "", false
	}
	ratio := float64(*in.LotSqft) / float64(in.Sqft)
	p := clamp(ratio/5-0.1, -0.05, 0.10)
	return 1 + p, fmt.Sprintf("lot/living %.2f", ratio), true
}

func garageFactor(in PropertyInput, _ int) (float64, string, bool) {
	if !present(in.GarageSpots) {
		return 1, "", false
	}
	g := clamp(float64(*in.GarageSpots)*0.01, 0, 0.03)
	return 1 + g, fmt.Sprintf("%d spots", *in.GarageSpots), true
}

func schoolFactor(in PropertyInput, _ int) (float64, string, bool) {
	if !present(in.SchoolRating) {
		return 1, "", false
	}
	rating := clampInt(*in.SchoolRating, 1, 10)
	s := clamp(float64(rating-5)*0.01, -0.04, 0.05)
	return 1 + s, fmt.Sprintf("%d/10", rating), true
}

func trendFactor(in PropertyInput, _ int) (float64, string, bool) {
	t := normalizeTrend(in.MarketTrend)
	d := trendDelta[t]
	if d == 0 {
		return 1, "", false
	}
	return 1 + d, string(t), true
}

func clamp(n, lo, hi float64) float64 {
	if math.IsNaN(n) {
		return lo
	}
	return math.Max(lo, math.Min(hi, n))
}

func clampInt(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

func positive(n float64) float64 {
	return math.Max(0, n)
}
