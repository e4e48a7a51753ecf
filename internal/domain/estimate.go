package domain

import (
	"fmt"
	"math"
)

// Estimate values the property as of the current year on the package clock.
func Estimate(in PropertyInput) ValuationResult {
	return EstimateAsOf(in, CurrentYear())
}

// EstimateAsOf values the property with ages measured against year. It never
// fails: missing inputs skip their adjustment and sqft <= 0 yields a zero
// estimate. The input is not modified.
func EstimateAsOf(in PropertyInput, year int) ValuationResult {
	prefix := ZipPrefix(in.Zipcode, in.Address)
	base := BaselinePPSF(prefix)
	ppsf := base

	steps := make([]Step, 0, len(adjustments)+3)

	median, compCount := MedianPPSF(in.Comps)
	if compCount > 0 {
		ppsf = blendPPSF(base, median)
		steps = append(steps, Step{
			Kind:     StepComps,
			Name:     "Comparable sales",
			Detail:   fmt.Sprintf("%s, median %s/sqft", plural(compCount, "comp"), FormatCurrency(median)),
			DeltaPct: pct(ppsf/base - 1),
			Value:    ppsf,
		})
	}

	sqft := max(in.Sqft, 0)
	v := ppsf * float64(sqft)
	steps = append(steps, Step{
		Kind:   StepBase,
		Name:   "Base value",
		Detail: baseDetail(ppsf, sqft, prefix),
		Factor: 1,
		Value:  v,
	})

	for _, a := range adjustments {
		f, detail, ok := a.factor(in, year)
		if !ok || f == 1 {
			continue
		}
		v *= f
		steps = append(steps, Step{
			Kind:     StepAdjustment,
			Name:     a.name,
			Detail:   detail,
			Factor:   f,
			DeltaPct: pct(f - 1),
			Value:    v,
		})
	}

	v = math.Max(0, v)
	fields := fieldsProvided(in)
	band := confidenceBand(fields, compCount > 0)
	estimate := math.Round(v)
	steps = append(steps, Step{
		Kind:     StepBand,
		Name:     "Confidence band",
		Detail:   bandDetail(fields, compCount > 0),
		DeltaPct: pct(band),
		Value:    estimate,
	})

	return ValuationResult{
		Estimate:  estimate,
		Low:       math.Round(v * (1 - band)),
		High:      math.Round(v * (1 + band)),
		PPSFUsed:  math.Round(ppsf*100) / 100,
		BasePPSF:  base,
		ZipPrefix: prefix,
		Band:      band,
		CompCount: compCount,
		Steps:     steps,
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func pct(f float64) float64 {
	return f * 100
}

func baseDetail(ppsf float64, sqft int, prefix string) string {
	area := fmt.Sprintf("%s/sqft × %s sqft", FormatCurrency(ppsf), formatCount(sqft))
	if prefix == "" {
		return area + ", default region"
	}
	return area + ", ZIP3 " + prefix
}

func bandDetail(fields int, hasComps bool) string {
	s := fmt.Sprintf("%d of %d fields", fields, bandFieldCount)
	if hasComps {
		s += ", comps"
	}
	return s
}
