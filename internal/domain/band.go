package domain

import "strings"

const (
	bandBase       = 0.08
	bandFieldSpan  = 0.03
	bandCompCredit = 0.02
	bandMin        = 0.03
	bandMax        = 0.10
	bandFieldCount = 7
)

// fieldsProvided counts the supplied core fields: address, sqft, beds, baths,
// condition, year built, lot size. Zero values count as absent.
func fieldsProvided(in PropertyInput) int {
	n := 0
	if strings.TrimSpace(in.Address) != "" {
		n++
	}
	if in.Sqft > 0 {
		n++
	}
	for _, p := range []*int{in.Beds, in.Baths, in.Condition, in.YearBuilt, in.LotSqft} {
		if p != nil && *p != 0 {
			n++
		}
	}
	return n
}

// confidenceBand returns the half-width of the low/high range as a fraction.
// More fields and the presence of comps narrow it.
func confidenceBand(fields int, hasComps bool) float64 {
	b := bandBase - float64(fields)/bandFieldCount*bandFieldSpan
	if hasComps {
		b -= bandCompCredit
	}
	return clamp(b, bandMin, bandMax)
}
