package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0", FormatCurrency(0))
	assert.Equal(t, "$520", FormatCurrency(520))
	assert.Equal(t, "$936,000", FormatCurrency(936000))
	assert.Equal(t, "$1,023,680", FormatCurrency(1023679.8))
	assert.Equal(t, "-$1,500", FormatCurrency(-1500))
	assert.Equal(t, "$0", FormatCurrency(-0.4))
}

func TestFormatCurrency_BeyondInt64(t *testing.T) {
	huge := FormatCurrency(1e20)
	assert.True(t, strings.HasPrefix(huge, "$"), huge)
	assert.NotContains(t, huge, "-")

	neg := FormatCurrency(-1e20)
	assert.True(t, strings.HasPrefix(neg, "-$"), neg)
	assert.NotContains(t, neg[1:], "-")
}

func TestBreakdown_HugeSqftStaysPositive(t *testing.T) {
	r := EstimateAsOf(PropertyInput{Address: testSeattleAddr, Sqft: 1 << 62}, testYear)

	for _, line := range r.Breakdown() {
		assert.NotContains(t, line, "$-", line)
		assert.NotContains(t, line, "-$", line)
	}
}

func TestBreakdown(t *testing.T) {
	in := PropertyInput{Address: testSeattleAddr, Sqft: 1000, Condition: Int(5)}
	r := EstimateAsOf(in, testYear)

	lines := r.Breakdown()
	require.Len(t, lines, 3)
	assert.Equal(t, "Base value ($520/sqft × 1,000 sqft, ZIP3 981): $520,000", lines[0])
	assert.Equal(t, "Condition (5/5): +12.0% → $582,400", lines[1])
	assert.Equal(t, "Confidence band (3 of 7 fields): ±6.7%", lines[2])

	assert.Equal(t, strings.Join(lines, "\n"), FormatBreakdown(r))
}

func TestBreakdown_NegativeAdjustment(t *testing.T) {
	in := PropertyInput{Address: testSeattleAddr, Sqft: 1000, MarketTrend: TrendDeclining}
	lines := EstimateAsOf(in, testYear).Breakdown()

	require.Len(t, lines, 3)
	assert.Equal(t, "Market trend (declining): -2.0% → $509,600", lines[1])
}

func TestBreakdown_Comps(t *testing.T) {
	in := PropertyInput{
		Address: testSeattleAddr,
		Sqft:    1000,
		Comps:   []Comp{{Price: 600000, Sqft: 1000}},
	}
	lines := EstimateAsOf(in, testYear).Breakdown()

	require.Len(t, lines, 3)
	assert.Equal(t, "Comparable sales (1 comp, median $600/sqft): +7.7% → $560/sqft", lines[0])
	assert.Contains(t, lines[2], ", comps)")
}
