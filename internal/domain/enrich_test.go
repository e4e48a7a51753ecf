package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich_FillsAbsentFields(t *testing.T) {
	in := PropertyInput{Address: testNoZipAddress}
	e := Enrichment{
		Location: &Location{Lat: 47.62, Lng: -122.35, Zipcode: "98109"},
		Record:   &PropertyRecord{Sqft: 1800, LotSqft: 6000, YearBuilt: 1995},
		School:   8,
		Comps:    []Comp{{Price: 900000, Sqft: 1500}},
	}

	out, filled := Enrich(in, e)

	assert.Equal(t, "98109", out.Zipcode)
	assert.Equal(t, 1800, out.Sqft)
	require.NotNil(t, out.LotSqft)
	assert.Equal(t, 6000, *out.LotSqft)
	require.NotNil(t, out.YearBuilt)
	assert.Equal(t, 1995, *out.YearBuilt)
	require.NotNil(t, out.SchoolRating)
	assert.Equal(t, 8, *out.SchoolRating)
	assert.Len(t, out.Comps, 1)

	assert.Equal(t, Filled{
		"zipcode":      SourceGeocoder,
		"sqft":         SourceRecords,
		"lotSqft":      SourceRecords,
		"yearBuilt":    SourceRecords,
		"schoolRating": SourceSchools,
		"comps":        SourceComps,
	}, filled)

	// The caller's input is untouched.
	assert.Zero(t, in.Sqft)
	assert.Nil(t, in.LotSqft)
	assert.Empty(t, in.Zipcode)
}

func TestEnrich_CallerValuesWin(t *testing.T) {
	in := PropertyInput{
		Address:      testSeattleAddr,
		Zipcode:      "98101",
		Sqft:         2000,
		LotSqft:      Int(4000),
		YearBuilt:    Int(2010),
		SchoolRating: Int(6),
		Comps:        []Comp{{Price: 1, Sqft: 1}},
	}
	e := Enrichment{
		Location: &Location{Zipcode: "98004"},
		Record:   &PropertyRecord{Sqft: 1800, LotSqft: 6000, YearBuilt: 1995},
		School:   9,
		Comps:    []Comp{{Price: 900000, Sqft: 1500}, {Price: 800000, Sqft: 1400}},
	}

	out, filled := Enrich(in, e)

	assert.Equal(t, in, out)
	assert.Empty(t, filled)
}

func TestEnrich_NothingAvailable(t *testing.T) {
	in := PropertyInput{Address: testSeattleAddr, Sqft: 1200}
	out, filled := Enrich(in, Enrichment{})
	assert.Equal(t, in, out)
	assert.Empty(t, filled)
}

func TestEnrich_ClampsSchoolRating(t *testing.T) {
	out, _ := Enrich(PropertyInput{}, Enrichment{School: 12})
	require.NotNil(t, out.SchoolRating)
	assert.Equal(t, 10, *out.SchoolRating)
}

func TestNewEstimateEvent(t *testing.T) {
	now := time.Date(2025, 8, 14, 17, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	in := seattleHome()
	r := EstimateAsOf(in, testYear)
	loc := &Location{FormattedAddress: testSeattleAddr}

	evt := NewEstimateEvent(in, r, loc, Filled{"comps": SourceComps})

	assert.Len(t, evt.ID, 36)
	assert.Equal(t, now, evt.CreatedAt)
	assert.Equal(t, r, evt.Result)
	assert.Equal(t, loc, evt.Location)
	assert.NotEqual(t, evt.ID, NewEstimateEvent(in, r, loc, nil).ID)
}
