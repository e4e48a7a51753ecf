package domain

// Source names recorded when a provider fills a field.
const (
	SourceGeocoder = "geocoder"
	SourceRecords  = "property_records"
	SourceSchools  = "school_ratings"
	SourceComps    = "comparable_sales"
)

// Enrichment collects best-effort provider results. Nil or zero members mean
// the provider was not configured or failed.
type Enrichment struct {
	Location *Location
	Record   *PropertyRecord
	School   int
	Comps    []Comp
}

// Filled maps an input field name to the provider that supplied it.
type Filled map[string]string

// Enrich returns a copy of in with absent fields filled from e. Caller-supplied
// values always win; the original input is not modified.
func Enrich(in PropertyInput, e Enrichment) (PropertyInput, Filled) {
	out := in
	filled := Filled{}

	if e.Location != nil && ZipPrefix(in.Zipcode, "") == "" && e.Location.Zipcode != "" {
		out.Zipcode = e.Location.Zipcode
		filled["zipcode"] = SourceGeocoder
	}

	if r := e.Record; r != nil {
		if out.Sqft <= 0 && r.Sqft > 0 {
			out.Sqft = r.Sqft
			filled["sqft"] = SourceRecords
		}
		if !present(out.LotSqft) && r.LotSqft > 0 {
			out.LotSqft = Int(r.LotSqft)
			filled["lotSqft"] = SourceRecords
		}
		if !present(out.YearBuilt) && r.YearBuilt > 0 {
			out.YearBuilt = Int(r.YearBuilt)
			filled["yearBuilt"] = SourceRecords
		}
	}

	if !present(out.SchoolRating) && e.School > 0 {
		out.SchoolRating = Int(clampInt(e.School, 1, 10))
		filled["schoolRating"] = SourceSchools
	}

	if len(out.Comps) == 0 && len(e.Comps) > 0 {
		out.Comps = append([]Comp(nil), e.Comps...)
		filled["comps"] = SourceComps
	}

	return out, filled
}
