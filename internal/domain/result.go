package domain

// StepKind classifies a breakdown entry.
type StepKind string

const (
	StepComps      StepKind = "comps"      // comp median blended into the PPSF
	StepBase       StepKind = "base"       // PPSF × living area
	StepAdjustment StepKind = "adjustment" // one multiplicative factor
	StepBand       StepKind = "band"       // confidence band width
)

// Step is one entry in the computation trace. For adjustments, Factor is the
// multiplier and Value the running value after applying it. For the comps step
// Value is the blended PPSF; for the band step DeltaPct is the half-width.
type Step struct {
	Kind     StepKind `json:"kind"`
	Name     string   `json:"name"`
	Detail   string   `json:"detail,omitempty"`
	Factor   float64  `json:"factor,omitempty"`
	DeltaPct float64  `json:"deltaPct"`
	Value    float64  `json:"value"`
}

// ValuationResult is the engine output. Steps is ordered by application.
type ValuationResult struct {
	Estimate  float64 `json:"estimate"`
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
	PPSFUsed  float64 `json:"ppsfUsed"`
	BasePPSF  float64 `json:"basePpsf"`
	ZipPrefix string  `json:"zipPrefix,omitempty"`
	Band      float64 `json:"band"`
	CompCount int     `json:"compCount"`
	Steps     []Step  `json:"steps"`
}

// Breakdown renders the steps as human-readable lines, in order.
func (r ValuationResult) Breakdown() []string {
	out := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.String()
	}
	return out
}

// Adjustments returns only the multiplicative adjustment steps.
func (r ValuationResult) Adjustments() []Step {
	var out []Step
	for _, s := range r.Steps {
		if s.Kind == StepAdjustment {
			out = append(out, s)
		}
	}
	return out
}
