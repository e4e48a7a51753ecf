package domain

import "slices"

// compWeight is the share of the blended PPSF taken from the comp median.
const compWeight = 0.5

// MedianPPSF returns the median implied PPSF across usable comps and how many
// comps contributed. The input order does not matter. Returns (0, 0) when no
// comp is usable.
func MedianPPSF(comps []Comp) (float64, int) {
	ppsf := make([]float64, 0, len(comps))
	for _, c := range comps {
		if v, ok := c.PPSF(); ok {
			ppsf = append(ppsf, v)
		}
	}
	n := len(ppsf)
	if n == 0 {
		return 0, 0
	}
	slices.Sort(ppsf)
	mid := n / 2
	if n%2 == 0 {
		return (ppsf[mid-1] + ppsf[mid]) / 2, n
	}
	return ppsf[mid], n
}

// blendPPSF mixes the regional baseline with the comp median.
func blendPPSF(baseline, median float64) float64 {
	return (1-compWeight)*baseline + compWeight*median
}
