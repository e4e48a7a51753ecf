package domain

import (
	"regexp"
	"strings"
)

// WildcardPrefix is the baseline key used when no ZIP3 prefix matches.
const WildcardPrefix = "*"

// baselinePPSF holds conservative mid-2025 Washington $/sqft by ZIP3 prefix.
// Read-only after init.
var baselinePPSF = map[string]float64{
	"980": 430, // Eastside: Bellevue, Kirkland, Redmond, Issaquah, Renton
	"981": 520, // Seattle core and close-in
	"982": 310, // Snohomish, Skagit, Whatcom
	"983": 280, // Kitsap, Olympic Peninsula
	"984": 265, // Tacoma
	"985": 225, // Thurston, Grays Harbor, Pacific
	"986": 260, // Vancouver, Clark County
	"988": 245, // Chelan, Wenatchee, Leavenworth
	"989": 220, // Yakima, Ellensburg
	"990": 235, // Spokane
	"991": 210, // NE Washington, rural
	"992": 230, // Spokane
	"993": 235, // Tri-Cities

	WildcardPrefix: 260,
}

// zip5Re matches the first standalone five-digit token, e.g. "WA 98101".
var zip5Re = regexp.MustCompile(`\b(\d{5})\b`)

// BaselinePPSF returns the regional price per square foot for a ZIP3 prefix.
// Unknown and empty prefixes silently fall back to the wildcard entry.
func BaselinePPSF(prefix string) float64 {
	if v, ok := baselinePPSF[prefix]; ok && prefix != "" {
		return v
	}
	return baselinePPSF[WildcardPrefix]
}

// ZipPrefix derives the ZIP3 prefix for baseline lookup. An explicit zipcode
// wins when it starts with five digits; otherwise the first standalone
// five-digit token in the address is used. Returns "" when neither yields one.
func ZipPrefix(zipcode, address string) string {
	if z := strings.TrimSpace(zipcode); len(z) >= 5 && isDigits(z[:5]) {
		return z[:3]
	}
	m := zip5Re.FindStringSubmatch(address)
	if m == nil {
		return ""
	}
	return m[1][:3]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
