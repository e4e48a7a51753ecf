package domain

import (
	"regexp"
	"strings"
)

var punctRe = regexp.MustCompile(`[^A-Za-z0-9\s]`)

// suffixes maps USPS street suffixes to their standard abbreviations.
var suffixes = map[string]string{
	"STREET":     "ST",
	"ROAD":       "RD",
	"AVENUE":     "AVE",
	"BOULEVARD":  "BLVD",
	"DRIVE":      "DR",
	"LANE":       "LN",
	"COURT":      "CT",
	"CIRCLE":     "CIR",
	"TERRACE":    "TER",
	"PLACE":      "PL",
	"PARKWAY":    "PKWY",
	"HIGHWAY":    "HWY",
	"NORTH":      "N",
	"SOUTH":      "S",
	"EAST":       "E",
	"WEST":       "W",
	"WASHINGTON": "WA",
}

// CanonicalAddress normalizes a one-line address so spelling variants of the
// same parcel share cache keys: "400 Broad Street, Seattle" and
// "400 BROAD ST SEATTLE" both become "400 BROAD ST SEATTLE".
func CanonicalAddress(address string) string {
	s := strings.ToUpper(strings.TrimSpace(address))
	s = punctRe.ReplaceAllString(s, " ")
	words := strings.Fields(s)
	for i, w := range words {
		if abbr, ok := suffixes[w]; ok {
			words[i] = abbr
		}
	}
	return strings.Join(words, " ")
}
