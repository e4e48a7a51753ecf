package domain

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCurrency renders whole dollars with thousands separators, e.g. "$1,022,624".
func FormatCurrency(v float64) string {
	p := message.NewPrinter(language.English)
	sign := ""
	if v = math.Round(v); v < 0 {
		sign, v = "-", -v
	}
	// Beyond int64 the integer conversion would wrap.
	if v >= math.MaxInt64 {
		return p.Sprintf("%s$%.0f", sign, v)
	}
	return p.Sprintf("%s$%d", sign, int64(v))
}

func formatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// String renders the step for display.
func (s Step) String() string {
	name := s.Name
	if s.Detail != "" {
		name = fmt.Sprintf("%s (%s)", s.Name, s.Detail)
	}
	switch s.Kind {
	case StepComps:
		return fmt.Sprintf("%s: %+.1f%% → %s/sqft", name, s.DeltaPct, FormatCurrency(s.Value))
	case StepBase:
		return fmt.Sprintf("%s: %s", name, FormatCurrency(s.Value))
	case StepBand:
		return fmt.Sprintf("%s: ±%.1f%%", name, s.DeltaPct)
	default:
		return fmt.Sprintf("%s: %+.1f%% → %s", name, s.DeltaPct, FormatCurrency(s.Value))
	}
}

// FormatBreakdown joins rendered steps one per line.
func FormatBreakdown(r ValuationResult) string {
	return strings.Join(r.Breakdown(), "\n")
}
