package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze the valuation year via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by Estimate and event stamping. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// CurrentYear returns the calendar year of the package clock in UTC.
func CurrentYear() int {
	return clock.Now().UTC().Year()
}
