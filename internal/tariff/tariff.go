// Package tariff implements the grid operator's net-usage fee schedule:
// a lower rate at night and on weekends, a higher rate on weekday daytime.
package tariff

import "time"

// Default net-usage fees in NOK/kWh.
const (
	DefaultLowRate  = 0.2259
	DefaultHighRate = 0.3059
)

// Daytime window [06:00, 22:00), in minutes since midnight.
const (
	dayStartMins = 6 * 60
	dayEndMins   = 22 * 60
)

// Rates holds the two net-usage fee levels in NOK/kWh.
type Rates struct {
	Low  float64 // nights and weekends
	High float64 // weekday daytime
}

func DefaultRates() Rates {
	return Rates{Low: DefaultLowRate, High: DefaultHighRate}
}

// RateAt returns the fee rate applicable at the wall-clock time t. The rule
// is defined in local billing time: callers must convert the sample's UTC
// instant to the billing zone first.
//
// Saturday, Sunday, and any time outside [06:00, 22:00) get the low rate;
// 06:00:00 itself is daytime, 22:00:00 is not.
func (r Rates) RateAt(t time.Time) float64 {
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return r.Low
	}
	mins := t.Hour()*60 + t.Minute()
	if inWindow(mins, dayStartMins, dayEndMins) {
		return r.High
	}
	return r.Low
}

// inWindow checks whether tMins is in [start, end) on a 24h clock.
// If start == end, the window is empty (always false).
// If start > end, it wraps across midnight.
func inWindow(tMins, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return tMins >= start && tMins < end
	}
	return tMins >= start || tMins < end
}
