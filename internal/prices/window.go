package prices

import (
	"fmt"
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
)

// PublishZone is the time zone the provider segments its price days by.
const PublishZone = "Europe/Oslo"

// UTCWindow produces, for a UTC calendar day, the price intervals that
// overlap it, with boundaries rebased to UTC. The provider publishes per
// Oslo calendar day, so a UTC day near the zone's day boundary can straddle
// two publications; the window fetches one or both as needed.
type UTCWindow struct {
	cache *DayCache
	loc   *time.Location
}

func NewUTCWindow(cache *DayCache) (*UTCWindow, error) {
	loc, err := time.LoadLocation(PublishZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", PublishZone, err)
	}
	return &UTCWindow{cache: cache, loc: loc}, nil
}

// Get returns the intervals overlapping the UTC day containing date,
// ordered by start. The union of the result, restricted to the day, has
// no gaps or overlaps as long as the provider's publications are complete.
func (w *UTCWindow) Get(date time.Time, area model.PriceArea) ([]model.PriceInterval, error) {
	y, m, d := date.UTC().Date()
	startUTC := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	// Closing boundary uses the last whole second of the day, matching the
	// provider's inclusive end-of-day convention.
	endUTC := startUTC.Add(24*time.Hour - time.Second)

	localStart := KeyFor(startUTC.In(w.loc), area)
	localEnd := KeyFor(endUTC.In(w.loc), area)

	hours, err := w.cache.Get(localStart)
	if err != nil {
		return nil, err
	}
	if localEnd != localStart {
		tail, err := w.cache.Get(localEnd)
		if err != nil {
			return nil, err
		}
		hours = append(hours[:len(hours):len(hours)], tail...)
	}

	var out []model.PriceInterval
	for _, h := range hours {
		iv := model.IntervalFromHourly(h)
		// Keep intervals that actually overlap the requested UTC day; this
		// also trims the over-fetched parts of the two local publications.
		if iv.End.After(startUTC) && !iv.Start.After(endUTC) {
			out = append(out, iv)
		}
	}
	return out, nil
}
