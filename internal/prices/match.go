package prices

import (
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
)

// Match returns the first interval whose half-open range [Start, End)
// contains t. ok is false when no fetched interval covers the instant —
// a normal outcome (provider gap or instant outside the window) that
// callers handle by skipping the sample.
//
// Linear scan: a day window holds at most ~25 intervals.
func Match(t time.Time, intervals []model.PriceInterval) (model.PriceInterval, bool) {
	for _, iv := range intervals {
		if iv.Contains(t) {
			return iv, true
		}
	}
	return model.PriceInterval{}, false
}
