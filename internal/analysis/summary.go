package analysis

import (
	"sort"
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
)

// SessionSummary is a session-level rollup of cost records, used for
// ranking which sessions cost the most.
type SessionSummary struct {
	SessionID string    `json:"session_id"`
	Samples   int       `json:"samples"`
	FirstUTC  time.Time `json:"first_utc"`
	LastUTC   time.Time `json:"last_utc"`

	EnergyKWh    float64 `json:"energy_kwh"`
	EnergyCost   float64 `json:"energy_cost"`
	NetUsageFee  float64 `json:"net_usage_fee"`
	TotalExclVAT float64 `json:"total_excl_vat"`
	TotalInclVAT float64 `json:"total_incl_vat"`
}

// SummarizeBySession aggregates records per session and sorts descending
// by total cost including VAT.
func SummarizeBySession(records []model.CostRecord) []SessionSummary {
	byID := map[string]*SessionSummary{}
	order := []string{}

	for _, r := range records {
		s, ok := byID[r.SessionID]
		if !ok {
			s = &SessionSummary{SessionID: r.SessionID, FirstUTC: r.Timestamp, LastUTC: r.Timestamp}
			byID[r.SessionID] = s
			order = append(order, r.SessionID)
		}
		s.Samples++
		if r.Timestamp.Before(s.FirstUTC) {
			s.FirstUTC = r.Timestamp
		}
		if r.Timestamp.After(s.LastUTC) {
			s.LastUTC = r.Timestamp
		}
		s.EnergyKWh += r.EnergyKWh
		s.EnergyCost += r.EnergyCost
		s.NetUsageFee += r.NetUsageFee
		s.TotalExclVAT += r.TotalExclVAT
		s.TotalInclVAT += r.TotalInclVAT
	}

	out := make([]SessionSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TotalInclVAT > out[j].TotalInclVAT
	})
	return out
}
