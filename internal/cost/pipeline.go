package cost

import (
	"fmt"
	"log"
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/model"
	"github.com/aadnk/ZapTechCostCalculator/internal/prices"
	"github.com/aadnk/ZapTechCostCalculator/internal/tariff"
)

// VATRate is the Norwegian VAT applied on top of energy cost and net fee.
const VATRate = 0.25

// Currency of all computed amounts.
const Currency = "NOK"

// Pipeline reconciles charging-session energy samples against spot prices
// and the net-usage tariff, one cost record per sample.
type Pipeline struct {
	Window *prices.UTCWindow
	Area   model.PriceArea
	Rates  tariff.Rates

	loc *time.Location
}

// NewPipeline wires a pipeline for one bidding zone. The tariff clock runs
// in the publication zone (Europe/Oslo), which is also the billing zone.
func NewPipeline(window *prices.UTCWindow, area model.PriceArea, rates tariff.Rates) (*Pipeline, error) {
	if !area.Valid() {
		return nil, fmt.Errorf("invalid price area %v", area)
	}
	loc, err := time.LoadLocation(prices.PublishZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", prices.PublishZone, err)
	}
	return &Pipeline{Window: window, Area: area, Rates: rates, loc: loc}, nil
}

// Run starts a lazy pass over samples. Records are computed on pull, so a
// consumer can stream output before the whole range has been priced. The
// returned stream is single-use; call Run again to reprocess.
func (p *Pipeline) Run(samples []model.EnergySample) *Stream {
	return &Stream{
		p:       p,
		samples: samples,
		windows: make(map[dayKey][]model.PriceInterval),
	}
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

// Stream is a pull iterator over cost records, in the bufio.Scanner style:
//
//	stream := pipeline.Run(samples)
//	for stream.Next() {
//	    use(stream.Record())
//	}
//	if err := stream.Err(); err != nil { ... }
type Stream struct {
	p       *Pipeline
	samples []model.EnergySample
	idx     int

	// windows memoizes UTC-day price windows within the run, keyed on the
	// UTC date directly so repeated samples on one day skip re-derivation.
	windows map[dayKey][]model.PriceInterval

	rec model.CostRecord
	err error
}

// Next advances to the next sample that prices successfully. Samples with
// no covering price interval are logged and skipped; a price fetch failure
// ends the stream with Err set.
func (s *Stream) Next() bool {
	if s.err != nil {
		return false
	}
	for s.idx < len(s.samples) {
		sample := s.samples[s.idx]
		s.idx++

		ts, err := parseTimestamp(sample.Timestamp)
		if err != nil {
			s.err = fmt.Errorf("session %s: bad timestamp %q: %w", sample.SessionID, sample.Timestamp, err)
			return false
		}

		y, m, d := ts.Date()
		key := dayKey{y, m, d}
		intervals, ok := s.windows[key]
		if !ok {
			intervals, err = s.p.Window.Get(ts, s.p.Area)
			if err != nil {
				s.err = err
				return false
			}
			s.windows[key] = intervals
		}

		iv, ok := prices.Match(ts, intervals)
		if !ok {
			log.Printf("[Pipeline] No applicable price for session %s at %s; skipping",
				sample.SessionID, sample.Timestamp)
			continue
		}

		rate := s.p.Rates.RateAt(ts.In(s.p.loc))
		energyCost := sample.EnergyKWh * iv.NOKPerKWh
		netFee := sample.EnergyKWh * rate
		totalExcl := energyCost + netFee

		s.rec = model.CostRecord{
			SessionID:       sample.SessionID,
			Timestamp:       ts,
			EnergyKWh:       sample.EnergyKWh,
			EnergyUnitPrice: iv.NOKPerKWh,
			NetFeeRate:      rate,
			EnergyCost:      energyCost,
			NetUsageFee:     netFee,
			TotalExclVAT:    totalExcl,
			TotalInclVAT:    totalExcl * (1 + VATRate),
			Currency:        Currency,
		}
		return true
	}
	return false
}

// Record returns the record produced by the last successful Next.
func (s *Stream) Record() model.CostRecord {
	return s.rec
}

func (s *Stream) Err() error {
	return s.err
}

// Collect drains the stream into a slice.
func (s *Stream) Collect() ([]model.CostRecord, error) {
	var out []model.CostRecord
	for s.Next() {
		out = append(out, s.Record())
	}
	return out, s.Err()
}

// timestampLayouts covers the forms seen in Zaptec energy details: full
// RFC3339 with offset, and zone-less variants that are UTC by contract.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
