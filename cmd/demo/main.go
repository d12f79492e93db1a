package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/analysis"
	"github.com/aadnk/ZapTechCostCalculator/internal/cost"
	"github.com/aadnk/ZapTechCostCalculator/internal/model"
	"github.com/aadnk/ZapTechCostCalculator/internal/prices"
	"github.com/aadnk/ZapTechCostCalculator/internal/tariff"
)

// Demo:
// - Seed an in-memory price cache with synthetic hourly prices (no network)
// - Run the cost pipeline over a few canned charging sessions
// - Print the per-sample records and the per-session rollup
func main() {
	outCSV := flag.String("out", "", "Optional path to write the records as CSV")
	flag.Parse()

	loc, err := time.LoadLocation(prices.PublishZone)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", prices.PublishZone, err)
	}

	cache := prices.NewDayCache(nil, nil)
	area := model.NO2

	// Two Oslo publication days cover the demo's UTC day.
	seedDay(cache, loc, area, 2023, time.September, 15)
	seedDay(cache, loc, area, 2023, time.September, 16)

	window, err := prices.NewUTCWindow(cache)
	if err != nil {
		log.Fatalf("Failed to set up price window: %v", err)
	}
	pipeline, err := cost.NewPipeline(window, area, tariff.DefaultRates())
	if err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	samples := []model.EnergySample{
		{SessionID: "demo-session-1", Timestamp: "2023-09-15T06:30:00Z", EnergyKWh: 2.4},
		{SessionID: "demo-session-1", Timestamp: "2023-09-15T07:30:00Z", EnergyKWh: 3.1},
		{SessionID: "demo-session-1", Timestamp: "2023-09-15T08:30:00Z", EnergyKWh: 1.7},
		{SessionID: "demo-session-2", Timestamp: "2023-09-15T20:45:00Z", EnergyKWh: 5.2},
		{SessionID: "demo-session-2", Timestamp: "2023-09-15T21:45:00Z", EnergyKWh: 4.8},
	}

	records, err := pipeline.Run(samples).Collect()
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	fmt.Printf("Priced %d samples in %s (%s)\n\n", len(records), area.Code(), area.Label())
	for _, r := range records {
		fmt.Printf("%s %s energy=%.1fkWh price=%.3f fee=%.4f total=%8.4f inclVAT=%8.4f\n",
			r.Timestamp.Format("2006-01-02 15:04"),
			r.SessionID,
			r.EnergyKWh,
			r.EnergyUnitPrice,
			r.NetFeeRate,
			r.TotalExclVAT,
			r.TotalInclVAT,
		)
	}

	fmt.Println("\nPer session:")
	for _, s := range analysis.SummarizeBySession(records) {
		fmt.Printf("%-16s samples=%d energy=%.1fkWh total=%.4f NOK (incl. VAT)\n",
			s.SessionID, s.Samples, s.EnergyKWh, s.TotalInclVAT)
	}

	if *outCSV != "" {
		f, err := os.Create(*outCSV)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *outCSV, err)
		}
		defer f.Close()
		if err := cost.WriteRecordsCSV(f, records); err != nil {
			log.Fatalf("Failed to write CSV: %v", err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}

// seedDay fills one Oslo publication day with 24 synthetic hourly prices.
func seedDay(cache *prices.DayCache, loc *time.Location, area model.PriceArea, y int, m time.Month, d int) {
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	hours := make([]model.HourlyPrice, 24)
	for i := range hours {
		start := midnight.Add(time.Duration(i) * time.Hour)
		// A plausible daily shape: cheap nights, pricier evenings.
		price := 0.80 + 0.40*float64((i+18)%24)/23.0
		hours[i] = model.HourlyPrice{
			NOKPerKWh:    price,
			EURPerKWh:    price / 11.5,
			ExchangeRate: 11.5,
			TimeStart:    start,
			TimeEnd:      start.Add(time.Hour),
		}
	}
	cache.Seed(prices.KeyFor(midnight, area), hours)
}
