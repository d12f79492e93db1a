package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/config"
	"github.com/aadnk/ZapTechCostCalculator/internal/model"
	"github.com/aadnk/ZapTechCostCalculator/internal/prices"
)

// Prefetch warms the durable price cache for a date range so later
// reconciliation runs work without touching the network.
func main() {
	var (
		fromStr = flag.String("from", "", "Start date (inclusive), YYYY-MM-DD")
		toStr   = flag.String("to", "", "End date (exclusive), YYYY-MM-DD")
		areaStr = flag.String("area", "", "Price area NO1..NO5 (default: all areas)")
		cfgPath = flag.String("config", config.DefaultPath, "Path to YAML config")
	)
	flag.Parse()

	if *fromStr == "" || *toStr == "" {
		log.Fatal("--from and --to are required")
	}
	from, err := time.Parse("2006-01-02", *fromStr)
	if err != nil {
		log.Fatalf("Invalid --from date: %v", err)
	}
	to, err := time.Parse("2006-01-02", *toStr)
	if err != nil {
		log.Fatalf("Invalid --to date: %v", err)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	areas := model.Areas()
	if *areaStr != "" {
		area, err := model.ParseArea(*areaStr)
		if err != nil {
			log.Fatalf("Invalid --area: %v", err)
		}
		areas = []model.PriceArea{area}
	}

	cache := prices.NewDayCache(prices.NewClient(cfg.PriceAPIURL), prices.NewFileStore(cfg.CacheDir))

	days := 0
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		for _, area := range areas {
			key := prices.KeyFor(day, area)
			if _, err := cache.Get(key); err != nil {
				log.Fatalf("Failed to fetch %s: %v", key, err)
			}
		}
		days++
	}

	fmt.Printf("Cached %d days x %d areas under %s\n", days, len(areas), cfg.CacheDir)
}
