package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/aadnk/ZapTechCostCalculator/internal/config"
	"github.com/aadnk/ZapTechCostCalculator/internal/cost"
	"github.com/aadnk/ZapTechCostCalculator/internal/model"
	"github.com/aadnk/ZapTechCostCalculator/internal/prices"
	"github.com/aadnk/ZapTechCostCalculator/internal/zaptec"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "costs":
		cmdCosts(os.Args[2:])
	case "prices":
		cmdPrices(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli costs --from 2023-09-01 --to 2023-10-01 [--area NO2] [--out costs.csv]")
	fmt.Println("  cli prices --date 2023-09-15 --area NO2")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - costs reconciles Zaptec charging sessions against hourly spot prices")
	fmt.Println("    and writes one CSV row per energy sample (stdout unless --out)")
	fmt.Println("  - prices prints the cached/fetched UTC-day price window for one day")
	fmt.Println("  - credentials come from ZAPTEC_USERNAME/ZAPTEC_PASSWORD, the config")
	fmt.Println("    file, or --username/--password")
}

func cmdCosts(args []string) {
	fs := flag.NewFlagSet("costs", flag.ExitOnError)
	fromStr := fs.String("from", "", "Start date (inclusive), YYYY-MM-DD")
	toStr := fs.String("to", "", "End date (exclusive), YYYY-MM-DD")
	outPath := fs.String("out", "", "Output CSV path (default: stdout)")
	cfgPath := fs.String("config", config.DefaultPath, "Path to YAML config")
	areaStr := fs.String("area", "", "Price area NO1..NO5 (default: config)")
	username := fs.String("username", "", "Zaptec username (overrides config/env)")
	password := fs.String("password", "", "Zaptec password (overrides config/env)")
	lowFee := fs.Float64("low-fee", 0, "Night/weekend net usage fee, NOK/kWh (default: config)")
	highFee := fs.Float64("high-fee", 0, "Daytime net usage fee, NOK/kWh (default: config)")
	_ = fs.Parse(args)

	if *fromStr == "" || *toStr == "" {
		fmt.Println("--from and --to are required")
		os.Exit(2)
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

	area := cfg.Area()
	if *areaStr != "" {
		area, err = model.ParseArea(*areaStr)
		if err != nil {
			log.Fatalf("Invalid --area: %v", err)
		}
	}
	rates := cfg.Tariff.ToRates()
	if *lowFee != 0 {
		rates.Low = *lowFee
	}
	if *highFee != 0 {
		rates.High = *highFee
	}

	creds, err := cfg.ResolveCredentials(*username, *password)
	if err != nil {
		log.Fatalf("%v", err)
	}

	client := zaptec.NewClient(cfg.ZaptecAPIURL)
	token, err := client.Authenticate(creds.Username, creds.Password)
	if err != nil {
		log.Fatalf("Zaptec authentication failed: %v", err)
	}
	sessions, err := client.AllSessions(token, from, to)
	if err != nil {
		log.Fatalf("Failed to fetch charging sessions: %v", err)
	}

	window, err := buildWindow(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	pipeline, err := cost.NewPipeline(window, area, rates)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		if dir := filepath.Dir(*outPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("Failed to create output directory: %v", err)
			}
		}
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	n, err := cost.WriteCSV(out, pipeline.Run(model.Flatten(sessions)))
	if err != nil {
		log.Fatalf("Reconciliation failed after %d rows: %v", n, err)
	}
	if *outPath != "" {
		fmt.Printf("Wrote %d rows to %s\n", n, *outPath)
	}
}

func cmdPrices(args []string) {
	fs := flag.NewFlagSet("prices", flag.ExitOnError)
	dateStr := fs.String("date", "", "UTC day, YYYY-MM-DD")
	areaStr := fs.String("area", "", "Price area NO1..NO5 (default: config)")
	cfgPath := fs.String("config", config.DefaultPath, "Path to YAML config")
	_ = fs.Parse(args)

	if *dateStr == "" {
		fmt.Println("--date is required")
		os.Exit(2)
	}
	date, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		log.Fatalf("Invalid --date: %v", err)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	area := cfg.Area()
	if *areaStr != "" {
		area, err = model.ParseArea(*areaStr)
		if err != nil {
			log.Fatalf("Invalid --area: %v", err)
		}
	}

	window, err := buildWindow(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	intervals, err := window.Get(date, area)
	if err != nil {
		log.Fatalf("Failed to fetch prices: %v", err)
	}

	fmt.Printf("%s (%s), %d intervals:\n", area.Code(), area.Label(), len(intervals))
	fmt.Printf("%-22s %-22s %12s %12s %10s\n", "start (UTC)", "end (UTC)", "NOK/kWh", "EUR/kWh", "EXR")
	for _, iv := range intervals {
		fmt.Printf("%-22s %-22s %12.5f %12.5f %10.4f\n",
			iv.Start.Format(time.RFC3339),
			iv.End.Format(time.RFC3339),
			iv.NOKPerKWh,
			iv.EURPerKWh,
			iv.ExchangeRate,
		)
	}
}

func buildWindow(cfg *config.Config) (*prices.UTCWindow, error) {
	client := prices.NewClient(cfg.PriceAPIURL)
	store := prices.NewFileStore(cfg.CacheDir)
	return prices.NewUTCWindow(prices.NewDayCache(client, store))
}
