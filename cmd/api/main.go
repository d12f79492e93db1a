package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/aadnk/ZapTechCostCalculator/internal/api/handlers"
	"github.com/aadnk/ZapTechCostCalculator/internal/api/middleware"
	"github.com/aadnk/ZapTechCostCalculator/internal/config"
	"github.com/aadnk/ZapTechCostCalculator/internal/prices"
)

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = config.DefaultPath
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// One price cache for the whole server: every request shares the same
	// day-keyed store, so repeated ranges never refetch.
	client := prices.NewClient(cfg.PriceAPIURL)
	store := prices.NewFileStore(cfg.CacheDir)
	window, err := prices.NewUTCWindow(prices.NewDayCache(client, store))
	if err != nil {
		log.Fatalf("Failed to set up price window: %v", err)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	reconcileHandler := handlers.NewReconcileHandler(cfg, window)
	pricesHandler := handlers.NewPricesHandler(window)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/reconcile", reconcileHandler.Reconcile)
		api.GET("/reports/:id/records", reconcileHandler.GetRecords)

		api.GET("/areas", handlers.ListAreas)
		api.GET("/prices/:date", pricesHandler.DayPrices)
	}

	handler := cors.Default().Handler(router)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s (area=%s, cache=%s)", addr, cfg.PriceArea, cfg.CacheDir)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
