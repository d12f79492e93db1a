package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aadnk/ZapTechCostCalculator/internal/analysis"
	"github.com/aadnk/ZapTechCostCalculator/internal/api/models"
	"github.com/aadnk/ZapTechCostCalculator/internal/config"
	"github.com/aadnk/ZapTechCostCalculator/internal/cost"
	"github.com/aadnk/ZapTechCostCalculator/internal/model"
	"github.com/aadnk/ZapTechCostCalculator/internal/prices"
	"github.com/aadnk/ZapTechCostCalculator/internal/tariff"
	"github.com/aadnk/ZapTechCostCalculator/internal/zaptec"
)

// ReconcileHandler runs reconciliations and keeps finished reports in
// memory, addressable by id for follow-up record fetches.
type ReconcileHandler struct {
	cfg    *config.Config
	zaptec *zaptec.Client
	window *prices.UTCWindow

	mu      sync.Mutex
	reports map[string][]model.CostRecord
}

func NewReconcileHandler(cfg *config.Config, window *prices.UTCWindow) *ReconcileHandler {
	return &ReconcileHandler{
		cfg:     cfg,
		zaptec:  zaptec.NewClient(cfg.ZaptecAPIURL),
		window:  window,
		reports: make(map[string][]model.CostRecord),
	}
}

// Reconcile handles POST /api/v1/reconcile.
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	var req models.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	from, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		badRequest(c, "INVALID_DATE", "from_date must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", req.ToDate)
	if err != nil {
		badRequest(c, "INVALID_DATE", "to_date must be YYYY-MM-DD")
		return
	}
	if !from.Before(to) {
		badRequest(c, "INVALID_DATE", "from_date must be before to_date")
		return
	}

	area := h.cfg.Area()
	if req.PriceArea != "" {
		area, err = model.ParseArea(req.PriceArea)
		if err != nil {
			badRequest(c, "INVALID_AREA", err.Error())
			return
		}
	}

	rates := h.cfg.Tariff.ToRates()
	if req.LowNetUsageFee != 0 {
		rates.Low = req.LowNetUsageFee
	}
	if req.HighNetUsageFee != 0 {
		rates.High = req.HighNetUsageFee
	}

	creds, err := h.cfg.ResolveCredentials(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "MISSING_CREDENTIALS", Message: err.Error()},
		})
		return
	}

	token, err := h.zaptec.Authenticate(creds.Username, creds.Password)
	if err != nil {
		upstreamError(c, "AUTH_FAILED", err)
		return
	}
	sessions, err := h.zaptec.AllSessions(token, from, to)
	if err != nil {
		upstreamError(c, "HISTORY_FETCH_FAILED", err)
		return
	}

	records, err := h.runPipeline(area, rates, sessions)
	if err != nil {
		upstreamError(c, "PRICE_FETCH_FAILED", err)
		return
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.reports[id] = records
	h.mu.Unlock()

	resp := models.ReconcileResponse{
		ReportID:    id,
		PriceArea:   area.Code(),
		FromDate:    req.FromDate,
		ToDate:      req.ToDate,
		Currency:    cost.Currency,
		RecordCount: len(records),
		Totals:      sumTotals(records),
		Sessions:    analysis.SummarizeBySession(records),
	}
	if req.IncludeRecords {
		resp.Records = records
	}
	c.JSON(http.StatusOK, resp)
}

// GetRecords handles GET /api/v1/reports/:id/records.
func (h *ReconcileHandler) GetRecords(c *gin.Context) {
	id := c.Param("id")

	h.mu.Lock()
	records, ok := h.reports[id]
	h.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "REPORT_NOT_FOUND", Message: "no report with id " + id},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report_id": id,
		"count":     len(records),
		"records":   records,
	})
}

func (h *ReconcileHandler) runPipeline(area model.PriceArea, rates tariff.Rates, sessions []model.ChargingSession) ([]model.CostRecord, error) {
	pipeline, err := cost.NewPipeline(h.window, area, rates)
	if err != nil {
		return nil, err
	}
	return pipeline.Run(model.Flatten(sessions)).Collect()
}

func sumTotals(records []model.CostRecord) models.Totals {
	var t models.Totals
	for _, r := range records {
		t.EnergyKWh += r.EnergyKWh
		t.EnergyCost += r.EnergyCost
		t.NetUsageFee += r.NetUsageFee
		t.TotalExclVAT += r.TotalExclVAT
		t.TotalInclVAT += r.TotalInclVAT
	}
	return t
}

func badRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: msg},
	})
}

func upstreamError(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	})
}
