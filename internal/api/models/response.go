package models

import (
	"github.com/aadnk/ZapTechCostCalculator/internal/analysis"
	"github.com/aadnk/ZapTechCostCalculator/internal/model"
)

// ErrorResponse is the envelope for all API errors.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Totals sums a report's records.
type Totals struct {
	EnergyKWh    float64 `json:"energy_kwh"`
	EnergyCost   float64 `json:"energy_cost"`
	NetUsageFee  float64 `json:"net_usage_fee"`
	TotalExclVAT float64 `json:"total_excl_vat"`
	TotalInclVAT float64 `json:"total_incl_vat"`
}

// ReconcileResponse summarizes one reconciliation run. Records are stored
// server-side under ReportID and embedded only on request.
type ReconcileResponse struct {
	ReportID  string `json:"report_id"`
	PriceArea string `json:"price_area"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	Currency  string `json:"currency"`

	RecordCount int    `json:"record_count"`
	Totals      Totals `json:"totals"`

	Sessions []analysis.SessionSummary `json:"sessions"`
	Records  []model.CostRecord        `json:"records,omitempty"`
}

// AreaInfo describes one bidding zone.
type AreaInfo struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// DayPricesResponse is the UTC-window price set for one UTC day.
type DayPricesResponse struct {
	Date      string                `json:"date"`
	PriceArea string                `json:"price_area"`
	Intervals []model.PriceInterval `json:"intervals"`
}
