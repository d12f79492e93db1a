package model

import "time"

// CostRecord is the per-sample reconciliation result: one row of output.
// EnergyUnitPrice and NetFeeRate are the applied NOK/kWh rates; EnergyCost
// and NetUsageFee are the resulting amounts. Derived once, never mutated.
type CostRecord struct {
	SessionID       string    `json:"session_id"`
	Timestamp       time.Time `json:"timestamp"`
	EnergyKWh       float64   `json:"energy_kwh"`
	EnergyUnitPrice float64   `json:"energy_unit_price"`
	NetFeeRate      float64   `json:"net_fee_rate"`
	EnergyCost      float64   `json:"energy_cost"`
	NetUsageFee     float64   `json:"net_usage_fee"`
	TotalExclVAT    float64   `json:"total_excl_vat"`
	TotalInclVAT    float64   `json:"total_incl_vat"`
	Currency        string    `json:"currency"`
}
