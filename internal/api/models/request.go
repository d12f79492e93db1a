package models

// ReconcileRequest is the body for POST /api/v1/reconcile.
// Credentials are optional when the server has them configured.
type ReconcileRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	FromDate string `json:"from_date" binding:"required"` // YYYY-MM-DD, inclusive
	ToDate   string `json:"to_date" binding:"required"`   // YYYY-MM-DD, exclusive

	PriceArea string `json:"price_area,omitempty"` // default: server config

	// Net-usage fee overrides in NOK/kWh; zero means server defaults.
	LowNetUsageFee  float64 `json:"low_net_usage_fee,omitempty"`
	HighNetUsageFee float64 `json:"high_net_usage_fee,omitempty"`

	// IncludeRecords embeds the full record list in the response instead of
	// requiring a follow-up fetch by report id.
	IncludeRecords bool `json:"include_records,omitempty"`
}
