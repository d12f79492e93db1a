package model

import "time"

// HourlyPrice matches one element of the hvakosterstrommen.no day response.
//
// Example:
//
//	{
//	  "NOK_per_kWh": 0.26673,
//	  "EUR_per_kWh": 0.02299,
//	  "EXR": 11.6015,
//	  "time_start": "2023-09-15T00:00:00+02:00",
//	  "time_end": "2023-09-15T01:00:00+02:00"
//	}
//
// Timestamps carry the Europe/Oslo offset of the publication day.
type HourlyPrice struct {
	NOKPerKWh    float64   `json:"NOK_per_kWh"`
	EURPerKWh    float64   `json:"EUR_per_kWh"`
	ExchangeRate float64   `json:"EXR"`
	TimeStart    time.Time `json:"time_start"`
	TimeEnd      time.Time `json:"time_end"`
}

// PriceInterval is an hourly price with its boundaries rebased to UTC.
// Invariant: Start < End. The half-open range [Start, End) is the span
// during which the price applies.
type PriceInterval struct {
	NOKPerKWh    float64   `json:"nok_per_kwh"`
	EURPerKWh    float64   `json:"eur_per_kwh"`
	ExchangeRate float64   `json:"exchange_rate"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

// Contains reports whether t falls inside the half-open range [Start, End).
func (p PriceInterval) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

func (p PriceInterval) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// IntervalFromHourly rebases a published price to UTC boundaries.
func IntervalFromHourly(h HourlyPrice) PriceInterval {
	return PriceInterval{
		NOKPerKWh:    h.NOKPerKWh,
		EURPerKWh:    h.EURPerKWh,
		ExchangeRate: h.ExchangeRate,
		Start:        h.TimeStart.UTC(),
		End:          h.TimeEnd.UTC(),
	}
}
