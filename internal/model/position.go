package model

import "time"

// Position is one open holding as returned by the broker.
type Position struct {
	Ticker          string     `json:"ticker"`
	Quantity        float64    `json:"quantity"`
	AveragePrice    float64    `json:"averagePrice"`
	CurrentPrice    float64    `json:"currentPrice"`
	PPL             float64    `json:"ppl"`
	FxPPL           *float64   `json:"fxPpl,omitempty"`
	InitialFillDate *time.Time `json:"initialFillDate,omitempty"`
}

// Value is the position value in instrument currency.
func (p Position) Value() float64 {
	return p.Quantity * p.CurrentPrice
}

// EnrichedPosition is a Position with its day-over-day change and the
// instrument annotation, when known.
type EnrichedPosition struct {
	Position

	Name         string `json:"name,omitempty"`
	CurrencyCode string `json:"currencyCode,omitempty"`
	ISIN         string `json:"isin,omitempty"`

	PreviousPrice      float64 `json:"previousPrice"`
	DailyChange        float64 `json:"dailyChange"`
	DailyChangePercent float64 `json:"dailyChangePercent"`
	HasPreviousData    bool    `json:"hasPreviousData"`
}

// DisplayName prefers the instrument name over the raw ticker.
func (p EnrichedPosition) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Ticker
}

// Cash is the account cash summary, in account currency.
type Cash struct {
	Free     float64 `json:"free"`
	Total    float64 `json:"total"`
	PPL      float64 `json:"ppl"`
	Result   float64 `json:"result"`
	Invested float64 `json:"invested"`
	PieCash  float64 `json:"pieCash"`
	Blocked  float64 `json:"blocked"`
}
