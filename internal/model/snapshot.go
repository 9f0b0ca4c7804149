package model

import "time"

// Snapshot is the portfolio as captured on one calendar day. The store keeps
// at most one per day.
type Snapshot struct {
	Date       string     `json:"date"`
	Positions  []Position `json:"positions"`
	CapturedAt time.Time  `json:"capturedAt"`
}

// Position returns the position for ticker, if present.
func (s Snapshot) Position(ticker string) (Position, bool) {
	for _, p := range s.Positions {
		if p.Ticker == ticker {
			return p, true
		}
	}
	return Position{}, false
}

// Prices indexes current prices by ticker.
func (s Snapshot) Prices() map[string]float64 {
	prices := make(map[string]float64, len(s.Positions))
	for _, p := range s.Positions {
		prices[p.Ticker] = p.CurrentPrice
	}
	return prices
}
