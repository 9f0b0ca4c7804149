package model

import "time"

type AlertKind string

const (
	DailyLoss AlertKind = "daily_loss"
	DailyGain AlertKind = "daily_gain"
	Downtrend AlertKind = "downtrend"
	Uptrend   AlertKind = "uptrend"
)

type TrendDirection string

const (
	TrendDown TrendDirection = "down"
	TrendUp   TrendDirection = "up"
)

// AlertKind maps a trend direction to the alert it raises.
func (d TrendDirection) AlertKind() AlertKind {
	if d == TrendUp {
		return Uptrend
	}
	return Downtrend
}

// TrendResult is a multi-day price move of one ticker between the first and
// last snapshot of a window.
type TrendResult struct {
	Ticker        string         `json:"ticker"`
	Direction     TrendDirection `json:"direction"`
	StartDate     string         `json:"startDate"`
	EndDate       string         `json:"endDate"`
	StartPrice    float64        `json:"startPrice"`
	EndPrice      float64        `json:"endPrice"`
	ChangePercent float64        `json:"changePercent"`
	Days          int            `json:"days"`
}

// AlertEvent is emitted once per (ticker, kind, day).
type AlertEvent struct {
	ID            string    `json:"id"`
	Ticker        string    `json:"ticker"`
	Kind          AlertKind `json:"kind"`
	Day           string    `json:"day"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	ChangePercent float64   `json:"changePercent"`
	TriggeredAt   time.Time `json:"triggeredAt"`
}
