// Package change derives day-over-day price changes per position.
package change

import (
	"github.com/bradymd/trading212/internal/model"
)

// Lookup resolves instrument metadata by ticker.
type Lookup func(ticker string) (model.InstrumentMetadata, bool)

// Compute matches current positions against previous by exact ticker. A
// ticker missing from previous gets HasPreviousData=false and zero deltas;
// tickers only in previous are ignored. Output order follows current.
func Compute(current []model.Position, previous *model.Snapshot) []model.EnrichedPosition {
	var prevPrices map[string]float64
	if previous != nil {
		prevPrices = previous.Prices()
	}

	out := make([]model.EnrichedPosition, 0, len(current))
	for _, p := range current {
		e := model.EnrichedPosition{Position: p}

		if prev, ok := prevPrices[p.Ticker]; ok {
			e.HasPreviousData = true
			e.PreviousPrice = prev
			e.DailyChange = p.CurrentPrice - prev
			e.DailyChangePercent = Percent(prev, p.CurrentPrice)
		}

		out = append(out, e)
	}

	return out
}

// Percent is the relative move from prev to cur in percent, 0 when prev <= 0.
func Percent(prev, cur float64) float64 {
	if prev <= 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

// Annotate fills name, currency and ISIN from lookup where known.
func Annotate(positions []model.EnrichedPosition, lookup Lookup) {
	if lookup == nil {
		return
	}
	for i := range positions {
		m, ok := lookup(positions[i].Ticker)
		if !ok {
			continue
		}
		positions[i].Name = m.Name
		positions[i].CurrencyCode = m.CurrencyCode
		positions[i].ISIN = m.ISIN
	}
}
