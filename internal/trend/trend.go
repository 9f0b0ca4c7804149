// Package trend finds multi-day price moves between the first and the last
// snapshot of a window.
package trend

import (
	"sort"

	"github.com/bradymd/trading212/internal/change"
	"github.com/bradymd/trading212/internal/model"
)

// Detect dispatches on the threshold sign: negative looks for downtrends,
// positive for uptrends. A zero threshold detects nothing.
func Detect(window []model.Snapshot, thresholdPercent float64) []model.TrendResult {
	switch {
	case thresholdPercent < 0:
		return Downtrends(window, thresholdPercent)
	case thresholdPercent > 0:
		return Uptrends(window, thresholdPercent)
	default:
		return nil
	}
}

// Downtrends returns tickers whose change over the window is at or below
// thresholdPercent, worst first.
func Downtrends(window []model.Snapshot, thresholdPercent float64) []model.TrendResult {
	results := compare(window, model.TrendDown, func(pct float64) bool { return pct <= thresholdPercent })
	sort.Slice(results, func(i, j int) bool {
		if results[i].ChangePercent != results[j].ChangePercent {
			return results[i].ChangePercent < results[j].ChangePercent
		}
		return results[i].Ticker < results[j].Ticker
	})
	return results
}

// Uptrends returns tickers whose change over the window is at or above
// thresholdPercent, best first.
func Uptrends(window []model.Snapshot, thresholdPercent float64) []model.TrendResult {
	results := compare(window, model.TrendUp, func(pct float64) bool { return pct >= thresholdPercent })
	sort.Slice(results, func(i, j int) bool {
		if results[i].ChangePercent != results[j].ChangePercent {
			return results[i].ChangePercent > results[j].ChangePercent
		}
		return results[i].Ticker < results[j].Ticker
	})
	return results
}

func compare(window []model.Snapshot, dir model.TrendDirection, qualifies func(float64) bool) []model.TrendResult {
	if distinctDays(window) < 2 {
		return []model.TrendResult{}
	}

	start, end := window[0], window[len(window)-1]
	endPrices := end.Prices()

	results := make([]model.TrendResult, 0)
	seen := make(map[string]struct{}, len(start.Positions))
	for _, p := range start.Positions {
		if _, dup := seen[p.Ticker]; dup {
			continue
		}
		seen[p.Ticker] = struct{}{}

		endPrice, ok := endPrices[p.Ticker]
		if !ok || p.CurrentPrice <= 0 {
			continue
		}

		pct := change.Percent(p.CurrentPrice, endPrice)
		if !qualifies(pct) {
			continue
		}

		results = append(results, model.TrendResult{
			Ticker:        p.Ticker,
			Direction:     dir,
			StartDate:     start.Date,
			EndDate:       end.Date,
			StartPrice:    p.CurrentPrice,
			EndPrice:      endPrice,
			ChangePercent: pct,
			Days:          len(window),
		})
	}

	return results
}

func distinctDays(window []model.Snapshot) int {
	days := make(map[string]struct{}, len(window))
	for _, s := range window {
		days[s.Date] = struct{}{}
	}
	return len(days)
}
