package model

import (
	"slices"
	"time"
)

// CycleResult is what a refresh cycle hands to the presentation layer.
type CycleResult struct {
	EnrichedPositions []EnrichedPosition `json:"positions"`
	Cash              *Cash              `json:"cash,omitempty"`
	Alerts            []AlertEvent       `json:"alerts"`
	Trends            []TrendResult      `json:"trends"`
	Timestamp         time.Time          `json:"timestamp"`
	FromCache         bool               `json:"fromCache"`
	Err               error              `json:"-"`
	Error             string             `json:"error,omitempty"`
}

// Failed builds the result of an aborted cycle.
func Failed(err error, ts time.Time) CycleResult {
	return CycleResult{
		Timestamp: ts,
		Err:       err,
		Error:     err.Error(),
	}
}

// Clone returns a deep copy, so a reader never shares slices with the engine.
func (r CycleResult) Clone() CycleResult {
	out := r
	out.EnrichedPositions = slices.Clone(r.EnrichedPositions)
	out.Alerts = slices.Clone(r.Alerts)
	out.Trends = slices.Clone(r.Trends)
	if r.Cash != nil {
		cash := *r.Cash
		out.Cash = &cash
	}
	return out
}
