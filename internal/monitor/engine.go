// Package monitor runs refresh cycles: fetch, persist, derive, alert.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradymd/trading212/internal/alert"
	"github.com/bradymd/trading212/internal/change"
	"github.com/bradymd/trading212/internal/instrument"
	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/model"
	"github.com/bradymd/trading212/internal/snapshot"
	"github.com/bradymd/trading212/internal/trend"
)

type Source interface {
	FetchPositions(ctx context.Context) ([]model.Position, error)
	FetchCash(ctx context.Context) (model.Cash, error)
	instrument.Source
}

// Thresholds are percentages; nil disables the signal.
type Thresholds struct {
	DailyLoss *float64
	DailyGain *float64
	TrendDown *float64
	TrendUp   *float64
	TrendDays int
}

type Options struct {
	Thresholds Thresholds
	// MaxAge lets a non-forced refresh reuse the stored snapshot instead
	// of calling the API. Zero always fetches.
	MaxAge time.Duration
}

// Engine owns every piece of mutable monitor state. It is not safe for
// concurrent use; Runner serialises access.
type Engine struct {
	store  *snapshot.Store
	cache  *instrument.Cache
	alerts *alert.Engine
	source Source
	opts   Options
	now    func() time.Time

	lastCash *model.Cash

	logger logger.Logger
}

func NewEngine(store *snapshot.Store, cache *instrument.Cache, alerts *alert.Engine, source Source, opts Options, logger logger.Logger) *Engine {
	if opts.Thresholds.TrendDays < 2 {
		opts.Thresholds.TrendDays = 7
	}
	return &Engine{
		store:  store,
		cache:  cache,
		alerts: alerts,
		source: source,
		opts:   opts,
		now:    time.Now,
		logger: logger,
	}
}

func (e *Engine) Store() *snapshot.Store {
	return e.store
}

func (e *Engine) Alerts() *alert.Engine {
	return e.alerts
}

// Refresh runs one cycle. A failed fetch aborts the cycle before anything is
// persisted and is reported through CycleResult.Err.
func (e *Engine) Refresh(ctx context.Context, force bool) model.CycleResult {
	now := e.now()
	e.cache.BeginCycle()

	if !force && e.opts.MaxAge > 0 && e.store.IsFresh(now, e.opts.MaxAge) {
		if latest, ok := e.store.Latest(); ok {
			e.logger.Debugf("serving snapshot %s from cache", latest.Date)
			res := e.derive(ctx, latest.Positions, latest.Date, now)
			res.FromCache = true
			return res
		}
	}

	positions, err := e.source.FetchPositions(ctx)
	if err != nil {
		e.logger.Errorf("%s: refresh aborted", err)
		return model.Failed(err, now)
	}

	cash, err := e.source.FetchCash(ctx)
	if err != nil {
		e.logger.Errorf("%s: refresh aborted", err)
		return model.Failed(err, now)
	}
	e.lastCash = &cash

	if err := e.store.Save(ctx, positions, now); err != nil {
		e.logger.Errorf("%s: refresh aborted", err)
		return model.Failed(fmt.Errorf("%w: can't persist snapshot", err), now)
	}

	return e.derive(ctx, positions, e.store.Calendar().DateKey(now), now)
}

// ResetAlerts forgets raised alerts of day, or all of them for an empty day.
func (e *Engine) ResetAlerts(day string) int {
	if day == "" {
		return e.alerts.ResetAll()
	}
	return e.alerts.ResetDay(day)
}

func (e *Engine) derive(ctx context.Context, positions []model.Position, today string, now time.Time) model.CycleResult {
	var previous *model.Snapshot
	if prev, ok := e.store.LatestBefore(today); ok {
		previous = &prev
	}
	enriched := change.Compute(positions, previous)

	if err := e.cache.Ensure(ctx, now, e.source); err != nil {
		if !errors.Is(err, instrument.ErrFetchSuppressed) {
			e.logger.Warnf("%s: positions left unannotated", err)
		}
	}
	change.Annotate(enriched, e.cache.Get)

	th := e.opts.Thresholds
	window := e.store.Window(th.TrendDays)

	trends := make([]model.TrendResult, 0)
	if th.TrendDown != nil {
		trends = append(trends, trend.Detect(window, *th.TrendDown)...)
	}
	if th.TrendUp != nil {
		trends = append(trends, trend.Detect(window, *th.TrendUp)...)
	}

	alerts := e.alerts.CheckDailyAlerts(ctx, enriched, th.DailyLoss, th.DailyGain, today)
	alerts = append(alerts, e.alerts.CheckTrendAlerts(ctx, trends, today)...)

	res := model.CycleResult{
		EnrichedPositions: enriched,
		Alerts:            alerts,
		Trends:            trends,
		Timestamp:         now,
	}
	if e.lastCash != nil {
		cash := *e.lastCash
		res.Cash = &cash
	}
	return res
}
