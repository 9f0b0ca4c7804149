package monitor

import (
	"context"
	"sync"

	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/model"
)

// Presenter receives a copy of every completed cycle.
type Presenter interface {
	Present(res model.CycleResult)
}

type PresenterFunc func(res model.CycleResult)

func (f PresenterFunc) Present(res model.CycleResult) {
	f(res)
}

// Runner lets timer ticks and manual refreshes share one Engine. Only one
// cycle runs at a time; a second caller waits for the first.
type Runner struct {
	mu         sync.Mutex
	engine     *Engine
	presenters []Presenter

	lastMu sync.RWMutex
	last   *model.CycleResult

	logger logger.Logger
}

func NewRunner(engine *Engine, logger logger.Logger, presenters ...Presenter) *Runner {
	return &Runner{
		engine:     engine,
		presenters: presenters,
		logger:     logger,
	}
}

// Refresh runs a cycle and hands the result to every presenter.
func (r *Runner) Refresh(ctx context.Context, force bool) model.CycleResult {
	r.mu.Lock()
	res := r.engine.Refresh(ctx, force)
	r.mu.Unlock()

	stored := res.Clone()
	r.lastMu.Lock()
	r.last = &stored
	r.lastMu.Unlock()

	for _, p := range r.presenters {
		p.Present(res.Clone())
	}

	if res.Err == nil {
		r.logger.Infow("refresh done",
			"positions", len(res.EnrichedPositions),
			"alerts", len(res.Alerts),
			"trends", len(res.Trends),
			"from_cache", res.FromCache)
	}

	return res
}

// Last returns the most recent cycle result.
func (r *Runner) Last() (model.CycleResult, bool) {
	r.lastMu.RLock()
	defer r.lastMu.RUnlock()
	if r.last == nil {
		return model.CycleResult{}, false
	}
	return r.last.Clone(), true
}

func (r *Runner) ResetAlerts(day string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.ResetAlerts(day)
}

// Run implements the scheduler job.
func (r *Runner) Run(ctx context.Context) error {
	res := r.Refresh(ctx, false)
	return res.Err
}

func (r *Runner) Name() string {
	return "refresh"
}
