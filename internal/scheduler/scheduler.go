// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/bradymd/trading212/internal/logger"
	"github.com/robfig/cron/v3"
)

type Job interface {
	Run(ctx context.Context) error
	Name() string
}

type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context

	logger logger.Logger
}

func New(logger logger.Logger) *Scheduler {
	l := logger.With("component", "scheduler")
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cronLogger{l}), cron.WithChain(cron.Recover(cronLogger{l}))),
		ctx:    context.Background(),
		logger: l,
	}
}

// Every returns the cron expression for a fixed interval.
func Every(d time.Duration) string {
	return "@every " + d.String()
}

// AddJob registers job on schedule. A tick that fires while the previous
// run is still going is skipped.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cronLogger{s.logger})).Then(cron.FuncJob(func() {
		s.run(job)
	}))

	if _, err := s.cron.AddJob(schedule, wrapped); err != nil {
		return fmt.Errorf("%w: can't schedule job %s", err, job.Name())
	}

	s.logger.Infof("job %s registered with schedule %q", job.Name(), schedule)
	return nil
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	s.logger.Infof("running job %s now", job.Name())
	return job.Run(ctx)
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Infof("scheduler started")

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Infof("scheduler stopped")
	return nil
}

func (s *Scheduler) run(job Job) {
	s.logger.Debugf("running job %s", job.Name())
	if err := job.Run(s.ctx); err != nil {
		s.logger.Errorf("%s: job %s failed", err, job.Name())
		return
	}
	s.logger.Debugf("job %s completed", job.Name())
}

// cronLogger adapts logger.Logger to cron.Logger. Cron's info messages are
// per tick, so they go to debug.
type cronLogger struct {
	l logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.With(keysAndValues...).Debugf("cron: %s", msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.With(keysAndValues...).Errorf("%s: cron: %s", err, msg)
}
