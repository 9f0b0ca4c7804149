package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bradymd/trading212/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs  atomic.Int32
	block chan struct{}
	err   error
}

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	if j.block != nil {
		<-j.block
	}
	return j.err
}

func (j *countingJob) Name() string { return "counting" }

func TestEvery(t *testing.T) {
	assert.Equal(t, "@every 5m0s", Every(5*time.Minute))
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())
	assert.Error(t, s.AddJob("not a schedule", &countingJob{}))
}

func TestRunNow(t *testing.T) {
	s := New(logger.NewNop())
	job := &countingJob{err: errors.New("boom")}

	assert.EqualError(t, s.RunNow(context.Background(), job), "boom")
	assert.EqualValues(t, 1, job.runs.Load())
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(logger.NewNop())
	job := &countingJob{}
	require.NoError(t, s.AddJob(Every(time.Second), job))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestOverlappingTicksAreSkipped(t *testing.T) {
	s := New(logger.NewNop())
	job := &countingJob{block: make(chan struct{})}
	require.NoError(t, s.AddJob(Every(time.Second), job))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, 3*time.Second, 50*time.Millisecond)
	time.Sleep(2500 * time.Millisecond)
	assert.EqualValues(t, 1, job.runs.Load())

	close(job.block)
	cancel()
	assert.NoError(t, <-done)
}
