// Package snapshot keeps one portfolio snapshot per calendar day, bounded by
// a retention window.
package snapshot

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/bradymd/trading212/internal/calendar"
	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/model"
	"github.com/bradymd/trading212/internal/storage"
)

const DefaultRetentionDays = 90

type Store struct {
	repo   *storage.Repository
	cal    calendar.Calendar
	logger logger.Logger

	retentionDays int
}

func NewStore(repo *storage.Repository, cal calendar.Calendar, retentionDays int, logger logger.Logger) *Store {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &Store{
		repo:          repo,
		cal:           cal,
		logger:        logger,
		retentionDays: retentionDays,
	}
}

func (s *Store) Calendar() calendar.Calendar {
	return s.cal
}

// Save stores positions as the snapshot of now's day, replacing any earlier
// capture of that day, evicts days older than the retention window and
// records now as the last fetch time. Nothing changes if persisting fails.
func (s *Store) Save(ctx context.Context, positions []model.Position, now time.Time) error {
	today := s.cal.DateKey(now)
	cutoff := calendar.AddDays(today, -s.retentionDays)

	snap := model.Snapshot{
		Date:       today,
		Positions:  slices.Clone(positions),
		CapturedAt: now,
	}
	if snap.Positions == nil {
		snap.Positions = []model.Position{}
	}

	var evicted []string
	err := s.repo.Commit(ctx, func(st *storage.State) {
		evicted = evicted[:0]
		st.Snapshots[today] = snap
		for key := range st.Snapshots {
			if key < cutoff {
				delete(st.Snapshots, key)
				evicted = append(evicted, key)
			}
		}
		fetched := now
		st.LastFetchTime = &fetched
	})
	if err != nil {
		return fmt.Errorf("%w: can't save snapshot %s", err, today)
	}

	if len(evicted) > 0 {
		sort.Strings(evicted)
		s.logger.Debugf("evicted %d snapshots older than %s: %v", len(evicted), cutoff, evicted)
	}
	s.logger.Debugf("saved snapshot %s with %d positions", today, len(snap.Positions))

	return nil
}

// Get returns the snapshot stored for the given day.
func (s *Store) Get(key string) (model.Snapshot, bool) {
	calendar.MustParse(key)
	snap, ok := s.repo.View().Snapshots[key]
	return snap, ok
}

// LatestBefore returns the snapshot of the calendar day right before key.
// There is no fallback to older days: a gap yields nothing.
func (s *Store) LatestBefore(key string) (model.Snapshot, bool) {
	return s.Get(calendar.Previous(key))
}

// Latest returns the most recent stored snapshot.
func (s *Store) Latest() (model.Snapshot, bool) {
	keys := s.Keys()
	if len(keys) == 0 {
		return model.Snapshot{}, false
	}
	return s.repo.View().Snapshots[keys[len(keys)-1]], true
}

// Keys returns the stored days in ascending order.
func (s *Store) Keys() []string {
	snapshots := s.repo.View().Snapshots
	keys := make([]string, 0, len(snapshots))
	for key := range snapshots {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Window returns the most recent n stored days, oldest first. Days without
// data are not filled in, so fewer than n snapshots may come back.
func (s *Store) Window(n int) []model.Snapshot {
	if n <= 0 {
		return nil
	}
	keys := s.Keys()
	if len(keys) > n {
		keys = keys[len(keys)-n:]
	}

	snapshots := s.repo.View().Snapshots
	window := make([]model.Snapshot, 0, len(keys))
	for _, key := range keys {
		window = append(window, snapshots[key])
	}
	return window
}

func (s *Store) LastFetchTime() (time.Time, bool) {
	t := s.repo.View().LastFetchTime
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}

// IsFresh reports whether the last fetch happened less than maxAge before now.
func (s *Store) IsFresh(now time.Time, maxAge time.Duration) bool {
	last, ok := s.LastFetchTime()
	if !ok {
		return false
	}
	return now.Sub(last) < maxAge
}
