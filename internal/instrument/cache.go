// Package instrument caches instrument metadata (name, currency, ISIN) for
// annotating positions.
package instrument

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/model"
	"github.com/bradymd/trading212/internal/storage"
)

const DefaultTTL = 24 * time.Hour

var (
	ErrFetchSuppressed = errors.New("instrument metadata fetch already failed this cycle")
)

type Source interface {
	FetchInstrumentMetadata(ctx context.Context) ([]model.InstrumentMetadata, error)
}

type State int

const (
	Empty State = iota
	Populated
	FailedThisCycle
)

func (s State) String() string {
	switch s {
	case Populated:
		return "populated"
	case FailedThisCycle:
		return "failed-this-cycle"
	default:
		return "empty"
	}
}

// Cache is valid or stale as a whole. It is never merged: a refresh
// replaces every entry.
type Cache struct {
	repo   *storage.Repository
	logger logger.Logger
	ttl    time.Duration

	state    State
	entries  map[string]model.InstrumentMetadata
	cachedAt time.Time
}

// NewCache restores the cache persisted in repo, if any.
func NewCache(repo *storage.Repository, ttl time.Duration, logger logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		repo:   repo,
		logger: logger,
		ttl:    ttl,
	}

	if persisted := repo.View().InstrumentCache; persisted != nil {
		c.swap(persisted.Entries, persisted.CachedAt)
	}

	return c
}

func (c *Cache) State() State {
	return c.state
}

func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) CachedAt() time.Time {
	return c.cachedAt
}

func (c *Cache) Get(ticker string) (model.InstrumentMetadata, bool) {
	m, ok := c.entries[ticker]
	return m, ok
}

// IsValid reports whether the cache is populated and younger than its TTL.
func (c *Cache) IsValid(now time.Time) bool {
	return c.state == Populated && now.Sub(c.cachedAt) < c.ttl
}

// Replace swaps the whole entry set and persists it with the state document.
// The in-memory cache only changes when the write succeeds.
func (c *Cache) Replace(ctx context.Context, entries []model.InstrumentMetadata, now time.Time) error {
	persisted := &storage.InstrumentCacheState{
		Entries:  entries,
		CachedAt: now,
	}
	if err := c.repo.Commit(ctx, func(s *storage.State) {
		s.InstrumentCache = persisted
	}); err != nil {
		return fmt.Errorf("%w: can't persist instrument cache", err)
	}

	c.swap(entries, now)
	return nil
}

// Invalidate forgets every entry; the next Ensure refetches.
func (c *Cache) Invalidate() {
	c.state = Empty
	c.entries = nil
	c.cachedAt = time.Time{}
}

// BeginCycle re-arms fetching after a failure in the previous cycle.
func (c *Cache) BeginCycle() {
	if c.state == FailedThisCycle {
		c.state = Empty
	}
}

// Ensure makes the cache valid for now, fetching the full instrument list
// from src at most once per cycle. On failure the cache is left empty.
func (c *Cache) Ensure(ctx context.Context, now time.Time, src Source) error {
	if c.IsValid(now) {
		return nil
	}
	if c.state == FailedThisCycle {
		return ErrFetchSuppressed
	}

	entries, err := src.FetchInstrumentMetadata(ctx)
	if err != nil {
		c.Invalidate()
		c.state = FailedThisCycle
		return fmt.Errorf("%w: can't fetch instrument metadata", err)
	}

	if err := c.Replace(ctx, entries, now); err != nil {
		// keep the fresh data for this process even if it couldn't be stored
		c.logger.Warnf("%s: using unpersisted instrument cache", err)
		c.swap(entries, now)
	}
	c.logger.Infof("instrument cache refreshed with %d entries", len(entries))

	return nil
}

func (c *Cache) swap(entries []model.InstrumentMetadata, cachedAt time.Time) {
	index := make(map[string]model.InstrumentMetadata, len(entries))
	for _, e := range entries {
		index[e.Ticker] = e
	}
	c.entries = index
	c.cachedAt = cachedAt
	c.state = Populated
}
