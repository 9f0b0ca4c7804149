package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bradymd/trading212/internal/calendar"
	"github.com/bradymd/trading212/internal/config"
	"github.com/bradymd/trading212/internal/instrument"
	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/model"
	"github.com/bradymd/trading212/internal/snapshot"
	"github.com/bradymd/trading212/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	ctx := context.Background()
	cal := calendar.New(time.UTC)

	repo, err := storage.Open(ctx, storage.NewFileBackend(filepath.Join(t.TempDir(), "state.json")), logger.NewNop())
	require.NoError(t, err)

	store := snapshot.NewStore(repo, cal, 90, logger.NewNop())
	for i, price := range []float64{100, 96, 88} {
		now := cal.Start(calendar.AddDays("2024-01-01", i)).Add(12 * time.Hour)
		require.NoError(t, store.Save(ctx, []model.Position{{Ticker: "AAPL", Quantity: 1, CurrentPrice: price}}, now))
	}

	cache := instrument.NewCache(repo, time.Hour, logger.NewNop())
	require.NoError(t, cache.Replace(ctx, []model.InstrumentMetadata{{Ticker: "AAPL", Name: "Apple"}}, time.Now()))

	down := -10.0
	r := build(store, cache, config.TrendConfig{Days: 3, DownPercent: &down}, "AAPL")

	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, r.Days)
	assert.Equal(t, "2024-01-03", r.Date)
	require.Len(t, r.Positions, 1)
	assert.Equal(t, "Apple", r.Positions[0].Name)
	assert.InDelta(t, -8.3333, r.Positions[0].DailyChangePercent, 1e-3)

	require.Len(t, r.Trends, 1)
	assert.InDelta(t, -12, r.Trends[0].ChangePercent, 1e-9)

	require.Len(t, r.History, 3)
	assert.Equal(t, 0.0, r.History[0].ChangePercent)
	assert.InDelta(t, -4, r.History[1].ChangePercent, 1e-9)
}

func TestBuildReportEmpty(t *testing.T) {
	repo, err := storage.Open(context.Background(), storage.NewFileBackend(filepath.Join(t.TempDir(), "state.json")), logger.NewNop())
	require.NoError(t, err)

	r := build(snapshot.NewStore(repo, calendar.New(time.UTC), 90, logger.NewNop()),
		instrument.NewCache(repo, time.Hour, logger.NewNop()), config.TrendConfig{Days: 7}, "")
	assert.Empty(t, r.Days)
	assert.Empty(t, r.Positions)
	assert.Empty(t, r.Trends)
}
