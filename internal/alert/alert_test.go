package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	titles []string
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, title, _ string) error {
	n.titles = append(n.titles, title)
	return n.err
}

func ptr(v float64) *float64 { return &v }

func enriched(ticker string, pct float64, hasPrev bool) model.EnrichedPosition {
	return model.EnrichedPosition{
		Position:           model.Position{Ticker: ticker, CurrentPrice: 100 + pct},
		PreviousPrice:      100,
		DailyChangePercent: pct,
		HasPreviousData:    hasPrev,
	}
}

func TestDailyLossDedupPerDay(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	e := NewEngine(n, "", logger.NewNop())
	positions := []model.EnrichedPosition{enriched("AAPL_US_EQ", -6, true)}

	first := e.CheckDailyAlerts(ctx, positions, ptr(-5), nil, "2024-05-02")
	require.Len(t, first, 1)
	assert.Equal(t, model.DailyLoss, first[0].Kind)
	assert.Equal(t, "AAPL_US_EQ", first[0].Ticker)
	assert.Equal(t, "2024-05-02", first[0].Day)
	assert.NotEmpty(t, first[0].ID)

	second := e.CheckDailyAlerts(ctx, positions, ptr(-5), nil, "2024-05-02")
	assert.Empty(t, second)

	next := e.CheckDailyAlerts(ctx, positions, ptr(-5), nil, "2024-05-03")
	assert.Len(t, next, 1)

	assert.Len(t, n.titles, 2)
}

func TestDailyGain(t *testing.T) {
	e := NewEngine(nil, "[T212] ", logger.NewNop())
	positions := []model.EnrichedPosition{
		enriched("UP", 7, true),
		enriched("FLAT", 1, true),
	}

	got := e.CheckDailyAlerts(context.Background(), positions, ptr(-5), ptr(5), "2024-05-02")
	require.Len(t, got, 1)
	assert.Equal(t, model.DailyGain, got[0].Kind)
	assert.Equal(t, "UP", got[0].Ticker)
	assert.Contains(t, got[0].Title, "[T212] ")
}

func TestNilThresholdNeverTriggers(t *testing.T) {
	e := NewEngine(nil, "", logger.NewNop())
	positions := []model.EnrichedPosition{
		enriched("CRASH", -99, true),
		enriched("MOON", 900, true),
	}

	assert.Empty(t, e.CheckDailyAlerts(context.Background(), positions, nil, nil, "2024-05-02"))
}

func TestSkipsPositionsWithoutPreviousData(t *testing.T) {
	e := NewEngine(nil, "", logger.NewNop())
	positions := []model.EnrichedPosition{enriched("NEW", -50, false)}

	assert.Empty(t, e.CheckDailyAlerts(context.Background(), positions, ptr(-5), ptr(5), "2024-05-02"))
}

func TestLossAndGainAreIndependentKeys(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(nil, "", logger.NewNop())

	require.Len(t, e.CheckDailyAlerts(ctx, []model.EnrichedPosition{enriched("A", -6, true)}, ptr(-5), ptr(5), "2024-05-02"), 1)
	require.Len(t, e.CheckDailyAlerts(ctx, []model.EnrichedPosition{enriched("A", 6, true)}, ptr(-5), ptr(5), "2024-05-02"), 1)
	assert.True(t, e.Triggered("A", model.DailyLoss, "2024-05-02"))
	assert.True(t, e.Triggered("A", model.DailyGain, "2024-05-02"))
}

func TestNotifierFailureDoesNotRetractAlert(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{err: errors.New("no display")}
	e := NewEngine(n, "", logger.NewNop())
	positions := []model.EnrichedPosition{enriched("A", -6, true), enriched("B", -7, true)}

	got := e.CheckDailyAlerts(ctx, positions, ptr(-5), nil, "2024-05-02")
	assert.Len(t, got, 2)
	assert.Len(t, n.titles, 2)
	assert.Empty(t, e.CheckDailyAlerts(ctx, positions, ptr(-5), nil, "2024-05-02"))
}

func TestTrendAlerts(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(nil, "", logger.NewNop())
	trends := []model.TrendResult{
		{Ticker: "AAPL", Direction: model.TrendDown, ChangePercent: -15, Days: 2, StartPrice: 100, EndPrice: 85},
		{Ticker: "NVDA", Direction: model.TrendUp, ChangePercent: 20, Days: 5, StartPrice: 100, EndPrice: 120},
	}

	got := e.CheckTrendAlerts(ctx, trends, "2024-05-05")
	require.Len(t, got, 2)
	assert.Equal(t, model.Downtrend, got[0].Kind)
	assert.Equal(t, model.Uptrend, got[1].Kind)

	assert.Empty(t, e.CheckTrendAlerts(ctx, trends, "2024-05-05"))
	assert.Len(t, e.CheckTrendAlerts(ctx, trends, "2024-05-06"), 2)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(nil, "", logger.NewNop())
	positions := []model.EnrichedPosition{enriched("A", -6, true)}

	e.CheckDailyAlerts(ctx, positions, ptr(-5), nil, "2024-05-01")
	e.CheckDailyAlerts(ctx, positions, ptr(-5), nil, "2024-05-02")

	assert.Equal(t, 1, e.ResetDay("2024-05-02"))
	assert.True(t, e.Triggered("A", model.DailyLoss, "2024-05-01"))
	assert.Len(t, e.CheckDailyAlerts(ctx, positions, ptr(-5), nil, "2024-05-02"), 1)

	assert.Equal(t, 2, e.ResetAll())
	assert.False(t, e.Triggered("A", model.DailyLoss, "2024-05-01"))
}

func TestMalformedDayPanics(t *testing.T) {
	e := NewEngine(nil, "", logger.NewNop())
	assert.Panics(t, func() { e.CheckDailyAlerts(context.Background(), nil, nil, nil, "yesterday") })
}
