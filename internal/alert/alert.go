// Package alert raises threshold alerts at most once per ticker, kind and
// calendar day.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/bradymd/trading212/internal/calendar"
	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/model"
	"github.com/bradymd/trading212/internal/tools"
	"github.com/google/uuid"
)

// Notifier delivers an alert to the user. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

type key struct {
	ticker string
	kind   model.AlertKind
	day    string
}

// Engine keeps the set of alerts already raised. The set lives for the
// process only; a new day makes older keys unreachable.
type Engine struct {
	notifier    Notifier
	logger      logger.Logger
	titlePrefix string
	now         func() time.Time

	triggered map[key]struct{}
}

func NewEngine(notifier Notifier, titlePrefix string, logger logger.Logger) *Engine {
	return &Engine{
		notifier:    notifier,
		logger:      logger,
		titlePrefix: titlePrefix,
		now:         time.Now,
		triggered:   make(map[key]struct{}),
	}
}

// CheckDailyAlerts raises daily_loss when the day change is at or below
// loss and daily_gain when it is at or above gain. A nil threshold disables
// that kind. Positions without a previous day are skipped.
func (e *Engine) CheckDailyAlerts(ctx context.Context, positions []model.EnrichedPosition, loss, gain *float64, today string) []model.AlertEvent {
	calendar.MustParse(today)

	events := make([]model.AlertEvent, 0)
	for _, p := range positions {
		if !p.HasPreviousData {
			continue
		}
		pct := p.DailyChangePercent

		if loss != nil && pct <= *loss {
			title := fmt.Sprintf("%s down %s today", p.DisplayName(), tools.FormatPercent(pct))
			body := fmt.Sprintf("%s fell from %s to %s (%s), loss threshold %s.",
				p.Ticker, tools.FormatMoney(p.PreviousPrice, p.CurrencyCode), tools.FormatMoney(p.CurrentPrice, p.CurrencyCode),
				tools.FormatPercent(pct), tools.FormatPercent(*loss))
			if ev, ok := e.trigger(ctx, p.Ticker, model.DailyLoss, today, title, body, pct); ok {
				events = append(events, ev)
			}
		}

		if gain != nil && pct >= *gain {
			title := fmt.Sprintf("%s up %s today", p.DisplayName(), tools.FormatPercent(pct))
			body := fmt.Sprintf("%s rose from %s to %s (%s), gain threshold %s.",
				p.Ticker, tools.FormatMoney(p.PreviousPrice, p.CurrencyCode), tools.FormatMoney(p.CurrentPrice, p.CurrencyCode),
				tools.FormatPercent(pct), tools.FormatPercent(*gain))
			if ev, ok := e.trigger(ctx, p.Ticker, model.DailyGain, today, title, body, pct); ok {
				events = append(events, ev)
			}
		}
	}

	return events
}

// CheckTrendAlerts raises one downtrend or uptrend alert per ticker and day.
func (e *Engine) CheckTrendAlerts(ctx context.Context, trends []model.TrendResult, today string) []model.AlertEvent {
	calendar.MustParse(today)

	events := make([]model.AlertEvent, 0)
	for _, t := range trends {
		kind := t.Direction.AlertKind()
		verb := "down"
		if kind == model.Uptrend {
			verb = "up"
		}
		title := fmt.Sprintf("%s %s %s over %d days", t.Ticker, verb, tools.FormatPercent(t.ChangePercent), t.Days)
		body := fmt.Sprintf("%s moved from %s on %s to %s on %s.",
			t.Ticker, tools.FormatMoney(t.StartPrice, ""), t.StartDate, tools.FormatMoney(t.EndPrice, ""), t.EndDate)

		if ev, ok := e.trigger(ctx, t.Ticker, kind, today, title, body, t.ChangePercent); ok {
			events = append(events, ev)
		}
	}

	return events
}

// Triggered reports whether the alert was already raised.
func (e *Engine) Triggered(ticker string, kind model.AlertKind, day string) bool {
	_, ok := e.triggered[key{ticker: ticker, kind: kind, day: day}]
	return ok
}

// ResetDay forgets every alert raised on day.
func (e *Engine) ResetDay(day string) int {
	n := 0
	for k := range e.triggered {
		if k.day == day {
			delete(e.triggered, k)
			n++
		}
	}
	return n
}

func (e *Engine) ResetAll() int {
	n := len(e.triggered)
	e.triggered = make(map[key]struct{})
	return n
}

func (e *Engine) trigger(ctx context.Context, ticker string, kind model.AlertKind, day, title, body string, pct float64) (model.AlertEvent, bool) {
	k := key{ticker: ticker, kind: kind, day: day}
	if _, ok := e.triggered[k]; ok {
		return model.AlertEvent{}, false
	}
	e.triggered[k] = struct{}{}

	ev := model.AlertEvent{
		ID:            uuid.NewString(),
		Ticker:        ticker,
		Kind:          kind,
		Day:           day,
		Title:         e.titlePrefix + title,
		Body:          body,
		ChangePercent: pct,
		TriggeredAt:   e.now(),
	}

	e.logger.Infow("alert triggered", "ticker", ticker, "kind", kind, "day", day, "change_percent", pct)

	if e.notifier != nil {
		if err := e.notifier.Notify(ctx, ev.Title, ev.Body); err != nil {
			e.logger.Warnf("%s: can't deliver %s alert for %s", err, kind, ticker)
		}
	}

	return ev, true
}
