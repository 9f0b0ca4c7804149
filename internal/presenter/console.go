// Package presenter renders cycle results for a terminal.
package presenter

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/bradymd/trading212/internal/model"
	"github.com/bradymd/trading212/internal/tools"
)

type Console struct {
	mu  sync.Mutex
	out io.Writer
	loc *time.Location
}

func NewConsole(out io.Writer, loc *time.Location) *Console {
	if loc == nil {
		loc = time.Local
	}
	return &Console{out: out, loc: loc}
}

func (c *Console) Present(res model.CycleResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := res.Timestamp.In(c.loc).Format(time.DateTime)
	if res.Err != nil {
		fmt.Fprintf(c.out, "%s  refresh failed: %s\n", ts, res.Err)
		return
	}

	source := "live"
	if res.FromCache {
		source = "cached"
	}
	fmt.Fprintf(c.out, "%s  %d positions (%s)\n", ts, len(res.EnrichedPositions), source)

	WritePositions(c.out, res.EnrichedPositions)

	if res.Cash != nil {
		fmt.Fprintf(c.out, "cash: free %s, invested %s, total %s, result %s\n",
			tools.FormatMoney(res.Cash.Free, ""), tools.FormatMoney(res.Cash.Invested, ""),
			tools.FormatMoney(res.Cash.Total, ""), tools.FormatMoney(res.Cash.PPL, ""))
	}

	if len(res.Trends) > 0 {
		WriteTrends(c.out, res.Trends)
	}

	for _, a := range res.Alerts {
		fmt.Fprintf(c.out, "ALERT [%s] %s\n", a.Kind, a.Title)
	}
	fmt.Fprintln(c.out)
}

// WritePositions prints one row per position with its day change.
func WritePositions(out io.Writer, positions []model.EnrichedPosition) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "TICKER\tNAME\tQTY\tPRICE\tVALUE\tDAY\tDAY %\tP/L\t")
	for _, p := range positions {
		day, dayPct := "-", "-"
		if p.HasPreviousData {
			day = tools.FormatMoney(p.DailyChange, "")
			dayPct = tools.FormatPercent(p.DailyChangePercent)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			p.Ticker, p.Name, tools.FormatQuantity(p.Quantity),
			tools.FormatMoney(p.CurrentPrice, p.CurrencyCode), tools.FormatMoney(p.Value(), ""),
			day, dayPct, tools.FormatMoney(p.PPL, ""))
	}
	w.Flush()
}

func WriteTrends(out io.Writer, trends []model.TrendResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "TREND\tTICKER\tFROM\tTO\tCHANGE\tDAYS\t")
	for _, t := range trends {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t\n",
			t.Direction, t.Ticker, t.StartDate, t.EndDate, tools.FormatPercent(t.ChangePercent), t.Days)
	}
	w.Flush()
}
