// Command t212-report prints the stored snapshot series without calling the
// Trading 212 API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bradymd/trading212/internal/calendar"
	"github.com/bradymd/trading212/internal/change"
	"github.com/bradymd/trading212/internal/config"
	"github.com/bradymd/trading212/internal/instrument"
	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/model"
	"github.com/bradymd/trading212/internal/presenter"
	"github.com/bradymd/trading212/internal/snapshot"
	"github.com/bradymd/trading212/internal/storage"
	"github.com/bradymd/trading212/internal/tools"
	"github.com/bradymd/trading212/internal/trend"
	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
)

const (
	_monitorCfgFilePath = "./configs/monitor.yaml"
)

type report struct {
	Days      []string                 `json:"days"`
	Date      string                   `json:"date,omitempty"`
	Positions []model.EnrichedPosition `json:"positions"`
	Trends    []model.TrendResult      `json:"trends"`
	History   []historyPoint           `json:"history,omitempty"`
}

type historyPoint struct {
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
}

func main() {
	cfgPath := flag.String("config", _monitorCfgFilePath, "path to monitor config")
	days := flag.Int("days", 0, "trend window in days, 0 uses the config value")
	ticker := flag.String("ticker", "", "print the stored price history of one ticker")
	asJSON := flag.Bool("json", false, "print the report as json")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("can't detect .env file")
	}

	cfg := config.Default()
	if _, err := os.Stat(*cfgPath); err == nil || *cfgPath != _monitorCfgFilePath {
		loaded, err := config.LoadMonitorConfig(*cfgPath)
		if err != nil {
			log.Fatalf("%s: can't load monitor cfg", err)
		}
		cfg = loaded
	}
	if *days > 0 {
		cfg.Trend.Days = *days
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cal, err := calendar.Load(cfg.Timezone)
	if err != nil {
		zapLogger.Fatalf("%s: can't load timezone", err)
	}

	backend, err := storage.OpenBackend(ctx, cfg.Storage, zapLogger)
	if err != nil {
		zapLogger.Fatalf("%s: can't open storage", err)
	}
	repo, err := storage.Open(ctx, backend, zapLogger)
	if err != nil {
		zapLogger.Fatalf("%s: can't open state", err)
	}
	defer repo.Close()

	store := snapshot.NewStore(repo, cal, cfg.Storage.RetentionDays, zapLogger)
	cache := instrument.NewCache(repo, cfg.Instruments.TTL, zapLogger)

	r := build(store, cache, cfg.Trend, *ticker)

	if *asJSON {
		out, err := sonic.ConfigStd.MarshalIndent(r, "", "  ")
		if err != nil {
			zapLogger.Fatalf("%s: can't marshal report", err)
		}
		fmt.Println(string(out))
		return
	}

	printReport(r, *ticker)
}

func build(store *snapshot.Store, cache *instrument.Cache, trendCfg config.TrendConfig, ticker string) report {
	r := report{
		Days:      store.Keys(),
		Positions: []model.EnrichedPosition{},
		Trends:    []model.TrendResult{},
	}

	latest, ok := store.Latest()
	if !ok {
		return r
	}
	r.Date = latest.Date

	var previous *model.Snapshot
	if prev, ok := store.LatestBefore(latest.Date); ok {
		previous = &prev
	}
	r.Positions = change.Compute(latest.Positions, previous)
	change.Annotate(r.Positions, cache.Get)

	window := store.Window(trendCfg.Days)
	if trendCfg.DownPercent != nil {
		r.Trends = append(r.Trends, trend.Detect(window, *trendCfg.DownPercent)...)
	}
	if trendCfg.UpPercent != nil {
		r.Trends = append(r.Trends, trend.Detect(window, *trendCfg.UpPercent)...)
	}

	if ticker != "" {
		var prevPrice float64
		for _, day := range r.Days {
			snap, _ := store.Get(day)
			p, ok := snap.Position(ticker)
			if !ok {
				continue
			}
			point := historyPoint{Date: day, Price: p.CurrentPrice}
			if prevPrice > 0 {
				point.ChangePercent = change.Percent(prevPrice, p.CurrentPrice)
			}
			prevPrice = p.CurrentPrice
			r.History = append(r.History, point)
		}
	}

	return r
}

func printReport(r report, ticker string) {
	if len(r.Days) == 0 {
		fmt.Println("no snapshots stored yet")
		return
	}

	fmt.Printf("%d stored days, %s to %s\n\n", len(r.Days), r.Days[0], r.Days[len(r.Days)-1])

	fmt.Printf("positions on %s\n", r.Date)
	presenter.WritePositions(os.Stdout, r.Positions)

	if len(r.Trends) > 0 {
		fmt.Println()
		presenter.WriteTrends(os.Stdout, r.Trends)
	}

	if ticker != "" {
		fmt.Printf("\nhistory of %s\n", ticker)
		for _, h := range r.History {
			fmt.Printf("%s  %s  %s\n", h.Date, tools.FormatMoney(h.Price, ""), tools.FormatPercent(h.ChangePercent))
		}
	}
}
