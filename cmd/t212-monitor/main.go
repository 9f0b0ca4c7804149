package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bradymd/trading212/internal/alert"
	"github.com/bradymd/trading212/internal/calendar"
	"github.com/bradymd/trading212/internal/config"
	"github.com/bradymd/trading212/internal/instrument"
	"github.com/bradymd/trading212/internal/logger"
	"github.com/bradymd/trading212/internal/monitor"
	"github.com/bradymd/trading212/internal/notify"
	"github.com/bradymd/trading212/internal/presenter"
	"github.com/bradymd/trading212/internal/scheduler"
	"github.com/bradymd/trading212/internal/server"
	"github.com/bradymd/trading212/internal/snapshot"
	"github.com/bradymd/trading212/internal/storage"
	"github.com/bradymd/trading212/internal/trading212"
	"github.com/joho/godotenv"
)

const (
	_monitorCfgFilePath = "./configs/monitor.yaml"
)

func main() {
	cfgPath := flag.String("config", _monitorCfgFilePath, "path to monitor config")
	once := flag.Bool("once", false, "run a single refresh and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("can't detect .env file")
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("%s: can't load monitor cfg", err)
	}

	zapLogger, loggerSync, err := logger.NewZapLogger(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	cfg.API.Key, err = config.LoadAPIKey()
	if err != nil {
		zapLogger.Fatalf("%s: can't load api key", err)
	}

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
	defer func() {
		if err := repo.Close(); err != nil {
			zapLogger.Errorf("%s: can't close storage", err)
		}
	}()

	notifier, err := notify.New(notify.Options{
		Desktop:    cfg.Notifications.Desktop,
		WebhookURL: cfg.Notifications.WebhookURL,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatalf("%s: can't create notifier", err)
	}

	client := trading212.NewClient(cfg.API, trading212.DefaultLimits(), zapLogger)
	defer client.Close()

	engine := monitor.NewEngine(
		snapshot.NewStore(repo, cal, cfg.Storage.RetentionDays, zapLogger),
		instrument.NewCache(repo, cfg.Instruments.TTL, zapLogger),
		alert.NewEngine(notifier, cfg.Notifications.TitlePrefix, zapLogger),
		client,
		monitor.Options{
			Thresholds: monitor.Thresholds{
				DailyLoss: cfg.Alerts.DailyLossPercent,
				DailyGain: cfg.Alerts.DailyGainPercent,
				TrendDown: cfg.Trend.DownPercent,
				TrendUp:   cfg.Trend.UpPercent,
				TrendDays: cfg.Trend.Days,
			},
			MaxAge: cfg.Polling.MaxAge,
		},
		zapLogger,
	)
	runner := monitor.NewRunner(engine, zapLogger, presenter.NewConsole(os.Stdout, cal.Location()))

	sched := scheduler.New(zapLogger)
	if err := sched.RunNow(ctx, runner); err != nil {
		zapLogger.Errorf("%s: initial refresh failed", err)
	}
	if *once {
		return
	}

	if err := sched.AddJob(scheduler.Every(cfg.Polling.Interval), runner); err != nil {
		zapLogger.Fatalf("%s: can't schedule refresh", err)
	}

	if cfg.Server.Enabled {
		srv := server.NewHTTPServer(ctx, cfg.Server.Port, server.NewRouter(runner, zapLogger), zapLogger)
		go func() {
			if err := srv.Run(ctx); err != nil {
				zapLogger.Errorf("%s: http server stopped", err)
				cancel()
			}
		}()
	}

	zapLogger.Infof("polling every %s", cfg.Polling.Interval)
	if err := sched.Run(ctx); err != nil {
		zapLogger.Errorf("%s: scheduler stopped", err)
	}
}

func loadConfig(path string) (config.MonitorConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && path == _monitorCfgFilePath {
		return config.Default(), nil
	}
	return config.LoadMonitorConfig(path)
}
