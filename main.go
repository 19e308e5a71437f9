package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concerts/src-server/ical"
	"concerts/src-server/metric"
	"concerts/src-server/report"
	"concerts/src-server/seed"
	"concerts/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      utils.ParseLogLevel(os.Getenv("LOG_LEVEL")),
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// config, date parser, database w/ schema, catalog
	as := utils.NewAppState(ctx)
	defer as.Close()

	// first run: fill an empty catalog
	doc, err := seed.Load(as.Config.GetSeedFile())
	if err != nil {
		slog.Error("can't load seed data", "error", err)
		os.Exit(1)
	}
	if _, err := seed.Run(ctx, as.Catalog, doc, seed.Options{
		Parser:   as.When,
		Location: as.Config.GetLocation(),
	}); err != nil {
		slog.Error("can't seed catalog", "error", err)
		os.Exit(1)
	}

	if err := report.Write(ctx, os.Stdout, as.Catalog); err != nil {
		slog.Error("can't write report", "error", err)
		os.Exit(1)
	}

	if path := as.Config.GetIcalFile(); path != "" {
		if err := writeIcal(ctx, as, path); err != nil {
			slog.Error("can't write iCalendar feed", "error", err)
			os.Exit(1)
		}
		slog.Info("iCalendar feed written", "path", path)
	}

	if path := as.Config.GetMetricsFile(); path != "" {
		reg := prometheus.NewRegistry()
		if err := metric.Init(reg).Collect(ctx, as.Catalog); err != nil {
			slog.Error("can't collect metrics", "error", err)
			os.Exit(1)
		}
		if err := metric.WriteTextfile(path, reg); err != nil {
			slog.Error("can't write metrics", "error", err)
			os.Exit(1)
		}
		slog.Info("metrics written", "path", path)
	}
}

func writeIcal(ctx context.Context, as *utils.AppState, path string) error {
	concerts, err := as.Catalog.Concerts(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ical.WriteCalendar(f, "Concerts", concerts, time.Now()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
