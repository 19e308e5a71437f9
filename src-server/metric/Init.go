package metric

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"concerts/src-server/catalog"

	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	bands        prometheus.Gauge
	venues       prometheus.Gauge
	concerts     prometheus.Gauge
	databaseRead prometheus.Gauge
}

func gauge(reg prometheus.Registerer, name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			slog.Debug(name+" metric already registered, reusing it")
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing
			}
		}
		slog.Error("can't register "+name+" metric", "error", err)
		return g
	}
	slog.Debug(name + " metric registered")
	return g
}

func Init(reg prometheus.Registerer) *Collector {
	return &Collector{
		bands:        gauge(reg, "concerts_catalog_bands", "Number of bands in the catalog"),
		venues:       gauge(reg, "concerts_catalog_venues", "Number of venues in the catalog"),
		concerts:     gauge(reg, "concerts_catalog_concerts", "Number of concerts in the catalog"),
		databaseRead: gauge(reg, "concerts_database_read_microsec", "The latency of reading the catalog sizes in microseconds"),
	}
}

// Collect refreshes every gauge from cat.
func (c *Collector) Collect(ctx context.Context, cat *catalog.Catalog) error {
	start := time.Now()
	stats, err := cat.Stats(ctx)
	if err != nil {
		return fmt.Errorf("(*Collector).Collect: %w", err)
	}
	c.databaseRead.Set(float64(time.Since(start).Microseconds()))
	c.bands.Set(float64(stats.Bands))
	c.venues.Set(float64(stats.Venues))
	c.concerts.Set(float64(stats.Concerts))
	return nil
}

// WriteTextfile dumps everything gathered by g to path, node_exporter style.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("WriteTextfile: %w", err)
	}
	return nil
}
