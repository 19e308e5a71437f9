package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	databasePath string
	seedFile     string
	metricsFile  string
	icalFile     string
	location     *time.Location
}

func NewConfig() *Config {
	return &Config{
		databasePath: func() string {
			databasePath := os.Getenv("DATABASE_PATH")
			if databasePath == "" {
				databasePath = "./concerts.db"
			}
			slog.Debug("env", "DATABASE_PATH", databasePath)
			if databasePath == ":memory:" {
				return databasePath
			}
			return filepath.Clean(databasePath)
		}(),
		seedFile: func() string {
			seedFile := os.Getenv("SEED_FILE")
			if seedFile == "" {
				slog.Debug("SEED_FILE is not set, using built-in sample data")
				return ""
			}
			info, err := os.Stat(seedFile)
			if err != nil {
				slog.Error("can't get info of SEED_FILE", "error", err)
				os.Exit(1)
			}
			if info.IsDir() {
				slog.Error("SEED_FILE is a directory", "path", seedFile)
				os.Exit(1)
			}
			slog.Debug("env", "SEED_FILE", seedFile)
			return filepath.Clean(seedFile)
		}(),
		metricsFile: func() string {
			metricsFile := os.Getenv("METRICS_FILE")
			slog.Debug("env", "METRICS_FILE", metricsFile)
			return metricsFile
		}(),
		icalFile: func() string {
			icalFile := os.Getenv("ICAL_FILE")
			slog.Debug("env", "ICAL_FILE", icalFile)
			return icalFile
		}(),
		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),
	}
}

// debug unless told otherwise
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Get DATABASE_PATH env, default to ./concerts.db
func (c *Config) GetDatabasePath() string {
	return c.databasePath
}

// Get SEED_FILE env, empty means built-in sample data
func (c *Config) GetSeedFile() string {
	return c.seedFile
}

// Get METRICS_FILE env, empty means no export
func (c *Config) GetMetricsFile() string {
	return c.metricsFile
}

// Get ICAL_FILE env, empty means no export
func (c *Config) GetIcalFile() string {
	return c.icalFile
}

// Get TIMEZONE env
func (c *Config) GetLocation() *time.Location {
	return c.location
}
