package utils_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"concerts/src-server/model"
	"concerts/src-server/utils"
)

func TestOpenDB(t *testing.T) {
	ctx := context.Background()

	for _, path := range []string{":memory:", filepath.Join(t.TempDir(), "concerts.db")} {
		db, err := utils.OpenDB(ctx, path)
		if err != nil {
			t.Fatalf("OpenDB(%q): %v", path, err)
		}

		var enabled int
		if err := db.NewRaw("PRAGMA foreign_keys").Scan(ctx, &enabled); err != nil {
			t.Fatal(err)
		}
		if enabled != 1 {
			t.Errorf("OpenDB(%q): foreign_keys = %d", path, enabled)
		}
		if err := model.CreateSchema(ctx, db); err != nil {
			t.Fatal(err)
		}
		db.Close()
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelDebug,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelDebug,
	} {
		if got := utils.ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
