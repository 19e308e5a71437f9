package utils

import (
	"context"
	"log/slog"
	"os"

	"concerts/src-server/catalog"
	"concerts/src-server/model"

	"github.com/olebedev/when"
	"github.com/uptrace/bun"
)

type AppState struct {
	Config  *Config
	BunDB   *bun.DB
	Catalog *catalog.Catalog
	When    *when.Parser
}

func NewAppState(ctx context.Context) *AppState {
	as := &AppState{}

	// env
	as.Config = NewConfig()

	// date parser
	as.When = NewDateParser()

	// database
	var err error
	as.BunDB, err = OpenDB(ctx, as.Config.GetDatabasePath())
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	if err := model.CreateSchema(ctx, as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	as.Catalog = catalog.New(as.BunDB)
	return as
}

func (as *AppState) Close() {
	if err := as.BunDB.Close(); err != nil {
		slog.Warn("can't close database", "error", err)
	}
}
