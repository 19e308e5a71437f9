package utils

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// OpenDB opens (creating if needed) the sqlite database at path, ":memory:"
// included. Foreign keys are enforced on the single pooled connection.
func OpenDB(ctx context.Context, path string) (*bun.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?mode=rwc"
	}
	rawDB, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("OpenDB: %w", err)
	}
	rawDB.SetMaxOpenConns(1)
	rawDB.SetMaxIdleConns(1)

	bunDB := bun.NewDB(rawDB, sqlitedialect.New())
	bunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	if _, err := bunDB.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		bunDB.Close()
		return nil, fmt.Errorf("OpenDB: %w", err)
	}
	return bunDB, nil
}
