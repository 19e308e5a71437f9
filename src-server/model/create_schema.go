package model

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

func CreateSchema(ctx context.Context, db *bun.DB) error {
	if err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []interface{}{
			(*Band)(nil),
			(*Venue)(nil),
		} {
			if _, err := tx.
				NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
		}

		// band_id, venue_id reference bands/venues without cascade, so a band
		// or venue with concerts can't be deleted
		if _, err := tx.
			NewCreateTable().
			Model((*Concert)(nil)).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx); err != nil {
			return err
		}

		for index, column := range map[string]string{
			"idx_concerts_band_id":  "band_id",
			"idx_concerts_venue_id": "venue_id",
		} {
			if _, err := tx.
				NewCreateIndex().
				Model((*Concert)(nil)).
				Index(index).
				Column(column).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("CreateSchema: %w", err)
	}

	return nil
}
