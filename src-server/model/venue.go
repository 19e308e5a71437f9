package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type Venue struct {
	bun.BaseModel `bun:"table:venues,alias:v"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Title string `bun:"title,notnull"` // required
	City  string `bun:"city,notnull"`  // required
}

func (v *Venue) Validate() error {
	switch {
	case v.Title == "":
		return fmt.Errorf("(*Venue).Validate: title is blank: %w", ErrValidation)
	case v.City == "":
		return fmt.Errorf("(*Venue).Validate: city is blank: %w", ErrValidation)
	}
	return nil
}

func (v *Venue) Insert(ctx context.Context, db bun.IDB) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if _, err := db.NewInsert().
		Model(v).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Venue).Insert: %w", err)
	}
	return nil
}
