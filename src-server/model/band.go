package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

var ErrValidation = errors.New("validation failed")

type Band struct {
	bun.BaseModel `bun:"table:bands,alias:b"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Name     string `bun:"name,notnull"`     // required
	Hometown string `bun:"hometown,notnull"` // required
}

func (b *Band) Validate() error {
	switch {
	case b.Name == "":
		return fmt.Errorf("(*Band).Validate: name is blank: %w", ErrValidation)
	case b.Hometown == "":
		return fmt.Errorf("(*Band).Validate: hometown is blank: %w", ErrValidation)
	}
	return nil
}

func (b *Band) Insert(ctx context.Context, db bun.IDB) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if _, err := db.NewInsert().
		Model(b).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Band).Insert: %w", err)
	}
	return nil
}
