package model

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Concerts are stored with a plain calendar date, no time of day.
const DateLayout = "2006-01-02"

// A concert belongs to exactly one band and one venue. Bands and venues never
// point back; their concert lists are queries on band_id / venue_id.
type Concert struct {
	bun.BaseModel `bun:"table:concerts,alias:c"`

	ID      int64  `bun:"id,pk,autoincrement"`
	BandID  int64  `bun:"band_id,notnull"`  // required
	VenueID int64  `bun:"venue_id,notnull"` // required
	Date    string `bun:"date,notnull"`     // required, YYYY-MM-DD

	Band  *Band  `bun:"rel:belongs-to,join:band_id=id"`
	Venue *Venue `bun:"rel:belongs-to,join:venue_id=id"`
}

func (c *Concert) Validate() error {
	switch {
	case c.BandID == 0:
		return fmt.Errorf("(*Concert).Validate: band id is blank: %w", ErrValidation)
	case c.VenueID == 0:
		return fmt.Errorf("(*Concert).Validate: venue id is blank: %w", ErrValidation)
	case c.Date == "":
		return fmt.Errorf("(*Concert).Validate: date is blank: %w", ErrValidation)
	}
	if _, err := time.Parse(DateLayout, c.Date); err != nil {
		return fmt.Errorf("(*Concert).Validate: date %q is not YYYY-MM-DD: %w", c.Date, ErrValidation)
	}
	return nil
}

func (c *Concert) Insert(ctx context.Context, db bun.IDB) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := db.NewInsert().
		Model(c).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Concert).Insert: %w", err)
	}
	return nil
}

// HometownShow reports whether the band plays the city it comes from. Band and
// Venue must be loaded, otherwise it is false.
func (c *Concert) HometownShow() bool {
	if c.Band == nil || c.Venue == nil {
		return false
	}
	return c.Band.Hometown == c.Venue.City
}

// Introduction is what the band shouts on stage. Empty if Band or Venue is not loaded.
func (c *Concert) Introduction() string {
	if c.Band == nil || c.Venue == nil {
		return ""
	}
	return fmt.Sprintf("Hello %s!!!! We are %s and we are from %s", c.Venue.City, c.Band.Name, c.Band.Hometown)
}
