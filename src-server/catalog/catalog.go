// Package catalog is the data-access layer over bands, venues and concerts.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"concerts/src-server/model"

	"github.com/uptrace/bun"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrValidation           = model.ErrValidation
	ErrReferentialIntegrity = errors.New("referenced band or venue does not exist")
)

// Catalog is a handle over one database, or over an open transaction of it.
// Independent catalogs never share state.
type Catalog struct {
	db bun.IDB
}

func New(db bun.IDB) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) DB() bun.IDB {
	return c.db
}

// RunInTx runs fn against a catalog bound to one transaction. Inside an
// existing transaction fn joins it.
func (c *Catalog) RunInTx(ctx context.Context, fn func(ctx context.Context, cat *Catalog) error) error {
	return c.inTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		return fn(ctx, New(tx))
	})
}

func (c *Catalog) inTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error {
	switch db := c.db.(type) {
	case *bun.DB:
		return db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			return fn(ctx, tx)
		})
	default:
		return fn(ctx, db)
	}
}

// trims and normalizes to NFC so equal-looking names compare equal
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func (c *Catalog) CreateBand(ctx context.Context, name, hometown string) (*model.Band, error) {
	band := &model.Band{
		Name:     clean(name),
		Hometown: clean(hometown),
	}
	if err := band.Insert(ctx, c.db); err != nil {
		return nil, fmt.Errorf("(*Catalog).CreateBand: %w", err)
	}
	return band, nil
}

func (c *Catalog) CreateVenue(ctx context.Context, title, city string) (*model.Venue, error) {
	venue := &model.Venue{
		Title: clean(title),
		City:  clean(city),
	}
	if err := venue.Insert(ctx, c.db); err != nil {
		return nil, fmt.Errorf("(*Catalog).CreateVenue: %w", err)
	}
	return venue, nil
}

// ScheduleConcert links an existing band and venue on date (YYYY-MM-DD). The
// returned concert has Band and Venue loaded.
func (c *Catalog) ScheduleConcert(ctx context.Context, bandID, venueID int64, date string) (*model.Concert, error) {
	var concert *model.Concert
	if err := c.inTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		band, venue, err := resolve(ctx, tx, bandID, venueID)
		if err != nil {
			return err
		}
		concert = &model.Concert{
			BandID:  band.ID,
			VenueID: venue.ID,
			Date:    strings.TrimSpace(date),
			Band:    band,
			Venue:   venue,
		}
		return concert.Insert(ctx, tx)
	}); err != nil {
		return nil, fmt.Errorf("(*Catalog).ScheduleConcert: %w", err)
	}
	return concert, nil
}

// resolve loads both ends of a concert or fails with ErrReferentialIntegrity.
func resolve(ctx context.Context, db bun.IDB, bandID, venueID int64) (*model.Band, *model.Venue, error) {
	band, err := getByID[model.Band](ctx, db, bandID)
	if err != nil {
		return nil, nil, err
	}
	if band == nil {
		return nil, nil, fmt.Errorf("band %d: %w", bandID, ErrReferentialIntegrity)
	}
	venue, err := getByID[model.Venue](ctx, db, venueID)
	if err != nil {
		return nil, nil, err
	}
	if venue == nil {
		return nil, nil, fmt.Errorf("venue %d: %w", venueID, ErrReferentialIntegrity)
	}
	return band, venue, nil
}

// getByID returns nil, nil when no row matches.
func getByID[T any](ctx context.Context, db bun.IDB, id int64) (*T, error) {
	row := new(T)
	if err := db.NewSelect().
		Model(row).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row, nil
}

func (c *Catalog) Band(ctx context.Context, id int64) (*model.Band, error) {
	band, err := getByID[model.Band](ctx, c.db, id)
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).Band: %w", err)
	}
	return band, nil
}

func (c *Catalog) Venue(ctx context.Context, id int64) (*model.Venue, error) {
	venue, err := getByID[model.Venue](ctx, c.db, id)
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).Venue: %w", err)
	}
	return venue, nil
}

func (c *Catalog) Concert(ctx context.Context, id int64) (*model.Concert, error) {
	concert := new(model.Concert)
	if err := c.db.NewSelect().
		Model(concert).
		Relation("Band").
		Relation("Venue").
		Where("c.id = ?", id).
		Limit(1).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("(*Catalog).Concert: %w", err)
	}
	return concert, nil
}

// FindBandByName returns the earliest band with exactly this name, or nil.
func (c *Catalog) FindBandByName(ctx context.Context, name string) (*model.Band, error) {
	band := new(model.Band)
	if err := c.db.NewSelect().
		Model(band).
		Where("b.name = ?", clean(name)).
		Order("b.id ASC").
		Limit(1).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("(*Catalog).FindBandByName: %w", err)
	}
	return band, nil
}

// FindVenueByTitle returns the earliest venue with exactly this title, or nil.
func (c *Catalog) FindVenueByTitle(ctx context.Context, title string) (*model.Venue, error) {
	venue := new(model.Venue)
	if err := c.db.NewSelect().
		Model(venue).
		Where("v.title = ?", clean(title)).
		Order("v.id ASC").
		Limit(1).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("(*Catalog).FindVenueByTitle: %w", err)
	}
	return venue, nil
}

func (c *Catalog) Bands(ctx context.Context) ([]*model.Band, error) {
	bands := []*model.Band{}
	if err := c.db.NewSelect().
		Model(&bands).
		Order("b.id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*Catalog).Bands: %w", err)
	}
	return bands, nil
}

func (c *Catalog) Venues(ctx context.Context) ([]*model.Venue, error) {
	venues := []*model.Venue{}
	if err := c.db.NewSelect().
		Model(&venues).
		Order("v.id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*Catalog).Venues: %w", err)
	}
	return venues, nil
}

func (c *Catalog) HasBands(ctx context.Context) (bool, error) {
	exists, err := c.db.NewSelect().
		Model((*model.Band)(nil)).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("(*Catalog).HasBands: %w", err)
	}
	return exists, nil
}

type Stats struct {
	Bands    int
	Venues   int
	Concerts int
}

func (c *Catalog) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	var err error
	if stats.Bands, err = c.db.NewSelect().Model((*model.Band)(nil)).Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("(*Catalog).Stats: %w", err)
	}
	if stats.Venues, err = c.db.NewSelect().Model((*model.Venue)(nil)).Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("(*Catalog).Stats: %w", err)
	}
	if stats.Concerts, err = c.db.NewSelect().Model((*model.Concert)(nil)).Count(ctx); err != nil {
		return Stats{}, fmt.Errorf("(*Catalog).Stats: %w", err)
	}
	return stats, nil
}

// dateOf renders t as a concert date in loc
func dateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(model.DateLayout)
}
