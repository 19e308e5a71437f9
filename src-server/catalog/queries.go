package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"concerts/src-server/model"

	"github.com/uptrace/bun"
)

// concerts in creation order, with Band and Venue loaded
func (c *Catalog) concerts(ctx context.Context, where func(*bun.SelectQuery) *bun.SelectQuery) ([]*model.Concert, error) {
	concerts := []*model.Concert{}
	if err := c.db.NewSelect().
		Model(&concerts).
		Relation("Band").
		Relation("Venue").
		Apply(where).
		Order("c.id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	return concerts, nil
}

func (c *Catalog) Concerts(ctx context.Context) ([]*model.Concert, error) {
	concerts, err := c.concerts(ctx, func(q *bun.SelectQuery) *bun.SelectQuery { return q })
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).Concerts: %w", err)
	}
	return concerts, nil
}

func (c *Catalog) BandConcerts(ctx context.Context, bandID int64) ([]*model.Concert, error) {
	concerts, err := c.concerts(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("c.band_id = ?", bandID)
	})
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).BandConcerts: %w", err)
	}
	return concerts, nil
}

func (c *Catalog) VenueConcerts(ctx context.Context, venueID int64) ([]*model.Concert, error) {
	concerts, err := c.concerts(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("c.venue_id = ?", venueID)
	})
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).VenueConcerts: %w", err)
	}
	return concerts, nil
}

// BandVenues lists the venue of every concert of the band, in concert order.
// A venue played twice shows up twice.
func (c *Catalog) BandVenues(ctx context.Context, bandID int64) ([]*model.Venue, error) {
	concerts, err := c.BandConcerts(ctx, bandID)
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).BandVenues: %w", err)
	}
	venues := make([]*model.Venue, len(concerts))
	for i, concert := range concerts {
		venues[i] = concert.Venue
	}
	return venues, nil
}

func (c *Catalog) BandIntroductions(ctx context.Context, bandID int64) ([]string, error) {
	concerts, err := c.BandConcerts(ctx, bandID)
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).BandIntroductions: %w", err)
	}
	intros := make([]string, len(concerts))
	for i, concert := range concerts {
		intros[i] = concert.Introduction()
	}
	return intros, nil
}

// VenueBands lists the band of every concert at the venue, duplicates included.
func (c *Catalog) VenueBands(ctx context.Context, venueID int64) ([]*model.Band, error) {
	concerts, err := c.VenueConcerts(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).VenueBands: %w", err)
	}
	bands := make([]*model.Band, len(concerts))
	for i, concert := range concerts {
		bands[i] = concert.Band
	}
	return bands, nil
}

// VenueConcertOn returns the first concert at the venue on date, or nil.
func (c *Catalog) VenueConcertOn(ctx context.Context, venueID int64, date string) (*model.Concert, error) {
	concerts, err := c.VenueConcerts(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).VenueConcertOn: %w", err)
	}
	date = strings.TrimSpace(date)
	for _, concert := range concerts {
		if concert.Date == date {
			return concert, nil
		}
	}
	return nil, nil
}

// VenueMostFrequentBand returns the band with the most concerts at the venue.
// Ties go to the lowest band id. Nil if the venue has no concerts.
func (c *Catalog) VenueMostFrequentBand(ctx context.Context, venueID int64) (*model.Band, error) {
	concerts, err := c.VenueConcerts(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).VenueMostFrequentBand: %w", err)
	}

	counts := make(map[int64]int)
	bands := make(map[int64]*model.Band)
	for _, concert := range concerts {
		counts[concert.BandID]++
		bands[concert.BandID] = concert.Band
	}

	var best *model.Band
	for id, count := range counts {
		if best == nil ||
			count > counts[best.ID] ||
			(count == counts[best.ID] && id < best.ID) {
			best = bands[id]
		}
	}
	return best, nil
}

// MostPerformances returns the band with the most concerts in the catalog,
// bands without concerts included. Ties go to the lowest id. Nil if there are
// no bands.
func (c *Catalog) MostPerformances(ctx context.Context) (*model.Band, error) {
	band := new(model.Band)
	if err := c.db.NewSelect().
		Model(band).
		ColumnExpr("b.*").
		Join("LEFT JOIN concerts AS c ON c.band_id = b.id").
		Group("b.id").
		OrderExpr("COUNT(c.id) DESC").
		Order("b.id ASC").
		Limit(1).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("(*Catalog).MostPerformances: %w", err)
	}
	return band, nil
}
