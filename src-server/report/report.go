// Package report prints the catalog as markdown tables.
package report

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"concerts/src-server/catalog"
)

// Write prints bands, venues and concerts of cat to w.
func Write(ctx context.Context, w io.Writer, cat *catalog.Catalog) error {
	bands, err := cat.Bands(ctx)
	if err != nil {
		return fmt.Errorf("report.Write: %w", err)
	}
	venues, err := cat.Venues(ctx)
	if err != nil {
		return fmt.Errorf("report.Write: %w", err)
	}
	concerts, err := cat.Concerts(ctx)
	if err != nil {
		return fmt.Errorf("report.Write: %w", err)
	}
	top, err := cat.MostPerformances(ctx)
	if err != nil {
		return fmt.Errorf("report.Write: %w", err)
	}

	perBand := make(map[int64]int)
	perVenue := make(map[int64]int)
	for _, concert := range concerts {
		perBand[concert.BandID]++
		perVenue[concert.VenueID]++
	}

	bandRows := make([][]string, len(bands))
	for i, band := range bands {
		bandRows[i] = []string{
			strconv.FormatInt(band.ID, 10),
			band.Name,
			band.Hometown,
			strconv.Itoa(perBand[band.ID]),
		}
	}

	venueRows := make([][]string, len(venues))
	for i, venue := range venues {
		frequent := "-"
		if perVenue[venue.ID] > 0 {
			band, err := cat.VenueMostFrequentBand(ctx, venue.ID)
			if err != nil {
				return fmt.Errorf("report.Write: %w", err)
			}
			if band != nil {
				frequent = band.Name
			}
		}
		venueRows[i] = []string{
			strconv.FormatInt(venue.ID, 10),
			venue.Title,
			venue.City,
			strconv.Itoa(perVenue[venue.ID]),
			frequent,
		}
	}

	concertRows := make([][]string, len(concerts))
	for i, concert := range concerts {
		hometown := "no"
		if concert.HometownShow() {
			hometown = "yes"
		}
		concertRows[i] = []string{
			concert.Date,
			concert.Band.Name,
			concert.Venue.Title,
			hometown,
			concert.Introduction(),
		}
	}

	if _, err := fmt.Fprintf(w, "## Bands\n\n%s\n## Venues\n\n%s\n## Concerts\n\n%s",
		Table([]string{"ID", "Name", "Hometown", "Concerts"}, bandRows),
		Table([]string{"ID", "Title", "City", "Concerts", "Most frequent band"}, venueRows),
		Table([]string{"Date", "Band", "Venue", "Hometown show", "Introduction"}, concertRows),
	); err != nil {
		return fmt.Errorf("report.Write: %w", err)
	}
	if top != nil {
		if _, err := fmt.Fprintf(w, "\nMost performances: %s (%d)\n", top.Name, perBand[top.ID]); err != nil {
			return fmt.Errorf("report.Write: %w", err)
		}
	}
	return nil
}
