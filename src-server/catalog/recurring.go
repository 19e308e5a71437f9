package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"concerts/src-server/model"

	"github.com/uptrace/bun"
	"github.com/xyedo/rrule"
)

// upper bound of concerts a single residency may create
const MaxResidencyConcerts = 366

// ScheduleRecurring books a residency: one concert per occurrence of rule, an
// RFC 5545 set such as "DTSTART:20240920T200000Z\nRRULE:FREQ=WEEKLY;COUNT=4".
// The rule must be bounded with COUNT or UNTIL. Occurrences are turned into
// dates in loc (UTC when nil); two occurrences on the same day give two concerts.
func (c *Catalog) ScheduleRecurring(ctx context.Context, bandID, venueID int64, rule string, loc *time.Location) ([]*model.Concert, error) {
	dates, err := expandRule(rule, loc)
	if err != nil {
		return nil, fmt.Errorf("(*Catalog).ScheduleRecurring: %w", err)
	}

	concerts := make([]*model.Concert, 0, len(dates))
	if err := c.inTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		band, venue, err := resolve(ctx, tx, bandID, venueID)
		if err != nil {
			return err
		}
		for _, date := range dates {
			concert := &model.Concert{
				BandID:  band.ID,
				VenueID: venue.ID,
				Date:    date,
				Band:    band,
				Venue:   venue,
			}
			if err := concert.Insert(ctx, tx); err != nil {
				return err
			}
			concerts = append(concerts, concert)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("(*Catalog).ScheduleRecurring: %w", err)
	}
	return concerts, nil
}

func expandRule(rule string, loc *time.Location) ([]string, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return nil, fmt.Errorf("rule is blank: %w", ErrValidation)
	}
	if err := checkBounded(rule); err != nil {
		return nil, err
	}

	rruleSet, err := rrule.StrToRRuleSet(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule: %v: %w", err, ErrValidation)
	}

	// never expand more than one past the cap
	dates := []string{}
	next := rruleSet.Iterator()
	for occurrence, ok := next(); ok; occurrence, ok = next() {
		if len(dates) == MaxResidencyConcerts {
			return nil, fmt.Errorf("rule has more than %d occurrences: %w", MaxResidencyConcerts, ErrValidation)
		}
		dates = append(dates, dateOf(occurrence, loc))
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("rule has no occurrences: %w", ErrValidation)
	}
	return dates, nil
}

// checkBounded requires COUNT or UNTIL on every RRULE line of the set.
func checkBounded(rule string) error {
	for _, line := range strings.Split(rule, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, ":")
		if !found {
			// a bare "FREQ=..." line is an RRULE
			name, value = "RRULE", line
		}
		if name, _, _ = strings.Cut(name, ";"); !strings.EqualFold(name, "RRULE") {
			continue
		}
		r, err := rrule.StrToRRule(value)
		if err != nil {
			return fmt.Errorf("invalid rrule %q: %v: %w", line, err, ErrValidation)
		}
		if r.OrigOptions.Count <= 0 && r.OrigOptions.Until.IsZero() {
			return fmt.Errorf("rrule %q must be bounded by COUNT or UNTIL: %w", line, ErrValidation)
		}
	}
	return nil
}
