// Package ical exports concerts as an iCalendar (RFC 5545) feed.
package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	"concerts/src-server/model"

	"github.com/google/uuid"
)

const ProdID = "-//concerts//catalog//EN"

// every concert gets the same UID across exports
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("concerts:catalog"))

// Convert a concert date (YYYY-MM-DD) to an iCalendar DATE value: YYYYMMDD
func dateToIcalDate(date string) (string, error) {
	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("dateToIcalDate: %w", err)
	}
	return day.Format("20060102"), nil
}

func nextIcalDate(date string) (string, error) {
	day, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("nextIcalDate: %w", err)
	}
	return day.AddDate(0, 0, 1).Format("20060102"), nil
}

// escape TEXT values
func escape(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	).Replace(s)
}

func UID(concert *model.Concert) string {
	return uuid.NewSHA1(uidNamespace, []byte(fmt.Sprintf("concert:%d", concert.ID))).String()
}

// WriteCalendar writes concerts as whole-day events. Band and Venue of every
// concert must be loaded. stamp is used for DTSTAMP.
func WriteCalendar(w io.Writer, name string, concerts []*model.Concert, stamp time.Time) error {
	writer := foldWriter(func(s string) (int, error) {
		return io.WriteString(w, s)
	})
	write := func(lines ...string) error {
		for _, line := range lines {
			if _, err := writer(line); err != nil {
				return err
			}
		}
		return nil
	}

	if err := write(
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:"+ProdID,
		"CALSCALE:GREGORIAN",
		"X-WR-CALNAME:"+escape(name),
	); err != nil {
		return fmt.Errorf("WriteCalendar: %w", err)
	}

	dtstamp := stamp.UTC().Format("20060102T150405Z")
	for _, concert := range concerts {
		if concert.Band == nil || concert.Venue == nil {
			return fmt.Errorf("WriteCalendar: concert %d: band or venue not loaded", concert.ID)
		}
		start, err := dateToIcalDate(concert.Date)
		if err != nil {
			return fmt.Errorf("WriteCalendar: concert %d: %w", concert.ID, err)
		}
		end, err := nextIcalDate(concert.Date)
		if err != nil {
			return fmt.Errorf("WriteCalendar: concert %d: %w", concert.ID, err)
		}

		lines := []string{
			"BEGIN:VEVENT",
			"UID:" + UID(concert),
			"DTSTAMP:" + dtstamp,
			"DTSTART;VALUE=DATE:" + start,
			"DTEND;VALUE=DATE:" + end,
			"SUMMARY:" + escape(concert.Band.Name+" at "+concert.Venue.Title),
			"LOCATION:" + escape(concert.Venue.Title+", "+concert.Venue.City),
			"DESCRIPTION:" + escape(concert.Introduction()),
		}
		if concert.HometownShow() {
			lines = append(lines, "CATEGORIES:HOMETOWN SHOW")
		}
		lines = append(lines, "END:VEVENT")
		if err := write(lines...); err != nil {
			return fmt.Errorf("WriteCalendar: %w", err)
		}
	}

	if err := write("END:VCALENDAR"); err != nil {
		return fmt.Errorf("WriteCalendar: %w", err)
	}
	return nil
}
