// Package seed fills an empty catalog from a YAML document.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"concerts/src-server/catalog"
	"concerts/src-server/utils"

	"github.com/olebedev/when"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sample []byte

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnknownKey   = errors.New("unknown key")
	ErrNoSchedule   = errors.New("concert needs exactly one of date or rrule")
)

type Band struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Hometown string `yaml:"hometown"`
}

type Venue struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	City  string `yaml:"city"`
}

// Concert references bands and venues by key. Date may be ISO or natural
// language; RRule books a residency instead.
type Concert struct {
	Band  string `yaml:"band"`
	Venue string `yaml:"venue"`
	Date  string `yaml:"date"`
	RRule string `yaml:"rrule"`
}

type Document struct {
	Bands    []Band    `yaml:"bands"`
	Venues   []Venue   `yaml:"venues"`
	Concerts []Concert `yaml:"concerts"`
}

func Decode(r io.Reader) (*Document, error) {
	doc := new(Document)
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return doc, nil
		}
		return nil, fmt.Errorf("Decode: %w", err)
	}
	return doc, nil
}

func Sample() *Document {
	doc := new(Document)
	if err := yaml.Unmarshal(sample, doc); err != nil {
		panic(fmt.Sprintf("seed: embedded sample is broken: %v", err))
	}
	return doc
}

// Load reads path, or returns the sample document when path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		return Sample(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("Load: %s: %w", path, err)
	}
	return doc, nil
}

type Options struct {
	Parser   *when.Parser
	Location *time.Location
	Now      time.Time
}

// Run inserts doc into an empty catalog. A catalog that already has a band is
// left alone and Run reports false.
func Run(ctx context.Context, cat *catalog.Catalog, doc *Document, opts Options) (bool, error) {
	hasBands, err := cat.HasBands(ctx)
	if err != nil {
		return false, fmt.Errorf("seed.Run: %w", err)
	}
	if hasBands {
		slog.Debug("catalog already has bands, skip seeding")
		return false, nil
	}
	if opts.Parser == nil {
		opts.Parser = utils.NewDateParser()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	// all or nothing
	if err := cat.RunInTx(ctx, func(ctx context.Context, cat *catalog.Catalog) error {
		return insert(ctx, cat, doc, opts)
	}); err != nil {
		return false, fmt.Errorf("seed.Run: %w", err)
	}

	slog.Info("catalog seeded",
		"bands", len(doc.Bands),
		"venues", len(doc.Venues),
		"concerts", len(doc.Concerts),
	)
	return true, nil
}

func insert(ctx context.Context, cat *catalog.Catalog, doc *Document, opts Options) error {
	bandIDs := make(map[string]int64, len(doc.Bands))
	for _, b := range doc.Bands {
		if _, ok := bandIDs[b.Key]; ok {
			return fmt.Errorf("band %q: %w", b.Key, ErrDuplicateKey)
		}
		band, err := cat.CreateBand(ctx, b.Name, b.Hometown)
		if err != nil {
			return fmt.Errorf("band %q: %w", b.Key, err)
		}
		bandIDs[b.Key] = band.ID
	}

	venueIDs := make(map[string]int64, len(doc.Venues))
	for _, v := range doc.Venues {
		if _, ok := venueIDs[v.Key]; ok {
			return fmt.Errorf("venue %q: %w", v.Key, ErrDuplicateKey)
		}
		venue, err := cat.CreateVenue(ctx, v.Title, v.City)
		if err != nil {
			return fmt.Errorf("venue %q: %w", v.Key, err)
		}
		venueIDs[v.Key] = venue.ID
	}

	for i, c := range doc.Concerts {
		bandID, ok := bandIDs[c.Band]
		if !ok {
			return fmt.Errorf("concert #%d: band %q: %w", i+1, c.Band, ErrUnknownKey)
		}
		venueID, ok := venueIDs[c.Venue]
		if !ok {
			return fmt.Errorf("concert #%d: venue %q: %w", i+1, c.Venue, ErrUnknownKey)
		}

		switch hasDate, hasRule := c.Date != "", c.RRule != ""; {
		case hasDate && !hasRule:
			date, err := utils.ParseDate(opts.Parser, c.Date, opts.Now, opts.Location)
			if err != nil {
				return fmt.Errorf("concert #%d: %w", i+1, err)
			}
			if _, err := cat.ScheduleConcert(ctx, bandID, venueID, date); err != nil {
				return fmt.Errorf("concert #%d: %w", i+1, err)
			}
		case hasRule && !hasDate:
			if _, err := cat.ScheduleRecurring(ctx, bandID, venueID, c.RRule, opts.Location); err != nil {
				return fmt.Errorf("concert #%d: %w", i+1, err)
			}
		default:
			return fmt.Errorf("concert #%d: %w", i+1, ErrNoSchedule)
		}
	}
	return nil
}
