package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"concerts/src-server/catalog"
)

const harembeIntro = "Hello Nairobi!!!! We are The Harembe Stars and we are from Nairobi West"

func TestSampleScenario(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)

	band1 := mustBand(t, cat, "The Harembe Stars", "Nairobi West")
	band2 := mustBand(t, cat, "The Lagos Stars", "Lagos")
	venue1 := mustVenue(t, cat, "Nyayo Stadium", "Nairobi")
	venue2 := mustVenue(t, cat, "Freedom Park", "Accra")
	concert1 := mustConcert(t, cat, band1, venue1, "2024-09-20")
	concert2 := mustConcert(t, cat, band2, venue2, "2024-10-01")

	if concert1.HometownShow() {
		t.Error("Nairobi West is not Nairobi")
	}
	if concert2.HometownShow() {
		t.Error("Lagos is not Accra")
	}
	if got := concert1.Introduction(); got != harembeIntro {
		t.Errorf("Introduction() = %q", got)
	}

	intros, err := cat.BandIntroductions(ctx, band1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(intros) != 1 || intros[0] != harembeIntro {
		t.Errorf("BandIntroductions = %q", intros)
	}

	// the stored copy behaves the same as the returned one
	stored, err := cat.Concert(ctx, concert1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored == nil || stored.HometownShow() || stored.Introduction() != harembeIntro {
		t.Errorf("stored concert = %+v", stored)
	}
}

func TestHometownShow(t *testing.T) {
	cat := newCatalog(t)
	band := mustBand(t, cat, "Band Hometown", "Hometown City")
	home := mustVenue(t, cat, "Venue Hometown", "Hometown City")
	lower := mustVenue(t, cat, "Venue Lowercase", "hometown city")

	if !mustConcert(t, cat, band, home, "2024-11-11").HometownShow() {
		t.Error("same city should be a hometown show")
	}
	if mustConcert(t, cat, band, lower, "2024-11-12").HometownShow() {
		t.Error("comparison is case-sensitive")
	}
}

func TestBandQueriesKeepConcertOrder(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	band := mustBand(t, cat, "Touring Band", "Kampala")
	nairobi := mustVenue(t, cat, "Nyayo Stadium", "Nairobi")
	accra := mustVenue(t, cat, "Freedom Park", "Accra")

	mustConcert(t, cat, band, nairobi, "2024-09-20")
	mustConcert(t, cat, band, accra, "2024-09-01")
	mustConcert(t, cat, band, nairobi, "2024-10-20")

	venues, err := cat.BandVenues(ctx, band.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{nairobi.ID, accra.ID, nairobi.ID}
	if len(venues) != len(want) {
		t.Fatalf("BandVenues = %d venues, want %d", len(venues), len(want))
	}
	for i, venue := range venues {
		if venue.ID != want[i] {
			t.Errorf("venues[%d] = %d, want %d", i, venue.ID, want[i])
		}
	}

	intros, err := cat.BandIntroductions(ctx, band.ID)
	if err != nil {
		t.Fatal(err)
	}
	wantIntros := []string{
		"Hello Nairobi!!!! We are Touring Band and we are from Kampala",
		"Hello Accra!!!! We are Touring Band and we are from Kampala",
		"Hello Nairobi!!!! We are Touring Band and we are from Kampala",
	}
	for i := range wantIntros {
		if intros[i] != wantIntros[i] {
			t.Errorf("intros[%d] = %q, want %q", i, intros[i], wantIntros[i])
		}
	}

	// case: a band with no concerts has no venues
	idle := mustBand(t, cat, "Idle Band", "Nowhere")
	venues, err = cat.BandVenues(ctx, idle.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(venues) != 0 {
		t.Errorf("idle band venues = %+v", venues)
	}
}

func TestVenueBands(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	venue := mustVenue(t, cat, "Nyayo Stadium", "Nairobi")
	a := mustBand(t, cat, "A", "Nairobi")
	b := mustBand(t, cat, "B", "Lagos")

	mustConcert(t, cat, b, venue, "2024-01-01")
	mustConcert(t, cat, a, venue, "2024-01-02")
	mustConcert(t, cat, b, venue, "2024-01-03")

	bands, err := cat.VenueBands(ctx, venue.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{b.ID, a.ID, b.ID}
	if len(bands) != len(want) {
		t.Fatalf("VenueBands = %d bands, want %d", len(bands), len(want))
	}
	for i, band := range bands {
		if band.ID != want[i] {
			t.Errorf("bands[%d] = %d, want %d", i, band.ID, want[i])
		}
	}
}

func TestVenueConcertOn(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	venue := mustVenue(t, cat, "Nyayo Stadium", "Nairobi")
	other := mustVenue(t, cat, "Freedom Park", "Accra")
	a := mustBand(t, cat, "A", "Nairobi")
	b := mustBand(t, cat, "B", "Lagos")

	first := mustConcert(t, cat, a, venue, "2024-09-20")
	mustConcert(t, cat, b, venue, "2024-09-20")
	single := mustConcert(t, cat, b, venue, "2024-10-01")
	mustConcert(t, cat, a, other, "2024-12-24")

	// case: no concert that day
	concert, err := cat.VenueConcertOn(ctx, venue.ID, "2024-12-24")
	if err != nil {
		t.Fatal(err)
	}
	if concert != nil {
		t.Errorf("VenueConcertOn(2024-12-24) = %+v, want nil", concert)
	}

	// case: exactly one
	concert, err = cat.VenueConcertOn(ctx, venue.ID, "2024-10-01")
	if err != nil {
		t.Fatal(err)
	}
	if concert == nil || concert.ID != single.ID {
		t.Errorf("VenueConcertOn(2024-10-01) = %+v, want %d", concert, single.ID)
	}

	// case: same whitespace tolerance as scheduling
	padded := mustConcert(t, cat, a, other, " 2024-11-05 ")
	concert, err = cat.VenueConcertOn(ctx, other.ID, " 2024-11-05 ")
	if err != nil {
		t.Fatal(err)
	}
	if concert == nil || concert.ID != padded.ID {
		t.Errorf("VenueConcertOn(padded) = %+v, want %d", concert, padded.ID)
	}

	// case: two on the same day, first wins
	concert, err = cat.VenueConcertOn(ctx, venue.ID, "2024-09-20")
	if err != nil {
		t.Fatal(err)
	}
	if concert == nil || concert.ID != first.ID {
		t.Errorf("VenueConcertOn(2024-09-20) = %+v, want %d", concert, first.ID)
	}
	if concert != nil && (concert.Band == nil || concert.Band.Name != "A") {
		t.Errorf("band not loaded: %+v", concert.Band)
	}
}

func TestVenueMostFrequentBand(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	venue := mustVenue(t, cat, "Nyayo Stadium", "Nairobi")
	a := mustBand(t, cat, "A", "Nairobi")
	b := mustBand(t, cat, "B", "Lagos")
	c := mustBand(t, cat, "C", "Accra")

	// case: no concerts
	band, err := cat.VenueMostFrequentBand(ctx, venue.ID)
	if err != nil {
		t.Fatal(err)
	}
	if band != nil {
		t.Errorf("empty venue = %+v, want nil", band)
	}

	// case: tie between b and c goes to the earlier band, even when c played first
	mustConcert(t, cat, c, venue, "2024-01-01")
	mustConcert(t, cat, b, venue, "2024-01-02")
	mustConcert(t, cat, a, venue, "2024-01-03")
	mustConcert(t, cat, c, venue, "2024-01-04")
	mustConcert(t, cat, b, venue, "2024-01-05")
	band, err = cat.VenueMostFrequentBand(ctx, venue.ID)
	if err != nil {
		t.Fatal(err)
	}
	if band == nil || band.ID != b.ID {
		t.Errorf("tie = %+v, want band %d", band, b.ID)
	}

	// case: clear winner
	mustConcert(t, cat, c, venue, "2024-01-06")
	band, err = cat.VenueMostFrequentBand(ctx, venue.ID)
	if err != nil {
		t.Fatal(err)
	}
	if band == nil || band.ID != c.ID {
		t.Errorf("winner = %+v, want band %d", band, c.ID)
	}
}

func TestMostPerformances(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)

	// case: empty catalog
	band, err := cat.MostPerformances(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if band != nil {
		t.Errorf("empty catalog = %+v, want nil", band)
	}

	a := mustBand(t, cat, "A", "Nairobi")
	b := mustBand(t, cat, "B", "Lagos")
	c := mustBand(t, cat, "C", "Accra")
	venue := mustVenue(t, cat, "Nyayo Stadium", "Nairobi")
	other := mustVenue(t, cat, "Freedom Park", "Accra")

	// case: nobody played yet, lowest id
	band, err = cat.MostPerformances(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if band == nil || band.ID != a.ID {
		t.Errorf("no concerts = %+v, want band %d", band, a.ID)
	}

	// case: tie between b and c, lowest id
	mustConcert(t, cat, c, venue, "2024-01-01")
	mustConcert(t, cat, b, other, "2024-01-02")
	band, err = cat.MostPerformances(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if band == nil || band.ID != b.ID {
		t.Errorf("tie = %+v, want band %d", band, b.ID)
	}

	// case: counted across venues
	mustConcert(t, cat, c, other, "2024-01-03")
	band, err = cat.MostPerformances(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if band == nil || band.ID != c.ID || band.Name != "C" {
		t.Errorf("winner = %+v, want band %d", band, c.ID)
	}
}

func TestScheduleRecurring(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	band := mustBand(t, cat, "Resident Band", "Nairobi")
	venue := mustVenue(t, cat, "Nyayo Stadium", "Nairobi")

	concerts, err := cat.ScheduleRecurring(ctx, band.ID, venue.ID,
		"DTSTART:20240906T180000Z\nRRULE:FREQ=WEEKLY;COUNT=4", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2024-09-06", "2024-09-13", "2024-09-20", "2024-09-27"}
	if len(concerts) != len(want) {
		t.Fatalf("got %d concerts, want %d", len(concerts), len(want))
	}
	for i, concert := range concerts {
		if concert.Date != want[i] {
			t.Errorf("concerts[%d].Date = %q, want %q", i, concert.Date, want[i])
		}
		if !concert.HometownShow() {
			t.Errorf("concerts[%d] should be a hometown show", i)
		}
	}

	concert, err := cat.VenueConcertOn(ctx, venue.ID, "2024-09-20")
	if err != nil {
		t.Fatal(err)
	}
	if concert == nil || concert.ID != concerts[2].ID {
		t.Errorf("VenueConcertOn = %+v", concert)
	}

	// case: late UTC evening falls on the next day east of Greenwich
	nairobi := time.FixedZone("EAT", 3*60*60)
	concerts, err = cat.ScheduleRecurring(ctx, band.ID, venue.ID,
		"DTSTART:20241231T220000Z\nRRULE:FREQ=DAILY;COUNT=1", nairobi)
	if err != nil {
		t.Fatal(err)
	}
	if len(concerts) != 1 || concerts[0].Date != "2025-01-01" {
		t.Errorf("concerts = %+v", concerts)
	}

	// case: unbounded, invalid, unknown references
	for _, rule := range []string{
		"",
		"DTSTART:20240906T180000Z\nRRULE:FREQ=WEEKLY",
		"DTSTART:20240906T180000Z\nRRULE:FREQ=DAILY;COUNT=400",
		"FREQ=DAILY",
		// the bounded first rule doesn't cover the second
		"DTSTART:20240101T000000Z\nRRULE:FREQ=DAILY;COUNT=2\nRRULE:FREQ=HOURLY",
		// bounded, but far too many occurrences to build
		"DTSTART:20240101T000000Z\nRRULE:FREQ=SECONDLY;UNTIL=20250101T000000Z",
	} {
		if _, err := cat.ScheduleRecurring(ctx, band.ID, venue.ID, rule, time.UTC); !errors.Is(err, catalog.ErrValidation) {
			t.Errorf("rule %q error = %v, want ErrValidation", rule, err)
		}
	}
	if _, err := cat.ScheduleRecurring(ctx, band.ID+100, venue.ID,
		"DTSTART:20240906T180000Z\nRRULE:FREQ=WEEKLY;COUNT=2", time.UTC); !errors.Is(err, catalog.ErrReferentialIntegrity) {
		t.Errorf("missing band error = %v", err)
	}

	stats, err := cat.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Concerts != 5 {
		t.Errorf("concerts = %d, want 5", stats.Concerts)
	}

	// case: every rule of a set bounded, exactly at the cap
	concerts, err = cat.ScheduleRecurring(ctx, band.ID, venue.ID,
		"DTSTART:20250101T180000Z\nRRULE:FREQ=DAILY;COUNT=2\nRRULE:FREQ=WEEKLY;UNTIL=20250201T000000Z", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if len(concerts) == 0 || concerts[0].Date != "2025-01-01" {
		t.Errorf("concerts = %+v", concerts)
	}
	concerts, err = cat.ScheduleRecurring(ctx, band.ID, venue.ID,
		"DTSTART:20260101T180000Z\nRRULE:FREQ=DAILY;COUNT=366", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if len(concerts) != catalog.MaxResidencyConcerts {
		t.Errorf("got %d concerts, want %d", len(concerts), catalog.MaxResidencyConcerts)
	}
}
