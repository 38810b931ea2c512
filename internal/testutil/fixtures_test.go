package testutil

import (
	"testing"
	"time"
)

func TestRandomSpacesIsDeterministic(t *testing.T) {
	a := RandomSpaces(NewRand(7), 20)
	b := RandomSpaces(NewRand(7), 20)

	for i := range a {
		if a[i].Name != b[i].Name || a[i].NumberOfPeople != b[i].NumberOfPeople || !a[i].HourlyRate.Equal(b[i].HourlyRate) {
			t.Fatalf("space %d differs between runs with the same seed", i)
		}
	}
}

func TestRandomSpacesRanges(t *testing.T) {
	for i, s := range RandomSpaces(NewRand(1), 200) {
		d := s.Dimensions
		switch {
		case d.Length < 10 || d.Length > 99, d.Width < 5 || d.Width > 49, d.Height < 2 || d.Height > 11:
			t.Errorf("space %d dimensions out of range: %+v", i, d)
		case s.NumberOfPeople < 10 || s.NumberOfPeople > 999:
			t.Errorf("space %d people = %d", i, s.NumberOfPeople)
		case s.Seating.NumberOfSeats > s.NumberOfPeople:
			t.Errorf("space %d seats %d > people %d", i, s.Seating.NumberOfSeats, s.NumberOfPeople)
		case s.HourlyRate.IntPart() < 100 || s.HourlyRate.IntPart() > 9999:
			t.Errorf("space %d rate = %s", i, s.HourlyRate)
		case s.Review.NumberOfReviews != 2 || s.Review.Score < 0 || s.Review.Score > 4:
			t.Errorf("space %d review = %+v", i, s.Review)
		}
		if d.Area != d.Length*d.Width {
			t.Errorf("space %d area not derived", i)
		}
	}
}

func TestRandomRanges(t *testing.T) {
	origin := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, r := range RandomRanges(NewRand(3), origin, 100, 500, 24) {
		if r.End.Before(r.Start) || r.Start.Before(origin) || r.End.Sub(r.Start) >= 24*time.Hour {
			t.Fatalf("range %s..%s out of bounds", r.Start, r.End)
		}
	}
}
