// Package testutil builds randomized test data from an explicit source so tests stay
// reproducible and share no global state.
package testutil

import (
	"fmt"
	"math/rand/v2"
	"time"

	"spaces/pkg/model"

	"github.com/shopspring/decimal"
)

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// RandomSpaces returns n valid, unsaved spaces named Space0..Space<n-1>. Each carries two
// reviews. Seats never exceed the number of people.
func RandomSpaces(rng *rand.Rand, n int) []*model.Space {
	now := time.Now().UTC()
	spaces := make([]*model.Space, 0, n)
	for i := range n {
		people := between(rng, 10, 999)
		s := &model.Space{
			Name:           fmt.Sprintf("Space%d", i),
			NumberOfPeople: people,
			Dimensions: model.NewDimensions(
				float64(between(rng, 10, 99)),
				float64(between(rng, 5, 49)),
				float64(between(rng, 2, 11)),
			),
			Seating: model.Seating{
				NumberOfSeats: min(between(rng, 10, 499), people),
				Slanted:       rng.IntN(2) == 1,
				Surround:      rng.IntN(2) == 1,
				Comfy:         rng.IntN(2) == 1,
			},
			Features: model.Features{
				Outdoor:         rng.IntN(2) == 1,
				Catering:        rng.IntN(2) == 1,
				NaturalLight:    rng.IntN(2) == 1,
				ArtificialLight: rng.IntN(2) == 1,
				Projector:       rng.IntN(2) == 1,
				Sound:           rng.IntN(2) == 1,
				Cameras:         rng.IntN(2) == 1,
			},
			HourlyRate: decimal.NewFromInt(int64(between(rng, 100, 9999))),
		}
		s.Review.Add("Very bad, not good", float64(rng.IntN(5)), now)
		s.Review.Add("Okay ish", float64(rng.IntN(5)), now)
		spaces = append(spaces, s)
	}
	return spaces
}

// RandomRanges returns n inclusive hour ranges starting within maxStart hours of origin, each at
// most maxLen hours long.
func RandomRanges(rng *rand.Rand, origin time.Time, n, maxStart, maxLen int) []model.ReservationRequest {
	out := make([]model.ReservationRequest, 0, n)
	for range n {
		from := rng.IntN(maxStart + 1)
		length := rng.IntN(maxLen)
		out = append(out, model.ReservationRequest{
			Start: origin.Add(time.Duration(from) * time.Hour),
			End:   origin.Add(time.Duration(from+length) * time.Hour),
		})
	}
	return out
}
