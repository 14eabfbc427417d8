//go:build integration

package testutils

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator creates reproducible leagues and player pools.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator seeds the faker with seed, or the clock when omitted.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

// Seed returns the seed so a failing run can be reproduced.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// League returns a unique league id.
func (g *TestDataGenerator) League() sharedtypes.LeagueID {
	return sharedtypes.LeagueID("league-" + g.faker.UUID()[:8])
}

// Players returns count players with distinct ids and ranking points
// between 0 and 500 in tenths.
func (g *TestDataGenerator) Players(count int) []sharedtypes.RankedPlayer {
	seen := make(map[sharedtypes.PlayerID]bool, count)
	out := make([]sharedtypes.RankedPlayer, 0, count)
	for len(out) < count {
		id := sharedtypes.PlayerID(g.faker.Username() + "-" + g.faker.DigitN(4))
		if seen[id] {
			continue
		}
		seen[id] = true
		points := float64(g.faker.IntRange(0, 5000)) / 10
		out = append(out, sharedtypes.RankedPlayer{ID: id, Points: points})
	}
	return out
}

// Status picks a random attendance answer.
func (g *TestDataGenerator) Status() sharedtypes.AttendanceStatus {
	statuses := []sharedtypes.AttendanceStatus{
		sharedtypes.StatusNoResponse,
		sharedtypes.StatusDeclined,
		sharedtypes.StatusConfirmed,
		sharedtypes.StatusBBQOnly,
		sharedtypes.StatusPlayAndBBQ,
	}
	return statuses[g.faker.IntRange(0, len(statuses)-1)]
}
