package drawdomain

import (
	"cmp"
	"math/rand/v2"
	"slices"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

const (
	// maxSearchNodes bounds the backtracking search for a repeat-free pairing of one tier.
	maxSearchNodes = 100_000
	// maxGreedyAttempts bounds the fallback greedy loop of one tier.
	maxGreedyAttempts = 1_000
)

// NewRand returns a deterministic random source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// ComputeDraw seeds, tiers and pairs the eligible players, avoiding any
// pairing contained in previous whenever a repeat-free assignment exists.
//
// Players with identical points everywhere are shuffled with rng; otherwise
// they are stable-sorted by points, highest first. The top tier takes
// floor(n/2) players, minus one when that is odd, and the bottom tier takes
// the rest. A single leftover player in a tier becomes a wildcard pair.
// Pairs are numbered from 1, top tier first.
func ComputeDraw(players []Player, previous PairSet, rng *rand.Rand) (PairingResult, error) {
	if len(players) < 2 {
		return PairingResult{}, ErrInsufficientPlayers
	}

	seeded := SeedPlayers(players, rng)
	top, bottom := SplitTiers(seeded)

	var result PairingResult
	seq := 1
	for _, tier := range []struct {
		tier    Tier
		players []Player
	}{
		{TierTop, top},
		{TierBottom, bottom},
	} {
		pairs, forced := pairTier(tier.tier, ids(tier.players), previous)
		for _, p := range pairs {
			p.Seq = seq
			seq++
			result.Pairs = append(result.Pairs, p)
		}
		result.ForcedRepeats = append(result.ForcedRepeats, forced...)
	}

	return result, nil
}

// SeedPlayers returns the players in draw order without modifying the input.
func SeedPlayers(players []Player, rng *rand.Rand) []Player {
	out := slices.Clone(players)
	if allEqualPoints(out) {
		if rng == nil {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
	slices.SortStableFunc(out, func(a, b Player) int {
		return cmp.Compare(b.Points, a.Points)
	})
	return out
}

// SplitTiers splits seeded players into the top and bottom tiers.
func SplitTiers(seeded []Player) (top, bottom []Player) {
	half := len(seeded) / 2
	topSize := half
	if half%2 == 1 {
		topSize = half - 1
	}
	return seeded[:topSize], seeded[topSize:]
}

func allEqualPoints(players []Player) bool {
	for _, p := range players[1:] {
		if p.Points != players[0].Points {
			return false
		}
	}
	return true
}

func ids(players []Player) []sharedtypes.PlayerID {
	out := make([]sharedtypes.PlayerID, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

// pairTier pairs one tier. It first searches for a repeat-free assignment and
// falls back to the greedy scan, which may force repeats, when none is found
// within the search budget.
func pairTier(tier Tier, players []sharedtypes.PlayerID, previous PairSet) ([]Pair, []ForcedRepeatPairing) {
	if len(players) == 0 {
		return nil, nil
	}

	s := &pairSearch{
		players:  players,
		previous: previous,
		used:     make([]bool, len(players)),
		budget:   maxSearchNodes,
		wildcard: -1,
	}
	if s.solve(len(players), len(players)%2 == 1) {
		pairs := make([]Pair, 0, len(s.pairs)+1)
		for _, ij := range s.pairs {
			p2 := players[ij[1]]
			pairs = append(pairs, Pair{Tier: tier, Player1: players[ij[0]], Player2: &p2})
		}
		if s.wildcard >= 0 {
			pairs = append(pairs, Pair{Tier: tier, Player1: players[s.wildcard]})
		}
		return pairs, nil
	}

	return greedyPairTier(tier, players, previous)
}

// pairSearch is a bounded backtracking search over repeat-free pairings.
// The first unused player is always paired with the earliest acceptable
// partner, so when the plain greedy scan succeeds the search returns the
// same pairing.
type pairSearch struct {
	players  []sharedtypes.PlayerID
	previous PairSet
	used     []bool
	budget   int
	pairs    [][2]int
	wildcard int
}

func (s *pairSearch) solve(remaining int, wildcardFree bool) bool {
	if remaining == 0 {
		return true
	}
	if s.budget <= 0 {
		return false
	}
	s.budget--

	first := slices.Index(s.used, false)
	s.used[first] = true

	for j := first + 1; j < len(s.players); j++ {
		if s.used[j] || s.previous.Has(s.players[first], s.players[j]) {
			continue
		}
		s.used[j] = true
		s.pairs = append(s.pairs, [2]int{first, j})
		if s.solve(remaining-2, wildcardFree) {
			return true
		}
		s.pairs = s.pairs[:len(s.pairs)-1]
		s.used[j] = false
	}

	if wildcardFree {
		s.wildcard = first
		if s.solve(remaining-1, false) {
			return true
		}
		s.wildcard = -1
	}

	s.used[first] = false
	return false
}

// greedyPairTier repeatedly takes the first remaining player with an
// acceptable partner and commits that pair. When no remaining player has an
// acceptable partner, the first two remaining players are paired anyway and
// the repeat is reported.
func greedyPairTier(tier Tier, players []sharedtypes.PlayerID, previous PairSet) ([]Pair, []ForcedRepeatPairing) {
	remaining := slices.Clone(players)
	var pairs []Pair
	var forced []ForcedRepeatPairing

	commit := func(i, j int) {
		p1, p2 := remaining[i], remaining[j]
		pairs = append(pairs, Pair{Tier: tier, Player1: p1, Player2: &p2})
		// j > i, so removing j first keeps i valid.
		remaining = slices.Delete(remaining, j, j+1)
		remaining = slices.Delete(remaining, i, i+1)
	}

	for attempt := 0; len(remaining) >= 2 && attempt < maxGreedyAttempts; attempt++ {
		i, j, ok := firstAcceptable(remaining, previous)
		if !ok {
			forced = append(forced, ForcedRepeatPairing{Tier: tier, Player1: remaining[0], Player2: remaining[1]})
			i, j = 0, 1
		}
		commit(i, j)
	}

	for len(remaining) >= 2 {
		if previous.Has(remaining[0], remaining[1]) {
			forced = append(forced, ForcedRepeatPairing{Tier: tier, Player1: remaining[0], Player2: remaining[1]})
		}
		commit(0, 1)
	}

	if len(remaining) == 1 {
		pairs = append(pairs, Pair{Tier: tier, Player1: remaining[0]})
	}
	return pairs, forced
}

func firstAcceptable(remaining []sharedtypes.PlayerID, previous PairSet) (int, int, bool) {
	for i := range remaining {
		for j := i + 1; j < len(remaining); j++ {
			if !previous.Has(remaining[i], remaining[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}
