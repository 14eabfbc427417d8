package drawdomain

import (
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

// Player is an eligible attendee with their current ranking points.
type Player struct {
	ID     sharedtypes.PlayerID
	Points float64
}

// Tier restricts who may be paired or matched together.
type Tier string

const (
	TierTop    Tier = "top"
	TierBottom Tier = "bottom"
)

// Pair is two players, or one player and a wildcard slot, playing together
// for one event. Seq is unique within a draw.
type Pair struct {
	Seq     int                   `json:"seq"`
	Tier    Tier                  `json:"tier"`
	Player1 sharedtypes.PlayerID  `json:"player1_id"`
	Player2 *sharedtypes.PlayerID `json:"player2_id,omitempty"`
}

// IsWildcard reports whether the pair has no second player.
func (p Pair) IsWildcard() bool { return p.Player2 == nil }

// Members returns the one or two players of the pair.
func (p Pair) Members() []sharedtypes.PlayerID {
	if p.Player2 == nil {
		return []sharedtypes.PlayerID{p.Player1}
	}
	return []sharedtypes.PlayerID{p.Player1, *p.Player2}
}

// Match is a fixture between two pairs of the same tier. PairA < PairB.
type Match struct {
	Seq   int  `json:"seq"`
	Tier  Tier `json:"tier"`
	PairA int  `json:"pair_a_seq"`
	PairB int  `json:"pair_b_seq"`
}

// PairKey is an unordered pair of players, normalized lower id first.
type PairKey struct {
	A sharedtypes.PlayerID
	B sharedtypes.PlayerID
}

// NewPairKey normalizes (a, b) so that NewPairKey(a, b) == NewPairKey(b, a).
func NewPairKey(a, b sharedtypes.PlayerID) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// PairSet is a set of unordered player pairs.
type PairSet map[PairKey]struct{}

// Add inserts the unordered pair (a, b).
func (s PairSet) Add(a, b sharedtypes.PlayerID) {
	s[NewPairKey(a, b)] = struct{}{}
}

// Has reports whether the unordered pair (a, b) is present.
func (s PairSet) Has(a, b sharedtypes.PlayerID) bool {
	if s == nil {
		return false
	}
	_, ok := s[NewPairKey(a, b)]
	return ok
}

// PairSetFromPairs collects the player pairings of a draw, ignoring wildcards.
func PairSetFromPairs(pairs []Pair) PairSet {
	set := make(PairSet, len(pairs))
	for _, p := range pairs {
		if p.Player2 != nil {
			set.Add(p.Player1, *p.Player2)
		}
	}
	return set
}

// ForcedRepeatPairing records a pair that repeats a pairing from the
// previous event because no alternative was found.
type ForcedRepeatPairing struct {
	Tier    Tier                 `json:"tier"`
	Player1 sharedtypes.PlayerID `json:"player1_id"`
	Player2 sharedtypes.PlayerID `json:"player2_id"`
}

// PartialScheduleWarning records a pair that could not reach its match quota.
type PartialScheduleWarning struct {
	Tier      Tier `json:"tier"`
	PairSeq   int  `json:"pair_seq"`
	Scheduled int  `json:"scheduled"`
	Wanted    int  `json:"wanted"`
}

// PairingResult is the output of ComputeDraw.
type PairingResult struct {
	Pairs         []Pair
	ForcedRepeats []ForcedRepeatPairing
}

// PairsInTier returns the pairs of the given tier in sequence order.
func (r PairingResult) PairsInTier(t Tier) []Pair {
	out := make([]Pair, 0, len(r.Pairs))
	for _, p := range r.Pairs {
		if p.Tier == t {
			out = append(out, p)
		}
	}
	return out
}

// ScheduleResult is the output of GenerateMatches for one tier.
type ScheduleResult struct {
	Matches    []Match
	Shortfalls []PartialScheduleWarning
	NextSeq    int
}
