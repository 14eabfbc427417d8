package drawdomain

import (
	"math/rand/v2"
	"slices"
)

const (
	// DefaultMatchesPerPair is the match quota of each pair.
	DefaultMatchesPerPair = 4
	// maxSchedulePasses bounds the scheduling loop of one tier.
	maxSchedulePasses = 100
)

type matchupKey struct{ a, b int }

func newMatchupKey(x, y int) matchupKey {
	if y < x {
		x, y = y, x
	}
	return matchupKey{a: x, b: y}
}

// GenerateMatches schedules fixtures between the pairs of one tier. Each pair
// plays at most matchesPerPair matches and never the same opponent twice.
// Matches are numbered from startSeq; ScheduleResult.NextSeq continues the
// numbering for the next tier.
//
// A tier with fewer than two pairs yields no matches. Pairs left under quota
// are reported as warnings, never as errors.
func GenerateMatches(pairs []Pair, matchesPerPair int, startSeq int, rng *rand.Rand) ScheduleResult {
	result := ScheduleResult{NextSeq: startSeq}
	if len(pairs) < 2 || matchesPerPair <= 0 {
		return result
	}

	order := slices.Clone(pairs)
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	counts := make(map[int]int, len(order))
	played := make(map[matchupKey]struct{})
	seq := startSeq

	for pass := 0; pass < maxSchedulePasses; pass++ {
		progress := false
		for _, p := range order {
			if counts[p.Seq] >= matchesPerPair {
				continue
			}
			opponent, ok := pickOpponent(p, order, counts, played, matchesPerPair)
			if !ok {
				continue
			}

			key := newMatchupKey(p.Seq, opponent.Seq)
			played[key] = struct{}{}
			counts[p.Seq]++
			counts[opponent.Seq]++
			result.Matches = append(result.Matches, Match{
				Seq:   seq,
				Tier:  p.Tier,
				PairA: key.a,
				PairB: key.b,
			})
			seq++
			progress = true
		}
		if !progress || allAtQuota(order, counts, matchesPerPair) {
			break
		}
	}

	for _, p := range order {
		if counts[p.Seq] < matchesPerPair {
			result.Shortfalls = append(result.Shortfalls, PartialScheduleWarning{
				Tier:      p.Tier,
				PairSeq:   p.Seq,
				Scheduled: counts[p.Seq],
				Wanted:    matchesPerPair,
			})
		}
	}
	slices.SortFunc(result.Shortfalls, func(a, b PartialScheduleWarning) int { return a.PairSeq - b.PairSeq })

	result.NextSeq = seq
	return result
}

// pickOpponent returns the under-quota pair p has not played yet with the
// fewest matches so far, ties going to the earliest in order.
func pickOpponent(p Pair, order []Pair, counts map[int]int, played map[matchupKey]struct{}, quota int) (Pair, bool) {
	var best Pair
	found := false
	for _, q := range order {
		if q.Seq == p.Seq || counts[q.Seq] >= quota {
			continue
		}
		if _, dup := played[newMatchupKey(p.Seq, q.Seq)]; dup {
			continue
		}
		if !found || counts[q.Seq] < counts[best.Seq] {
			best = q
			found = true
		}
	}
	return best, found
}

func allAtQuota(pairs []Pair, counts map[int]int, quota int) bool {
	for _, p := range pairs {
		if counts[p.Seq] < quota {
			return false
		}
	}
	return true
}
