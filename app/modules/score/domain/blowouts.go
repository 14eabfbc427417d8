package scoredomain

import (
	"fmt"

	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

// BlowoutSource tells how a blowout record was entered.
type BlowoutSource string

const (
	SourceSubmission BlowoutSource = "submission"
	SourceManual     BlowoutSource = "manual"
)

// BlowoutRecord is a player-level blowout between an applier and a victim.
type BlowoutRecord struct {
	Applier sharedtypes.PlayerID
	Victim  sharedtypes.PlayerID
	Source  BlowoutSource
}

// PairMembership maps each paired player of an event to their pair identity.
type PairMembership map[sharedtypes.PlayerID]string

// GroupOf returns the dedup group of a player: their pair when they were
// drawn into one, otherwise the player alone.
func (m PairMembership) GroupOf(p sharedtypes.PlayerID) string {
	if pair, ok := m[p]; ok && pair != "" {
		return "pair:" + pair
	}
	return "player:" + string(p)
}

// SameGroup reports whether a and b count as one side.
func (m PairMembership) SameGroup(a, b sharedtypes.PlayerID) bool {
	return m.GroupOf(a) == m.GroupOf(b)
}

// Tally is a player's deduplicated blowout counts for one event.
type Tally struct {
	Applied  int
	Received int
}

// TallyBlowouts counts, for every player named in records, the distinct
// victim groups they applied a blowout to and the distinct applier groups
// that named them as victim. Two members of one pair naming the same victim
// pair count once on each side.
func TallyBlowouts(records []BlowoutRecord, membership PairMembership) map[sharedtypes.PlayerID]Tally {
	applied := map[sharedtypes.PlayerID]map[string]struct{}{}
	received := map[sharedtypes.PlayerID]map[string]struct{}{}

	for _, r := range records {
		if r.Applier == r.Victim {
			continue
		}
		addGroup(applied, r.Applier, membership.GroupOf(r.Victim))
		addGroup(received, r.Victim, membership.GroupOf(r.Applier))
	}

	out := make(map[sharedtypes.PlayerID]Tally, len(applied)+len(received))
	for p, groups := range applied {
		t := out[p]
		t.Applied = len(groups)
		out[p] = t
	}
	for p, groups := range received {
		t := out[p]
		t.Received = len(groups)
		out[p] = t
	}
	return out
}

// TallyFor is TallyBlowouts restricted to one player.
func TallyFor(records []BlowoutRecord, membership PairMembership, player sharedtypes.PlayerID) Tally {
	return TallyBlowouts(records, membership)[player]
}

func addGroup(m map[sharedtypes.PlayerID]map[string]struct{}, p sharedtypes.PlayerID, group string) {
	if m[p] == nil {
		m[p] = map[string]struct{}{}
	}
	m[p][group] = struct{}{}
}

// NormalizeVictims deduplicates victims and rejects the applier or the
// applier's own partner as a victim.
func NormalizeVictims(applier sharedtypes.PlayerID, victims []sharedtypes.PlayerID, membership PairMembership) ([]sharedtypes.PlayerID, error) {
	seen := make(map[sharedtypes.PlayerID]struct{}, len(victims))
	out := make([]sharedtypes.PlayerID, 0, len(victims))
	for _, v := range victims {
		if v == "" {
			return nil, fmt.Errorf("%w: empty victim id", ErrInvalidScoreInput)
		}
		if v == applier {
			return nil, fmt.Errorf("%w: player %s cannot blow out themselves", ErrInvalidScoreInput, applier)
		}
		if membership.SameGroup(applier, v) {
			return nil, fmt.Errorf("%w: player %s cannot blow out their own partner %s", ErrInvalidScoreInput, applier, v)
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// AffectedPlayers returns every player named as applier or victim in records.
func AffectedPlayers(records []BlowoutRecord) []sharedtypes.PlayerID {
	seen := map[sharedtypes.PlayerID]struct{}{}
	var out []sharedtypes.PlayerID
	add := func(p sharedtypes.PlayerID) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	for _, r := range records {
		add(r.Applier)
		add(r.Victim)
	}
	return out
}
