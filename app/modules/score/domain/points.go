package scoredomain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Points is a score in tenths of a point, to prevent floating-point drift
// when totals are summed.
type Points int

const (
	AttendancePoints      Points = 25
	BBQPoints             Points = 25
	VictoryPoints         Points = 20
	BlowoutAppliedPoints  Points = 30
	BlowoutReceivedPoints Points = -30
)

// PointsFromFloat rounds f to the nearest tenth.
func PointsFromFloat(f float64) Points {
	return Points(math.Round(f * 10))
}

// Float64 returns p as a decimal value.
func (p Points) Float64() float64 { return float64(p) / 10 }

func (p Points) String() string {
	return strconv.FormatFloat(p.Float64(), 'f', 1, 64)
}

// ErrInvalidScoreInput is returned for negative counts or malformed blowout selections.
var ErrInvalidScoreInput = errors.New("invalid score input")

// Ledger holds the inputs of one player's total for one event.
type Ledger struct {
	Confirmed        bool `json:"confirmed"`
	BBQParticipated  bool `json:"bbq_participated"`
	Victories        int  `json:"victories"`
	Defeats          int  `json:"defeats"`
	BlowoutsApplied  int  `json:"blowouts_applied"`
	BlowoutsReceived int  `json:"blowouts_received"`
}

// SocialOnlyLedger is the fixed ledger of a bbq-only attendee.
func SocialOnlyLedger() Ledger {
	return Ledger{BBQParticipated: true}
}

// Validate rejects negative counts.
func (l Ledger) Validate() error {
	switch {
	case l.Victories < 0:
		return fmt.Errorf("%w: victories must be >= 0, got %d", ErrInvalidScoreInput, l.Victories)
	case l.Defeats < 0:
		return fmt.Errorf("%w: defeats must be >= 0, got %d", ErrInvalidScoreInput, l.Defeats)
	case l.BlowoutsApplied < 0:
		return fmt.Errorf("%w: blowouts applied must be >= 0, got %d", ErrInvalidScoreInput, l.BlowoutsApplied)
	case l.BlowoutsReceived < 0:
		return fmt.Errorf("%w: blowouts received must be >= 0, got %d", ErrInvalidScoreInput, l.BlowoutsReceived)
	}
	return nil
}

// CalculateTotal applies the points formula. Defeats do not score.
func CalculateTotal(l Ledger) Points {
	var total Points
	if l.Confirmed {
		total += AttendancePoints
	}
	if l.BBQParticipated {
		total += BBQPoints
	}
	total += Points(l.Victories) * VictoryPoints
	total += Points(l.BlowoutsApplied) * BlowoutAppliedPoints
	total += Points(l.BlowoutsReceived) * BlowoutReceivedPoints
	return total
}
