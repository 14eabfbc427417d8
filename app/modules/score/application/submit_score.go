package scoreservice

import (
	"context"
	"errors"
	"fmt"

	scoredomain "github.com/Black-And-White-Club/league-night/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-night/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type submission struct {
	score   PlayerScore
	victims []sharedtypes.PlayerID
}

// SubmitScore stores a player's self-reported result for an event, replaces
// the blowouts they applied, and then recomputes every victim whose received
// count may have changed.
func (s *ScoreService) SubmitScore(ctx context.Context, cmd SubmitScoreCommand) (*SubmitScoreResult, error) {
	result, err := withTelemetry(s, ctx, "SubmitScore", cmd.Event.String()+"/"+string(cmd.Player), func(ctx context.Context) (results.OperationResult[*SubmitScoreResult, error], error) {
		if err := validateSubmission(cmd); err != nil {
			return results.FailureResult[*SubmitScoreResult, error](err), nil
		}

		sub, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*submission, error], error) {
			return s.submitLogic(ctx, db, cmd)
		})
		if err != nil || sub.IsFailure() {
			return results.OperationResult[*SubmitScoreResult, error]{Failure: sub.Failure}, err
		}

		recomputed, failed := s.recomputeAll(ctx, cmd.Event, (*sub.Success).victims)
		return results.SuccessResult[*SubmitScoreResult, error](&SubmitScoreResult{
			Score:            (*sub.Success).score,
			Recomputed:       recomputed,
			FailedRecomputes: failed,
		}), nil
	})
	return unwrap(result, err)
}

func (s *ScoreService) submitLogic(ctx context.Context, db bun.IDB, cmd SubmitScoreCommand) (results.OperationResult[*submission, error], error) {
	if err := s.repo.AcquireEventLock(ctx, db, cmd.Event); err != nil {
		return results.OperationResult[*submission, error]{}, err
	}

	status, err := s.status.StatusOf(ctx, db, cmd.Event, cmd.Player)
	if err != nil {
		return results.OperationResult[*submission, error]{}, err
	}
	if !status.IsPlaying() && !status.IsSocial() {
		return results.FailureResult[*submission, error](
			fmt.Errorf("%w: %s has status %s for %s", ErrPlayerNotEligible, cmd.Player, status, cmd.Event),
		), nil
	}

	ledger := scoredomain.Ledger{
		Confirmed:       cmd.Confirmed,
		BBQParticipated: cmd.BBQParticipated,
		Victories:       cmd.Victories,
		Defeats:         cmd.Defeats,
	}
	requested := cmd.AppliedVictims
	if status == sharedtypes.StatusBBQOnly {
		ledger = scoredomain.SocialOnlyLedger()
		requested = nil
	}

	membership, err := s.membership(ctx, db, cmd.Event)
	if err != nil {
		return results.OperationResult[*submission, error]{}, err
	}
	victims, err := scoredomain.NormalizeVictims(cmd.Player, requested, membership)
	if err != nil {
		return results.FailureResult[*submission, error](err), nil
	}
	outsider, outsiderStatus, err := s.firstNotPlaying(ctx, db, cmd.Event, victims)
	if err != nil {
		return results.OperationResult[*submission, error]{}, err
	}
	if outsider != "" {
		return results.FailureResult[*submission, error](
			fmt.Errorf("%w: victim %s has status %s for %s", ErrPlayerNotEligible, outsider, outsiderStatus, cmd.Event),
		), nil
	}

	if err := s.seedSocialLedgers(ctx, db, cmd.Event); err != nil {
		return results.OperationResult[*submission, error]{}, err
	}

	previous, err := s.repo.ListBlowoutsByApplier(ctx, db, cmd.Event, cmd.Player)
	if err != nil {
		return results.OperationResult[*submission, error]{}, err
	}
	if _, err := s.repo.DeleteBlowoutsByApplier(ctx, db, cmd.Event, cmd.Player); err != nil {
		return results.OperationResult[*submission, error]{}, err
	}

	pairID := applierPair(membership, cmd.Player)
	records := make([]*scoredb.BlowoutRecord, 0, len(victims))
	for _, v := range victims {
		records = append(records, &scoredb.BlowoutRecord{
			LeagueID:      cmd.Event.LeagueID,
			EventDate:     cmd.Event.Date,
			ApplierPairID: pairID,
			ApplierID:     cmd.Player,
			VictimID:      v,
			Source:        string(scoredomain.SourceSubmission),
			CreatedBy:     cmd.Player,
		})
	}
	if err := s.repo.InsertBlowouts(ctx, db, records); err != nil {
		return results.OperationResult[*submission, error]{}, err
	}
	if s.metrics != nil && len(records) > 0 {
		s.metrics.RecordBlowouts(ctx, string(scoredomain.SourceSubmission), len(records))
	}

	all, err := s.repo.ListBlowouts(ctx, db, cmd.Event)
	if err != nil {
		return results.OperationResult[*submission, error]{}, err
	}
	tally := scoredomain.TallyFor(toDomain(all), membership, cmd.Player)
	ledger.BlowoutsApplied = tally.Applied
	ledger.BlowoutsReceived = tally.Received

	record := recordFromLedger(cmd.Event, cmd.Player, ledger)
	record.Submitted = ledger.Confirmed
	if err := s.repo.UpsertScore(ctx, db, record); err != nil {
		return results.OperationResult[*submission, error]{}, err
	}

	affected := make([]sharedtypes.PlayerID, 0, len(previous)+len(victims))
	for _, r := range previous {
		affected = append(affected, r.VictimID)
	}
	affected = append(affected, victims...)

	return results.SuccessResult[*submission, error](&submission{
		score:   toPlayerScore(record),
		victims: dedupe(affected, cmd.Player),
	}), nil
}

func validateSubmission(cmd SubmitScoreCommand) error {
	if err := validateEvent(cmd.Event); err != nil {
		return err
	}
	if cmd.Player == "" {
		return fmt.Errorf("%w: player id is required", scoredomain.ErrInvalidScoreInput)
	}
	return scoredomain.Ledger{Victories: cmd.Victories, Defeats: cmd.Defeats}.Validate()
}

func validateEvent(event sharedtypes.EventKey) error {
	if event.LeagueID == "" {
		return fmt.Errorf("%w: league id is required", scoredomain.ErrInvalidScoreInput)
	}
	if _, err := sharedtypes.ParseEventDate(string(event.Date)); err != nil {
		return fmt.Errorf("%w: %v", scoredomain.ErrInvalidScoreInput, err)
	}
	return nil
}

// firstNotPlaying returns the first player whose attendance is not a playing
// status, or an empty id when all of them play.
func (s *ScoreService) firstNotPlaying(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, players []sharedtypes.PlayerID) (sharedtypes.PlayerID, sharedtypes.AttendanceStatus, error) {
	for _, p := range players {
		status, err := s.status.StatusOf(ctx, db, event, p)
		if err != nil {
			return "", "", err
		}
		if !status.IsPlaying() {
			return p, status, nil
		}
	}
	return "", "", nil
}

// seedSocialLedgers writes the fixed social ledger for every bbq_only
// attendee of the event who has no score yet.
func (s *ScoreService) seedSocialLedgers(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) error {
	social, err := s.status.SocialOnlyPlayers(ctx, db, event)
	if err != nil || len(social) == 0 {
		return err
	}
	existing, err := s.repo.ListEventScores(ctx, db, event)
	if err != nil {
		return err
	}
	scored := make(map[sharedtypes.PlayerID]struct{}, len(existing))
	for _, r := range existing {
		scored[r.PlayerID] = struct{}{}
	}

	seeded := 0
	for _, p := range social {
		if _, ok := scored[p]; ok {
			continue
		}
		if err := s.repo.UpsertScore(ctx, db, recordFromLedger(event, p, scoredomain.SocialOnlyLedger())); err != nil {
			return err
		}
		seeded++
	}
	if seeded > 0 {
		s.logger.InfoContext(ctx, "Seeded social-only ledgers",
			attr.ExtractCorrelationID(ctx),
			attr.Event(event),
			attr.Int("seeded", seeded),
		)
	}
	return nil
}

func (s *ScoreService) membership(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (scoredomain.PairMembership, error) {
	if s.pairs == nil {
		return scoredomain.PairMembership{}, nil
	}
	m, err := s.pairs.PairMembership(ctx, db, event)
	if err != nil {
		return nil, err
	}
	return scoredomain.PairMembership(m), nil
}

func applierPair(membership scoredomain.PairMembership, player sharedtypes.PlayerID) *uuid.UUID {
	id, err := uuid.Parse(membership[player])
	if err != nil {
		return nil
	}
	return &id
}

func recordFromLedger(event sharedtypes.EventKey, player sharedtypes.PlayerID, l scoredomain.Ledger) *scoredb.ScoreRecord {
	return &scoredb.ScoreRecord{
		LeagueID:         event.LeagueID,
		EventDate:        event.Date,
		PlayerID:         player,
		Confirmed:        l.Confirmed,
		BBQParticipated:  l.BBQParticipated,
		Victories:        l.Victories,
		Defeats:          l.Defeats,
		BlowoutsApplied:  l.BlowoutsApplied,
		BlowoutsReceived: l.BlowoutsReceived,
		TotalPoints:      scoredomain.CalculateTotal(l).Float64(),
	}
}

func ledgerOf(r *scoredb.ScoreRecord) scoredomain.Ledger {
	return scoredomain.Ledger{
		Confirmed:        r.Confirmed,
		BBQParticipated:  r.BBQParticipated,
		Victories:        r.Victories,
		Defeats:          r.Defeats,
		BlowoutsApplied:  r.BlowoutsApplied,
		BlowoutsReceived: r.BlowoutsReceived,
	}
}

func toPlayerScore(r *scoredb.ScoreRecord) PlayerScore {
	return PlayerScore{
		LeagueID:    r.LeagueID,
		EventDate:   r.EventDate,
		PlayerID:    r.PlayerID,
		Ledger:      ledgerOf(r),
		TotalPoints: r.TotalPoints,
		Submitted:   r.Submitted,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toDomain(rows []scoredb.BlowoutRecord) []scoredomain.BlowoutRecord {
	out := make([]scoredomain.BlowoutRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, scoredomain.BlowoutRecord{
			Applier: r.ApplierID,
			Victim:  r.VictimID,
			Source:  scoredomain.BlowoutSource(r.Source),
		})
	}
	return out
}

// dedupe keeps first occurrences and drops skip.
func dedupe(players []sharedtypes.PlayerID, skip sharedtypes.PlayerID) []sharedtypes.PlayerID {
	seen := map[sharedtypes.PlayerID]struct{}{skip: {}}
	out := make([]sharedtypes.PlayerID, 0, len(players))
	for _, p := range players {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, scoredb.ErrNotFound)
}
