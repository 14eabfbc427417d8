package scoreservice

import (
	"context"

	scoredomain "github.com/Black-And-White-Club/league-night/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-night/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// recomputeAll recomputes each player in its own transaction. One failure
// does not stop the others.
func (s *ScoreService) recomputeAll(ctx context.Context, event sharedtypes.EventKey, players []sharedtypes.PlayerID) (recomputed, failed []sharedtypes.PlayerID) {
	for _, p := range players {
		if err := s.recomputePlayer(ctx, event, p); err != nil {
			s.logger.ErrorContext(ctx, "Failed to recompute affected player",
				attr.ExtractCorrelationID(ctx),
				attr.Event(event),
				attr.PlayerID(p),
				attr.Error(err),
			)
			if s.metrics != nil {
				s.metrics.RecordRecompute(ctx, false)
			}
			failed = append(failed, p)
			continue
		}
		if s.metrics != nil {
			s.metrics.RecordRecompute(ctx, true)
		}
		recomputed = append(recomputed, p)
	}
	return recomputed, failed
}

// recomputePlayer re-reads every blowout record of the event and rewrites
// the player's applied and received counts and total. A player without a
// score record gets an unsubmitted one. Social-only attendees keep the fixed
// social ledger and players who are not attending get no record at all.
func (s *ScoreService) recomputePlayer(ctx context.Context, event sharedtypes.EventKey, player sharedtypes.PlayerID) error {
	_, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*scoredb.ScoreRecord, error], error) {
		if err := s.repo.AcquireEventLock(ctx, db, event); err != nil {
			return results.OperationResult[*scoredb.ScoreRecord, error]{}, err
		}
		status, err := s.status.StatusOf(ctx, db, event, player)
		if err != nil {
			return results.OperationResult[*scoredb.ScoreRecord, error]{}, err
		}
		switch {
		case status.IsPlaying():
		case status.IsSocial():
			record := recordFromLedger(event, player, scoredomain.SocialOnlyLedger())
			if err := s.repo.UpsertScore(ctx, db, record); err != nil {
				return results.OperationResult[*scoredb.ScoreRecord, error]{}, err
			}
			return results.SuccessResult[*scoredb.ScoreRecord, error](record), nil
		default:
			return results.SuccessResult[*scoredb.ScoreRecord, error](nil), nil
		}
		membership, err := s.membership(ctx, db, event)
		if err != nil {
			return results.OperationResult[*scoredb.ScoreRecord, error]{}, err
		}
		all, err := s.repo.ListBlowouts(ctx, db, event)
		if err != nil {
			return results.OperationResult[*scoredb.ScoreRecord, error]{}, err
		}

		var ledger scoredomain.Ledger
		submitted := false
		existing, err := s.repo.GetScore(ctx, db, event, player)
		switch {
		case err == nil:
			ledger = ledgerOf(existing)
			submitted = existing.Submitted
		case !isNotFound(err):
			return results.OperationResult[*scoredb.ScoreRecord, error]{}, err
		}

		tally := scoredomain.TallyFor(toDomain(all), membership, player)
		ledger.BlowoutsApplied = tally.Applied
		ledger.BlowoutsReceived = tally.Received

		record := recordFromLedger(event, player, ledger)
		record.Submitted = submitted
		if err := s.repo.UpsertScore(ctx, db, record); err != nil {
			return results.OperationResult[*scoredb.ScoreRecord, error]{}, err
		}
		return results.SuccessResult[*scoredb.ScoreRecord, error](record), nil
	})
	return err
}
