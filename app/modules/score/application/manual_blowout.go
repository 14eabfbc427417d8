package scoreservice

import (
	"context"
	"fmt"

	scoredomain "github.com/Black-And-White-Club/league-night/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// SubmitManualBlowout records a blowout from every applier to every victim
// without an applier pair, then recomputes everyone named. Pair grouping is
// resolved from the draw when the records are tallied.
func (s *ScoreService) SubmitManualBlowout(ctx context.Context, cmd ManualBlowoutCommand) (*ManualBlowoutResult, error) {
	result, err := withTelemetry(s, ctx, "SubmitManualBlowout", cmd.Event.String(), func(ctx context.Context) (results.OperationResult[*ManualBlowoutResult, error], error) {
		appliers, victims, err := validateManual(cmd)
		if err != nil {
			return results.FailureResult[*ManualBlowoutResult, error](err), nil
		}

		inserted, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[int, error], error) {
			return s.manualLogic(ctx, db, cmd, appliers, victims)
		})
		if err != nil || inserted.IsFailure() {
			return results.OperationResult[*ManualBlowoutResult, error]{Failure: inserted.Failure}, err
		}

		affected := dedupe(append(append([]sharedtypes.PlayerID{}, appliers...), victims...), "")
		recomputed, failed := s.recomputeAll(ctx, cmd.Event, affected)
		return results.SuccessResult[*ManualBlowoutResult, error](&ManualBlowoutResult{
			Records:          *inserted.Success,
			Recomputed:       recomputed,
			FailedRecomputes: failed,
		}), nil
	})
	return unwrap(result, err)
}

func (s *ScoreService) manualLogic(ctx context.Context, db bun.IDB, cmd ManualBlowoutCommand, appliers, victims []sharedtypes.PlayerID) (results.OperationResult[int, error], error) {
	if err := s.repo.AcquireEventLock(ctx, db, cmd.Event); err != nil {
		return results.OperationResult[int, error]{}, err
	}
	named := append(append([]sharedtypes.PlayerID{}, appliers...), victims...)
	outsider, status, err := s.firstNotPlaying(ctx, db, cmd.Event, named)
	if err != nil {
		return results.OperationResult[int, error]{}, err
	}
	if outsider != "" {
		return results.FailureResult[int, error](
			fmt.Errorf("%w: %s has status %s for %s", ErrPlayerNotEligible, outsider, status, cmd.Event),
		), nil
	}
	membership, err := s.membership(ctx, db, cmd.Event)
	if err != nil {
		return results.OperationResult[int, error]{}, err
	}

	records := make([]*scoredb.BlowoutRecord, 0, len(appliers)*len(victims))
	for _, a := range appliers {
		for _, v := range victims {
			if membership.SameGroup(a, v) {
				return results.FailureResult[int, error](
					fmt.Errorf("%w: %s and %s are partners", scoredomain.ErrInvalidScoreInput, a, v),
				), nil
			}
			records = append(records, &scoredb.BlowoutRecord{
				LeagueID:  cmd.Event.LeagueID,
				EventDate: cmd.Event.Date,
				ApplierID: a,
				VictimID:  v,
				Source:    string(scoredomain.SourceManual),
				CreatedBy: cmd.RequestedBy,
			})
		}
	}
	if err := s.repo.InsertBlowouts(ctx, db, records); err != nil {
		return results.OperationResult[int, error]{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordBlowouts(ctx, string(scoredomain.SourceManual), len(records))
	}
	return results.SuccessResult[int, error](len(records)), nil
}

func validateManual(cmd ManualBlowoutCommand) (appliers, victims []sharedtypes.PlayerID, err error) {
	if err := validateEvent(cmd.Event); err != nil {
		return nil, nil, err
	}
	if len(cmd.Appliers) == 0 || len(cmd.Victims) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one applier and one victim are required", scoredomain.ErrInvalidScoreInput)
	}
	for _, p := range append(append([]sharedtypes.PlayerID{}, cmd.Appliers...), cmd.Victims...) {
		if p == "" {
			return nil, nil, fmt.Errorf("%w: empty player id", scoredomain.ErrInvalidScoreInput)
		}
	}
	appliers = dedupe(cmd.Appliers, "")
	victims = dedupe(cmd.Victims, "")
	isApplier := make(map[sharedtypes.PlayerID]bool, len(appliers))
	for _, a := range appliers {
		isApplier[a] = true
	}
	for _, v := range victims {
		if isApplier[v] {
			return nil, nil, fmt.Errorf("%w: %s is both applier and victim", scoredomain.ErrInvalidScoreInput, v)
		}
	}
	return appliers, victims, nil
}
