package drawservice

import (
	"context"
	"errors"
	"fmt"

	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-night/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DeleteDraw removes a draw with its pairs and matches. It holds the same
// event lock as RunDraw, so a delete never interleaves with a replace.
func (s *DrawService) DeleteDraw(ctx context.Context, drawID uuid.UUID) (*DrawSummary, error) {
	result, err := withTelemetry(s, ctx, "DeleteDraw", drawID.String(), func(ctx context.Context) (results.OperationResult[*DrawSummary, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*DrawSummary, error], error) {
			existing, err := s.repo.GetDrawByID(ctx, db, drawID)
			if err != nil {
				if errors.Is(err, drawdb.ErrNotFound) {
					return results.FailureResult[*DrawSummary, error](err), nil
				}
				return results.OperationResult[*DrawSummary, error]{}, err
			}
			event := sharedtypes.EventKey{LeagueID: existing.LeagueID, Date: existing.EventDate}
			if err := s.repo.AcquireEventLock(ctx, db, event); err != nil {
				return results.OperationResult[*DrawSummary, error]{}, err
			}

			// A RunDraw that held the lock first has replaced the row.
			deleted, err := s.repo.DeleteDrawByID(ctx, db, drawID)
			if err != nil {
				if errors.Is(err, drawdb.ErrNotFound) {
					return results.FailureResult[*DrawSummary, error](err), nil
				}
				return results.OperationResult[*DrawSummary, error]{}, err
			}
			summary := summaryFromRow(deleted)
			return results.SuccessResult[*DrawSummary, error](&summary), nil
		})
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// GetDrawByID returns the header of a draw.
func (s *DrawService) GetDrawByID(ctx context.Context, drawID uuid.UUID) (*DrawSummary, error) {
	result, err := withTelemetry(s, ctx, "GetDrawByID", drawID.String(), func(ctx context.Context) (results.OperationResult[*DrawSummary, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*DrawSummary, error], error) {
			draw, err := s.repo.GetDrawByID(ctx, db, drawID)
			if err != nil {
				if errors.Is(err, drawdb.ErrNotFound) {
					return results.FailureResult[*DrawSummary, error](err), nil
				}
				return results.OperationResult[*DrawSummary, error]{}, err
			}
			summary := summaryFromRow(draw)
			return results.SuccessResult[*DrawSummary, error](&summary), nil
		})
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// GetDraw returns the current draw of an event.
func (s *DrawService) GetDraw(ctx context.Context, event sharedtypes.EventKey) (*DrawResult, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	result, err := withTelemetry(s, ctx, "GetDraw", event.String(), func(ctx context.Context) (results.OperationResult[*DrawResult, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*DrawResult, error], error) {
			draw, err := s.repo.GetDrawForEvent(ctx, db, event)
			if err != nil {
				if errors.Is(err, drawdb.ErrNotFound) {
					return results.FailureResult[*DrawResult, error](err), nil
				}
				return results.OperationResult[*DrawResult, error]{}, err
			}
			return results.SuccessResult[*DrawResult, error](resultFromRow(draw)), nil
		})
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// PairDirectory resolves the pair membership of an event's draw inside the
// caller's transaction. Scoring uses it to group blowout records.
type PairDirectory struct {
	repo drawdb.Repository
}

func NewPairDirectory(repo drawdb.Repository) *PairDirectory {
	return &PairDirectory{repo: repo}
}

// PairMembership maps every paired player of the event to the id of their
// pair. Empty when the event has no draw.
func (d *PairDirectory) PairMembership(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (map[sharedtypes.PlayerID]string, error) {
	pairs, err := d.repo.ListPairs(ctx, db, event)
	if err != nil {
		return nil, fmt.Errorf("failed to list pairs: %w", err)
	}
	out := make(map[sharedtypes.PlayerID]string, len(pairs)*2)
	for _, p := range pairs {
		id := p.ID.String()
		out[p.Player1ID] = id
		if p.Player2ID != nil {
			out[*p.Player2ID] = id
		}
	}
	return out, nil
}
