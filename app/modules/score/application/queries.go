package scoreservice

import (
	"context"
	"fmt"

	scoredomain "github.com/Black-And-White-Club/league-night/app/modules/score/domain"
	"github.com/Black-And-White-Club/league-night/app/shared/results"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

// GetEventScores returns the event's ledgers, best total first.
func (s *ScoreService) GetEventScores(ctx context.Context, event sharedtypes.EventKey) ([]PlayerScore, error) {
	result, err := withTelemetry(s, ctx, "GetEventScores", event.String(), func(ctx context.Context) (results.OperationResult[[]PlayerScore, error], error) {
		if err := validateEvent(event); err != nil {
			return results.FailureResult[[]PlayerScore, error](err), nil
		}
		rows, err := s.repo.ListEventScores(ctx, nil, event)
		if err != nil {
			return results.OperationResult[[]PlayerScore, error]{}, err
		}
		out := make([]PlayerScore, 0, len(rows))
		for i := range rows {
			out = append(out, toPlayerScore(&rows[i]))
		}
		return results.SuccessResult[[]PlayerScore, error](out), nil
	})
	return unwrap(result, err)
}

// GetPlayerHistory returns a player's ledgers in the league, oldest first.
func (s *ScoreService) GetPlayerHistory(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]PlayerScore, error) {
	result, err := withTelemetry(s, ctx, "GetPlayerHistory", string(league)+"/"+string(player), func(ctx context.Context) (results.OperationResult[[]PlayerScore, error], error) {
		if league == "" || player == "" {
			return results.FailureResult[[]PlayerScore, error](
				fmt.Errorf("%w: league and player ids are required", scoredomain.ErrInvalidScoreInput),
			), nil
		}
		rows, err := s.repo.ListPlayerScores(ctx, nil, league, player)
		if err != nil {
			return results.OperationResult[[]PlayerScore, error]{}, err
		}
		out := make([]PlayerScore, 0, len(rows))
		for i := range rows {
			out = append(out, toPlayerScore(&rows[i]))
		}
		return results.SuccessResult[[]PlayerScore, error](out), nil
	})
	return unwrap(result, err)
}
