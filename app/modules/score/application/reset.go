package scoreservice

import (
	"context"
	"fmt"

	scoredomain "github.com/Black-And-White-Club/league-night/app/modules/score/domain"
	"github.com/Black-And-White-Club/league-night/app/shared/observability/attr"
	"github.com/Black-And-White-Club/league-night/app/shared/results"
	"github.com/uptrace/bun"
)

// ResetLeagueScores deletes every blowout record of the league and zeroes
// every score record, across all events, in one transaction.
func (s *ScoreService) ResetLeagueScores(ctx context.Context, cmd ResetLeagueCommand) (*ResetLeagueResult, error) {
	result, err := withTelemetry(s, ctx, "ResetLeagueScores", string(cmd.LeagueID), func(ctx context.Context) (results.OperationResult[*ResetLeagueResult, error], error) {
		if cmd.LeagueID == "" {
			return results.FailureResult[*ResetLeagueResult, error](
				fmt.Errorf("%w: league id is required", scoredomain.ErrInvalidScoreInput),
			), nil
		}
		if !cmd.Confirm {
			return results.FailureResult[*ResetLeagueResult, error](ErrConfirmationRequired), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*ResetLeagueResult, error], error) {
			deleted, err := s.repo.DeleteLeagueBlowouts(ctx, db, cmd.LeagueID)
			if err != nil {
				return results.OperationResult[*ResetLeagueResult, error]{}, err
			}
			reset, err := s.repo.ResetLeagueScores(ctx, db, cmd.LeagueID)
			if err != nil {
				return results.OperationResult[*ResetLeagueResult, error]{}, err
			}

			s.logger.WarnContext(ctx, "League scores reset",
				attr.ExtractCorrelationID(ctx),
				attr.LeagueID(cmd.LeagueID),
				attr.PlayerID(cmd.RequestedBy),
				attr.Int("blowouts_deleted", deleted),
				attr.Int("scores_reset", reset),
			)
			return results.SuccessResult[*ResetLeagueResult, error](&ResetLeagueResult{
				LeagueID:        cmd.LeagueID,
				BlowoutsDeleted: deleted,
				ScoresReset:     reset,
			}), nil
		})
	})
	return unwrap(result, err)
}
