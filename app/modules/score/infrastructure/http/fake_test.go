package scorehttp

import (
	"context"

	scoreservice "github.com/Black-And-White-Club/league-night/app/modules/score/application"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

type FakeScoreService struct {
	trace []string

	SubmitScoreFunc         func(ctx context.Context, cmd scoreservice.SubmitScoreCommand) (*scoreservice.SubmitScoreResult, error)
	SubmitManualBlowoutFunc func(ctx context.Context, cmd scoreservice.ManualBlowoutCommand) (*scoreservice.ManualBlowoutResult, error)
	ResetLeagueScoresFunc   func(ctx context.Context, cmd scoreservice.ResetLeagueCommand) (*scoreservice.ResetLeagueResult, error)
	GetEventScoresFunc      func(ctx context.Context, event sharedtypes.EventKey) ([]scoreservice.PlayerScore, error)
	GetPlayerHistoryFunc    func(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]scoreservice.PlayerScore, error)
	RenderPointsChartFunc   func(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]byte, error)
}

func NewFakeScoreService() *FakeScoreService {
	return &FakeScoreService{trace: []string{}}
}

func (f *FakeScoreService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoreService) SubmitScore(ctx context.Context, cmd scoreservice.SubmitScoreCommand) (*scoreservice.SubmitScoreResult, error) {
	f.record("SubmitScore")
	if f.SubmitScoreFunc != nil {
		return f.SubmitScoreFunc(ctx, cmd)
	}
	return &scoreservice.SubmitScoreResult{}, nil
}

func (f *FakeScoreService) SubmitManualBlowout(ctx context.Context, cmd scoreservice.ManualBlowoutCommand) (*scoreservice.ManualBlowoutResult, error) {
	f.record("SubmitManualBlowout")
	if f.SubmitManualBlowoutFunc != nil {
		return f.SubmitManualBlowoutFunc(ctx, cmd)
	}
	return &scoreservice.ManualBlowoutResult{}, nil
}

func (f *FakeScoreService) ResetLeagueScores(ctx context.Context, cmd scoreservice.ResetLeagueCommand) (*scoreservice.ResetLeagueResult, error) {
	f.record("ResetLeagueScores")
	if f.ResetLeagueScoresFunc != nil {
		return f.ResetLeagueScoresFunc(ctx, cmd)
	}
	return &scoreservice.ResetLeagueResult{LeagueID: cmd.LeagueID}, nil
}

func (f *FakeScoreService) GetEventScores(ctx context.Context, event sharedtypes.EventKey) ([]scoreservice.PlayerScore, error) {
	f.record("GetEventScores")
	if f.GetEventScoresFunc != nil {
		return f.GetEventScoresFunc(ctx, event)
	}
	return nil, nil
}

func (f *FakeScoreService) GetPlayerHistory(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]scoreservice.PlayerScore, error) {
	f.record("GetPlayerHistory")
	if f.GetPlayerHistoryFunc != nil {
		return f.GetPlayerHistoryFunc(ctx, league, player)
	}
	return nil, nil
}

func (f *FakeScoreService) RenderPointsChart(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]byte, error) {
	f.record("RenderPointsChart")
	if f.RenderPointsChartFunc != nil {
		return f.RenderPointsChartFunc(ctx, league, player)
	}
	return []byte("png"), nil
}

var _ scoreservice.Service = (*FakeScoreService)(nil)
