package attendancehandlers

import (
	"context"

	attendanceservice "github.com/Black-And-White-Club/league-night/app/modules/attendance/application"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
)

type FakeAttendanceService struct {
	trace []string

	RecordStatusFunc     func(ctx context.Context, cmd attendanceservice.RecordStatusCommand) error
	SetRankingPointsFunc func(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID, points float64) error
}

func NewFakeAttendanceService() *FakeAttendanceService {
	return &FakeAttendanceService{trace: []string{}}
}

func (f *FakeAttendanceService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAttendanceService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAttendanceService) EligiblePlayers(ctx context.Context, event sharedtypes.EventKey) ([]sharedtypes.RankedPlayer, error) {
	f.record("EligiblePlayers")
	return nil, nil
}

func (f *FakeAttendanceService) StatusOf(ctx context.Context, event sharedtypes.EventKey, player sharedtypes.PlayerID) (sharedtypes.AttendanceStatus, error) {
	f.record("StatusOf")
	return sharedtypes.StatusNoResponse, nil
}

func (f *FakeAttendanceService) RecordStatus(ctx context.Context, cmd attendanceservice.RecordStatusCommand) error {
	f.record("RecordStatus")
	if f.RecordStatusFunc != nil {
		return f.RecordStatusFunc(ctx, cmd)
	}
	return nil
}

func (f *FakeAttendanceService) SetRankingPoints(ctx context.Context, league sharedtypes.LeagueID, player sharedtypes.PlayerID, points float64) error {
	f.record("SetRankingPoints")
	if f.SetRankingPointsFunc != nil {
		return f.SetRankingPointsFunc(ctx, league, player, points)
	}
	return nil
}

var _ attendanceservice.Service = (*FakeAttendanceService)(nil)
