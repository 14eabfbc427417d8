package attendanceservice

import (
	"context"

	attendancedb "github.com/Black-And-White-Club/league-night/app/modules/attendance/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Attendance Repo
// ------------------------

type FakeAttendanceRepo struct {
	trace []string

	ListEligibleFunc func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]attendancedb.EligibleRow, error)
	ListByStatusFunc func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, status sharedtypes.AttendanceStatus) ([]sharedtypes.PlayerID, error)
	GetStatusFunc    func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, playerID sharedtypes.PlayerID) (*attendancedb.Attendance, error)
	UpsertStatusFunc func(ctx context.Context, db bun.IDB, row *attendancedb.Attendance) error
	UpsertMemberFunc func(ctx context.Context, db bun.IDB, member *attendancedb.LeagueMember) error
}

func NewFakeAttendanceRepo() *FakeAttendanceRepo {
	return &FakeAttendanceRepo{trace: []string{}}
}

func (f *FakeAttendanceRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeAttendanceRepo) ListEligible(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]attendancedb.EligibleRow, error) {
	f.record("ListEligible")
	if f.ListEligibleFunc != nil {
		return f.ListEligibleFunc(ctx, db, event)
	}
	return nil, nil
}

func (f *FakeAttendanceRepo) ListByStatus(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, status sharedtypes.AttendanceStatus) ([]sharedtypes.PlayerID, error) {
	f.record("ListByStatus")
	if f.ListByStatusFunc != nil {
		return f.ListByStatusFunc(ctx, db, event, status)
	}
	return nil, nil
}

func (f *FakeAttendanceRepo) GetStatus(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, playerID sharedtypes.PlayerID) (*attendancedb.Attendance, error) {
	f.record("GetStatus")
	if f.GetStatusFunc != nil {
		return f.GetStatusFunc(ctx, db, event, playerID)
	}
	return nil, attendancedb.ErrNotFound
}

func (f *FakeAttendanceRepo) UpsertStatus(ctx context.Context, db bun.IDB, row *attendancedb.Attendance) error {
	f.record("UpsertStatus")
	if f.UpsertStatusFunc != nil {
		return f.UpsertStatusFunc(ctx, db, row)
	}
	return nil
}

func (f *FakeAttendanceRepo) UpsertMember(ctx context.Context, db bun.IDB, member *attendancedb.LeagueMember) error {
	f.record("UpsertMember")
	if f.UpsertMemberFunc != nil {
		return f.UpsertMemberFunc(ctx, db, member)
	}
	return nil
}

func (f *FakeAttendanceRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ attendancedb.Repository = (*FakeAttendanceRepo)(nil)
