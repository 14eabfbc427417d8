package drawservice

import (
	"context"
	"time"

	drawdb "github.com/Black-And-White-Club/league-night/app/modules/draw/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Draw Repo
// ------------------------

type FakeDrawRepo struct {
	trace []string

	AcquireEventLockFunc     func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) error
	GetDrawForEventFunc      func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (*drawdb.Draw, error)
	GetDrawByIDFunc          func(ctx context.Context, db bun.IDB, id uuid.UUID) (*drawdb.Draw, error)
	GetLatestPairsBeforeFunc func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]drawdb.DrawPair, error)
	ListPairsFunc            func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]drawdb.DrawPair, error)
	DeleteDrawForEventFunc   func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (int, error)
	DeleteDrawByIDFunc       func(ctx context.Context, db bun.IDB, id uuid.UUID) (*drawdb.Draw, error)
	InsertDrawFunc           func(ctx context.Context, db bun.IDB, draw *drawdb.Draw, pairs []*drawdb.DrawPair, matches []*drawdb.DrawMatch) error
}

func NewFakeDrawRepo() *FakeDrawRepo {
	return &FakeDrawRepo{trace: []string{}}
}

func (f *FakeDrawRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeDrawRepo) AcquireEventLock(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) error {
	f.record("AcquireEventLock")
	if f.AcquireEventLockFunc != nil {
		return f.AcquireEventLockFunc(ctx, db, event)
	}
	return nil
}

func (f *FakeDrawRepo) GetDrawForEvent(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (*drawdb.Draw, error) {
	f.record("GetDrawForEvent")
	if f.GetDrawForEventFunc != nil {
		return f.GetDrawForEventFunc(ctx, db, event)
	}
	return nil, drawdb.ErrNotFound
}

func (f *FakeDrawRepo) GetDrawByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*drawdb.Draw, error) {
	f.record("GetDrawByID")
	if f.GetDrawByIDFunc != nil {
		return f.GetDrawByIDFunc(ctx, db, id)
	}
	return nil, drawdb.ErrNotFound
}

func (f *FakeDrawRepo) GetLatestPairsBefore(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]drawdb.DrawPair, error) {
	f.record("GetLatestPairsBefore")
	if f.GetLatestPairsBeforeFunc != nil {
		return f.GetLatestPairsBeforeFunc(ctx, db, event)
	}
	return nil, nil
}

func (f *FakeDrawRepo) ListPairs(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]drawdb.DrawPair, error) {
	f.record("ListPairs")
	if f.ListPairsFunc != nil {
		return f.ListPairsFunc(ctx, db, event)
	}
	return nil, nil
}

func (f *FakeDrawRepo) DeleteDrawForEvent(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (int, error) {
	f.record("DeleteDrawForEvent")
	if f.DeleteDrawForEventFunc != nil {
		return f.DeleteDrawForEventFunc(ctx, db, event)
	}
	return 0, nil
}

func (f *FakeDrawRepo) DeleteDrawByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*drawdb.Draw, error) {
	f.record("DeleteDrawByID")
	if f.DeleteDrawByIDFunc != nil {
		return f.DeleteDrawByIDFunc(ctx, db, id)
	}
	return nil, drawdb.ErrNotFound
}

func (f *FakeDrawRepo) InsertDraw(ctx context.Context, db bun.IDB, draw *drawdb.Draw, pairs []*drawdb.DrawPair, matches []*drawdb.DrawMatch) error {
	f.record("InsertDraw")
	if f.InsertDrawFunc != nil {
		return f.InsertDrawFunc(ctx, db, draw, pairs, matches)
	}
	return nil
}

func (f *FakeDrawRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ drawdb.Repository = (*FakeDrawRepo)(nil)

// ------------------------
// Fake Attendance Source
// ------------------------

type FakeAttendanceSource struct {
	Players []sharedtypes.RankedPlayer
	Err     error
}

func (f *FakeAttendanceSource) EligiblePlayers(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]sharedtypes.RankedPlayer, error) {
	return f.Players, f.Err
}

var _ AttendanceSource = (*FakeAttendanceSource)(nil)

// ------------------------
// Fake Run Scheduler
// ------------------------

type FakeRunScheduler struct {
	calls []time.Time
	Err   error
}

func (f *FakeRunScheduler) ScheduleDrawRun(ctx context.Context, event sharedtypes.EventKey, runAt time.Time, requestedBy sharedtypes.PlayerID) (*ScheduledRun, error) {
	f.calls = append(f.calls, runAt)
	if f.Err != nil {
		return nil, f.Err
	}
	return &ScheduledRun{JobID: int64(len(f.calls)), RunAt: runAt}, nil
}

var _ RunScheduler = (*FakeRunScheduler)(nil)

// memoryDraws backs a FakeDrawRepo with a single-table store so tests can
// observe replacement semantics.
type memoryDraws struct {
	draws   map[sharedtypes.EventKey]*drawdb.Draw
	inserts int
}

func newMemoryDraws(f *FakeDrawRepo) *memoryDraws {
	m := &memoryDraws{draws: map[sharedtypes.EventKey]*drawdb.Draw{}}
	f.DeleteDrawForEventFunc = func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (int, error) {
		if _, ok := m.draws[event]; ok {
			delete(m.draws, event)
			return 1, nil
		}
		return 0, nil
	}
	f.InsertDrawFunc = func(ctx context.Context, db bun.IDB, draw *drawdb.Draw, pairs []*drawdb.DrawPair, matches []*drawdb.DrawMatch) error {
		m.inserts++
		stored := *draw
		for _, p := range pairs {
			p.DrawID = draw.ID
		}
		for _, mt := range matches {
			mt.DrawID = draw.ID
		}
		stored.Pairs = pairs
		stored.Matches = matches
		m.draws[sharedtypes.EventKey{LeagueID: draw.LeagueID, Date: draw.EventDate}] = &stored
		return nil
	}
	f.GetDrawForEventFunc = func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (*drawdb.Draw, error) {
		if d, ok := m.draws[event]; ok {
			return d, nil
		}
		return nil, drawdb.ErrNotFound
	}
	return m
}
