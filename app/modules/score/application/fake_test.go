package scoreservice

import (
	"context"
	"sort"

	scoredb "github.com/Black-And-White-Club/league-night/app/modules/score/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Score Repo
// ------------------------

type FakeScoreRepo struct {
	trace []string

	AcquireEventLockFunc        func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) error
	ListBlowoutsFunc            func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]scoredb.BlowoutRecord, error)
	ListBlowoutsByApplierFunc   func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, applier sharedtypes.PlayerID) ([]scoredb.BlowoutRecord, error)
	DeleteBlowoutsByApplierFunc func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, applier sharedtypes.PlayerID) (int, error)
	InsertBlowoutsFunc          func(ctx context.Context, db bun.IDB, records []*scoredb.BlowoutRecord) error
	GetScoreFunc                func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, player sharedtypes.PlayerID) (*scoredb.ScoreRecord, error)
	UpsertScoreFunc             func(ctx context.Context, db bun.IDB, record *scoredb.ScoreRecord) error
	ListEventScoresFunc         func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]scoredb.ScoreRecord, error)
	ListPlayerScoresFunc        func(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]scoredb.ScoreRecord, error)
	DeleteLeagueBlowoutsFunc    func(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID) (int, error)
	ResetLeagueScoresFunc       func(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID) (int, error)
}

func NewFakeScoreRepo() *FakeScoreRepo {
	return &FakeScoreRepo{trace: []string{}}
}

func (f *FakeScoreRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreRepo) AcquireEventLock(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) error {
	f.record("AcquireEventLock")
	if f.AcquireEventLockFunc != nil {
		return f.AcquireEventLockFunc(ctx, db, event)
	}
	return nil
}

func (f *FakeScoreRepo) ListBlowouts(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]scoredb.BlowoutRecord, error) {
	f.record("ListBlowouts")
	if f.ListBlowoutsFunc != nil {
		return f.ListBlowoutsFunc(ctx, db, event)
	}
	return nil, nil
}

func (f *FakeScoreRepo) ListBlowoutsByApplier(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, applier sharedtypes.PlayerID) ([]scoredb.BlowoutRecord, error) {
	f.record("ListBlowoutsByApplier")
	if f.ListBlowoutsByApplierFunc != nil {
		return f.ListBlowoutsByApplierFunc(ctx, db, event, applier)
	}
	return nil, nil
}

func (f *FakeScoreRepo) DeleteBlowoutsByApplier(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, applier sharedtypes.PlayerID) (int, error) {
	f.record("DeleteBlowoutsByApplier")
	if f.DeleteBlowoutsByApplierFunc != nil {
		return f.DeleteBlowoutsByApplierFunc(ctx, db, event, applier)
	}
	return 0, nil
}

func (f *FakeScoreRepo) InsertBlowouts(ctx context.Context, db bun.IDB, records []*scoredb.BlowoutRecord) error {
	f.record("InsertBlowouts")
	if f.InsertBlowoutsFunc != nil {
		return f.InsertBlowoutsFunc(ctx, db, records)
	}
	return nil
}

func (f *FakeScoreRepo) GetScore(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, player sharedtypes.PlayerID) (*scoredb.ScoreRecord, error) {
	f.record("GetScore")
	if f.GetScoreFunc != nil {
		return f.GetScoreFunc(ctx, db, event, player)
	}
	return nil, scoredb.ErrNotFound
}

func (f *FakeScoreRepo) UpsertScore(ctx context.Context, db bun.IDB, record *scoredb.ScoreRecord) error {
	f.record("UpsertScore")
	if f.UpsertScoreFunc != nil {
		return f.UpsertScoreFunc(ctx, db, record)
	}
	return nil
}

func (f *FakeScoreRepo) ListEventScores(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]scoredb.ScoreRecord, error) {
	f.record("ListEventScores")
	if f.ListEventScoresFunc != nil {
		return f.ListEventScoresFunc(ctx, db, event)
	}
	return nil, nil
}

func (f *FakeScoreRepo) ListPlayerScores(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID, player sharedtypes.PlayerID) ([]scoredb.ScoreRecord, error) {
	f.record("ListPlayerScores")
	if f.ListPlayerScoresFunc != nil {
		return f.ListPlayerScoresFunc(ctx, db, league, player)
	}
	return nil, nil
}

func (f *FakeScoreRepo) DeleteLeagueBlowouts(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID) (int, error) {
	f.record("DeleteLeagueBlowouts")
	if f.DeleteLeagueBlowoutsFunc != nil {
		return f.DeleteLeagueBlowoutsFunc(ctx, db, league)
	}
	return 0, nil
}

func (f *FakeScoreRepo) ResetLeagueScores(ctx context.Context, db bun.IDB, league sharedtypes.LeagueID) (int, error) {
	f.record("ResetLeagueScores")
	if f.ResetLeagueScoresFunc != nil {
		return f.ResetLeagueScoresFunc(ctx, db, league)
	}
	return 0, nil
}

func (f *FakeScoreRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ scoredb.Repository = (*FakeScoreRepo)(nil)

// ------------------------
// Fake collaborators
// ------------------------

type FakeStatusSource struct {
	Statuses map[sharedtypes.PlayerID]sharedtypes.AttendanceStatus
	Err      error
}

func (f *FakeStatusSource) StatusOf(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, player sharedtypes.PlayerID) (sharedtypes.AttendanceStatus, error) {
	if f.Err != nil {
		return "", f.Err
	}
	if s, ok := f.Statuses[player]; ok {
		return s, nil
	}
	return sharedtypes.StatusNoResponse, nil
}

func (f *FakeStatusSource) SocialOnlyPlayers(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]sharedtypes.PlayerID, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	var out []sharedtypes.PlayerID
	for p, s := range f.Statuses {
		if s == sharedtypes.StatusBBQOnly {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

var _ StatusSource = (*FakeStatusSource)(nil)

type FakePairDirectory struct {
	Membership map[sharedtypes.PlayerID]string
	Err        error
}

func (f *FakePairDirectory) PairMembership(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) (map[sharedtypes.PlayerID]string, error) {
	return f.Membership, f.Err
}

var _ PairDirectory = (*FakePairDirectory)(nil)

// memoryScores backs a FakeScoreRepo with in-memory tables for a single event
// so tests can observe the recompute semantics end to end.
type memoryScores struct {
	blowouts []scoredb.BlowoutRecord
	scores   map[sharedtypes.PlayerID]scoredb.ScoreRecord
	nextID   int64
	// failUpsert makes UpsertScore fail for the listed players.
	failUpsert map[sharedtypes.PlayerID]bool
}

func newMemoryScores(f *FakeScoreRepo) *memoryScores {
	m := &memoryScores{
		scores:     map[sharedtypes.PlayerID]scoredb.ScoreRecord{},
		failUpsert: map[sharedtypes.PlayerID]bool{},
	}
	f.ListBlowoutsFunc = func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]scoredb.BlowoutRecord, error) {
		return append([]scoredb.BlowoutRecord{}, m.blowouts...), nil
	}
	f.ListBlowoutsByApplierFunc = func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, applier sharedtypes.PlayerID) ([]scoredb.BlowoutRecord, error) {
		var out []scoredb.BlowoutRecord
		for _, b := range m.blowouts {
			if b.ApplierID == applier {
				out = append(out, b)
			}
		}
		return out, nil
	}
	f.DeleteBlowoutsByApplierFunc = func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, applier sharedtypes.PlayerID) (int, error) {
		kept := m.blowouts[:0]
		removed := 0
		for _, b := range m.blowouts {
			if b.ApplierID == applier {
				removed++
				continue
			}
			kept = append(kept, b)
		}
		m.blowouts = kept
		return removed, nil
	}
	f.InsertBlowoutsFunc = func(ctx context.Context, db bun.IDB, records []*scoredb.BlowoutRecord) error {
		for _, r := range records {
			m.nextID++
			r.ID = m.nextID
			m.blowouts = append(m.blowouts, *r)
		}
		return nil
	}
	f.GetScoreFunc = func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey, player sharedtypes.PlayerID) (*scoredb.ScoreRecord, error) {
		if r, ok := m.scores[player]; ok {
			return &r, nil
		}
		return nil, scoredb.ErrNotFound
	}
	f.UpsertScoreFunc = func(ctx context.Context, db bun.IDB, record *scoredb.ScoreRecord) error {
		if m.failUpsert[record.PlayerID] {
			return context.DeadlineExceeded
		}
		m.scores[record.PlayerID] = *record
		return nil
	}
	f.ListEventScoresFunc = func(ctx context.Context, db bun.IDB, event sharedtypes.EventKey) ([]scoredb.ScoreRecord, error) {
		out := make([]scoredb.ScoreRecord, 0, len(m.scores))
		for _, r := range m.scores {
			out = append(out, r)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].TotalPoints != out[j].TotalPoints {
				return out[i].TotalPoints > out[j].TotalPoints
			}
			return out[i].PlayerID < out[j].PlayerID
		})
		return out, nil
	}
	return m
}

func (m *memoryScores) total(p sharedtypes.PlayerID) float64 {
	return m.scores[p].TotalPoints
}
