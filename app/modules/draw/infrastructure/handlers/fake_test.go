package drawhandlers

import (
	"context"

	drawservice "github.com/Black-And-White-Club/league-night/app/modules/draw/application"
	sharedtypes "github.com/Black-And-White-Club/league-night/app/shared/types"
	"github.com/google/uuid"
)

type FakeDrawService struct {
	trace []string

	RunDrawFunc      func(ctx context.Context, cmd drawservice.RunDrawCommand) (*drawservice.DrawResult, error)
	DeleteDrawFunc   func(ctx context.Context, drawID uuid.UUID) (*drawservice.DrawSummary, error)
	GetDrawByIDFunc  func(ctx context.Context, drawID uuid.UUID) (*drawservice.DrawSummary, error)
	GetDrawFunc      func(ctx context.Context, event sharedtypes.EventKey) (*drawservice.DrawResult, error)
	ExportDrawFunc   func(ctx context.Context, event sharedtypes.EventKey) ([]byte, error)
	ScheduleDrawFunc func(ctx context.Context, cmd drawservice.ScheduleDrawCommand) (*drawservice.ScheduledRun, error)
}

func NewFakeDrawService() *FakeDrawService {
	return &FakeDrawService{trace: []string{}}
}

func (f *FakeDrawService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeDrawService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeDrawService) RunDraw(ctx context.Context, cmd drawservice.RunDrawCommand) (*drawservice.DrawResult, error) {
	f.record("RunDraw")
	if f.RunDrawFunc != nil {
		return f.RunDrawFunc(ctx, cmd)
	}
	return &drawservice.DrawResult{}, nil
}

func (f *FakeDrawService) DeleteDraw(ctx context.Context, drawID uuid.UUID) (*drawservice.DrawSummary, error) {
	f.record("DeleteDraw")
	if f.DeleteDrawFunc != nil {
		return f.DeleteDrawFunc(ctx, drawID)
	}
	return &drawservice.DrawSummary{ID: sharedtypes.DrawID(drawID.String())}, nil
}

func (f *FakeDrawService) GetDrawByID(ctx context.Context, drawID uuid.UUID) (*drawservice.DrawSummary, error) {
	f.record("GetDrawByID")
	if f.GetDrawByIDFunc != nil {
		return f.GetDrawByIDFunc(ctx, drawID)
	}
	return &drawservice.DrawSummary{ID: sharedtypes.DrawID(drawID.String())}, nil
}

func (f *FakeDrawService) GetDraw(ctx context.Context, event sharedtypes.EventKey) (*drawservice.DrawResult, error) {
	f.record("GetDraw")
	if f.GetDrawFunc != nil {
		return f.GetDrawFunc(ctx, event)
	}
	return &drawservice.DrawResult{}, nil
}

func (f *FakeDrawService) ExportDraw(ctx context.Context, event sharedtypes.EventKey) ([]byte, error) {
	f.record("ExportDraw")
	if f.ExportDrawFunc != nil {
		return f.ExportDrawFunc(ctx, event)
	}
	return nil, nil
}

func (f *FakeDrawService) ScheduleDraw(ctx context.Context, cmd drawservice.ScheduleDrawCommand) (*drawservice.ScheduledRun, error) {
	f.record("ScheduleDraw")
	if f.ScheduleDrawFunc != nil {
		return f.ScheduleDrawFunc(ctx, cmd)
	}
	return &drawservice.ScheduledRun{}, nil
}

var _ drawservice.Service = (*FakeDrawService)(nil)
