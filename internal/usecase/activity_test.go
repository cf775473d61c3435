package usecase

import (
	"context"
	"errors"
	"testing"

	"member-directory/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Record(ctx context.Context, event entity.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestRecordActivityFillsDefaults(t *testing.T) {
	sink := &mockSink{}
	sink.On("Record", mock.Anything, mock.MatchedBy(func(e entity.ActivityEvent) bool {
		return e.Actor == "system" && !e.OccurredAt.IsZero() && e.EventType == entity.ActivityUserRegistered
	})).Return(nil).Once()

	recordActivity(context.Background(), sink, zap.NewNop(), entity.ActivityEvent{
		EventType: entity.ActivityUserRegistered,
	})

	sink.AssertExpectations(t)
}

func TestRecordActivitySwallowsErrors(t *testing.T) {
	sink := &mockSink{}
	sink.On("Record", mock.Anything, mock.Anything).Return(errors.New("mongo down")).Once()

	assert.NotPanics(t, func() {
		recordActivity(context.Background(), sink, zap.NewNop(), entity.ActivityEvent{EventType: entity.ActivityAdminLogin})
	})
	sink.AssertExpectations(t)
}

func TestRecordActivitySurvivesCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var seen error
	sink := ActivitySinkFunc(func(ctx context.Context, _ entity.ActivityEvent) error {
		seen = ctx.Err()
		return nil
	})

	recordActivity(ctx, sink, zap.NewNop(), entity.ActivityEvent{EventType: entity.ActivityAdminLogin})
	assert.NoError(t, seen)
}

func TestMultiSinkCallsEverySink(t *testing.T) {
	first := &mockSink{}
	second := &mockSink{}
	first.On("Record", mock.Anything, mock.Anything).Return(errors.New("boom")).Once()
	second.On("Record", mock.Anything, mock.Anything).Return(nil).Once()

	err := multiSink{first, second}.Record(context.Background(), entity.ActivityEvent{})
	assert.EqualError(t, err, "boom")
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestNewActivitySinkWithoutRepositoryOnlyLogs(t *testing.T) {
	sink := NewActivitySink(nil, zap.NewNop())
	assert.Len(t, sink, 1)
	assert.NoError(t, sink.Record(context.Background(), entity.ActivityEvent{EventType: entity.ActivityAdminLogin}))
}
