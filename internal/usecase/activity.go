package usecase

import (
	"context"
	"errors"
	"time"

	"member-directory/internal/data/entity"
	"member-directory/internal/data/repository"

	"go.uber.org/zap"
)

// ActivitySink consumes audit events.
type ActivitySink interface {
	Record(ctx context.Context, event entity.ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event entity.ActivityEvent) error

func (f ActivitySinkFunc) Record(ctx context.Context, event entity.ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// LogSink writes every event to the application log.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.With(zap.String("sink", "activity"))}
}

func (s *LogSink) Record(_ context.Context, event entity.ActivityEvent) error {
	fields := []zap.Field{
		zap.String("event_type", string(event.EventType)),
		zap.String("actor", event.Actor),
		zap.Time("occurred_at", event.OccurredAt),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.FromStatus != "" || event.ToStatus != "" {
		fields = append(fields,
			zap.String("from_status", string(event.FromStatus)),
			zap.String("to_status", string(event.ToStatus)),
		)
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}
	s.log.Info("Activity", fields...)
	return nil
}

// RepositorySink stores events through an ActivityRepository.
type RepositorySink struct {
	repo repository.ActivityRepository
}

func NewRepositorySink(repo repository.ActivityRepository) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) Record(ctx context.Context, event entity.ActivityEvent) error {
	return s.repo.Record(ctx, &event)
}

type multiSink []ActivitySink

func (m multiSink) Record(ctx context.Context, event entity.ActivityEvent) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Record(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewActivitySink always logs, and also persists events when repo is set.
func NewActivitySink(repo repository.ActivityRepository, log *zap.Logger) ActivitySink {
	sinks := multiSink{NewLogSink(log)}
	if repo != nil {
		sinks = append(sinks, NewRepositorySink(repo))
	}
	return sinks
}

const activityTimeout = 3 * time.Second

// recordActivity never fails the caller. The event outlives request
// cancellation so a client hanging up does not lose the audit entry.
func recordActivity(ctx context.Context, sink ActivitySink, log *zap.Logger, event entity.ActivityEvent) {
	if sink == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if event.Actor == "" {
		event.Actor = "system"
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), activityTimeout)
	defer cancel()

	if err := sink.Record(ctx, event); err != nil {
		log.Warn("Failed to record activity",
			zap.Error(err),
			zap.String("event_type", string(event.EventType)),
		)
	}
}
