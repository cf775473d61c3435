package repository

import (
	"context"
	"fmt"

	"member-directory/internal/data/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const activityCollection = "activity"

// ActivityRepository appends audit events to MongoDB.
type ActivityRepository interface {
	Record(ctx context.Context, event *entity.ActivityEvent) error
	// FindByUser returns the newest events for a user first.
	FindByUser(ctx context.Context, userID string, limit int64) ([]*entity.ActivityEvent, error)
}

type activityRepository struct {
	col *mongo.Collection
	log *zap.Logger
}

// NewActivityRepository returns nil when db is nil, which disables the
// Mongo audit trail.
func NewActivityRepository(db *mongo.Database, log *zap.Logger) ActivityRepository {
	if db == nil {
		return nil
	}
	return &activityRepository{
		col: db.Collection(activityCollection),
		log: log.With(zap.String("repository", "activity")),
	}
}

func (r *activityRepository) Record(ctx context.Context, event *entity.ActivityEvent) error {
	if _, err := r.col.InsertOne(ctx, event); err != nil {
		r.log.Error("Failed to record activity",
			zap.Error(err),
			zap.String("event_type", string(event.EventType)),
		)
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

func (r *activityRepository) FindByUser(ctx context.Context, userID string, limit int64) ([]*entity.ActivityEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		r.log.Error("Failed to find activity", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("find activity: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*entity.ActivityEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	return events, nil
}
