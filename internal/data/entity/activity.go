package entity

import "time"

type ActivityEventType string

const (
	ActivityUserRegistered        ActivityEventType = "user.registered"
	ActivityUserStatusChanged     ActivityEventType = "user.status.changed"
	ActivityUpdateRequestCreated  ActivityEventType = "update_request.created"
	ActivityUpdateRequestResolved ActivityEventType = "update_request.resolved"
	ActivityLoginSuccess          ActivityEventType = "auth.login.success"
	ActivityLoginFailure          ActivityEventType = "auth.login.failure"
	ActivityAdminLogin            ActivityEventType = "admin.login"
	ActivityNewUserNotification   ActivityEventType = "user.notification"
)

// ActivityEvent is an audit record of something that happened to a user
// or an update request.
type ActivityEvent struct {
	EventType  ActivityEventType `bson:"event_type" json:"event_type"`
	Actor      string            `bson:"actor" json:"actor"`
	UserID     string            `bson:"user_id,omitempty" json:"user_id,omitempty"`
	RequestID  string            `bson:"request_id,omitempty" json:"request_id,omitempty"`
	FromStatus Status            `bson:"from_status,omitempty" json:"from_status,omitempty"`
	ToStatus   Status            `bson:"to_status,omitempty" json:"to_status,omitempty"`
	Metadata   map[string]any    `bson:"metadata,omitempty" json:"metadata,omitempty"`
	OccurredAt time.Time         `bson:"occurred_at" json:"occurred_at"`
}
