package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const sessionKey contextKey = "session"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Session is the authenticated caller attached to a request context by the
// auth middleware. Members carry UserID; the administrator carries Username.
type Session struct {
	Token     string
	Role      string
	UserID    uuid.UUID
	Username  string
	ExpiresAt time.Time
}

func SetSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

func GetSession(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionKey).(*Session)
	if !ok || session == nil {
		return nil, false
	}
	return session, true
}

// GetUserIDFromContext returns the member id of the current session.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	session, ok := GetSession(ctx)
	if !ok || session.Role != RoleMember || session.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return session.UserID, true
}

// GetTokenFromContext returns the bearer token of the current session.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	session, ok := GetSession(ctx)
	if !ok || session.Token == "" {
		return "", false
	}
	return session.Token, true
}
