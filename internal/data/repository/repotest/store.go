// Package repotest provides an in-memory Repository for service and
// handler tests. Transactions are serialized and roll back by restoring a
// snapshot.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"member-directory/internal/data/entity"
	"member-directory/internal/data/repository"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	users    map[uuid.UUID]entity.User
	requests map[uuid.UUID]entity.UpdateRequest
	sessions map[uuid.UUID]entity.Session
	images   []entity.Image
	admins   map[string]entity.AdminSession
	activity []entity.ActivityEvent
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]entity.User),
		requests: make(map[uuid.UUID]entity.UpdateRequest),
		sessions: make(map[uuid.UUID]entity.Session),
		admins:   make(map[string]entity.AdminSession),
	}
}

// Repository returns a Repository backed by s.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:          userRepo{s},
		UpdateRequest: requestRepo{s},
		Session:       sessionRepo{s},
		Image:         imageRepo{s},
		AdminSession:  adminSessionRepo{s},
		Activity:      activityRepo{s},
		Tx:            txManager{s},
	}
}

// Activity returns a copy of every recorded event.
func (s *Store) Activity() []entity.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.ActivityEvent(nil), s.activity...)
}

// UserCount returns the number of stored users.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// SessionCount returns the number of stored member sessions, including
// revoked and expired ones.
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type txManager struct{ s *Store }

func (m txManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *repository.TxRepos) error) error {
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.Lock()
	users := make(map[uuid.UUID]entity.User, len(m.s.users))
	for k, v := range m.s.users {
		users[k] = v
	}
	requests := make(map[uuid.UUID]entity.UpdateRequest, len(m.s.requests))
	for k, v := range m.s.requests {
		requests[k] = v
	}
	m.s.mu.Unlock()

	err := fn(ctx, &repository.TxRepos{User: userRepo{m.s}, UpdateRequest: requestRepo{m.s}})
	if err != nil {
		m.s.mu.Lock()
		m.s.users = users
		m.s.requests = requests
		m.s.mu.Unlock()
	}
	return err
}

type userRepo struct{ s *Store }

func (r userRepo) mobileTaken(mobile string, except uuid.UUID) bool {
	for id, u := range r.s.users {
		if id != except && u.MobileNumber == mobile {
			return true
		}
	}
	return false
}

func (r userRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.mobileTaken(user.MobileNumber, uuid.Nil) {
		return utils.NewConflictError("mobile number already registered")
	}
	if user.Version == 0 {
		user.Version = 1
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.FindByID(ctx, id)
}

func (r userRepo) FindByMobileNumber(ctx context.Context, mobileNumber string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.MobileNumber == mobileNumber {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r userRepo) filtered(filter repository.UserFilter) []entity.User {
	var out []entity.User
	for _, u := range r.s.users {
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		if filter.Location != "" && u.Location != filter.Location {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r userRepo) FindAll(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var users []*entity.User
	for _, u := range page(r.filtered(filter), limit, offset) {
		found := u
		users = append(users, &found)
	}
	return users, nil
}

func (r userRepo) Count(ctx context.Context, filter repository.UserFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filtered(filter))), nil
}

func (r userRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok || stored.Version != user.Version {
		return utils.NewConflictError("user %s was modified concurrently", user.ID.String())
	}
	if r.mobileTaken(user.MobileNumber, user.ID) {
		return utils.NewConflictError("mobile number already registered")
	}

	user.Version++
	updated := *user
	updated.PasswordHash = stored.PasswordHash
	updated.DateOfBirth = stored.DateOfBirth
	updated.CreatedAt = stored.CreatedAt
	r.s.users[user.ID] = updated
	return nil
}

type requestRepo struct{ s *Store }

func (r requestRepo) Create(ctx context.Context, req *entity.UpdateRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[req.UserID]; !ok {
		return utils.NewNotFoundError("user", req.UserID.String())
	}
	r.s.requests[req.ID] = *req
	return nil
}

func (r requestRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.UpdateRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r requestRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.UpdateRequest, error) {
	return r.FindByID(ctx, id)
}

func (r requestRepo) filtered(status entity.Status) []entity.UpdateRequest {
	var out []entity.UpdateRequest
	for _, req := range r.s.requests {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r requestRepo) FindAll(ctx context.Context, status entity.Status, limit, offset int) ([]*entity.UpdateRequestWithOwner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.UpdateRequestWithOwner
	for _, req := range page(r.filtered(status), limit, offset) {
		owner := r.s.users[req.UserID]
		out = append(out, &entity.UpdateRequestWithOwner{
			UpdateRequest: req,
			Owner: entity.UserSummary{
				FullName:     owner.FullName,
				MobileNumber: owner.MobileNumber,
				Location:     owner.Location,
			},
		})
	}
	return out, nil
}

func (r requestRepo) Count(ctx context.Context, status entity.Status) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filtered(status))), nil
}

func (r requestRepo) UpdateStatus(ctx context.Context, req *entity.UpdateRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.requests[req.ID]
	if !ok || stored.Status != entity.StatusPending {
		return utils.NewConflictError("update request %s is already resolved", req.ID.String())
	}
	stored.Status = req.Status
	stored.UpdatedAt = req.UpdatedAt
	r.s.requests[req.ID] = stored
	return nil
}

type sessionRepo struct{ s *Store }

func (r sessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[session.Token] = *session
	return nil
}

func (r sessionRepo) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	session, ok := r.s.sessions[token]
	if !ok || session.RevokedAt != nil || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return &session, nil
}

func (r sessionRepo) Revoke(ctx context.Context, token uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if session, ok := r.s.sessions[token]; ok && session.RevokedAt == nil {
		now := time.Now()
		session.RevokedAt = &now
		r.s.sessions[token] = session
	}
	return nil
}

func (r sessionRepo) CleanExpiredSessions(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	for token, session := range r.s.sessions {
		if session.ExpiresAt.Before(cutoff) {
			delete(r.s.sessions, token)
		}
	}
	return nil
}

type imageRepo struct{ s *Store }

func (r imageRepo) Create(ctx context.Context, image *entity.Image) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.images = append(r.s.images, *image)
	return nil
}

func (r imageRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Image, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sorted := append([]entity.Image(nil), r.s.images...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	var out []*entity.Image
	for _, image := range page(sorted, limit, offset) {
		found := image
		out = append(out, &found)
	}
	return out, nil
}

func (r imageRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.images)), nil
}

type adminSessionRepo struct{ s *Store }

func (r adminSessionRepo) Create(ctx context.Context, username string, ttl time.Duration) (*entity.AdminSession, error) {
	token, err := utils.GenerateOpaqueToken(32)
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for t, session := range r.s.admins {
		if session.Username == username {
			delete(r.s.admins, t)
		}
	}
	session := entity.AdminSession{Token: token, Username: username, ExpiresAt: time.Now().Add(ttl)}
	r.s.admins[token] = session
	return &session, nil
}

func (r adminSessionRepo) Find(ctx context.Context, token string) (*entity.AdminSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	session, ok := r.s.admins[token]
	if !ok || !session.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	return &session, nil
}

func (r adminSessionRepo) Delete(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.admins, token)
	return nil
}

type activityRepo struct{ s *Store }

func (r activityRepo) Record(ctx context.Context, event *entity.ActivityEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.activity = append(r.s.activity, *event)
	return nil
}

func (r activityRepo) FindByUser(ctx context.Context, userID string, limit int64) ([]*entity.ActivityEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*entity.ActivityEvent
	for i := len(r.s.activity) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.s.activity[i].UserID == userID {
			event := r.s.activity[i]
			out = append(out, &event)
		}
	}
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
