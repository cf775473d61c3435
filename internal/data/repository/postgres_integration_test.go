//go:build integration

package repository_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"member-directory/internal/data/entity"
	"member-directory/internal/data/repository"
	"member-directory/pkg/database"
	"member-directory/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newPostgres migrates and empties the database at TEST_DATABASE_URL.
func newPostgres(t *testing.T) *repository.Repository {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL must be set")
	}

	require.NoError(t, database.MigrateURL(dbURL, zap.NewNop()))

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(context.Background(), `TRUNCATE images, sessions, update_requests, users`)
	require.NoError(t, err)

	return repository.NewRepository(pool, nil, nil, zap.NewNop())
}

func pgUser(mobile string) *entity.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entity.User{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		FullName:     "Asha Verma",
		Occupation:   "Teacher",
		MobileNumber: mobile,
		DateOfBirth:  time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Location:     "JCI KANPUR",
		PasswordHash: "hash",
		Status:       entity.StatusApproved,
	}
}

func pgRequest(userID uuid.UUID) *entity.UpdateRequest {
	now := time.Now().UTC()
	return &entity.UpdateRequest{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:       userID,
		Field:        entity.FieldOccupation,
		NewValue:     "Engineer",
		Type:         entity.ValueText,
		Status:       entity.StatusPending,
	}
}

func TestPostgresUserCreateDuplicateMobile(t *testing.T) {
	repo := newPostgres(t)
	ctx := context.Background()

	require.NoError(t, repo.User.Create(ctx, pgUser("9876543210")))

	err := repo.User.Create(ctx, pgUser("9876543210"))
	var conflict *utils.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "mobile number already registered", conflict.Message)
}

func TestPostgresUserUpdateChecksVersion(t *testing.T) {
	repo := newPostgres(t)
	ctx := context.Background()
	user := pgUser("9876543210")
	require.NoError(t, repo.User.Create(ctx, user))

	first, err := repo.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	stale, err := repo.User.FindByID(ctx, user.ID)
	require.NoError(t, err)

	first.Occupation = "Engineer"
	require.NoError(t, repo.User.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	stale.Occupation = "Doctor"
	err = repo.User.Update(ctx, stale)
	var conflict *utils.ConflictError
	require.ErrorAs(t, err, &conflict)

	stored, err := repo.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", stored.Occupation)
	assert.Equal(t, 2, stored.Version)
}

func TestPostgresUserUpdateValueTooLong(t *testing.T) {
	repo := newPostgres(t)
	ctx := context.Background()
	user := pgUser("9876543210")
	require.NoError(t, repo.User.Create(ctx, user))

	user.FullName = strings.Repeat("a", 300)
	err := repo.User.Update(ctx, user)
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestPostgresUpdateStatusOnlyTouchesPending(t *testing.T) {
	repo := newPostgres(t)
	ctx := context.Background()
	user := pgUser("9876543210")
	require.NoError(t, repo.User.Create(ctx, user))

	req := pgRequest(user.ID)
	require.NoError(t, repo.UpdateRequest.Create(ctx, req))

	req.Status = entity.StatusApproved
	require.NoError(t, repo.UpdateRequest.UpdateStatus(ctx, req))

	req.Status = entity.StatusRejected
	err := repo.UpdateRequest.UpdateStatus(ctx, req)
	var conflict *utils.ConflictError
	require.ErrorAs(t, err, &conflict)

	stored, err := repo.UpdateRequest.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, stored.Status)
}

func TestPostgresConcurrentResolutionSucceedsOnce(t *testing.T) {
	repo := newPostgres(t)
	ctx := context.Background()
	user := pgUser("9876543210")
	require.NoError(t, repo.User.Create(ctx, user))
	req := pgRequest(user.ID)
	require.NoError(t, repo.UpdateRequest.Create(ctx, req))

	const attempts = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.TxRepos) error {
				found, err := tx.UpdateRequest.FindByIDForUpdate(ctx, req.ID)
				if err != nil {
					return err
				}
				if found.Status.IsTerminal() {
					return utils.NewConflictError("already %s", found.Status)
				}

				owner, err := tx.User.FindByIDForUpdate(ctx, found.UserID)
				if err != nil {
					return err
				}
				owner.Occupation = found.NewValue
				if err := tx.User.Update(ctx, owner); err != nil {
					return err
				}

				found.Status = entity.StatusApproved
				return tx.UpdateRequest.UpdateStatus(ctx, found)
			})

			mu.Lock()
			defer mu.Unlock()
			var conflict *utils.ConflictError
			if err == nil {
				successes++
			} else if !errors.As(err, &conflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	stored, err := repo.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Version, "the user is written once")
}

func TestPostgresTxRollsBack(t *testing.T) {
	repo := newPostgres(t)
	ctx := context.Background()
	user := pgUser("9876543210")
	require.NoError(t, repo.User.Create(ctx, user))

	boom := errors.New("boom")
	err := repo.Tx.WithinTx(ctx, func(ctx context.Context, tx *repository.TxRepos) error {
		found, err := tx.User.FindByIDForUpdate(ctx, user.ID)
		if err != nil {
			return err
		}
		found.Occupation = "Engineer"
		if err := tx.User.Update(ctx, found); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := repo.User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Teacher", stored.Occupation)
	assert.Equal(t, 1, stored.Version)
}

func TestPostgresSessions(t *testing.T) {
	repo := newPostgres(t)
	ctx := context.Background()
	user := pgUser("9876543210")
	require.NoError(t, repo.User.Create(ctx, user))

	session := func(expires time.Time) *entity.Session {
		return &entity.Session{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			UserID:     user.ID,
			Token:      uuid.New(),
			ExpiresAt:  expires,
		}
	}

	valid := session(time.Now().Add(time.Hour))
	expired := session(time.Now().Add(-time.Minute))
	ancient := session(time.Now().Add(-8 * 24 * time.Hour))
	for _, s := range []*entity.Session{valid, expired, ancient} {
		require.NoError(t, repo.Session.Create(ctx, s))
	}

	found, err := repo.Session.FindValidSession(ctx, valid.Token)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.UserID)

	found, err = repo.Session.FindValidSession(ctx, expired.Token)
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repo.Session.Revoke(ctx, valid.Token))
	require.NoError(t, repo.Session.Revoke(ctx, valid.Token))
	found, err = repo.Session.FindValidSession(ctx, valid.Token)
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repo.Session.CleanExpiredSessions(ctx))
}

func TestPostgresImagesNewestFirst(t *testing.T) {
	repo := newPostgres(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, ref := range []string{"old.png", "middle.png", "new.png"} {
		require.NoError(t, repo.Image.Create(ctx, &entity.Image{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: base.Add(time.Duration(i) * time.Minute)},
			Ref:        ref,
			UploadedBy: "admin:admin",
		}))
	}

	images, err := repo.Image.FindAll(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "new.png", images[0].Ref)
	assert.Equal(t, "middle.png", images[1].Ref)

	total, err := repo.Image.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
