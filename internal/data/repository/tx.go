package repository

import (
	"context"
	"errors"
	"fmt"

	"member-directory/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TxRepos are the repositories bound to a single transaction.
type TxRepos struct {
	User          UserRepository
	UpdateRequest UpdateRequestRepository
}

// TxManager runs fn inside one database transaction. The transaction
// commits when fn returns nil and rolls back otherwise, including on panic.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *TxRepos) error) error
}

type txManager struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTxManager(db database.PgxIface, log *zap.Logger) TxManager {
	return &txManager{db: db, log: log}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *TxRepos) error) (err error) {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		m.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			rbErr := tx.Rollback(context.WithoutCancel(ctx))
			if rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				m.log.Error("Failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	repos := &TxRepos{
		User:          NewUserRepository(tx, m.log),
		UpdateRequest: NewUpdateRequestRepository(tx, m.log),
	}

	if err = fn(ctx, repos); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		m.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
