package repository

import (
	"member-directory/pkg/database"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Repository struct {
	User          UserRepository
	UpdateRequest UpdateRequestRepository
	Session       SessionRepository
	Image         ImageRepository
	AdminSession  AdminSessionRepository
	// Activity is nil when MongoDB is not configured.
	Activity ActivityRepository
	Tx       TxManager
}

func NewRepository(db database.PgxIface, rdb *redis.Client, mdb *mongo.Database, log *zap.Logger) *Repository {
	return &Repository{
		User:          NewUserRepository(db, log),
		UpdateRequest: NewUpdateRequestRepository(db, log),
		Session:       NewSessionRepository(db, log),
		Image:         NewImageRepository(db, log),
		AdminSession:  NewAdminSessionRepository(rdb, log),
		Activity:      NewActivityRepository(mdb, log),
		Tx:            NewTxManager(db, log),
	}
}
