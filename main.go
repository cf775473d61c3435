// main.go
package main

import (
	"context"
	"log"
	"time"

	"member-directory/cmd"
	"member-directory/internal/data/repository"
	"member-directory/internal/wire"
	"member-directory/pkg/database"
	"member-directory/pkg/storage"
	"member-directory/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.Name, config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Run migrations before the pool starts serving queries
	if err := database.Migrate(config.Database, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Admin sessions live in Redis
	rdb, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Activity log is optional
	mdb, err := database.InitMongo(config.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to mongo", zap.Error(err))
	}
	if mdb == nil {
		logger.Info("MONGO_URI not set, activity events are only logged")
	}
	defer func() {
		if err := database.CloseMongo(mdb); err != nil {
			logger.Warn("Failed to disconnect mongo", zap.Error(err))
		}
	}()

	store, err := storage.New(config.Storage, config.App.PublicBaseURL)
	if err != nil {
		logger.Fatal("Failed to init blob store", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, rdb, mdb, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, store, config, logger)

	// Expired member sessions are purged in the background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.Service.Auth.RunSessionCleanup(ctx, time.Hour)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}
