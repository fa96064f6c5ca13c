package main

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	dbadapter "socialcore/internal/adapters/database"
	"socialcore/internal/adapters/httpapi"
	"socialcore/internal/adapters/httpapi/middleware"
	redisadapter "socialcore/internal/adapters/redis"
	"socialcore/internal/config"
	"socialcore/internal/core/account/credential"
	accountapp "socialcore/internal/core/account/service"
	micropostapp "socialcore/internal/core/micropost/service"
	relationshipapp "socialcore/internal/core/relationship/service"
)

func main() {
	config.InitLogger()
	cfg := config.Init()

	db, err := config.InitDB(cfg)
	if err != nil {
		config.Logger.Fatal("Error connecting to database", zap.Error(err))
	}
	if err := dbadapter.Migrate(db); err != nil {
		config.Logger.Fatal("Error during migrations", zap.Error(err))
	}
	config.Logger.Info("✅ Database migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := config.InitRedis(ctx, cfg)
	if err != nil {
		config.Logger.Fatal("Error connecting to Redis", zap.Error(err))
	}
	defer closeResources(config.Logger, db, redisClient)

	accountRepo := dbadapter.NewAccountRepositoryDatabase(db)
	relationshipRepo := dbadapter.NewRelationshipRepositoryDatabase(db)
	micropostRepo := dbadapter.NewMicropostRepositoryDatabase(db)
	authorIndex := redisadapter.NewMicropostIndexRedis(redisClient, redisadapter.DefaultTTL, config.Logger)

	accountSvc := accountapp.NewAccountService(accountRepo, authorIndex, credential.NewManager(), config.Logger)
	relationshipSvc := relationshipapp.NewRelationshipService(relationshipRepo, accountRepo, config.Logger)
	micropostSvc := micropostapp.NewMicropostService(micropostRepo, accountRepo, authorIndex, cfg.FeedPageSize, config.Logger)

	sessions := middleware.NewSessions([]byte(cfg.JWTSecret), cfg.SessionTTL, cfg.CookieSecure, config.Logger)
	r := httpapi.SetupRoutes(sessions, accountSvc, relationshipSvc, micropostSvc)

	config.Logger.Info("App is running...", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		config.Logger.Error("Server failed to start", zap.Error(err))
	}
}

// closeResources closes the Redis client and the database pool.
func closeResources(logger *zap.Logger, db *gorm.DB, redisClient *redis.Client) {
	if err := redisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
