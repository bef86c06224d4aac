package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/1arunjyoti/resume-builder/internal/api"
	"github.com/1arunjyoti/resume-builder/internal/auth"
	"github.com/1arunjyoti/resume-builder/internal/cache"
	"github.com/1arunjyoti/resume-builder/internal/config"
	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/settings"
	"github.com/1arunjyoti/resume-builder/internal/storage"
	"github.com/1arunjyoti/resume-builder/internal/store"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Printf("database connection ready, driver=%s", cfg.Database.Driver)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	log.Printf("database migrated")

	repo := database.NewRepo(db)

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	ctx := context.Background()

	settingsService, err := settings.NewService(ctx, repo)
	if err != nil {
		log.Fatalf("init settings service: %v", err)
	}

	gate, err := auth.NewGate(ctx, repo, 12*time.Hour)
	if err != nil {
		log.Fatalf("init gate: %v", err)
	}

	resumeStore := store.New(repo,
		store.WithSnapshots(cache.NewSnapshotCache(redisClient)),
		store.WithLogger(logger),
	)
	resumeStore.Bootstrap(ctx)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	log.Printf("api listening on %s", address)

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, cfg, resumeStore, repo, settingsService, gate, asynqClient, redisClient, logger, storageClient)

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
