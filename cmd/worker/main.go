package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/1arunjyoti/resume-builder/internal/config"
	"github.com/1arunjyoti/resume-builder/internal/database"
	"github.com/1arunjyoti/resume-builder/internal/metrics"
	"github.com/1arunjyoti/resume-builder/internal/storage"
	"github.com/1arunjyoti/resume-builder/internal/tasks"
	"github.com/1arunjyoti/resume-builder/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Println("database connection ready for worker")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	repo := database.NewRepo(db)

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

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

	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
	})

	pdfHandler := worker.NewPDFTaskHandler(
		repo,
		storageClient,
		redisClient,
		logger,
		cfg.Export.InternalSecret,
		cfg.Export.InternalAPIBaseURL,
		cfg.Export.FrontendBaseURL,
	)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypePDFExport, pdfHandler)

	logger.Info("worker service started", slog.String("redis_addr", redisAddr))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
