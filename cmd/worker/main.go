package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/recordings-ms-go/internal/config"
	"github.com/fhuszti/recordings-ms-go/internal/db"
	workerHandler "github.com/fhuszti/recordings-ms-go/internal/handler/worker"
	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/recordings-ms-go/internal/storage"
	"github.com/fhuszti/recordings-ms-go/internal/task"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf(ctx, "❌  Configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init()
	defer logger.Flush()

	if cfg.RedisAddr == "" {
		logger.Error(ctx, "⚠️  REDIS_ADDR must be set to run the worker")
		os.Exit(1)
	}

	database := initDb(cfg)
	store := initStorage(ctx, cfg)

	recs := mariadb.NewRecordingRepository(database.DB)
	tokens := mariadb.NewTokenLedger(database.DB)
	cleaner := recording.NewOrphanCleaner(recs, store, tokens)

	if !cfg.OrphanCleanup {
		logger.Warn(ctx, "⚠️  ORPHAN_CLEANUP is off, orphaned recordings will only be logged")
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeOrphanedRecording, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseOrphanedRecordingPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.OrphanedRecordingHandler(ctx, p, cfg.OrphanCleanup, cleaner)
	})

	runWorker(ctx, mux, cfg, database)
}

func initDb(cfg *config.Settings) *db.Database {
	ctx := context.Background()
	logger.Info(ctx, "initialising database...")

	database, err := db.New(ctx, db.Options{
		DSN:             cfg.MariaDBDSN,
		MaxOpen:         cfg.MaxOpenConns,
		MaxIdle:         cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to connect to db: %v", err)
		os.Exit(1)
	}
	return database
}

func initStorage(ctx context.Context, cfg *config.Settings) port.ObjectStore {
	if cfg.StorageDriver == config.StorageDriverS3 {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.StorageBucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.StoragePublicURL,
		})
		if err != nil {
			logger.Errorf(ctx, "❌  Failed to initialize S3 store: %v", err)
			os.Exit(1)
		}
		return store
	}

	strg, err := storage.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize MinIO client: %v", err)
		os.Exit(1)
	}
	store, err := strg.WithBucket(ctx, cfg.StorageBucket, cfg.StoragePublicURL, cfg.StorageCacheControl, cfg.StorageACL)
	if err != nil {
		logger.Errorf(ctx, "❌  Failed to initialize bucket %q: %v", cfg.StorageBucket, err)
		os.Exit(1)
	}
	return store
}

func runWorker(ctx context.Context, mux *asynq.ServeMux, cfg *config.Settings, database *db.Database) {
	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}, asynq.Config{Concurrency: 4})

	// Run server in background
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "❌  Worker failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.Info(ctx, "🚀 Worker started")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info(ctx, "🛑 Shutdown signal received, exiting…")

	// Give Asynq up to 30 sec to finish tasks
	done := make(chan struct{})
	go func() {
		srv.Shutdown() // stop accepting new tasks, finish in-flight
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		logger.Warn(ctx, "⚠️  Worker shutdown timed out")
	}

	if err := database.Close(); err != nil {
		logger.Warnf(ctx, "DB close error: %v", err)
	}
	logger.Info(ctx, "✅  Worker gracefully stopped")
}
