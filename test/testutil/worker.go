package testutil

import (
	"context"
	"database/sql"

	"github.com/hibiken/asynq"

	workerHandler "github.com/fhuszti/recordings-ms-go/internal/handler/worker"
	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/recordings-ms-go/internal/task"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

// StartWorker starts an asynq worker processing orphaned-recording tasks.
// It returns a function to gracefully shut down the worker.
func StartWorker(db *sql.DB, store port.ObjectStore, redisAddr string, cleanup bool) func() {
	cleaner := recording.NewOrphanCleaner(
		mariadb.NewRecordingRepository(db),
		store,
		mariadb.NewTokenLedger(db),
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(task.TypeOrphanedRecording, func(ctx context.Context, t *asynq.Task) error {
		p, err := task.ParseOrphanedRecordingPayload(t)
		if err != nil {
			return err
		}
		return workerHandler.OrphanedRecordingHandler(ctx, p, cleanup, cleaner)
	})

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{Concurrency: 2})
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Errorf(context.Background(), "worker stopped: %v", err)
		}
	}()

	return func() {
		srv.Shutdown()
	}
}
