package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/metrics"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/task"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// OrphanedRecordingHandler handles an orphaned-recording task.
// When cleanup is disabled the orphan is only logged, leaving the row and the
// locked token for an operator. Otherwise it delegates to the cleaner.
func OrphanedRecordingHandler(ctx context.Context, p task.OrphanedRecordingPayload, cleanup bool, svc port.OrphanCleaner) (err error) {
	defer func() {
		outcome := "done"
		if err != nil {
			outcome = "error"
		}
		metrics.TasksProcessedTotal.WithLabelValues(task.TypeOrphanedRecording, outcome).Inc()
	}()

	id, err := uuid.Parse(p.RecordingID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid recording ID %q: %v", p.RecordingID, err)
		return fmt.Errorf("invalid recording id: %v: %w", err, asynq.SkipRetry)
	}
	token, err := uuid.Parse(p.Token)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid token %q: %v", p.Token, err)
		return fmt.Errorf("invalid token: %v: %w", err, asynq.SkipRetry)
	}

	if !recording.Orphanable(recording.Stage(p.Stage)) {
		logger.Warn(ctx, "recording is complete, refusing to clean it up",
			"id", id, "stage", p.Stage, "reason", p.Reason)
		return fmt.Errorf("stage %q does not leave an orphan: %w", p.Stage, asynq.SkipRetry)
	}

	if !cleanup {
		logger.Warn(ctx, "orphaned recording left in place",
			"id", id, "token", token, "stage", p.Stage, "reason", p.Reason)
		return nil
	}

	if err := svc.CleanOrphan(ctx, id, token); err != nil {
		logger.Errorf(ctx, "❌  Failed to clean orphaned recording #%s: %v", id, err)
		return err
	}

	logger.Infof(ctx, "✅  Cleaned orphaned recording #%s (failed at %s)", id, p.Stage)
	return nil
}
