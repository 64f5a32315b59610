package recording

import (
	"context"
	"errors"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/metrics"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

type deleteRecordingSrv struct {
	recs  port.RecordingRepository
	store port.ObjectStore
}

// NewRecordingDeleter constructs the deletion saga.
func NewRecordingDeleter(recs port.RecordingRepository, store port.ObjectStore) port.RecordingDeleter {
	return &deleteRecordingSrv{recs: recs, store: store}
}

// DeleteRecording removes the stored audio, then tombstones the row. A missing
// object is not a failure. When either step fails the error names every part
// that did.
func (s *deleteRecordingSrv) DeleteRecording(ctx context.Context, id uuid.UUID) (err error) {
	defer func() {
		outcome := "deleted"
		if k, ok := KindOf(err); ok {
			outcome = k.String()
		}
		metrics.DeletionsTotal.WithLabelValues(outcome).Inc()
	}()

	storeErr := s.store.Delete(ctx, id)
	if errors.Is(storeErr, ErrObjectNotFound) {
		logger.Debug(ctx, "no stored audio to delete", "id", id)
		storeErr = nil
	}

	dbErr := s.recs.Delete(ctx, id)

	if storeErr == nil {
		switch {
		case dbErr == nil:
			logger.Info(ctx, "recording deleted", "id", id)
			return nil
		case errors.Is(dbErr, ErrRecordingNotFound):
			return newRecordingError(KindNonExistentID, StageDelete, id, dbErr)
		case errors.Is(dbErr, ErrRecordingDeleted):
			return newRecordingError(KindAlreadyDeleted, StageDelete, id, dbErr)
		}
	}

	e := &Error{Kind: KindSummarizedDeleteFailed, Stage: StageDelete, ID: &id}
	var causes []error
	if storeErr != nil {
		e.Parts = append(e.Parts, PartObjectStore)
		causes = append(causes, storeErr)
		logger.Error(ctx, "failed to delete stored audio", "id", id, "error", storeErr)
	}
	if dbErr != nil {
		e.Parts = append(e.Parts, PartDatabase)
		causes = append(causes, dbErr)
		logger.Error(ctx, "failed to delete recording row", "id", id, "error", dbErr)
	}
	e.Err = errors.Join(causes...)
	return e
}
