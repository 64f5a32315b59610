package recording

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

type orphanCleanerSrv struct {
	recs   port.RecordingRepository
	store  port.ObjectStore
	tokens port.TokenLedger
}

// NewOrphanCleaner builds the cleanup run by the worker for recordings whose
// upload failed after the row was written.
func NewOrphanCleaner(recs port.RecordingRepository, store port.ObjectStore, tokens port.TokenLedger) port.OrphanCleaner {
	return &orphanCleanerSrv{recs: recs, store: store, tokens: tokens}
}

// CleanOrphan is idempotent: every step treats "already gone" as done, so a
// retried task converges.
func (s *orphanCleanerSrv) CleanOrphan(ctx context.Context, id, token uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrObjectNotFound) {
		return fmt.Errorf("delete stored audio: %w", err)
	}

	err := s.recs.Delete(ctx, id)
	if err != nil && !errors.Is(err, ErrRecordingNotFound) && !errors.Is(err, ErrRecordingDeleted) {
		return fmt.Errorf("tombstone recording: %w", err)
	}

	// the parent token may already be retired; releasing a missing token is a no-op
	if err := s.tokens.Release(ctx, token); err != nil {
		return fmt.Errorf("release token: %w", err)
	}

	logger.Info(ctx, "orphaned recording cleaned up", "id", id, "token", token)
	return nil
}
