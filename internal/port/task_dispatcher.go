package port

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// TaskDispatcher enqueues asynchronous tasks.
type TaskDispatcher interface {
	// EnqueueOrphanedRecording reports a recording whose upload failed after
	// its row was inserted. token is the token that was consumed by the attempt.
	EnqueueOrphanedRecording(ctx context.Context, id, token uuid.UUID, stage, reason string) error
}
