package task

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// NoopDispatcher is used when no Redis is configured; orphans are then only
// logged and counted by the upload saga.
type NoopDispatcher struct{}

var _ port.TaskDispatcher = (*NoopDispatcher)(nil)

func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

func (d *NoopDispatcher) EnqueueOrphanedRecording(ctx context.Context, id, token uuid.UUID, stage, reason string) error {
	return nil
}
