package port

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// ObjectStore keeps the audio bytes, keyed by recording id.
type ObjectStore interface {
	Save(ctx context.Context, id uuid.UUID, contentType string, data []byte) error
	Delete(ctx context.Context, id uuid.UUID) error
	// URLFor is deterministic from configuration and id; it makes no network call.
	URLFor(id uuid.UUID) (string, error)
}
