package port

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// TokenLedger owns the token rows. Lock is the only concurrency-critical
// primitive: for a given id at most one concurrent call succeeds.
type TokenLedger interface {
	Create(ctx context.Context, parentID *uuid.UUID) (uuid.UUID, error)
	Lock(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
	Release(ctx context.Context, id uuid.UUID) error
	Remove(ctx context.Context, id uuid.UUID) error
	Retrieve(ctx context.Context, id uuid.UUID) (*model.Token, error)
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error)
}
