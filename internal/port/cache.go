package port

import "context"

// Cache stores serialized label listings.
type Cache interface {
	GetLabels(ctx context.Context, key string) ([]byte, error)
	SetLabels(ctx context.Context, key string, data []byte)
	DeleteLabels(ctx context.Context, key string) error
}
