package cache

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/port"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetLabels(ctx context.Context, key string) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) SetLabels(ctx context.Context, key string, data []byte) {}

func (n *NoopCache) DeleteLabels(ctx context.Context, key string) error { return nil }
