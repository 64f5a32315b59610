package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// MockDispatcher implements task dispatching for tests.
type MockDispatcher struct {
	mu sync.Mutex

	OrphanCalled bool
	OrphanIDs    []uuid.UUID
	OrphanTokens []uuid.UUID
	OrphanStages []string
	OrphanErr    error
}

func (m *MockDispatcher) EnqueueOrphanedRecording(ctx context.Context, id, token uuid.UUID, stage, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrphanCalled = true
	m.OrphanIDs = append(m.OrphanIDs, id)
	m.OrphanTokens = append(m.OrphanTokens, token)
	m.OrphanStages = append(m.OrphanStages, stage)
	return m.OrphanErr
}
