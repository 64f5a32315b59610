package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// MockTokenLedger is an in-memory ledger with the same single-winner lock
// semantics as the database one. It is safe for concurrent use.
type MockTokenLedger struct {
	mu     sync.Mutex
	Tokens map[uuid.UUID]*model.Token

	// errors
	CreateErr  error
	LockErr    error
	ReleaseErr error
	RemoveErr  error
	// CreateFailAfter makes Create fail once that many tokens were created.
	CreateFailAfter int

	// captured calls
	Created  []uuid.UUID
	Released []uuid.UUID
	Removed  []uuid.UUID
}

// Seed adds an unlocked token.
func (m *MockTokenLedger) Seed(id uuid.UUID, parentID *uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Tokens == nil {
		m.Tokens = map[uuid.UUID]*model.Token{}
	}
	m.Tokens[id] = &model.Token{ID: id, ParentID: parentID}
}

func (m *MockTokenLedger) Create(ctx context.Context, parentID *uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil && len(m.Created) >= m.CreateFailAfter {
		return uuid.Nil, m.CreateErr
	}
	if m.Tokens == nil {
		m.Tokens = map[uuid.UUID]*model.Token{}
	}
	id := uuid.NewUUID()
	m.Tokens[id] = &model.Token{ID: id, ParentID: parentID}
	m.Created = append(m.Created, id)
	return id, nil
}

func (m *MockTokenLedger) Lock(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LockErr != nil {
		return nil, m.LockErr
	}
	t, ok := m.Tokens[id]
	if !ok || t.Locked {
		return nil, recording.ErrTokenNotFound
	}
	t.Locked = true
	return t.ParentID, nil
}

func (m *MockTokenLedger) Release(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Released = append(m.Released, id)
	if m.ReleaseErr != nil {
		return m.ReleaseErr
	}
	if t, ok := m.Tokens[id]; ok {
		t.Locked = false
	}
	return nil
}

func (m *MockTokenLedger) Remove(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, id)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.Tokens, id)
	return nil
}

func (m *MockTokenLedger) Retrieve(ctx context.Context, id uuid.UUID) (*model.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tokens[id]
	if !ok {
		return nil, recording.ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockTokenLedger) ListByParent(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []uuid.UUID{}
	for _, id := range m.Created {
		if t, ok := m.Tokens[id]; ok && t.ParentID != nil && *t.ParentID == parentID {
			out = append(out, id)
		}
	}
	return out, nil
}

// IsLocked reports the lock state of a token, and whether it exists.
func (m *MockTokenLedger) IsLocked(id uuid.UUID) (locked, exists bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tokens[id]
	if !ok {
		return false, false
	}
	return t.Locked, true
}
