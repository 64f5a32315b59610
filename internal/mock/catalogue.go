package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// MockMimeTypeRepository serves a fixed catalogue.
type MockMimeTypeRepository struct {
	mu        sync.Mutex
	Entries   map[model.AudioFormat]*model.MimeType
	ListOut   []model.MimeType
	FindErr   error
	ListErr   error
	FindCalls int
}

func (m *MockMimeTypeRepository) FindByFormat(ctx context.Context, f model.AudioFormat) (*model.MimeType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	if e, ok := m.Entries[f]; ok {
		return e, nil
	}
	return nil, recording.ErrMimeTypeNotFound
}

func (m *MockMimeTypeRepository) ListMimeTypes(ctx context.Context) ([]model.MimeType, error) {
	return m.ListOut, m.ListErr
}

// MockLabelRepository serves fixed label tables.
type MockLabelRepository struct {
	Labels map[model.LabelKind][]model.Label
	Err    error
	Calls  int
}

func (m *MockLabelRepository) ListLabels(ctx context.Context, kind model.LabelKind) ([]model.Label, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Labels[kind], nil
}

// MockKeyRepository implements port.KeyRepository for tests.
type MockKeyRepository struct {
	Key       uuid.UUID
	FindOut   uuid.UUID
	CreateErr error
	FindErr   error

	CreateCalled bool
	CreatedFor   uuid.UUID
	Email        *string
}

func (m *MockKeyRepository) CreateKey(ctx context.Context, recordingID uuid.UUID, email *string) (uuid.UUID, error) {
	m.CreateCalled = true
	m.CreatedFor = recordingID
	m.Email = email
	if m.CreateErr != nil {
		return uuid.Nil, m.CreateErr
	}
	return m.Key, nil
}

func (m *MockKeyRepository) FindRecordingByKey(ctx context.Context, key uuid.UUID) (uuid.UUID, error) {
	return m.FindOut, m.FindErr
}
