package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// MockRecordingRepo implements port.RecordingRepository for tests.
type MockRecordingRepo struct {
	mu sync.Mutex

	// stored values
	GetOut          model.Recording
	ListChildrenOut []model.RecordingSummary
	CountOut        int64
	RandomOut       []model.RecordingSummary
	NameExistsOut   bool

	// errors
	// InsertErrs is consumed one per call before InsertErr applies.
	InsertErrs    []error
	InsertErr     error
	UpdateURLErr  error
	GetErr        error
	DeleteErr     error
	ListErr       error
	CountErr      error
	NameExistsErr error

	// captured inputs
	Inserted     []model.NewRecording
	UpdatedID    uuid.UUID
	UpdatedURL   string
	UpdatedMime  int16
	DeletedID    uuid.UUID
	RandomN      int
	CheckedName  string
	DeleteCalled bool
}

func (m *MockRecordingRepo) Insert(ctx context.Context, rec model.NewRecording) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inserted = append(m.Inserted, rec)
	if len(m.InsertErrs) > 0 {
		err := m.InsertErrs[0]
		m.InsertErrs = m.InsertErrs[1:]
		return err
	}
	return m.InsertErr
}

func (m *MockRecordingRepo) UpdateURL(ctx context.Context, id uuid.UUID, url string, mimeTypeID int16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatedID, m.UpdatedURL, m.UpdatedMime = id, url, mimeTypeID
	return m.UpdateURLErr
}

func (m *MockRecordingRepo) GetByID(ctx context.Context, id uuid.UUID) (model.Recording, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.GetOut, nil
}

func (m *MockRecordingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.DeleteCalled = true
	m.DeletedID = id
	return m.DeleteErr
}

func (m *MockRecordingRepo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.RecordingSummary, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListChildrenOut, nil
}

func (m *MockRecordingRepo) CountActive(ctx context.Context) (int64, error) {
	return m.CountOut, m.CountErr
}

func (m *MockRecordingRepo) Random(ctx context.Context, n int) ([]model.RecordingSummary, error) {
	m.RandomN = n
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.RandomOut, nil
}

func (m *MockRecordingRepo) NameExists(ctx context.Context, name string) (bool, error) {
	m.CheckedName = name
	return m.NameExistsOut, m.NameExistsErr
}
