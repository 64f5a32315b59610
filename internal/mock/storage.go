package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// Storage implements port.ObjectStore for tests.
type Storage struct {
	mu sync.Mutex

	BaseURL string

	// errors
	SaveErr   error
	DeleteErr error
	URLErr    error

	// captured inputs
	SavedID          uuid.UUID
	SavedContentType string
	SavedData        []byte
	DeletedID        uuid.UUID

	// call flags
	SaveCalled   bool
	DeleteCalled bool
}

func (s *Storage) Save(ctx context.Context, id uuid.UUID, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalled = true
	s.SavedID, s.SavedContentType, s.SavedData = id, contentType, data
	return s.SaveErr
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalled = true
	s.DeletedID = id
	return s.DeleteErr
}

func (s *Storage) URLFor(id uuid.UUID) (string, error) {
	if s.URLErr != nil {
		return "", s.URLErr
	}
	return s.BaseURL + "/" + id.String(), nil
}
