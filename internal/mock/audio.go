package mock

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

// MockInspector returns fixed formats.
type MockInspector struct {
	Formats []model.AudioFormat
	Err     error
	Called  bool
}

func (m *MockInspector) Identify(ctx context.Context, data []byte) ([]model.AudioFormat, error) {
	m.Called = true
	return m.Formats, m.Err
}

// MockResolver resolves from a fixed map.
type MockResolver struct {
	Entries map[model.AudioFormat]*model.MimeType
	Err     error
	Tried   []model.AudioFormat
}

func (m *MockResolver) Resolve(ctx context.Context, f model.AudioFormat) (*model.MimeType, error) {
	m.Tried = append(m.Tried, f)
	if m.Err != nil {
		return nil, m.Err
	}
	if e, ok := m.Entries[f]; ok {
		return e, nil
	}
	return nil, recording.ErrMimeTypeNotFound
}
