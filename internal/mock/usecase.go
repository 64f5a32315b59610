package mock

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// MockUploader implements port.Uploader for tests.
type MockUploader struct {
	Out    *port.UploadOutput
	Err    error
	Called bool
	In     port.Submission
}

func (m *MockUploader) Upload(ctx context.Context, sub port.Submission) (*port.UploadOutput, error) {
	m.Called = true
	m.In = sub
	return m.Out, m.Err
}

// MockRecordingDeleter implements port.RecordingDeleter for tests.
type MockRecordingDeleter struct {
	Err    error
	Called bool
	ID     uuid.UUID
}

func (m *MockRecordingDeleter) DeleteRecording(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}

// MockRecordingGetter implements port.RecordingGetter for tests.
type MockRecordingGetter struct {
	Recording model.Recording
	Children  []model.RecordingSummary
	RandomOut []model.RecordingSummary
	CountOut  int64
	Available bool
	Err       error

	GotID   uuid.UUID
	GotN    int
	GotName string
}

func (m *MockRecordingGetter) GetRecording(ctx context.Context, id uuid.UUID) (model.Recording, error) {
	m.GotID = id
	return m.Recording, m.Err
}

func (m *MockRecordingGetter) ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.RecordingSummary, error) {
	m.GotID = parentID
	return m.Children, m.Err
}

func (m *MockRecordingGetter) Count(ctx context.Context) (int64, error) {
	return m.CountOut, m.Err
}

func (m *MockRecordingGetter) Random(ctx context.Context, n int) ([]model.RecordingSummary, error) {
	m.GotN = n
	return m.RandomOut, m.Err
}

func (m *MockRecordingGetter) NameAvailable(ctx context.Context, name string) (bool, error) {
	m.GotName = name
	return m.Available, m.Err
}

// MockTokenGetter implements port.TokenGetter for tests.
type MockTokenGetter struct {
	Token     *model.Token
	LookupOut *port.LookupOutput
	Err       error
	GotID     uuid.UUID
}

func (m *MockTokenGetter) GetToken(ctx context.Context, id uuid.UUID) (*model.Token, error) {
	m.GotID = id
	return m.Token, m.Err
}

func (m *MockTokenGetter) Lookup(ctx context.Context, key uuid.UUID) (*port.LookupOutput, error) {
	m.GotID = key
	return m.LookupOut, m.Err
}

// MockLabelLister implements port.LabelLister for tests.
type MockLabelLister struct {
	Labels  []model.Label
	Formats []string
	Err     error
	GotKind model.LabelKind
}

func (m *MockLabelLister) ListLabels(ctx context.Context, kind model.LabelKind) ([]model.Label, error) {
	m.GotKind = kind
	return m.Labels, m.Err
}

func (m *MockLabelLister) ListFormats(ctx context.Context) ([]string, error) {
	return m.Formats, m.Err
}

type MockOrphanCleaner struct {
	Err    error
	Called bool
	ID     uuid.UUID
	Token  uuid.UUID
}

func (m *MockOrphanCleaner) CleanOrphan(ctx context.Context, id, token uuid.UUID) error {
	m.Called = true
	m.ID, m.Token = id, token
	return m.Err
}

// MockTokenIssuer implements port.TokenIssuer for tests.
type MockTokenIssuer struct {
	Out     []uuid.UUID
	Err     error
	Parents []*uuid.UUID
	GotN    int
}

func (m *MockTokenIssuer) IssueTokens(ctx context.Context, parentID *uuid.UUID, n int) ([]uuid.UUID, error) {
	m.Parents = append(m.Parents, parentID)
	m.GotN = n
	return m.Out, m.Err
}
