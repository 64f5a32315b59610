package port

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// Submission holds the two parts of an upload form.
type Submission struct {
	Metadata []byte
	Audio    []byte
}

// Uploader runs the upload saga.
type Uploader interface {
	Upload(ctx context.Context, sub Submission) (*UploadOutput, error)
}
type UploadOutput struct {
	ID     uuid.UUID   `json:"id"`
	Tokens []uuid.UUID `json:"tokens"`
	Key    *uuid.UUID  `json:"key"`
}

// RecordingDeleter runs the deletion saga.
type RecordingDeleter interface {
	DeleteRecording(ctx context.Context, id uuid.UUID) error
}

// RecordingGetter serves the read-only recording endpoints.
type RecordingGetter interface {
	GetRecording(ctx context.Context, id uuid.UUID) (model.Recording, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.RecordingSummary, error)
	Count(ctx context.Context) (int64, error)
	Random(ctx context.Context, n int) ([]model.RecordingSummary, error)
	NameAvailable(ctx context.Context, name string) (bool, error)
}

// TokenGetter serves the token status endpoints.
type TokenGetter interface {
	GetToken(ctx context.Context, id uuid.UUID) (*model.Token, error)
	Lookup(ctx context.Context, key uuid.UUID) (*LookupOutput, error)
}
type LookupOutput struct {
	ID     uuid.UUID   `json:"id"`
	Tokens []uuid.UUID `json:"tokens"`
}

// LabelLister lists the lookup tables and the supported formats.
type LabelLister interface {
	ListLabels(ctx context.Context, kind model.LabelKind) ([]model.Label, error)
	ListFormats(ctx context.Context) ([]string, error)
}

// TokenIssuer creates tokens outside of an upload, for seeding chains.
type TokenIssuer interface {
	IssueTokens(ctx context.Context, parentID *uuid.UUID, n int) ([]uuid.UUID, error)
}

// OrphanCleaner undoes what a failed upload left behind.
type OrphanCleaner interface {
	CleanOrphan(ctx context.Context, id, token uuid.UUID) error
}
