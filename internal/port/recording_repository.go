package port

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// RecordingRepository defines persistence operations for recordings.
type RecordingRepository interface {
	Insert(ctx context.Context, rec model.NewRecording) error
	UpdateURL(ctx context.Context, id uuid.UUID, url string, mimeTypeID int16) error
	GetByID(ctx context.Context, id uuid.UUID) (model.Recording, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]model.RecordingSummary, error)
	CountActive(ctx context.Context) (int64, error)
	Random(ctx context.Context, n int) ([]model.RecordingSummary, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

// LabelRepository lists the lookup tables.
type LabelRepository interface {
	ListLabels(ctx context.Context, kind model.LabelKind) ([]model.Label, error)
}

// MimeTypeRepository reads the registered MIME type catalogue.
type MimeTypeRepository interface {
	FindByFormat(ctx context.Context, f model.AudioFormat) (*model.MimeType, error)
	ListMimeTypes(ctx context.Context) ([]model.MimeType, error)
}

// KeyRepository manages the lookup keys handed out on upload.
type KeyRepository interface {
	CreateKey(ctx context.Context, recordingID uuid.UUID, email *string) (uuid.UUID, error)
	FindRecordingByKey(ctx context.Context, key uuid.UUID) (uuid.UUID, error)
}
