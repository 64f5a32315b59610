package port

import (
	"context"

	"github.com/fhuszti/recordings-ms-go/internal/model"
)

// AudioInspector lists the candidate formats of a single-stream audio file,
// in the order they should be tried.
type AudioInspector interface {
	Identify(ctx context.Context, data []byte) ([]model.AudioFormat, error)
}

// MimeTypeResolver maps a format to its catalogue entry.
type MimeTypeResolver interface {
	Resolve(ctx context.Context, f model.AudioFormat) (*model.MimeType, error)
}
