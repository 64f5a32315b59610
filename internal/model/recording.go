package model

import (
	"time"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// Recording is either an *ActiveRecording or a *DeletedRecording.
type Recording interface {
	RecordingID() uuid.UUID
	isRecording()
}

type ActiveRecording struct {
	ID         uuid.UUID  `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Name       string     `json:"name"`
	ParentID   *uuid.UUID `json:"parent_id"`
	URL        *string    `json:"url"`
	MimeType   *string    `json:"mime_type"`
	Category   int16      `json:"category"`
	Age        *int16     `json:"age,omitempty"`
	Gender     *int16     `json:"gender,omitempty"`
	Location   *string    `json:"location,omitempty"`
	Occupation *string    `json:"occupation,omitempty"`
}

// DeletedRecording is the tombstone left behind once a recording is deleted.
type DeletedRecording struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt time.Time  `json:"deleted_at"`
	ParentID  *uuid.UUID `json:"parent_id"`
}

func (r *ActiveRecording) RecordingID() uuid.UUID  { return r.ID }
func (r *DeletedRecording) RecordingID() uuid.UUID { return r.ID }

func (*ActiveRecording) isRecording()  {}
func (*DeletedRecording) isRecording() {}

// NewRecording is what gets inserted before the audio is stored: URL and
// MIME type are linked afterwards.
type NewRecording struct {
	ID       uuid.UUID
	ParentID *uuid.UUID
	Metadata UploadMetadata
}

// RecordingSummary is the public listing shape.
type RecordingSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Location *string   `json:"location,omitempty"`
}
