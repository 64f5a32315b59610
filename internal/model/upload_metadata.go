package model

import (
	"github.com/fhuszti/recordings-ms-go/internal/normalization"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// UploadMetadata is the JSON part of an upload submission.
type UploadMetadata struct {
	Token      uuid.UUID `json:"token" validate:"required"`
	Category   int16     `json:"category" validate:"required,gt=0"`
	Age        *int16    `json:"age,omitempty" validate:"omitempty,gt=0"`
	Gender     *int16    `json:"gender,omitempty" validate:"omitempty,gt=0"`
	Name       string    `json:"name" validate:"required,max=255"`
	Location   *string   `json:"location,omitempty" validate:"omitempty,max=255"`
	Occupation *string   `json:"occupation,omitempty" validate:"omitempty,max=255"`
	Email      *string   `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

// Normalize puts the free-text fields in their stored form.
func (m *UploadMetadata) Normalize() {
	m.Name = normalization.Normalize(m.Name)
	m.Location = normalization.NormalizeOptional(m.Location)
	m.Occupation = normalization.NormalizeOptional(m.Occupation)
	if m.Email != nil {
		e := normalization.Normalize(*m.Email)
		m.Email = &e
	}
}
