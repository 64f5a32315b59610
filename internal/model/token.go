package model

import "github.com/fhuszti/recordings-ms-go/internal/uuid"

// Token grants permission to create exactly one recording. ParentID is nil
// for root tokens.
type Token struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id"`
	Locked   bool       `json:"-"`
}
