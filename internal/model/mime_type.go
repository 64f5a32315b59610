package model

// MimeType is a registered catalogue entry for an AudioFormat.
type MimeType struct {
	ID        int16       `json:"id"`
	Format    AudioFormat `json:"format"`
	Essence   string      `json:"essence"`
	Extension string      `json:"extension"`
}
