package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"testing"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// FixedInspector identifies every payload as the same format, standing in
// for ffprobe, which the containers do not ship.
type FixedInspector struct {
	Formats []model.AudioFormat
}

func (f FixedInspector) Identify(ctx context.Context, data []byte) ([]model.AudioFormat, error) {
	return f.Formats, nil
}

var OggOpus = FixedInspector{Formats: []model.AudioFormat{{Container: "ogg", Codec: "opus"}}}

// UploadForm builds the multipart body of an upload.
func UploadForm(t *testing.T, token uuid.UUID, name string, audio []byte) (*bytes.Buffer, string) {
	t.Helper()

	meta, err := json.Marshal(map[string]any{
		"token":    token,
		"category": 1,
		"age":      2,
		"name":     name,
		"email":    "someone@example.com",
	})
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, part := range []struct {
		name string
		data []byte
	}{{"metadata", meta}, {"audio", audio}} {
		w, err := mw.CreateFormField(part.name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := w.Write(part.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
