package recording

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
)

type formPart struct {
	name string
	body string
}

func multipartReader(t *testing.T, parts ...formPart) *multipart.Reader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+p.name+`"`)
		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = pw.Write([]byte(p.body))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return multipart.NewReader(&buf, w.Boundary())
}

func TestParseSubmission(t *testing.T) {
	tests := []struct {
		name     string
		parts    []formPart
		maxBytes int64
		wantKind Kind
		wantErr  bool
	}{
		{
			name:     "both parts",
			parts:    []formPart{{PartMetadata, `{"name":"a"}`}, {PartAudio, "OggS"}},
			maxBytes: 1024,
		},
		{
			name:     "order does not matter",
			parts:    []formPart{{PartAudio, "OggS"}, {PartMetadata, `{}`}},
			maxBytes: 1024,
		},
		{
			name:     "audio missing",
			parts:    []formPart{{PartMetadata, `{}`}},
			maxBytes: 1024,
			wantErr:  true,
			wantKind: KindPartsMissing,
		},
		{
			name:     "empty form",
			maxBytes: 1024,
			wantErr:  true,
			wantKind: KindPartsMissing,
		},
		{
			name:     "unexpected part",
			parts:    []formPart{{PartMetadata, `{}`}, {"video", "x"}},
			maxBytes: 1024,
			wantErr:  true,
			wantKind: KindMalformedFormSubmission,
		},
		{
			name:     "duplicate part",
			parts:    []formPart{{PartAudio, "a"}, {PartAudio, "b"}},
			maxBytes: 1024,
			wantErr:  true,
			wantKind: KindMalformedFormSubmission,
		},
		{
			name:     "too large across parts",
			parts:    []formPart{{PartMetadata, strings.Repeat("m", 6)}, {PartAudio, strings.Repeat("a", 6)}},
			maxBytes: 10,
			wantErr:  true,
			wantKind: KindPayloadTooLarge,
		},
		{
			name:     "exactly at the limit",
			parts:    []formPart{{PartMetadata, strings.Repeat("m", 5)}, {PartAudio, strings.Repeat("a", 5)}},
			maxBytes: 10,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub, err := ParseSubmission(multipartReader(t, tc.parts...), tc.maxBytes)
			if tc.wantErr {
				k, ok := KindOf(err)
				if !ok || k != tc.wantKind {
					t.Fatalf("error = %v; want kind %q", err, tc.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, p := range tc.parts {
				got := string(sub.Audio)
				if p.name == PartMetadata {
					got = string(sub.Metadata)
				}
				if got != p.body {
					t.Errorf("part %q = %q; want %q", p.name, got, p.body)
				}
			}
		})
	}
}

func TestParseSubmission_BrokenStream(t *testing.T) {
	r := multipart.NewReader(strings.NewReader("not a multipart body"), "boundary")
	_, err := ParseSubmission(r, 1024)
	if k, ok := KindOf(err); !ok || k != KindMalformedFormSubmission {
		t.Fatalf("error = %v; want MalformedFormSubmission", err)
	}
}

func TestDecodeMetadata_Normalizes(t *testing.T) {
	raw := `{"token":"0f8fad5b-d9cb-469f-a165-70867728950e","category":2,"age":3,"name":"  Zo\u00eb ","location":" Lyon "}`
	meta, err := DecodeMetadata([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Name != "Zoe\u0308" {
		t.Errorf("name = %q", meta.Name)
	}
	if meta.Location == nil || *meta.Location != "Lyon" {
		t.Errorf("location = %v", meta.Location)
	}
	if meta.Age == nil || *meta.Age != 3 || meta.Gender != nil {
		t.Errorf("age = %v, gender = %v", meta.Age, meta.Gender)
	}
}

func TestDecodeMetadata_InvalidDetails(t *testing.T) {
	_, err := DecodeMetadata([]byte(`{"token":"0f8fad5b-d9cb-469f-a165-70867728950e","name":"A"}`))
	if k, ok := KindOf(err); !ok || k != KindInvalidMetadata {
		t.Fatalf("error = %v; want InvalidMetadata", err)
	}
	if !strings.Contains(err.Error(), "category: required") {
		t.Errorf("error = %q; want the failing field named", err.Error())
	}
}
