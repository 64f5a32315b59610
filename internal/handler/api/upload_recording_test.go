package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fhuszti/recordings-ms-go/internal/mock"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/urls"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

func multipartBody(t *testing.T, parts map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"metadata", "audio", "extra"} {
		content, ok := parts[name]
		if !ok {
			continue
		}
		fw, err := mw.CreateFormField(name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadRecordingHandler(t *testing.T) {
	links, err := urls.New("https://api.example.com", "recordings")
	if err != nil {
		t.Fatalf("urls.New: %v", err)
	}
	id := uuid.NewUUID()
	child := uuid.NewUUID()
	key := uuid.NewUUID()
	complete := map[string]string{"metadata": `{"name":"Zoe"}`, "audio": "OggS"}

	tests := []struct {
		name        string
		parts       map[string]string
		contentType string
		maxBytes    int64
		svcErr      error
		wantStatus  int
		wantCalled  bool
		wantMsg     string
	}{
		{
			name:       "created",
			parts:      complete,
			maxBytes:   1 << 20,
			wantStatus: http.StatusCreated,
			wantCalled: true,
		},
		{
			name:        "not multipart",
			contentType: "application/json",
			maxBytes:    1 << 20,
			wantStatus:  http.StatusBadRequest,
			wantMsg:     "malformed form submission",
		},
		{
			name:       "missing audio",
			parts:      map[string]string{"metadata": `{}`},
			maxBytes:   1 << 20,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "parts missing",
		},
		{
			name:       "unexpected part",
			parts:      map[string]string{"metadata": `{}`, "audio": "x", "extra": "y"},
			maxBytes:   1 << 20,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "malformed form submission",
		},
		{
			name:       "too large",
			parts:      complete,
			maxBytes:   4,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantMsg:    "payload too large",
		},
		{
			name:       "invalid token",
			parts:      complete,
			maxBytes:   1 << 20,
			svcErr:     &recording.Error{Kind: recording.KindInvalidToken, Stage: recording.StageTokenLock, Err: recording.ErrTokenNotFound},
			wantStatus: http.StatusUnauthorized,
			wantCalled: true,
			wantMsg:    "invalid token",
		},
		{
			name:       "unsupported format",
			parts:      complete,
			maxBytes:   1 << 20,
			svcErr:     &recording.Error{Kind: recording.KindInvalidAudioFormat, Stage: recording.StageAudioVerify},
			wantStatus: http.StatusUnsupportedMediaType,
			wantCalled: true,
			wantMsg:    "invalid audio format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.MockUploader{
				Out: &port.UploadOutput{ID: id, Tokens: []uuid.UUID{child}, Key: &key},
				Err: tc.svcErr,
			}
			h := UploadRecordingHandler(svc, links, tc.maxBytes)

			var req *http.Request
			if tc.parts != nil {
				body, ct := multipartBody(t, tc.parts)
				req = httptest.NewRequest(http.MethodPost, "/recordings", body)
				req.Header.Set("Content-Type", ct)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/recordings", strings.NewReader(`{}`))
				req.Header.Set("Content-Type", tc.contentType)
			}
			rec := httptest.NewRecorder()
			h(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if svc.Called != tc.wantCalled {
				t.Errorf("service called = %v; want %v", svc.Called, tc.wantCalled)
			}

			if tc.wantStatus != http.StatusCreated {
				if body := decodeRejection(t, rec); !strings.HasPrefix(body.Message, tc.wantMsg) {
					t.Errorf("message = %q; want prefix %q", body.Message, tc.wantMsg)
				}
				return
			}

			if loc := rec.Header().Get("Location"); loc != "https://api.example.com/recordings/id/"+id.String() {
				t.Errorf("Location = %q", loc)
			}
			if string(svc.In.Metadata) != complete["metadata"] || string(svc.In.Audio) != complete["audio"] {
				t.Errorf("submission = %q / %q", svc.In.Metadata, svc.In.Audio)
			}
			var out port.UploadOutput
			if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out.ID != id || len(out.Tokens) != 1 || out.Tokens[0] != child || out.Key == nil || *out.Key != key {
				t.Errorf("body = %+v", out)
			}
		})
	}
}
