package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/fhuszti/recordings-ms-go/internal/api_context"
	"github.com/go-chi/chi/v5/middleware"
)

func TestRequestAttrHandler(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(requestAttrHandler{h: slog.NewTextHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	ctx = context.WithValue(ctx, api_context.AuthSubjectKey, "admin-1")
	l.InfoContext(ctx, "hello")

	out := buf.String()
	for _, want := range []string{"req_id=req-42", "sub=admin-1", "msg=hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	buf.Reset()
	l.InfoContext(context.Background(), "bare")
	if strings.Contains(buf.String(), "req_id") {
		t.Errorf("unexpected req_id in %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in).Level(); got != want {
			t.Errorf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}
