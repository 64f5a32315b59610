package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

func TestParseProbeOutput(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []model.AudioFormat
		wantErr error
		streams int
	}{
		{
			name: "single container",
			raw:  `{"streams":[{"codec_name":"opus"}],"format":{"format_name":"ogg"}}`,
			want: []model.AudioFormat{{Container: "ogg", Codec: "opus"}},
		},
		{
			name: "comma separated containers keep order",
			raw:  `{"streams":[{"codec_name":"aac"}],"format":{"format_name":"mov,mp4,m4a,3gp,3g2,mj2"}}`,
			want: []model.AudioFormat{
				{Container: "mov", Codec: "aac"},
				{Container: "mp4", Codec: "aac"},
				{Container: "m4a", Codec: "aac"},
				{Container: "3gp", Codec: "aac"},
				{Container: "3g2", Codec: "aac"},
				{Container: "mj2", Codec: "aac"},
			},
		},
		{
			name: "empty format name",
			raw:  `{"streams":[{"codec_name":"opus"}],"format":{"format_name":""}}`,
			want: []model.AudioFormat{},
		},
		{
			name:    "no streams",
			raw:     `{"streams":[],"format":{"format_name":"ogg"}}`,
			streams: 0,
			wantErr: &recording.TooManyStreamsError{},
		},
		{
			name:    "two streams",
			raw:     `{"streams":[{"codec_name":"opus"},{"codec_name":"theora"}],"format":{"format_name":"ogg"}}`,
			streams: 2,
			wantErr: &recording.TooManyStreamsError{},
		},
		{
			name:    "not json",
			raw:     `Invalid data found when processing input`,
			wantErr: recording.ErrMalformedProbeOutput,
		},
		{
			name:    "missing format",
			raw:     `{"streams":[{"codec_name":"opus"}]}`,
			wantErr: recording.ErrMalformedProbeOutput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseProbeOutput([]byte(tc.raw))

			var streamsErr *recording.TooManyStreamsError
			switch {
			case tc.wantErr == nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !reflect.DeepEqual(got, tc.want) {
					t.Errorf("got %v; want %v", got, tc.want)
				}
			case errors.As(tc.wantErr, &streamsErr):
				if !errors.As(err, &streamsErr) {
					t.Fatalf("error = %v; want TooManyStreamsError", err)
				}
				if streamsErr.Expected != 1 || streamsErr.Actual != tc.streams {
					t.Errorf("TooManyStreams = %+v; want expected=1 actual=%d", streamsErr, tc.streams)
				}
			default:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("error = %v; want %v", err, tc.wantErr)
				}
			}
		})
	}
}

// fakeProbe writes a shell script standing in for ffprobe.
func fakeProbe(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffprobe needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("could not write fake ffprobe: %v", err)
	}
	return path
}

func TestInspector_Identify(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		bin := fakeProbe(t, `echo '{"streams":[{"codec_name":"opus"}],"format":{"format_name":"ogg"}}'`)
		i := NewInspector(bin, 5*time.Second, 2)
		i.tempDir = t.TempDir()

		got, err := i.Identify(context.Background(), []byte("OggS"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].String() != "ogg/opus" {
			t.Errorf("got %v; want [ogg/opus]", got)
		}

		left, _ := os.ReadDir(i.tempDir)
		if len(left) != 0 {
			t.Errorf("scratch files left behind: %d", len(left))
		}
	})

	t.Run("receives scratch file with the data", func(t *testing.T) {
		bin := fakeProbe(t, `
for last; do :; done
if [ "$(cat "$last")" = "payload" ]; then
  echo '{"streams":[{"codec_name":"flac"}],"format":{"format_name":"flac"}}'
else
  exit 3
fi`)
		i := NewInspector(bin, 5*time.Second, 1)

		got, err := i.Identify(context.Background(), []byte("payload"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[0].Codec != "flac" {
			t.Errorf("got %v; want flac", got)
		}
	})

	t.Run("non zero exit", func(t *testing.T) {
		bin := fakeProbe(t, `echo "Invalid data found when processing input" >&2; exit 1`)
		i := NewInspector(bin, 5*time.Second, 1)

		_, err := i.Identify(context.Background(), []byte("junk"))
		if !errors.Is(err, recording.ErrProbeFailed) {
			t.Fatalf("error = %v; want ErrProbeFailed", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		bin := fakeProbe(t, `exec sleep 5`)
		i := NewInspector(bin, 50*time.Millisecond, 1)

		_, err := i.Identify(context.Background(), []byte("slow"))
		if !errors.Is(err, recording.ErrProbeFailed) {
			t.Fatalf("error = %v; want ErrProbeFailed", err)
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		i := NewInspector(filepath.Join(t.TempDir(), "nope"), time.Second, 1)

		_, err := i.Identify(context.Background(), []byte("x"))
		if !errors.Is(err, recording.ErrProbeMissing) {
			t.Fatalf("error = %v; want ErrProbeMissing", err)
		}
	})

	t.Run("unusable temp dir", func(t *testing.T) {
		bin := fakeProbe(t, `exit 0`)
		i := NewInspector(bin, time.Second, 1)
		i.tempDir = filepath.Join(t.TempDir(), "missing")

		_, err := i.Identify(context.Background(), []byte("x"))
		if !errors.Is(err, recording.ErrTemporaryFile) {
			t.Fatalf("error = %v; want ErrTemporaryFile", err)
		}
	})
}
