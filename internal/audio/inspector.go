// Package audio identifies the container and codec of uploaded audio by
// running ffprobe against a scratch copy of the bytes.
package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/metrics"
	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

var probeArgs = []string{
	"-hide_banner",
	"-v", "error",
	"-of", "json",
	"-show_format",
	"-show_entries", "stream=codec_name",
}

type probeOutput struct {
	Streams []struct {
		CodecName string `json:"codec_name"`
	} `json:"streams"`
	Format *struct {
		FormatName string `json:"format_name"`
	} `json:"format"`
}

type Inspector struct {
	path    string
	timeout time.Duration
	sem     *semaphore.Weighted
	tempDir string
}

// compile-time check: *Inspector must satisfy port.AudioInspector
var _ port.AudioInspector = (*Inspector)(nil)

// NewInspector bounds every probe run by timeout and never runs more than
// concurrency probes at once. An empty path is looked up on $PATH at call time.
func NewInspector(path string, timeout time.Duration, concurrency int64) *Inspector {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Inspector{
		path:    path,
		timeout: timeout,
		sem:     semaphore.NewWeighted(concurrency),
	}
}

func (i *Inspector) Identify(ctx context.Context, data []byte) ([]model.AudioFormat, error) {
	bin, err := i.binary()
	if err != nil {
		return nil, err
	}

	if err := i.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", recording.ErrProbeFailed, err)
	}
	defer i.sem.Release(1)

	scratch, err := writeScratch(i.tempDir, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", recording.ErrTemporaryFile, err)
	}
	defer func() {
		if err := os.Remove(scratch); err != nil {
			logger.Warn(ctx, "could not remove probe scratch file", "path", scratch, "error", err)
		}
	}()

	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append(probeArgs, scratch)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", recording.ErrProbeMissing, err)
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v: %s", recording.ErrProbeFailed, err, strings.TrimSpace(stderr.String()))
	}
	logger.Debug(ctx, "probed audio", "size", len(data), "took", time.Since(start))

	return parseProbeOutput(stdout.Bytes())
}

func (i *Inspector) binary() (string, error) {
	if i.path != "" {
		return i.path, nil
	}
	bin, err := exec.LookPath("ffprobe")
	if err != nil {
		return "", fmt.Errorf("%w: %v", recording.ErrProbeMissing, err)
	}
	return bin, nil
}

func writeScratch(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "recording-*")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// parseProbeOutput turns ffprobe's JSON into one candidate per reported
// container name, all sharing the single stream's codec.
func parseProbeOutput(raw []byte) ([]model.AudioFormat, error) {
	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", recording.ErrMalformedProbeOutput, err)
	}
	if out.Format == nil {
		return nil, fmt.Errorf("%w: no format section", recording.ErrMalformedProbeOutput)
	}
	if len(out.Streams) != 1 {
		return nil, &recording.TooManyStreamsError{Expected: 1, Actual: len(out.Streams)}
	}

	codec := out.Streams[0].CodecName
	formats := []model.AudioFormat{}
	for _, container := range strings.Split(out.Format.FormatName, ",") {
		container = strings.TrimSpace(container)
		if container == "" {
			continue
		}
		formats = append(formats, model.AudioFormat{Container: container, Codec: codec})
	}
	return formats, nil
}
