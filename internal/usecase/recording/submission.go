package recording

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/validation"
)

// Names of the two parts of an upload form.
const (
	PartMetadata = "metadata"
	PartAudio    = "audio"
)

// ParseSubmission reads exactly one metadata part and one audio part from a
// multipart stream. maxBytes bounds the sum of both part bodies.
func ParseSubmission(r *multipart.Reader, maxBytes int64) (port.Submission, error) {
	var (
		sub     port.Submission
		seen    = map[string]bool{}
		remains = maxBytes
	)

	for {
		part, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return port.Submission{}, newError(KindMalformedFormSubmission, StageReceived, err)
		}

		name := part.FormName()
		if name != PartMetadata && name != PartAudio {
			_ = part.Close()
			return port.Submission{}, newError(KindMalformedFormSubmission, StageReceived, fmt.Errorf("unexpected part %q", name))
		}
		if seen[name] {
			_ = part.Close()
			return port.Submission{}, newError(KindMalformedFormSubmission, StageReceived, fmt.Errorf("duplicate part %q", name))
		}
		seen[name] = true

		var buf bytes.Buffer
		n, err := buf.ReadFrom(io.LimitReader(part, remains+1))
		_ = part.Close()
		if err != nil {
			return port.Submission{}, newError(KindMalformedFormSubmission, StageReceived, err)
		}
		if n > remains {
			return port.Submission{}, newError(KindPayloadTooLarge, StageReceived, fmt.Errorf("submission exceeds %d bytes", maxBytes))
		}
		remains -= n

		if name == PartMetadata {
			sub.Metadata = buf.Bytes()
		} else {
			sub.Audio = buf.Bytes()
		}
	}

	var missing []string
	for _, name := range []string{PartMetadata, PartAudio} {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return port.Submission{}, newError(KindPartsMissing, StageReceived, fmt.Errorf("missing %v", missing))
	}
	return sub, nil
}

// DecodeMetadata parses, normalizes and validates the metadata part.
func DecodeMetadata(raw []byte) (*model.UploadMetadata, error) {
	var meta model.UploadMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, newError(KindMalformedUploadMetadata, StageMetadata, err)
	}
	meta.Normalize()

	if err := validation.ValidateStruct(meta); err != nil {
		return nil, newError(KindInvalidMetadata, StageMetadata, errors.New(validation.Describe(err)))
	}
	return &meta, nil
}
