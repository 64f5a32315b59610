package recording

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// Errors returned by the storage adapters.
var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)

// Errors returned by the repositories.
var (
	ErrTokenNotFound     = errors.New("token not found")
	ErrRecordingNotFound = errors.New("recording not found")
	ErrRecordingDeleted  = errors.New("recording already deleted")
	ErrNameConflict      = errors.New("name already exists")
	ErrIDConflict        = errors.New("id already exists")
	ErrUnknownLabel      = errors.New("unknown category, age or gender")
	ErrMimeTypeNotFound  = errors.New("mime type not found")
	ErrKeyNotFound       = errors.New("key not found")
)

// Errors returned by the audio inspector.
var (
	ErrProbeMissing         = errors.New("ffprobe binary not found")
	ErrProbeFailed          = errors.New("ffprobe failed")
	ErrMalformedProbeOutput = errors.New("malformed ffprobe output")
	ErrTemporaryFile        = errors.New("temporary file error")
)

// TooManyStreamsError reports a file that does not carry exactly the expected
// number of audio streams.
type TooManyStreamsError struct {
	Expected int
	Actual   int
}

func (e *TooManyStreamsError) Error() string {
	return fmt.Sprintf("expected %d stream(s), found %d", e.Expected, e.Actual)
}

// Kind classifies every error the use cases can return. The set is closed:
// the transport layer maps each kind to exactly one status.
type Kind int

const (
	KindBadRequest Kind = iota
	KindPartsMissing
	KindMalformedFormSubmission
	KindMalformedUploadMetadata
	KindInvalidMetadata
	KindInvalidID
	KindTooManyStreams
	KindInvalidToken
	KindNameAlreadyExists
	KindIDAlreadyExists
	KindNonExistentID
	KindAlreadyDeleted
	KindPayloadTooLarge
	KindInvalidAudioFormat
	KindUnrecognizedAudioFormat
	KindDatabase
	KindTemporaryFile
	KindProbeMissing
	KindProbeFailed
	KindMalformedProbeOutput
	KindUploadFailed
	KindStoreDeleteFailed
	KindFailedToGenerateURL
	KindUnableToParseURL
	KindSummarizedDeleteFailed

	kindCount
)

var kindMessages = [kindCount]string{
	KindBadRequest:              "bad request",
	KindPartsMissing:            "parts missing",
	KindMalformedFormSubmission: "malformed form submission",
	KindMalformedUploadMetadata: "malformed upload metadata",
	KindInvalidMetadata:         "invalid metadata",
	KindInvalidID:               "invalid id",
	KindTooManyStreams:          "wrong number of streams",
	KindInvalidToken:            "invalid token",
	KindNameAlreadyExists:       "name already exists",
	KindIDAlreadyExists:         "id already exists",
	KindNonExistentID:           "non-existent id",
	KindAlreadyDeleted:          "recording already deleted",
	KindPayloadTooLarge:         "payload too large",
	KindInvalidAudioFormat:      "invalid audio format",
	KindUnrecognizedAudioFormat: "unrecognized audio format",
	KindDatabase:                "database error",
	KindTemporaryFile:           "temporary file error",
	KindProbeMissing:            "audio probe missing",
	KindProbeFailed:             "audio probe failed",
	KindMalformedProbeOutput:    "malformed audio probe output",
	KindUploadFailed:            "upload failed",
	KindStoreDeleteFailed:       "could not delete stored audio",
	KindFailedToGenerateURL:     "failed to generate url",
	KindUnableToParseURL:        "unable to parse url",
	KindSummarizedDeleteFailed:  "could not delete recording",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindMessages[k]
}

// Kinds lists every Kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Stage is the saga step an error occurred in.
type Stage string

const (
	StageReceived          Stage = "received"
	StageMetadata          Stage = "metadata"
	StageTokenLock         Stage = "token-lock"
	StageAudioVerify       Stage = "audio-verify"
	StageMetadataInsert    Stage = "metadata-insert"
	StageObjectStore       Stage = "object-store"
	StageURLLink           Stage = "url-link"
	StageParentTokenRetire Stage = "parent-token-retire"
	StageChildTokens       Stage = "child-tokens"
	StageLookupKey         Stage = "lookup-key"
	StageDelete            Stage = "delete"
	StageQuery             Stage = "query"
)

// Orphanable reports whether a failure at stage leaves a recording row that
// never became complete. Later stages fail on a stored, linked recording.
func Orphanable(stage Stage) bool {
	switch stage {
	case StageObjectStore, StageURLLink, StageParentTokenRetire:
		return true
	}
	return false
}

// Deletion parts named by a summarized delete failure.
const (
	PartObjectStore = "object-store"
	PartDatabase    = "database"
)

// Error is the single error type returned by the recording use cases.
type Error struct {
	Kind  Kind
	Stage Stage
	// ID is the recording the error relates to, once one exists.
	ID *uuid.UUID
	// Parts lists the failed sub-operations of a summarized delete.
	Parts []string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if len(e.Parts) > 0 {
		fmt.Fprintf(&b, " (failed: %s)", strings.Join(e.Parts, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, stage Stage, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

func newRecordingError(kind Kind, stage Stage, id uuid.UUID, err error) *Error {
	return &Error{Kind: kind, Stage: stage, ID: &id, Err: err}
}

// KindOf returns the Kind of err, or false when err did not come from this
// package.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
