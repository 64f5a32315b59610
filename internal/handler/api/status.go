package api

import (
	"net/http"

	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(k recording.Kind) int {
	if s, ok := statusOf(k); ok {
		return s
	}
	return http.StatusInternalServerError
}

// statusOf reports false for a kind with no explicit mapping; the tests walk
// recording.Kinds() so a new kind cannot silently land on the default.
func statusOf(k recording.Kind) (int, bool) {
	switch k {
	case recording.KindBadRequest,
		recording.KindPartsMissing,
		recording.KindMalformedFormSubmission,
		recording.KindMalformedUploadMetadata,
		recording.KindInvalidMetadata,
		recording.KindInvalidID,
		recording.KindTooManyStreams:
		return http.StatusBadRequest, true
	case recording.KindInvalidToken:
		return http.StatusUnauthorized, true
	case recording.KindNameAlreadyExists,
		recording.KindIDAlreadyExists:
		return http.StatusForbidden, true
	case recording.KindNonExistentID:
		return http.StatusNotFound, true
	case recording.KindAlreadyDeleted:
		return http.StatusGone, true
	case recording.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge, true
	case recording.KindInvalidAudioFormat,
		recording.KindUnrecognizedAudioFormat:
		return http.StatusUnsupportedMediaType, true
	case recording.KindDatabase,
		recording.KindTemporaryFile,
		recording.KindProbeMissing,
		recording.KindProbeFailed,
		recording.KindMalformedProbeOutput,
		recording.KindUploadFailed,
		recording.KindStoreDeleteFailed,
		recording.KindFailedToGenerateURL,
		recording.KindUnableToParseURL,
		recording.KindSummarizedDeleteFailed:
		return http.StatusInternalServerError, true
	}
	return 0, false
}
