package api

import (
	"net/http"

	"github.com/fhuszti/recordings-ms-go/internal/api_context"
	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

// DeleteRecordingHandler deletes a recording by ID.
func DeleteRecordingHandler(svc port.RecordingDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteRejection(w, r, reject(recording.KindInvalidID, nil))
			return
		}

		if err := svc.DeleteRecording(r.Context(), id); err != nil {
			WriteRejection(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Infof(r.Context(), "✅  Successfully deleted recording #%s", id)
	}
}
