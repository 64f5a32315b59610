package api

import (
	"net/http"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/urls"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

// UploadRecordingHandler accepts a multipart form with a metadata part and an
// audio part, and answers 201 with the new recording's location.
func UploadRecordingHandler(svc port.Uploader, links *urls.Builder, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			WriteRejection(w, r, reject(recording.KindMalformedFormSubmission, err))
			return
		}

		sub, err := recording.ParseSubmission(mr, maxBytes)
		if err != nil {
			WriteRejection(w, r, err)
			return
		}

		out, err := svc.Upload(r.Context(), sub)
		if err != nil {
			WriteRejection(w, r, err)
			return
		}

		w.Header().Set("Location", links.Recording(out.ID))
		RespondJSON(w, r, http.StatusCreated, out)
		logger.Infof(r.Context(), "✅  Successfully uploaded recording #%s", out.ID)
	}
}
