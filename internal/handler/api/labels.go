package api

import (
	"net/http"

	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/renderer"
)

// ListLabelsHandler serves one lookup table as [[id, label, description], ...].
func ListLabelsHandler(svc port.LabelLister, kind model.LabelKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		labels, err := svc.ListLabels(r.Context(), kind)
		if err != nil {
			WriteRejection(w, r, err)
			return
		}
		if labels == nil {
			labels = []model.Label{}
		}
		respondCacheable(w, r, labels)
	}
}

// ListFormatsHandler serves the essences of the supported audio formats.
func ListFormatsHandler(svc port.LabelLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		formats, err := svc.ListFormats(r.Context())
		if err != nil {
			WriteRejection(w, r, err)
			return
		}
		if formats == nil {
			formats = []string{}
		}
		respondCacheable(w, r, formats)
	}
}

func respondCacheable(w http.ResponseWriter, r *http.Request, v any) {
	raw, etag, err := renderer.JSON(v)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "Could not render response", err)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	RespondRawJSON(w, r, http.StatusOK, raw)
}
