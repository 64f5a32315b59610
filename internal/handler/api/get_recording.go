package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fhuszti/recordings-ms-go/internal/api_context"
	"github.com/fhuszti/recordings-ms-go/internal/model"
	"github.com/fhuszti/recordings-ms-go/internal/normalization"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// MaxRandom bounds GET random/{n}.
const MaxRandom = 100

// GetRecordingHandler answers 200 with an active recording and 410 with the
// tombstone of a deleted one.
func GetRecordingHandler(svc port.RecordingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteRejection(w, r, reject(recording.KindInvalidID, nil))
			return
		}

		rec, err := svc.GetRecording(r.Context(), id)
		if err != nil {
			WriteRejection(w, r, err)
			return
		}

		switch rec := rec.(type) {
		case *model.DeletedRecording:
			RespondJSON(w, r, http.StatusGone, rec)
		default:
			RespondJSON(w, r, http.StatusOK, rec)
		}
	}
}

type childrenResponse struct {
	Parent   uuid.UUID                `json:"parent"`
	Children []model.RecordingSummary `json:"children"`
}

func ListChildrenHandler(svc port.RecordingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteRejection(w, r, reject(recording.KindInvalidID, nil))
			return
		}

		children, err := svc.ListChildren(r.Context(), id)
		if err != nil {
			WriteRejection(w, r, err)
			return
		}
		if children == nil {
			children = []model.RecordingSummary{}
		}
		RespondJSON(w, r, http.StatusOK, childrenResponse{Parent: id, Children: children})
	}
}

func CountHandler(svc port.RecordingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Count(r.Context())
		if err != nil {
			WriteRejection(w, r, err)
			return
		}
		RespondJSON(w, r, http.StatusOK, map[string]int64{"count": n})
	}
}

func RandomHandler(svc port.RecordingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "n")
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxRandom {
			WriteRejection(w, r, reject(recording.KindBadRequest,
				&paramError{name: "n", value: raw, want: "an integer between 1 and " + strconv.Itoa(MaxRandom)}))
			return
		}

		recs, err := svc.Random(r.Context(), n)
		if err != nil {
			WriteRejection(w, r, err)
			return
		}
		if recs == nil {
			recs = []model.RecordingSummary{}
		}
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, r, http.StatusOK, map[string][]model.RecordingSummary{"recordings": recs})
	}
}

// NameAvailableHandler answers 200 when no active recording uses the
// normalized name and 403 otherwise.
func NameAvailableHandler(svc port.RecordingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := normalization.Normalize(r.URL.Query().Get("name"))
		if name == "" {
			WriteRejection(w, r, reject(recording.KindBadRequest, &paramError{name: "name", want: "a non-empty name"}))
			return
		}

		available, err := svc.NameAvailable(r.Context(), name)
		if err != nil {
			WriteRejection(w, r, err)
			return
		}
		if !available {
			WriteRejection(w, r, &recording.Error{Kind: recording.KindNameAlreadyExists, Stage: recording.StageQuery})
			return
		}
		RespondJSON(w, r, http.StatusOK, map[string]bool{"available": true})
	}
}

type paramError struct {
	name, value, want string
}

func (e *paramError) Error() string {
	return "parameter " + strconv.Quote(e.name) + " = " + strconv.Quote(e.value) + ", want " + e.want
}
