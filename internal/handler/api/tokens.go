package api

import (
	"net/http"

	"github.com/fhuszti/recordings-ms-go/internal/api_context"
	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
)

// GetTokenHandler reports whether a token exists, and its parent.
func GetTokenHandler(svc port.TokenGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteRejection(w, r, reject(recording.KindInvalidID, nil))
			return
		}

		tok, err := svc.GetToken(r.Context(), id)
		if err != nil {
			WriteRejection(w, r, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, r, http.StatusOK, tok)
	}
}

// LookupHandler resolves a management key to its recording and the tokens
// that recording issued.
func LookupHandler(svc port.TokenGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteRejection(w, r, reject(recording.KindInvalidID, nil))
			return
		}

		out, err := svc.Lookup(r.Context(), key)
		if err != nil {
			WriteRejection(w, r, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, r, http.StatusOK, out)
	}
}
