package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fhuszti/recordings-ms-go/internal/api_context"
	"github.com/fhuszti/recordings-ms-go/internal/handler/api"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// WithID parses the UUID in the named route parameter and stores it in the
// request context under api_context.IDKey.
func WithID(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, param)
			if raw == "" {
				api.WriteRejection(w, r, &recording.Error{
					Kind:  recording.KindInvalidID,
					Stage: recording.StageReceived,
					Err:   fmt.Errorf("%s is required", param),
				})
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				api.WriteRejection(w, r, &recording.Error{
					Kind:  recording.KindInvalidID,
					Stage: recording.StageReceived,
					Err:   fmt.Errorf("%q is not a valid UUID", raw),
				})
				return
			}

			ctx := context.WithValue(r.Context(), api_context.IDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
