package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

// Rejection is the body of every error response: the context known when the
// request failed, then a human-readable message.
type Rejection struct {
	Stage   string     `json:"stage,omitempty"`
	ID      *uuid.UUID `json:"id,omitempty"`
	Failed  []string   `json:"failed,omitempty"`
	Message string     `json:"message"`
}

// WriteError writes a rejection that did not come from a use case.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	if err != nil {
		logger.Errorf(r.Context(), "❌  %s: %v", msg, err)
	} else {
		logger.Warn(r.Context(), "❌  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, r, status, Rejection{Message: msg})
}

// WriteRejection flattens a use case error into a response. The status is
// chosen from the error kind alone.
func WriteRejection(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var e *recording.Error
	if !errors.As(err, &e) {
		WriteError(w, r, http.StatusInternalServerError, "internal error", err)
		return
	}

	status := StatusFor(e.Kind)
	body := Rejection{
		Stage:   string(e.Stage),
		ID:      e.ID,
		Failed:  e.Parts,
		Message: e.Error(),
	}
	if status >= http.StatusInternalServerError {
		logger.Error(ctx, "❌  request failed", "kind", e.Kind.String(), "stage", e.Stage, "error", err)
		// backend details stay in the logs
		body.Message = e.Kind.String()
	} else {
		logger.Info(ctx, "request rejected", "kind", e.Kind.String(), "stage", e.Stage, "status", status)
	}

	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, r, status, body)
}

// reject builds an error for failures detected at the HTTP boundary.
func reject(kind recording.Kind, err error) error {
	return &recording.Error{Kind: kind, Stage: recording.StageReceived, Err: err}
}

func RespondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(r.Context(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, r *http.Request, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(r.Context(), "❌  Failed to write JSON payload: %v", err)
	}
}
