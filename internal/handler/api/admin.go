package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fhuszti/recordings-ms-go/internal/logger"
)

// BuildInfo is reported by the health check. Set through -ldflags in
// cmd/api.
type BuildInfo struct {
	Version  string `json:"version"`
	Revision string `json:"revision"`
}

type healthResponse struct {
	BuildInfo
	Timestamp int64 `json:"timestamp"`
}

func HealthzHandler(info BuildInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, r, http.StatusOK, healthResponse{BuildInfo: info, Timestamp: time.Now().Unix()})
	}
}

// TerminateHandler calls shutdown once, asynchronously, and answers 202.
func TerminateHandler(shutdown func()) http.HandlerFunc {
	var once sync.Once
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Warn(r.Context(), "🛑 Termination requested through the admin API")
		w.WriteHeader(http.StatusAccepted)
		once.Do(func() { go shutdown() })
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
