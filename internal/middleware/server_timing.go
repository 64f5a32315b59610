package middleware

import (
	"fmt"
	"net/http"
	"time"
)

// ServerTiming adds a "Server-Timing: handler;dur=<ms>" header. The header
// is set right before the status line goes out, so it covers the handler's
// work up to its first write.
func ServerTiming(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &timingWriter{ResponseWriter: w, start: start}
		next.ServeHTTP(ww, r)
		if !ww.wroteHeader {
			ww.WriteHeader(http.StatusOK)
		}
	})
}

type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (w *timingWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		ms := float64(time.Since(w.start).Microseconds()) / 1000
		w.Header().Set("Server-Timing", fmt.Sprintf("handler;dur=%.3f", ms))
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *timingWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *timingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
