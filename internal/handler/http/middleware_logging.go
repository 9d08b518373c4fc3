package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/cybucks/internal/utils"
)

// withLogging writes one access-log line per ledger request. The line is
// emitted from the handler's own logger and carries the trace id assigned by
// withTraceID, so an operation can be followed from the access log into the
// service and journal logs.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		entry := h.logger.Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Str("remote", r.RemoteAddr).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size)

		if traceID, ok := utils.GetTraceIDFromContext(r.Context()); ok {
			entry = entry.Str("trace_id", traceID)
		}

		entry.Msg("request served")
	})
}
