package server

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/rs/zerolog"
)

// LoggingMiddleware logs each request with the client address and whether it
// arrived over TLS.
func LoggingMiddleware(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Info().
			Str("remote_addr", r.RemoteAddr).
			Bool("tls", r.TLS != nil).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("code", m.Code).
			Int64("sent_bytes", m.Written).
			Dur("duration_ms", m.Duration).
			Msgf("%s %s", r.Method, r.URL.Path)
	})
}
