package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/utils"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func RequestLogger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			ev := l.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Dur("dur", time.Since(start))
			if u, ok := utils.GetString(r.Context(), CtxUsername); ok {
				ev = ev.Str("user", u)
			}
			ev.Msg("request")
		})
	}
}
