package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/config"
	"github.com/yasminebennouis/app-reclamations/internal/utils"
)

type ctxKey string

const (
	CtxUsername ctxKey = "username"
	CtxRole     ctxKey = "role"
)

// WithAuth reads the session JWT from the "session" cookie or a Bearer
// header and enriches the context. The réclamation endpoints scope by the
// username query parameter, so an absent or broken token is not fatal here.
func WithAuth(log zerolog.Logger, cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tok string
			if c, err := r.Cookie("session"); err == nil {
				tok = c.Value
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimPrefix(h, "Bearer ")
			}

			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := utils.ParseJWT(cfg.Secret, tok)
			if err != nil {
				// Clear broken/expired cookie so it stops being sent.
				http.SetCookie(w, &http.Cookie{
					Name:     "session",
					Value:    "",
					Path:     "/",
					HttpOnly: true,
					MaxAge:   -1,
				})
				log.Debug().Err(err).Msg("session token rejected")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), CtxUsername, claims.Username)
			ctx = context.WithValue(ctx, CtxRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
