package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vancomm/minefield/internal/config"
)

type CtxKey int

const (
	CtxSessionClaims CtxKey = iota
)

// Session puts the claims from the session cookies, if any, into the request
// context. Unreadable cookies are cleared.
func Session(logger *slog.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseSessionClaims(r)
			if err != nil {
				if _, cookieErr := r.Cookie("auth"); cookieErr == nil {
					logger.Debug("clearing invalid session cookies", slog.Any("error", err))
					cookies.Clear(w)
				}
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
