package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nwaevents/internal/auth"
	"nwaevents/internal/models/domain"
	"nwaevents/internal/utils"

	"github.com/go-chi/chi/v5/middleware"
)

// NewLogger returns a request-logging middleware in the service's slog style.
func NewLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			entry := log.With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t0 := time.Now()
			defer func() {
				entry.Info("request completed",
					slog.Int("status", ww.Status()),
					slog.Int("bytes", ww.BytesWritten()),
					slog.String("duration", time.Since(t0).String()),
				)
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

// SyncAuth gates the sync trigger behind the shared bearer secret.
// Any mismatch answers 401 before the adapter runs.
func SyncAuth(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+secret {
				_ = utils.Err(w, http.StatusUnauthorized, domain.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// AdminAuth requires a valid admin session token on moderation endpoints.
func AdminAuth(jwtSecret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r, jwtSecret) {
				_ = utils.Err(w, http.StatusUnauthorized, domain.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// IsAdmin reports whether the request carries a valid admin session token.
// Also used inline by handlers whose behavior merely widens for admins.
func IsAdmin(r *http.Request, jwtSecret string) bool {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return false
	}
	return auth.VerifyAdminToken(jwtSecret, token) == nil
}
