package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"bookswap/internal/models"
	"bookswap/internal/repository"
	"bookswap/internal/service"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "http").Logger()

type Middleware func(http.Handler) http.Handler

// Chain wraps h in the given middlewares; the first listed ends up outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the identity attached by Auth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// WithUser is exposed for handler tests.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// Auth extracts the session token from the cookie, verifies it, loads the
// identity and attaches it to the request context. Every failure mode (no
// cookie, bad signature, expired, user gone) produces the same generic 401 so
// callers cannot probe which identities exist.
func Auth(authService service.AuthService, userRepo repository.UserRepository) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("token")
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			userID, err := authService.VerifyToken(cookie.Value)
			if err != nil {
				logger.Debug().Err(err).Msg("token rejected")
				unauthorized(w)
				return
			}

			user, err := userRepo.GetByID(r.Context(), userID)
			if err != nil {
				logger.Debug().Err(err).Msg("token user not found")
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Not authorized",
	})
}

// CORS allows the configured frontend origin with credentials, which the
// cookie-based session requires (a wildcard origin would not do).
func CORS(clientURL string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", clientURL)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
