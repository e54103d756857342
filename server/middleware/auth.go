package middleware

import (
	"net/http"
	"strings"

	"github.com/kbukum/ytranscript/errors"
	"github.com/kbukum/ytranscript/logger"
)

// AuthConfig configures the bearer-token middleware.
type AuthConfig struct {
	// TokenValidator validates a token string and returns its claims.
	TokenValidator func(token string) (map[string]interface{}, error)
	// Log receives rejected-token warnings. Optional.
	Log *logger.Logger
}

// Auth requires an "Authorization: Bearer <token>" header accepted by
// TokenValidator. Failures answer 401 with the standard error body.
func Auth(cfg AuthConfig) Middleware {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, errors.Unauthorized("Authorization header required."))
				return
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeError(w, errors.Unauthorized("Invalid authorization header format."))
				return
			}
			if _, err := cfg.TokenValidator(strings.TrimSpace(token)); err != nil {
				log.WithContext(r.Context()).Warn("rejected bearer token", logger.Fields(logger.FieldError, err.Error()))
				writeError(w, errors.InvalidToken())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
