package middleware

import (
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/markethub/payout-service/internal/auth"
	"go.uber.org/zap"
)

// Authenticate validates the Bearer token and installs the actor into the
// request context. Requests without valid credentials are rejected before any
// handler runs; the response never discloses whether a resource exists.
func Authenticate(jm *auth.JWTManager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "authentication required")
				return
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header {
				unauthorized(w, "invalid authorization header")
				return
			}

			claims, err := jm.ValidateToken(tokenString)
			if err != nil {
				logger.Debug("token validation failed", zap.Error(err))
				unauthorized(w, "invalid authentication")
				return
			}

			actor := auth.ActorFromClaims(claims)
			actor.RequestID = chimiddleware.GetReqID(r.Context())
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"code":"AUTH_MISSING","message":"` + message + `"}`))
}
