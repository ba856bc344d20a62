package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"packrat/internal/auth"
	"packrat/internal/httputil"
)

// Auth verifies the bearer token on every request and stores the resolved
// owner id in the request context. Routes mounted outside this middleware
// (the health check) skip verification entirely.
func Auth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := verifier.VerifyToken(tokenString)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ownerID, err := claims.OwnerID()
			if err != nil {
				logger.Warn("verified token has malformed subject", "sub", claims.Subject)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithOwnerID(r, ownerID))
		})
	}
}
