package middleware

import (
	"net/http"
	"strings"

	"live-airlines/provisioner/internal/auth"
	"live-airlines/provisioner/internal/constants"
	"live-airlines/provisioner/internal/logging"
)

// OperatorAuth requires a valid operator bearer token. When no secret is
// configured the protected routes answer 503 instead of running unguarded.
func OperatorAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tokens.Enabled() {
				http.Error(w, constants.MsgOperatorsDisabled, http.StatusServiceUnavailable)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, constants.MsgMissingBearer, http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				logging.Warn("Rejected operator token", "error", err.Error(), "remote", r.RemoteAddr)
				http.Error(w, constants.MsgInvalidToken, http.StatusUnauthorized)
				return
			}

			ctx := auth.SetOperatorClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
