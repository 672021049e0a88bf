package middleware

import (
	"net/http"
	"strings"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/auth"
)

// Authenticate returns middleware that requires an "Authorization: Bearer <token>"
// header and stores the token's principal in the request context.
// Returns 401 Unauthorized if the token is missing, tampered or expired.
func Authenticate(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing bearer token")
				return
			}

			p, err := issuer.Verify(token)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAdmin rejects callers without the admin role. It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.PrincipalFrom(r.Context())
		if !ok {
			response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing bearer token")
			return
		}
		if !p.IsAdmin() {
			response.RespondError(w, http.StatusForbidden, "Forbidden", "admin role required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
