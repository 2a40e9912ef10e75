package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"wonder-electronics/internal/domain"
)

// RequireAdmin gates the admin console endpoints: product and category
// management, order approval, settings, reset approvals, slides and the
// chat inbox.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRole(r.Context())
			if !ok {
				logger.Warn("Role not found in context")
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			if role != domain.RoleAdmin {
				logger.Warn("Non-admin user attempted to access admin endpoint",
					zap.String("role", role),
					zap.String("path", r.URL.Path),
				)
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
