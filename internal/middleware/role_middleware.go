package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/utils"
)

// RoleResolver is satisfied by *service.RoleService.
type RoleResolver interface {
	RoleOf(ctx context.Context, email string) (models.UserRole, error)
}

// RequireRole lets the request through only when the authenticated caller
// holds one of roles. It must run after Authenticate.
func RequireRole(resolver RoleResolver, logger *logrus.Logger, roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := EmailFromContext(r.Context())
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			role, err := resolver.RoleOf(r.Context(), email)
			if err != nil {
				logger.WithError(err).WithField("email", email).Error("role lookup failed")
				utils.WriteError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.WriteError(w, http.StatusForbidden, "forbidden access")
		})
	}
}
