package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tajkir-alam/music-camp-server/internal/auth"
	"github.com/tajkir-alam/music-camp-server/internal/utils"
)

type contextKey string

const emailKey contextKey = "email"

// TokenVerifier is satisfied by *auth.TokenService.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate gates a handler behind "Authorization: Bearer <token>". The
// verified email is stored in the request context for EmailFromContext.
func Authenticate(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				utils.WriteError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			claims, err := tokens.Verify(strings.TrimSpace(token))
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), claims.Email)))
		})
	}
}

func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// EmailFromContext returns the email placed by Authenticate.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok && email != ""
}
