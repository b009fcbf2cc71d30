package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	pkgAuth "github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// SessionVerifier checks the stored access token. Implementations sign the
// session out when the token has expired.
type SessionVerifier interface {
	Verify(ctx context.Context) (*pkgAuth.Claims, error)
}

// RequireSession rejects requests without a live access token and seeds the
// request context with the token claims.
func RequireSession(verifier SessionVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verifier.Verify(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			userID := ""
			if claims.UserID != nil {
				userID = fmt.Sprint(claims.UserID)
			}
			ctx := WithUserID(r.Context(), userID)
			ctx = WithRole(ctx, claims.Role)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    userID,
					"actor_role": claims.Role,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
