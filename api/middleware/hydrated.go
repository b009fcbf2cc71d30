package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Readiness reports whether persisted state has been loaded.
type Readiness interface {
	Ready() bool
}

// Hydrated answers 503 until the persisted state has been restored, so no
// handler reads or writes the initial placeholder state.
func Hydrated(gate Readiness, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Ready() {
				w.Header().Set("Retry-After", "1")
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeLoading, "state is loading"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
