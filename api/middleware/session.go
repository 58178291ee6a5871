package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/internal/storefront"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const SessionIDParam = "sessionId"

// SessionContext resolves {sessionId} against the registry and rejects unknown ids with 404.
func SessionContext(reg *storefront.Registry, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw := chi.URLParam(r, SessionIDParam)
			if logg != nil && raw != "" {
				ctx = logg.WithSessionID(ctx, raw)
			}

			sess, err := reg.Lookup(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}
