package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/transport"
)

type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				transport.WriteAppError(w, internal.ErrAuthentication)
				return
			}

			if !principal.IsAdmin {
				ra.logger.WarnContext(r.Context(), "access denied: admin permissions required",
					"user_id", principal.ID,
					"path", r.URL.Path)
				transport.WriteAppError(w, internal.ErrAdminRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
