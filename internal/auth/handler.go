package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/transport"
	"github.com/frahmantamala/dashboard-portal/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	ResolvePrincipal(ctx context.Context, token string) (*internal.Principal, error)
	Logout(ctx context.Context, principal *internal.Principal) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.HandleServiceError(w, r, appErr)
		return
	}

	result, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, LoginResponse{Token: result.Token, User: result.User})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, _ := internal.PrincipalFromContext(r.Context())
	if err := h.Service.Logout(r.Context(), principal); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// AuthMiddleware resolves the bearer token into a principal. Clients get the
// same 401 body whatever was wrong with the token.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := transport.ExtractTokenFromHeader(r)
		if token == "" {
			transport.WriteAppError(w, internal.ErrAuthentication)
			return
		}

		principal, err := h.Service.ResolvePrincipal(r.Context(), token)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok && appErr.StatusCode >= http.StatusInternalServerError {
				h.HandleServiceError(w, r, appErr)
				return
			}
			logger.From(r.Context()).Info("authentication failed", "error", err)
			transport.WriteAppError(w, internal.ErrAuthentication)
			return
		}

		ctx := internal.ContextWithPrincipal(r.Context(), principal)
		ctx = logger.With(ctx, "user_id", principal.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
