package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/transport"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

// OpenAPIValidator checks requests against the API document. Mount it after
// authentication and authorization so callers without access never learn
// anything about the expected body.
type OpenAPIValidator struct {
	router routers.Router
	logger *slog.Logger
}

func NewOpenAPIValidator(spec []byte, logger *slog.Logger) (*OpenAPIValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	// Paths carry the full /api prefix; match on path alone whatever host
	// the server runs on.
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return &OpenAPIValidator{router: router, logger: logger}, nil
}

func (v *OpenAPIValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			// Undocumented routes are left to the router (404/405).
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.logger.InfoContext(r.Context(), "request rejected by api contract",
				"path", r.URL.Path, "error", err)
			transport.WriteAppError(w, contractError(err))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func contractError(err error) *internal.AppError {
	detail := internal.ValidationError{
		Field:   "body",
		Message: err.Error(),
		Code:    string(internal.ErrCodeInvalidBody),
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			detail.Field = reqErr.Parameter.Name
		}
		detail.Message = reqErr.Reason
		var schemaErr *openapi3.SchemaError
		if errors.As(reqErr.Err, &schemaErr) {
			if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
				detail.Field = strings.Join(pointer, ".")
			}
			detail.Message = schemaErr.Reason
			detail.Code = string(internal.ErrCodeValidationFailed)
		} else if detail.Message == "" && reqErr.Err != nil {
			detail.Message = reqErr.Err.Error()
		}
	}

	return internal.NewValidationError("Request does not match the API contract", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{detail}}).
		WithCause(err)
}
