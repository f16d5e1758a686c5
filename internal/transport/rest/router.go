package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/dashboard-portal/api"
	"github.com/frahmantamala/dashboard-portal/internal/auth"
	"github.com/frahmantamala/dashboard-portal/internal/company"
	"github.com/frahmantamala/dashboard-portal/internal/project"
	"github.com/frahmantamala/dashboard-portal/internal/transport/middleware"
	"github.com/frahmantamala/dashboard-portal/internal/transport/swagger"
	"github.com/frahmantamala/dashboard-portal/internal/user"
	"github.com/frahmantamala/dashboard-portal/pkg/telemetry"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	AuthHandler    *auth.Handler
	RBAC           *auth.RBACAuthorization
	UserHandler    *user.Handler
	CompanyHandler *company.Handler
	ProjectHandler *project.Handler
	Health         *HealthHandler
	// Validator may be nil, which disables request validation.
	Validator      *middleware.OpenAPIValidator
	AllowedOrigins []string
	// MetricsPath empty disables the Prometheus endpoint.
	MetricsPath string
	Logger      *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	validate := func(next http.Handler) http.Handler { return next }
	if deps.Validator != nil {
		validate = deps.Validator.Middleware
	}
	requireAdmin := deps.RBAC.RequireAdmin()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(telemetry.HTTPMetricsMiddleware)

	router.Get("/openapi.yml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.OpenAPISpec)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	if deps.MetricsPath != "" {
		router.Handle(deps.MetricsPath, promhttp.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.Health.Health)
		r.Get("/ping", deps.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.With(validate).Post("/login", deps.AuthHandler.Login)

			ar.Group(func(pr chi.Router) {
				pr.Use(deps.AuthHandler.AuthMiddleware)
				pr.Post("/logout", deps.AuthHandler.Logout)
				pr.Get("/profile", deps.UserHandler.GetProfile)

				pr.Group(func(adm chi.Router) {
					adm.Use(requireAdmin, validate)
					adm.Post("/users", deps.UserHandler.CreateUser)
					adm.Get("/users", deps.UserHandler.ListUsers)
					adm.Put("/users/{id}/access", deps.UserHandler.UpdateAccess)
				})
			})
		})

		// Everything below needs a session; admin checks run before body
		// validation so a non-admin always gets 403.
		r.Group(func(pr chi.Router) {
			pr.Use(deps.AuthHandler.AuthMiddleware)

			pr.Route("/companies", func(cr chi.Router) {
				cr.Use(requireAdmin, validate)
				cr.Post("/", deps.CompanyHandler.CreateCompany)
				cr.Get("/", deps.CompanyHandler.GetCompanies)
				cr.Get("/{id}", deps.CompanyHandler.GetCompany)
				cr.Put("/{id}", deps.CompanyHandler.UpdateCompany)
				cr.Delete("/{id}", deps.CompanyHandler.DeleteCompany)
			})

			pr.Route("/projects", func(prj chi.Router) {
				prj.Get("/my-projects", deps.ProjectHandler.GetMyProjects)
				prj.Get("/{id}", deps.ProjectHandler.GetProject)

				prj.Group(func(adm chi.Router) {
					adm.Use(requireAdmin, validate)
					adm.Post("/", deps.ProjectHandler.CreateProject)
					adm.Get("/", deps.ProjectHandler.GetProjects)
					adm.Put("/{id}", deps.ProjectHandler.UpdateProject)
					adm.Delete("/{id}", deps.ProjectHandler.DeleteProject)
				})
			})
		})
	})
}
