// Package app wires repositories, services and handlers into a router.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/dashboard-portal/api"
	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/access"
	accessPostgres "github.com/frahmantamala/dashboard-portal/internal/access/postgres"
	"github.com/frahmantamala/dashboard-portal/internal/auth"
	authPostgres "github.com/frahmantamala/dashboard-portal/internal/auth/postgres"
	"github.com/frahmantamala/dashboard-portal/internal/company"
	companyPostgres "github.com/frahmantamala/dashboard-portal/internal/company/postgres"
	"github.com/frahmantamala/dashboard-portal/internal/core/events"
	"github.com/frahmantamala/dashboard-portal/internal/project"
	projectPostgres "github.com/frahmantamala/dashboard-portal/internal/project/postgres"
	"github.com/frahmantamala/dashboard-portal/internal/transport"
	"github.com/frahmantamala/dashboard-portal/internal/transport/middleware"
	"github.com/frahmantamala/dashboard-portal/internal/transport/rest"
	"github.com/frahmantamala/dashboard-portal/internal/user"
	userPostgres "github.com/frahmantamala/dashboard-portal/internal/user/postgres"
	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Options struct {
	DB *gorm.DB
	// SQLDB is pinged by the health check; it defaults to the pool behind DB.
	SQLDB *sql.DB
	// Redis is optional. Without it logout cannot revoke tokens.
	Redis          *redis.Client
	RedisKeyPrefix string
	Security       internal.SecurityConfig
	AllowedOrigins []string
	MetricsPath    string
	Publisher      events.Publisher
	Logger         *slog.Logger
}

type Dependencies struct {
	Router         *chi.Mux
	AuthService    *auth.Service
	UserService    *user.Service
	CompanyService *company.Service
	ProjectService *project.Service
}

func New(opts Options) (*Dependencies, error) {
	if opts.SQLDB == nil {
		sqlDB, err := opts.DB.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql pool: %w", err)
		}
		opts.SQLDB = sqlDB
	}

	var sessions auth.SessionStore = auth.NopSessionStore{}
	var healthRedis redis.Cmdable
	if opts.Redis != nil {
		sessions = auth.NewRedisSessionStore(opts.Redis, opts.RedisKeyPrefix)
		healthRedis = opts.Redis
	} else {
		opts.Logger.Warn("redis not configured; logout will not revoke tokens")
	}

	tokens := auth.NewJWTTokenGenerator(opts.Security.JWTSecret, opts.Security.TokenIssuer, opts.Security.TokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(opts.DB), tokens, sessions, opts.Security.BCryptCost, opts.Logger)

	grantValidator := access.NewValidator(accessPostgres.NewResolver(opts.DB), opts.Logger)
	userService := user.NewService(userPostgres.NewUserRepository(opts.DB), grantValidator, authService, opts.Publisher, opts.Logger)
	companyService := company.NewService(companyPostgres.NewCompanyRepository(opts.DB), opts.Publisher, opts.Logger)
	projectService := project.NewService(projectPostgres.NewProjectRepository(opts.DB), opts.Publisher, opts.Logger)

	validator, err := middleware.NewOpenAPIValidator(api.OpenAPISpec, opts.Logger)
	if err != nil {
		return nil, err
	}

	base := transport.NewBaseHandler(opts.Logger)
	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterDeps{
		AuthHandler:    auth.NewHandler(base, authService),
		RBAC:           authService.RBACAuthorization(),
		UserHandler:    user.NewHandler(base, userService),
		CompanyHandler: company.NewHandler(base, companyService),
		ProjectHandler: project.NewHandler(base, projectService),
		Health:         rest.NewHealthHandler(opts.SQLDB, healthRedis),
		Validator:      validator,
		AllowedOrigins: opts.AllowedOrigins,
		MetricsPath:    opts.MetricsPath,
		Logger:         opts.Logger,
	})

	return &Dependencies{
		Router:         router,
		AuthService:    authService,
		UserService:    userService,
		CompanyService: companyService,
		ProjectService: projectService,
	}, nil
}
