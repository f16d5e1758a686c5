// Package apptest runs the fully wired API over sqlite and miniredis for
// end-to-end tests.
package apptest

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/app"
	"github.com/frahmantamala/dashboard-portal/internal/core/events"
	"github.com/frahmantamala/dashboard-portal/internal/testsupport"
	"github.com/frahmantamala/dashboard-portal/internal/user"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	JWTSecret   = "0123456789abcdef0123456789abcdef"
	MetricsPath = "/metrics"
)

type Server struct {
	*httptest.Server
	Deps     *app.Dependencies
	DB       *gorm.DB
	Redis    *miniredis.Miniredis
	EventBus *events.EventBus

	rdb *redis.Client
}

func NewServer() (*Server, error) {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := testsupport.NewSQLiteDB()
	if err != nil {
		return nil, err
	}
	mr, err := miniredis.Run()
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	bus := events.NewEventBus(lg)
	deps, err := app.New(app.Options{
		DB:             db,
		Redis:          rdb,
		RedisKeyPrefix: "test",
		Security: internal.SecurityConfig{
			JWTSecret:     JWTSecret,
			TokenIssuer:   "portal-test",
			TokenDuration: time.Hour,
			BCryptCost:    bcrypt.MinCost,
		},
		AllowedOrigins: []string{"*"},
		MetricsPath:    MetricsPath,
		Publisher:      bus,
		Logger:         lg,
	})
	if err != nil {
		_ = rdb.Close()
		mr.Close()
		return nil, err
	}

	return &Server{
		Server:   httptest.NewServer(deps.Router),
		Deps:     deps,
		DB:       db,
		Redis:    mr,
		EventBus: bus,
		rdb:      rdb,
	}, nil
}

// CreateUser inserts an account through the user service.
func (s *Server) CreateUser(email, password string, isAdmin bool, companies, projects []string) (*user.User, error) {
	return s.Deps.UserService.Create(context.Background(), user.CreateUserDTO{
		Email:     email,
		Password:  password,
		IsAdmin:   isAdmin,
		Companies: companies,
		Projects:  projects,
	})
}

func (s *Server) Close() {
	s.Server.Close()
	s.EventBus.Wait()
	_ = s.rdb.Close()
	s.Redis.Close()
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
