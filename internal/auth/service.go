package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/core/common/validation"
	"github.com/frahmantamala/dashboard-portal/pkg/telemetry"
	"golang.org/x/crypto/bcrypt"
)

// RepositoryAPI lookups return (nil, nil) when the user does not exist.
type RepositoryAPI interface {
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	GetPrincipal(ctx context.Context, userID string) (*internal.Principal, error)
}

type Service struct {
	repo       RepositoryAPI
	tokens     TokenGenerator
	sessions   SessionStore
	bcryptCost int
	dummyHash  []byte
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGenerator, sessions SessionStore, bcryptCost int, logger *slog.Logger) *Service {
	if sessions == nil {
		sessions = NopSessionStore{}
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// Compared against when the email is unknown so both failure paths cost
	// one bcrypt round.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	return &Service{
		repo:       repo,
		tokens:     tokens,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
		logger:     logger,
	}
}

// Authenticate validates credentials and issues a session token.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	email := validation.NormalizeEmail(dto.Email)

	creds, err := s.repo.GetCredentials(ctx, email)
	if err != nil {
		telemetry.ObserveLogin("error")
		return nil, internal.NewInternalError("Failed to authenticate", err)
	}
	if creds == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(dto.Password))
		telemetry.ObserveLogin("rejected")
		s.logger.InfoContext(ctx, "login rejected")
		return nil, internal.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		telemetry.ObserveLogin("rejected")
		s.logger.InfoContext(ctx, "login rejected", "user_id", creds.UserID)
		return nil, internal.ErrInvalidCredentials
	}

	principal, err := s.repo.GetPrincipal(ctx, creds.UserID)
	if err != nil {
		telemetry.ObserveLogin("error")
		return nil, internal.NewInternalError("Failed to authenticate", err)
	}
	if principal == nil {
		telemetry.ObserveLogin("rejected")
		return nil, internal.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(creds.UserID, creds.Email)
	if err != nil {
		telemetry.ObserveLogin("error")
		return nil, internal.NewInternalError("Failed to issue token", err)
	}

	telemetry.ObserveLogin("success")
	s.logger.InfoContext(ctx, "login succeeded", "user_id", creds.UserID)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toAuthUser(principal),
	}, nil
}

// ResolvePrincipal turns a bearer token into the caller it belongs to. Every
// token problem is reported as ErrAuthentication; the reason is only logged.
func (s *Service) ResolvePrincipal(ctx context.Context, token string) (*internal.Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		s.logger.DebugContext(ctx, "token rejected", "reason", err)
		return nil, internal.ErrAuthentication.WithCause(err)
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "session store unavailable", "error", err)
		return nil, internal.NewInternalError("Failed to verify session", err)
	}
	if revoked {
		return nil, internal.ErrAuthentication.WithCause(ErrTokenRevoked)
	}

	principal, err := s.repo.GetPrincipal(ctx, claims.UserID)
	if err != nil {
		return nil, internal.NewInternalError("Failed to load user", err)
	}
	if principal == nil {
		s.logger.InfoContext(ctx, "token for deleted user", "user_id", claims.UserID)
		return nil, internal.ErrAuthentication.WithCause(ErrUserGone)
	}

	principal.TokenID = claims.ID
	if claims.ExpiresAt != nil {
		principal.TokenExpiresAt = claims.ExpiresAt.Time
	}
	return principal, nil
}

// Logout revokes the caller's token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, principal *internal.Principal) error {
	if principal == nil || principal.TokenID == "" {
		return internal.ErrAuthentication
	}
	if err := s.sessions.Revoke(ctx, principal.TokenID, principal.TokenExpiresAt); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke token", "user_id", principal.ID, "error", err)
		return internal.NewInternalError("Failed to log out", err)
	}
	s.logger.InfoContext(ctx, "logged out", "user_id", principal.ID)
	return nil
}

// HashPassword hashes a plaintext password using bcrypt.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", internal.NewValidationFieldError("password", "Password is too long", internal.ErrCodeValidationFailed)
		}
		return "", err
	}
	return string(hash), nil
}

func (s *Service) RBACAuthorization() *RBACAuthorization {
	return NewRBACAuthorization(s.logger)
}

func toAuthUser(p *internal.Principal) AuthUser {
	companies := p.CompanyIDs
	if companies == nil {
		companies = []string{}
	}
	projects := p.ProjectIDs
	if projects == nil {
		projects = []string{}
	}
	return AuthUser{
		ID:        p.ID,
		Email:     p.Email,
		IsAdmin:   p.IsAdmin,
		Companies: companies,
		Projects:  projects,
	}
}
