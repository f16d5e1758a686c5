package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the user id, email and a unique token id (jti) used for
// revocation.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenGenerator creates tokens and expiration times.
type TokenGenerator interface {
	GenerateAccessToken(userID, email string) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Credentials is what login needs to know about a user.
type Credentials struct {
	UserID       string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      AuthUser
}

type AuthUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	IsAdmin   bool     `json:"isAdmin"`
	Companies []string `json:"companies"`
	Projects  []string `json:"projects"`
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrUserGone     = errors.New("token subject no longer exists")
)
