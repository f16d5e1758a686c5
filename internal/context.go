package internal

import (
	"context"
	"slices"
	"time"
)

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

// Principal is the authenticated caller as resolved from a session token.
type Principal struct {
	ID         string   `json:"id"`
	Email      string   `json:"email"`
	IsAdmin    bool     `json:"isAdmin"`
	CompanyIDs []string `json:"companies"`
	ProjectIDs []string `json:"projects"`
	TokenID    string   `json:"-"`
	// TokenExpiresAt bounds how long a revocation must be remembered.
	TokenExpiresAt time.Time `json:"-"`
}

func (p *Principal) HasProject(projectID string) bool {
	return slices.Contains(p.ProjectIDs, projectID)
}

func (p *Principal) HasCompany(companyID string) bool {
	return slices.Contains(p.CompanyIDs, companyID)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok && p != nil
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

func UserIDFromContext(ctx context.Context) string {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p.ID
	}
	return ""
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
