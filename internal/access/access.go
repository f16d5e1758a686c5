// Package access enforces the grant invariant: every project granted to a
// user belongs to a company granted to that same user.
package access

import (
	"context"
	"fmt"
	"strings"

	errors "github.com/frahmantamala/dashboard-portal/internal"
)

// Grant is a pair of id sets, as stored on a user.
type Grant struct {
	CompanyIDs []string
	ProjectIDs []string
}

type CompanyInfo struct {
	ID   string
	Name string
}

type ProjectInfo struct {
	ID        string
	Name      string
	CompanyID string
}

// Resolver looks up the entities a grant refers to. Ids that do not exist are
// simply absent from the returned maps.
type Resolver interface {
	Companies(ctx context.Context, ids []string) (map[string]CompanyInfo, error)
	Projects(ctx context.Context, ids []string) (map[string]ProjectInfo, error)
}

// Violation is a granted project whose owning company was not granted.
type Violation struct {
	ProjectID   string
	ProjectName string
	CompanyID   string
	CompanyName string
}

// GrantError rejects a whole grant. It lists every reason at once.
type GrantError struct {
	UnknownCompanies []string
	UnknownProjects  []string
	Violations       []Violation
}

func (e *GrantError) Error() string {
	var parts []string
	if len(e.UnknownCompanies) > 0 {
		parts = append(parts, "unknown companies: "+strings.Join(e.UnknownCompanies, ", "))
	}
	if len(e.UnknownProjects) > 0 {
		parts = append(parts, "unknown projects: "+strings.Join(e.UnknownProjects, ", "))
	}
	for _, v := range e.Violations {
		parts = append(parts, v.message())
	}
	return "invalid access grant: " + strings.Join(parts, "; ")
}

func (v Violation) message() string {
	company := v.CompanyName
	if company == "" {
		company = v.CompanyID
	}
	return fmt.Sprintf("project %q requires access to its company %q", v.ProjectName, company)
}

// AppError converts the rejection into a 400 with one detail per reason. The
// GrantError stays reachable through errors.As.
func (e *GrantError) AppError() *errors.AppError {
	var details []errors.ValidationError
	for _, id := range e.UnknownCompanies {
		details = append(details, errors.ValidationError{
			Field:   "companies",
			Message: fmt.Sprintf("company %s does not exist", id),
			Code:    string(errors.ErrCodeUnknownCompany),
		})
	}
	for _, id := range e.UnknownProjects {
		details = append(details, errors.ValidationError{
			Field:   "projects",
			Message: fmt.Sprintf("project %s does not exist", id),
			Code:    string(errors.ErrCodeUnknownProject),
		})
	}
	for _, v := range e.Violations {
		details = append(details, errors.ValidationError{
			Field:   "projects",
			Message: v.message(),
			Code:    string(errors.ErrCodeCompanyNotGranted),
		})
	}

	code := errors.ErrCodeCompanyNotGranted
	message := "User must have access to the company of each assigned project"
	if len(e.Violations) == 0 {
		code = errors.ErrCodeValidationFailed
		message = "Access grant references unknown entities"
	}
	return errors.NewValidationError(message, code).
		WithDetails(errors.ValidationErrors{Errors: details}).
		WithCause(e)
}
