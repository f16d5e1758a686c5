package access

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/dashboard-portal/internal/core/common/validation"
	"github.com/frahmantamala/dashboard-portal/pkg/logger"
	"github.com/frahmantamala/dashboard-portal/pkg/telemetry"
)

type Validator struct {
	resolver Resolver
	logger   *slog.Logger
}

func NewValidator(resolver Resolver, lg *slog.Logger) *Validator {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Validator{resolver: resolver, logger: lg}
}

// ValidateGrant checks a proposed grant and returns it deduplicated. It never
// prunes or expands the grant: any violation rejects the whole of it with a
// *GrantError. Resolver failures are returned as-is.
func (v *Validator) ValidateGrant(ctx context.Context, companyIDs, projectIDs []string) (Grant, error) {
	grant := Grant{
		CompanyIDs: validation.Dedupe(companyIDs),
		ProjectIDs: validation.Dedupe(projectIDs),
	}

	companies, err := v.resolver.Companies(ctx, grant.CompanyIDs)
	if err != nil {
		return Grant{}, fmt.Errorf("resolve companies: %w", err)
	}
	projects, err := v.resolver.Projects(ctx, grant.ProjectIDs)
	if err != nil {
		return Grant{}, fmt.Errorf("resolve projects: %w", err)
	}

	grantErr := &GrantError{}
	for _, id := range grant.CompanyIDs {
		if _, ok := companies[id]; !ok {
			grantErr.UnknownCompanies = append(grantErr.UnknownCompanies, id)
		}
	}

	var missingCompanies []string
	for _, id := range grant.ProjectIDs {
		p, ok := projects[id]
		if !ok {
			grantErr.UnknownProjects = append(grantErr.UnknownProjects, id)
			continue
		}
		if _, granted := companies[p.CompanyID]; granted {
			continue
		}
		grantErr.Violations = append(grantErr.Violations, Violation{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			CompanyID:   p.CompanyID,
		})
		missingCompanies = append(missingCompanies, p.CompanyID)
	}

	if len(grantErr.Violations) > 0 {
		// names are only for the message; a failed lookup keeps the ids
		if names, err := v.resolver.Companies(ctx, validation.Dedupe(missingCompanies)); err == nil {
			for i := range grantErr.Violations {
				grantErr.Violations[i].CompanyName = names[grantErr.Violations[i].CompanyID].Name
			}
		}
	}

	if len(grantErr.UnknownCompanies) > 0 || len(grantErr.UnknownProjects) > 0 || len(grantErr.Violations) > 0 {
		telemetry.ObserveGrantRejection()
		v.logger.WarnContext(ctx, "access grant rejected",
			"unknown_companies", grantErr.UnknownCompanies,
			"unknown_projects", grantErr.UnknownProjects,
			"violations", len(grantErr.Violations))
		return Grant{}, grantErr
	}

	return grant, nil
}
