package company

import (
	"time"

	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
)

// Cascade sub-steps of a company delete.
const (
	StepDeleteCompany        = "delete_company"
	StepPullCompanyFromUsers = "pull_company_from_users"
)

type Company struct {
	ID          string
	Name        string
	Description string
	Projects    []ProjectSummary
	Users       []UserSummary
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectSummary struct {
	ID           string
	Name         string
	Description  string
	DashboardURL string
}

type UserSummary struct {
	ID    string
	Email string
}

func (c *Company) ToResponse() CompanyResponse {
	resp := CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Projects:    make([]ProjectSummaryResponse, 0, len(c.Projects)),
		Users:       make([]UserSummaryResponse, 0, len(c.Users)),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	for _, p := range c.Projects {
		resp.Projects = append(resp.Projects, ProjectSummaryResponse{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			DashboardURL: p.DashboardURL,
		})
	}
	for _, u := range c.Users {
		resp.Users = append(resp.Users, UserSummaryResponse{ID: u.ID, Email: u.Email})
	}
	return resp
}

func ToDataModel(c *Company) *companyDatamodel.Company {
	return &companyDatamodel.Company{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	return &Company{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func projectSummary(p *projectDatamodel.Project) ProjectSummary {
	return ProjectSummary{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		DashboardURL: p.DashboardURL,
	}
}
