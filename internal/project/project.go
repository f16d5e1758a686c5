package project

import (
	"errors"
	"time"

	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
)

// Cascade sub-steps of a project delete.
const (
	StepDeleteProject        = "delete_project"
	StepPullProjectFromUsers = "pull_project_from_users"
)

var (
	// ErrCompanyNotLoaded means the project was read without its company.
	ErrCompanyNotLoaded = errors.New("project company not loaded")
	// ErrCompanyMissing means the owning company was deleted after the project
	// was created.
	ErrCompanyMissing = errors.New("project company no longer exists")
)

type CompanyRef struct {
	ID          string
	Name        string
	Description string
}

type UserRef struct {
	ID    string
	Email string
}

// Project belongs to exactly one company. The id of that company is always
// known; the company itself is only available once loaded.
type Project struct {
	ID           string
	Name         string
	Description  string
	DashboardURL string
	Users        []UserRef
	CreatedAt    time.Time
	UpdatedAt    time.Time

	companyID     string
	company       *CompanyRef
	companyLoaded bool
}

func (p *Project) CompanyID() string {
	return p.companyID
}

func (p *Project) Company() (*CompanyRef, error) {
	if !p.companyLoaded {
		return nil, ErrCompanyNotLoaded
	}
	if p.company == nil {
		return nil, ErrCompanyMissing
	}
	return p.company, nil
}

// SetCompany records the loaded company; nil marks it as missing.
func (p *Project) SetCompany(c *CompanyRef) {
	p.company = c
	p.companyLoaded = true
}

func (p *Project) ToResponse() ProjectResponse {
	resp := ProjectResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		DashboardURL: p.DashboardURL,
		CompanyID:    p.companyID,
		Users:        make([]UserRefResponse, 0, len(p.Users)),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if c, err := p.Company(); err == nil {
		resp.Company = &CompanyRefResponse{ID: c.ID, Name: c.Name, Description: c.Description}
	}
	for _, u := range p.Users {
		resp.Users = append(resp.Users, UserRefResponse{ID: u.ID, Email: u.Email})
	}
	return resp
}

func ToDataModel(p *Project) *projectDatamodel.Project {
	return &projectDatamodel.Project{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		DashboardURL: p.DashboardURL,
		CompanyID:    p.companyID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func FromDataModel(p *projectDatamodel.Project) *Project {
	return &Project{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		DashboardURL: p.DashboardURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		companyID:    p.CompanyID,
	}
}
