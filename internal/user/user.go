package user

import (
	"time"

	"github.com/frahmantamala/dashboard-portal/internal/access"
	userDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/user"
)

// User is an account with its two grant sets. PasswordHash never leaves the
// service layer.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CompanyIDs   []string
	ProjectIDs   []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CompanyRef struct {
	ID          string
	Name        string
	Description string
}

type ProjectRef struct {
	ID           string
	Name         string
	Description  string
	DashboardURL string
	CompanyID    string
	// Company is nil when the owning company was deleted.
	Company *CompanyRef
}

// Account is a user with grants expanded for the admin listing.
type Account struct {
	*User
	Companies []CompanyRef
	Projects  []ProjectRef
}

// ProfileCompany carries only the projects of that company the user was
// granted.
type ProfileCompany struct {
	CompanyRef
	Projects []ProjectRef
}

type Profile struct {
	*User
	Companies []ProfileCompany
	Projects  []ProjectRef
}

func FromDataModel(row *userDatamodel.User, grant access.Grant) *User {
	return &User{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsAdmin:      row.IsAdmin,
		CompanyIDs:   nonNil(grant.CompanyIDs),
		ProjectIDs:   nonNil(grant.ProjectIDs),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func (u *User) ToDataModel() *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (u *User) ToCreatedResponse() CreatedUserResponse {
	return CreatedUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		Companies: nonNil(u.CompanyIDs),
		Projects:  nonNil(u.ProjectIDs),
	}
}

func (a *Account) ToResponse() UserResponse {
	resp := UserResponse{
		ID:        a.ID,
		Email:     a.Email,
		IsAdmin:   a.IsAdmin,
		Companies: make([]CompanyNameResponse, 0, len(a.Companies)),
		Projects:  make([]AccountProjectResponse, 0, len(a.Projects)),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	for _, c := range a.Companies {
		resp.Companies = append(resp.Companies, CompanyNameResponse{ID: c.ID, Name: c.Name})
	}
	for _, p := range a.Projects {
		item := AccountProjectResponse{ID: p.ID, Name: p.Name, DashboardURL: p.DashboardURL}
		if p.Company != nil {
			item.Company = &CompanyNameResponse{ID: p.Company.ID, Name: p.Company.Name}
		}
		resp.Projects = append(resp.Projects, item)
	}
	return resp
}

func (p *Profile) ToResponse() ProfileResponse {
	resp := ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		IsAdmin:   p.IsAdmin,
		Companies: make([]ProfileCompanyResponse, 0, len(p.Companies)),
		Projects:  make([]ProfileProjectResponse, 0, len(p.Projects)),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for _, c := range p.Companies {
		item := ProfileCompanyResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Projects:    make([]CompanyProjectResponse, 0, len(c.Projects)),
		}
		for _, proj := range c.Projects {
			item.Projects = append(item.Projects, CompanyProjectResponse{
				ID:           proj.ID,
				Name:         proj.Name,
				Description:  proj.Description,
				DashboardURL: proj.DashboardURL,
			})
		}
		resp.Companies = append(resp.Companies, item)
	}
	for _, proj := range p.Projects {
		resp.Projects = append(resp.Projects, ProfileProjectResponse{
			ID:           proj.ID,
			Name:         proj.Name,
			Description:  proj.Description,
			DashboardURL: proj.DashboardURL,
			CompanyID:    proj.CompanyID,
		})
	}
	return resp
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
