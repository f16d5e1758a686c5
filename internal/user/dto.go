package user

import (
	"time"

	errors "github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/core/common/validation"
)

type CreateUserDTO struct {
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	IsAdmin   bool     `json:"isAdmin"`
	Companies []string `json:"companies"`
	Projects  []string `json:"projects"`
}

func (d *CreateUserDTO) Normalize() {
	d.Email = validation.NormalizeEmail(d.Email)
}

func (d *CreateUserDTO) Validate() *errors.AppError {
	return validation.ValidateCredentials(d.Email, d.Password)
}

// UpdateAccessDTO replaces both grant sets. A missing list means an empty
// set.
type UpdateAccessDTO struct {
	Companies []string `json:"companies"`
	Projects  []string `json:"projects"`
}

type CreatedUserResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	IsAdmin   bool     `json:"isAdmin"`
	Companies []string `json:"companies"`
	Projects  []string `json:"projects"`
}

type CreateUserResponse struct {
	Message string              `json:"message"`
	User    CreatedUserResponse `json:"user"`
}

type CompanyNameResponse struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type AccountProjectResponse struct {
	ID           string               `json:"_id"`
	Name         string               `json:"name"`
	DashboardURL string               `json:"powerbi_link"`
	Company      *CompanyNameResponse `json:"company"`
}

type UserResponse struct {
	ID        string                   `json:"_id"`
	Email     string                   `json:"email"`
	IsAdmin   bool                     `json:"isAdmin"`
	Companies []CompanyNameResponse    `json:"companies"`
	Projects  []AccountProjectResponse `json:"projects"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

type CompanyProjectResponse struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DashboardURL string `json:"powerbi_link"`
}

type ProfileCompanyResponse struct {
	ID          string                   `json:"_id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Projects    []CompanyProjectResponse `json:"projects"`
}

type ProfileProjectResponse struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DashboardURL string `json:"powerbi_link"`
	CompanyID    string `json:"companyId"`
}

type ProfileResponse struct {
	ID        string                   `json:"_id"`
	Email     string                   `json:"email"`
	IsAdmin   bool                     `json:"isAdmin"`
	Companies []ProfileCompanyResponse `json:"companies"`
	Projects  []ProfileProjectResponse `json:"projects"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}
