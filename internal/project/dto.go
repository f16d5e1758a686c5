package project

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/core/common/validation"
)

type CreateProjectDTO struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DashboardURL string `json:"powerbi_link"`
	Company      string `json:"company"`
}

func (d *CreateProjectDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.DashboardURL = strings.TrimSpace(d.DashboardURL)
	d.Company = strings.TrimSpace(d.Company)
}

func (d *CreateProjectDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).Required().MaxLength(validation.MaxNameLength)
	validator.Field("description", d.Description).MaxLength(validation.MaxDescription)
	validator.Field("powerbi_link", d.DashboardURL).Required().AbsoluteURL()
	validator.Field("company", d.Company).Required()
	return validator.Validate()
}

// UpdateProjectDTO has no company field: a project never moves.
type UpdateProjectDTO struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	DashboardURL *string `json:"powerbi_link"`
}

func (d *UpdateProjectDTO) Normalize() {
	for _, f := range []**string{&d.Name, &d.Description, &d.DashboardURL} {
		if *f != nil {
			v := strings.TrimSpace(**f)
			*f = &v
		}
	}
}

func (d *UpdateProjectDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).NotBlank().MaxLength(validation.MaxNameLength)
	validator.Field("description", d.Description).MaxLength(validation.MaxDescription)
	validator.Field("powerbi_link", d.DashboardURL).NotBlank().AbsoluteURL()
	return validator.Validate()
}

type CompanyRefResponse struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UserRefResponse struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// ProjectResponse.Company is null when the owning company was deleted;
// CompanyID is always set.
type ProjectResponse struct {
	ID           string              `json:"_id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	DashboardURL string              `json:"powerbi_link"`
	CompanyID    string              `json:"companyId"`
	Company      *CompanyRefResponse `json:"company"`
	Users        []UserRefResponse   `json:"users"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
