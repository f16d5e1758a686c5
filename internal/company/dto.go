package company

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/core/common/validation"
)

type CreateCompanyDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d *CreateCompanyDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

func (d *CreateCompanyDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).Required().MaxLength(validation.MaxNameLength)
	validator.Field("description", d.Description).MaxLength(validation.MaxDescription)
	return validator.Validate()
}

// UpdateCompanyDTO changes only the fields that are present.
type UpdateCompanyDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (d *UpdateCompanyDTO) Normalize() {
	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		d.Name = &name
	}
	if d.Description != nil {
		desc := strings.TrimSpace(*d.Description)
		d.Description = &desc
	}
}

func (d *UpdateCompanyDTO) Validate() *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).NotBlank().MaxLength(validation.MaxNameLength)
	validator.Field("description", d.Description).MaxLength(validation.MaxDescription)
	return validator.Validate()
}

type ProjectSummaryResponse struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DashboardURL string `json:"powerbi_link"`
}

type UserSummaryResponse struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

type CompanyResponse struct {
	ID          string                   `json:"_id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Projects    []ProjectSummaryResponse `json:"projects"`
	Users       []UserSummaryResponse    `json:"users"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
