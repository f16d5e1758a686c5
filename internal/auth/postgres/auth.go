package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/auth"
	userDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsAdmin:      row.IsAdmin,
	}, nil
}

// GetPrincipal loads the user together with both grant sets.
func (r *Repository) GetPrincipal(ctx context.Context, userID string) (*internal.Principal, error) {
	db := r.db.WithContext(ctx)

	var row userDatamodel.User
	if err := db.Where("id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	principal := &internal.Principal{
		ID:         row.ID,
		Email:      row.Email,
		IsAdmin:    row.IsAdmin,
		CompanyIDs: []string{},
		ProjectIDs: []string{},
	}
	if err := db.Model(&userDatamodel.UserCompany{}).
		Where("user_id = ?", userID).
		Order("created_at, company_id").
		Pluck("company_id", &principal.CompanyIDs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&userDatamodel.UserProject{}).
		Where("user_id = ?", userID).
		Order("created_at, project_id").
		Pluck("project_id", &principal.ProjectIDs).Error; err != nil {
		return nil, err
	}
	return principal, nil
}
