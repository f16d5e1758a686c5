package postgres

import (
	"context"

	"github.com/frahmantamala/dashboard-portal/internal/access"
	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
	"gorm.io/gorm"
)

type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

func (r *Resolver) Companies(ctx context.Context, ids []string) (map[string]access.CompanyInfo, error) {
	out := make(map[string]access.CompanyInfo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []companyDatamodel.Company
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = access.CompanyInfo{ID: c.ID, Name: c.Name}
	}
	return out, nil
}

func (r *Resolver) Projects(ctx context.Context, ids []string) (map[string]access.ProjectInfo, error) {
	out := make(map[string]access.ProjectInfo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []projectDatamodel.Project
	if err := r.db.WithContext(ctx).Select("id", "name", "company_id").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = access.ProjectInfo{ID: p.ID, Name: p.Name, CompanyID: p.CompanyID}
	}
	return out, nil
}
