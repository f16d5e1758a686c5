package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/company"
	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) company.RepositoryAPI {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) GetAll(ctx context.Context) ([]*companyDatamodel.Company, error) {
	var companies []*companyDatamodel.Company
	err := r.db.WithContext(ctx).Order("name ASC").Find(&companies).Error
	return companies, err
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*companyDatamodel.Company, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*companyDatamodel.Company, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *CompanyRepository) first(ctx context.Context, query string, arg string) (*companyDatamodel.Company, error) {
	var c companyDatamodel.Company
	err := r.db.WithContext(ctx).Where(query, arg).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c *companyDatamodel.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CompanyRepository) Update(ctx context.Context, c *companyDatamodel.Company) error {
	return r.db.WithContext(ctx).Model(c).Select("name", "description", "updated_at").Updates(c).Error
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&companyDatamodel.Company{})
		if res.Error != nil {
			return &internal.CascadeError{Entity: "company", ID: id, Step: company.StepDeleteCompany, Err: res.Error}
		}
		if res.RowsAffected == 0 {
			return internal.ErrCompanyNotFound
		}

		if err := tx.Where("company_id = ?", id).Delete(&userDatamodel.UserCompany{}).Error; err != nil {
			return &internal.CascadeError{Entity: "company", ID: id, Step: company.StepPullCompanyFromUsers, Err: err}
		}
		return nil
	})
}

func (r *CompanyRepository) ProjectsOf(ctx context.Context, companyIDs []string) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	if len(companyIDs) == 0 {
		return projects, nil
	}
	err := r.db.WithContext(ctx).Where("company_id IN ?", companyIDs).Order("name ASC").Find(&projects).Error
	return projects, err
}

type companyUserRow struct {
	CompanyID string
	ID        string
	Email     string
}

func (r *CompanyRepository) UsersOf(ctx context.Context, companyIDs []string) (map[string][]company.UserSummary, error) {
	out := make(map[string][]company.UserSummary, len(companyIDs))
	if len(companyIDs) == 0 {
		return out, nil
	}

	var rows []companyUserRow
	err := r.db.WithContext(ctx).
		Table("user_companies AS uc").
		Select("uc.company_id AS company_id, u.id AS id, u.email AS email").
		Joins("JOIN users u ON u.id = uc.user_id").
		Where("uc.company_id IN ?", companyIDs).
		Order("u.email ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CompanyID] = append(out[row.CompanyID], company.UserSummary{ID: row.ID, Email: row.Email})
	}
	return out, nil
}
