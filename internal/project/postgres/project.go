package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/dashboard-portal/internal"
	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/dashboard-portal/internal/project"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.RepositoryAPI {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetAll(ctx context.Context) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	err := r.db.WithContext(ctx).Order("name ASC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) GetByIDs(ctx context.Context, ids []string) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	if len(ids) == 0 {
		return projects, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&projects).Error
	return projects, err
}

// CreateForCompany reads the company under a share lock so it cannot be
// deleted between the check and the insert.
func (r *ProjectRepository) CreateForCompany(ctx context.Context, p *projectDatamodel.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c companyDatamodel.Company
		q := tx.Select("id").Where("id = ?", p.CompanyID)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "SHARE"})
		}
		if err := q.First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return project.ErrUnknownCompany
			}
			return err
		}
		return tx.Create(p).Error
	})
}

func (r *ProjectRepository) Update(ctx context.Context, p *projectDatamodel.Project) error {
	return r.db.WithContext(ctx).Model(p).
		Select("name", "description", "dashboard_url", "updated_at").
		Updates(p).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) (*projectDatamodel.Project, error) {
	var deleted projectDatamodel.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrProjectNotFound
			}
			return &internal.CascadeError{Entity: "project", ID: id, Step: project.StepDeleteProject, Err: err}
		}
		if err := tx.Delete(&projectDatamodel.Project{}, "id = ?", id).Error; err != nil {
			return &internal.CascadeError{Entity: "project", ID: id, Step: project.StepDeleteProject, Err: err}
		}
		if err := tx.Where("project_id = ?", id).Delete(&userDatamodel.UserProject{}).Error; err != nil {
			return &internal.CascadeError{Entity: "project", ID: id, Step: project.StepPullProjectFromUsers, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

func (r *ProjectRepository) Companies(ctx context.Context, ids []string) (map[string]*companyDatamodel.Company, error) {
	out := make(map[string]*companyDatamodel.Company, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var companies []*companyDatamodel.Company
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&companies).Error; err != nil {
		return nil, err
	}
	for _, c := range companies {
		out[c.ID] = c
	}
	return out, nil
}

type projectUserRow struct {
	ProjectID string
	ID        string
	Email     string
}

func (r *ProjectRepository) UsersOf(ctx context.Context, projectIDs []string) (map[string][]project.UserRef, error) {
	out := make(map[string][]project.UserRef, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}

	var rows []projectUserRow
	err := r.db.WithContext(ctx).
		Table("user_projects AS up").
		Select("up.project_id AS project_id, u.id AS id, u.email AS email").
		Joins("JOIN users u ON u.id = up.user_id").
		Where("up.project_id IN ?", projectIDs).
		Order("u.email ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ProjectID] = append(out[row.ProjectID], project.UserRef{ID: row.ID, Email: row.Email})
	}
	return out, nil
}
