package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/access"
	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/dashboard-portal/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).Order("email ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CreateWithGrants(ctx context.Context, u *userDatamodel.User, grant access.Grant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return insertGrants(tx, u.ID, grant)
	})
}

func (r *UserRepository) ReplaceGrants(ctx context.Context, userID string, grant access.Grant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userDatamodel.User{}).Where("id = ?", userID).Update("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrUserNotFound
		}

		if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.UserCompany{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.UserProject{}).Error; err != nil {
			return err
		}
		return insertGrants(tx, userID, grant)
	})
}

// insertGrants spaces created_at one microsecond apart so reads can return
// grants in the order they were given.
func insertGrants(tx *gorm.DB, userID string, grant access.Grant) error {
	now := time.Now().UTC()

	if len(grant.CompanyIDs) > 0 {
		rows := make([]userDatamodel.UserCompany, 0, len(grant.CompanyIDs))
		for i, id := range grant.CompanyIDs {
			rows = append(rows, userDatamodel.UserCompany{
				UserID:    userID,
				CompanyID: id,
				CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	if len(grant.ProjectIDs) > 0 {
		rows := make([]userDatamodel.UserProject, 0, len(grant.ProjectIDs))
		for i, id := range grant.ProjectIDs {
			rows = append(rows, userDatamodel.UserProject{
				UserID:    userID,
				ProjectID: id,
				CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) Grants(ctx context.Context, userIDs []string) (map[string]access.Grant, error) {
	out := make(map[string]access.Grant, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	db := r.db.WithContext(ctx)

	var companies []userDatamodel.UserCompany
	if err := db.Where("user_id IN ?", userIDs).Order("created_at, company_id").Find(&companies).Error; err != nil {
		return nil, err
	}
	var projects []userDatamodel.UserProject
	if err := db.Where("user_id IN ?", userIDs).Order("created_at, project_id").Find(&projects).Error; err != nil {
		return nil, err
	}

	for _, row := range companies {
		g := out[row.UserID]
		g.CompanyIDs = append(g.CompanyIDs, row.CompanyID)
		out[row.UserID] = g
	}
	for _, row := range projects {
		g := out[row.UserID]
		g.ProjectIDs = append(g.ProjectIDs, row.ProjectID)
		out[row.UserID] = g
	}
	return out, nil
}

func (r *UserRepository) Companies(ctx context.Context, ids []string) (map[string]*companyDatamodel.Company, error) {
	out := make(map[string]*companyDatamodel.Company, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*companyDatamodel.Company
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

func (r *UserRepository) Projects(ctx context.Context, ids []string) (map[string]*projectDatamodel.Project, error) {
	out := make(map[string]*projectDatamodel.Project, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*projectDatamodel.Project
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}
