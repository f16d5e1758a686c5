package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/access"
	"github.com/frahmantamala/dashboard-portal/internal/core/common/validation"
	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
	userDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/dashboard-portal/internal/core/events"
	"gorm.io/gorm"
)

// RepositoryAPI lookups return (nil, nil) when the row does not exist.
type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	// CreateWithGrants writes the user and its grant rows in one transaction.
	CreateWithGrants(ctx context.Context, user *userDatamodel.User, grant access.Grant) error
	// ReplaceGrants swaps both grant sets in one transaction and returns
	// ErrUserNotFound when the user is gone.
	ReplaceGrants(ctx context.Context, userID string, grant access.Grant) error
	Grants(ctx context.Context, userIDs []string) (map[string]access.Grant, error)
	Companies(ctx context.Context, ids []string) (map[string]*companyDatamodel.Company, error)
	Projects(ctx context.Context, ids []string) (map[string]*projectDatamodel.Project, error)
}

type GrantValidator interface {
	ValidateGrant(ctx context.Context, companyIDs, projectIDs []string) (access.Grant, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo      RepositoryAPI
	grants    GrantValidator
	hasher    PasswordHasher
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, grants GrantValidator, hasher PasswordHasher, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		grants:    grants,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

// Create reports a registered email as a conflict before looking at any
// other field.
func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	dto.Normalize()
	if dto.Email != "" {
		existing, err := s.repo.GetByEmail(ctx, dto.Email)
		if err != nil {
			return nil, internal.NewInternalError("Failed to create user", err)
		}
		if existing != nil {
			return nil, internal.ErrUserExists
		}
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	grant, err := s.validateGrant(ctx, dto.Companies, dto.Projects)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, internal.NewInternalError("Failed to create user", err)
	}

	row := &userDatamodel.User{
		Email:        dto.Email,
		PasswordHash: hash,
		IsAdmin:      dto.IsAdmin,
	}
	if err := s.repo.CreateWithGrants(ctx, row, grant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, internal.ErrUserExists
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("Failed to create user", err)
	}

	s.logger.Info("user created", "user_id", row.ID, "is_admin", row.IsAdmin,
		"companies", len(grant.CompanyIDs), "projects", len(grant.ProjectIDs))
	s.publish(ctx, events.NewUserCreatedEvent(row.ID, row.Email, row.IsAdmin, internal.UserIDFromContext(ctx)))
	return FromDataModel(row, grant), nil
}

// UpdateAccess replaces both grant sets of a user.
func (s *Service) UpdateAccess(ctx context.Context, id string, dto UpdateAccessDTO) (*Account, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Failed to update user access", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	grant, err := s.validateGrant(ctx, dto.Companies, dto.Projects)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceGrants(ctx, id, grant); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		s.logger.Error("failed to replace grants", "error", err, "user_id", id)
		return nil, internal.NewInternalError("Failed to update user access", err)
	}

	s.logger.Info("user access updated", "user_id", id,
		"companies", grant.CompanyIDs, "projects", grant.ProjectIDs)
	s.publish(ctx, events.NewUserAccessUpdatedEvent(id, grant.CompanyIDs, grant.ProjectIDs, internal.UserIDFromContext(ctx)))

	accounts, err := s.accounts(ctx, []*User{FromDataModel(row, grant)})
	if err != nil {
		return nil, internal.NewInternalError("Failed to fetch user", err)
	}
	return accounts[0], nil
}

func (s *Service) List(ctx context.Context) ([]*Account, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get users from repository", "error", err)
		return nil, internal.NewInternalError("Failed to fetch users", err)
	}
	if len(rows) == 0 {
		return []*Account{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	grants, err := s.repo.Grants(ctx, ids)
	if err != nil {
		return nil, internal.NewInternalError("Failed to fetch users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row, grants[row.ID]))
	}
	accounts, err := s.accounts(ctx, users)
	if err != nil {
		return nil, internal.NewInternalError("Failed to fetch users", err)
	}
	return accounts, nil
}

// Profile is the caller's own view: companies carry only the granted
// projects under them.
func (s *Service) Profile(ctx context.Context, id string) (*Profile, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Failed to fetch profile", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	grants, err := s.repo.Grants(ctx, []string{id})
	if err != nil {
		return nil, internal.NewInternalError("Failed to fetch profile", err)
	}
	u := FromDataModel(row, grants[id])

	companies, err := s.repo.Companies(ctx, u.CompanyIDs)
	if err != nil {
		return nil, internal.NewInternalError("Failed to fetch profile", err)
	}
	projects, err := s.repo.Projects(ctx, u.ProjectIDs)
	if err != nil {
		return nil, internal.NewInternalError("Failed to fetch profile", err)
	}

	profile := &Profile{User: u, Companies: []ProfileCompany{}, Projects: []ProjectRef{}}
	infos := make([]access.ProjectInfo, 0, len(u.ProjectIDs))
	for _, pid := range u.ProjectIDs {
		p, ok := projects[pid]
		if !ok {
			continue
		}
		profile.Projects = append(profile.Projects, projectRef(p, nil))
		infos = append(infos, access.ProjectInfo{ID: p.ID, Name: p.Name, CompanyID: p.CompanyID})
	}

	visible := access.Visible(u.CompanyIDs, infos)
	for _, cid := range u.CompanyIDs {
		c, ok := companies[cid]
		if !ok {
			continue
		}
		entry := ProfileCompany{
			CompanyRef: CompanyRef{ID: c.ID, Name: c.Name, Description: c.Description},
			Projects:   make([]ProjectRef, 0, len(visible[cid])),
		}
		for _, info := range visible[cid] {
			entry.Projects = append(entry.Projects, projectRef(projects[info.ID], nil))
		}
		profile.Companies = append(profile.Companies, entry)
	}
	return profile, nil
}

// accounts expands grant ids into names. Ids that no longer resolve are
// dropped from the view.
func (s *Service) accounts(ctx context.Context, users []*User) ([]*Account, error) {
	var companyIDs, projectIDs []string
	for _, u := range users {
		companyIDs = append(companyIDs, u.CompanyIDs...)
		projectIDs = append(projectIDs, u.ProjectIDs...)
	}

	projects, err := s.repo.Projects(ctx, validation.Dedupe(projectIDs))
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		companyIDs = append(companyIDs, p.CompanyID)
	}
	companies, err := s.repo.Companies(ctx, validation.Dedupe(companyIDs))
	if err != nil {
		return nil, err
	}

	out := make([]*Account, 0, len(users))
	for _, u := range users {
		account := &Account{User: u, Companies: []CompanyRef{}, Projects: []ProjectRef{}}
		for _, cid := range u.CompanyIDs {
			if c, ok := companies[cid]; ok {
				account.Companies = append(account.Companies, CompanyRef{ID: c.ID, Name: c.Name})
			}
		}
		for _, pid := range u.ProjectIDs {
			if p, ok := projects[pid]; ok {
				account.Projects = append(account.Projects, projectRef(p, companies[p.CompanyID]))
			}
		}
		out = append(out, account)
	}
	return out, nil
}

func (s *Service) validateGrant(ctx context.Context, companyIDs, projectIDs []string) (access.Grant, error) {
	grant, err := s.grants.ValidateGrant(ctx, companyIDs, projectIDs)
	if err == nil {
		return grant, nil
	}
	var grantErr *access.GrantError
	if errors.As(err, &grantErr) {
		return access.Grant{}, grantErr.AppError()
	}
	return access.Grant{}, internal.NewInternalError("Failed to validate access", err)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func projectRef(p *projectDatamodel.Project, company *companyDatamodel.Company) ProjectRef {
	ref := ProjectRef{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		DashboardURL: p.DashboardURL,
		CompanyID:    p.CompanyID,
	}
	if company != nil {
		ref.Company = &CompanyRef{ID: company.ID, Name: company.Name}
	}
	return ref
}
