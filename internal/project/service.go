package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/access"
	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
	"github.com/frahmantamala/dashboard-portal/internal/core/events"
	"github.com/frahmantamala/dashboard-portal/pkg/telemetry"
)

// ErrUnknownCompany is returned by CreateForCompany when the company row is
// absent at insert time.
var ErrUnknownCompany = errors.New("company does not exist")

// RepositoryAPI lookups return (nil, nil) when the row does not exist.
type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*projectDatamodel.Project, error)
	GetByID(ctx context.Context, id string) (*projectDatamodel.Project, error)
	GetByIDs(ctx context.Context, ids []string) ([]*projectDatamodel.Project, error)
	CreateForCompany(ctx context.Context, project *projectDatamodel.Project) error
	Update(ctx context.Context, project *projectDatamodel.Project) error
	// Delete removes the project and pulls it from every user's grants.
	Delete(ctx context.Context, id string) (*projectDatamodel.Project, error)
	Companies(ctx context.Context, ids []string) (map[string]*companyDatamodel.Company, error)
	UsersOf(ctx context.Context, projectIDs []string) (map[string][]UserRef, error)
}

type Service struct {
	repo      RepositoryAPI
	policy    access.Policy
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

type expandOptions struct {
	companyDescription bool
	users              bool
}

func (s *Service) Create(ctx context.Context, dto CreateProjectDTO) (*Project, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &projectDatamodel.Project{
		Name:         dto.Name,
		Description:  dto.Description,
		DashboardURL: dto.DashboardURL,
		CompanyID:    dto.Company,
	}
	if err := s.repo.CreateForCompany(ctx, row); err != nil {
		if errors.Is(err, ErrUnknownCompany) {
			return nil, internal.NewValidationFieldError("company",
				fmt.Sprintf("company %s does not exist", dto.Company), internal.ErrCodeUnknownCompany)
		}
		s.logger.Error("failed to create project", "error", err, "company_id", dto.Company)
		return nil, internal.NewInternalError("Failed to create project", err)
	}

	s.logger.Info("project created", "project_id", row.ID, "company_id", row.CompanyID)
	project := FromDataModel(row)
	if err := s.expand(ctx, []*Project{project}, expandOptions{users: true}); err != nil {
		return nil, internal.NewInternalError("Failed to fetch project", err)
	}
	return project, nil
}

func (s *Service) GetAll(ctx context.Context) ([]*Project, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get projects from repository", "error", err)
		return nil, internal.NewInternalError("Failed to fetch projects", err)
	}
	return s.build(ctx, rows, expandOptions{users: true})
}

// GetByID checks access before existence so that callers without a grant
// cannot probe for ids.
func (s *Service) GetByID(ctx context.Context, principal *internal.Principal, id string) (*Project, error) {
	if err := s.policy.CanViewProject(principal, id); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Failed to fetch project", err)
	}
	if row == nil {
		return nil, internal.ErrProjectNotFound
	}

	project := FromDataModel(row)
	if err := s.expand(ctx, []*Project{project}, expandOptions{companyDescription: true, users: true}); err != nil {
		return nil, internal.NewInternalError("Failed to fetch project", err)
	}
	return project, nil
}

// GetForPrincipal returns the caller's granted projects.
func (s *Service) GetForPrincipal(ctx context.Context, principal *internal.Principal) ([]*Project, error) {
	if principal == nil {
		return nil, internal.ErrAuthentication
	}
	rows, err := s.repo.GetByIDs(ctx, principal.ProjectIDs)
	if err != nil {
		return nil, internal.NewInternalError("Failed to fetch projects", err)
	}
	return s.build(ctx, rows, expandOptions{})
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateProjectDTO) (*Project, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Failed to update project", err)
	}
	if row == nil {
		return nil, internal.ErrProjectNotFound
	}

	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.DashboardURL != nil {
		row.DashboardURL = *dto.DashboardURL
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, internal.NewInternalError("Failed to update project", err)
	}

	project := FromDataModel(row)
	if err := s.expand(ctx, []*Project{project}, expandOptions{users: true}); err != nil {
		return nil, internal.NewInternalError("Failed to fetch project", err)
	}
	return project, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err == nil {
		s.logger.Info("project deleted", "project_id", id, "company_id", deleted.CompanyID)
		s.publish(ctx, events.NewProjectDeletedEvent(id, deleted.CompanyID, internal.UserIDFromContext(ctx)))
		return nil
	}

	var cascadeErr *internal.CascadeError
	if errors.As(err, &cascadeErr) {
		telemetry.ObserveCascadeFailure(cascadeErr.Step)
		s.logger.Error("project delete failed", "project_id", id, "step", cascadeErr.Step, "error", cascadeErr.Err)
		return cascadeErr.AppError()
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewInternalError("Failed to delete project", err)
}

func (s *Service) build(ctx context.Context, rows []*projectDatamodel.Project, opts expandOptions) ([]*Project, error) {
	projects := make([]*Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, FromDataModel(row))
	}
	if err := s.expand(ctx, projects, opts); err != nil {
		return nil, internal.NewInternalError("Failed to fetch projects", err)
	}
	return projects, nil
}

func (s *Service) expand(ctx context.Context, projects []*Project, opts expandOptions) error {
	if len(projects) == 0 {
		return nil
	}

	projectIDs := make([]string, 0, len(projects))
	companyIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
		companyIDs = append(companyIDs, p.CompanyID())
	}

	companies, err := s.repo.Companies(ctx, companyIDs)
	if err != nil {
		return err
	}
	for _, p := range projects {
		c, ok := companies[p.CompanyID()]
		if !ok {
			p.SetCompany(nil)
			continue
		}
		ref := &CompanyRef{ID: c.ID, Name: c.Name}
		if opts.companyDescription {
			ref.Description = c.Description
		}
		p.SetCompany(ref)
	}

	if !opts.users {
		return nil
	}
	users, err := s.repo.UsersOf(ctx, projectIDs)
	if err != nil {
		return err
	}
	for _, p := range projects {
		p.Users = users[p.ID]
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
