package company

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/dashboard-portal/internal"
	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
	"github.com/frahmantamala/dashboard-portal/internal/core/events"
	"github.com/frahmantamala/dashboard-portal/pkg/telemetry"
	"gorm.io/gorm"
)

// RepositoryAPI lookups return (nil, nil) when the row does not exist.
type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*companyDatamodel.Company, error)
	GetByID(ctx context.Context, id string) (*companyDatamodel.Company, error)
	GetByName(ctx context.Context, name string) (*companyDatamodel.Company, error)
	Create(ctx context.Context, company *companyDatamodel.Company) error
	Update(ctx context.Context, company *companyDatamodel.Company) error
	// Delete removes the company and pulls it from every user's grants.
	Delete(ctx context.Context, id string) error
	ProjectsOf(ctx context.Context, companyIDs []string) ([]*projectDatamodel.Project, error)
	UsersOf(ctx context.Context, companyIDs []string) (map[string][]UserSummary, error)
}

type Service struct {
	repo      RepositoryAPI
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

func (s *Service) Create(ctx context.Context, dto CreateCompanyDTO) (*Company, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("Failed to create company", err)
	}
	if existing != nil {
		return nil, internal.ErrCompanyExists
	}

	row := &companyDatamodel.Company{Name: dto.Name, Description: dto.Description}
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, internal.ErrCompanyExists
		}
		s.logger.Error("failed to create company", "error", err, "name", dto.Name)
		return nil, internal.NewInternalError("Failed to create company", err)
	}

	s.logger.Info("company created", "company_id", row.ID, "name", row.Name)
	return FromDataModel(row), nil
}

func (s *Service) GetAll(ctx context.Context) ([]*Company, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get companies from repository", "error", err)
		return nil, internal.NewInternalError("Failed to fetch companies", err)
	}

	companies := make([]*Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, FromDataModel(row))
	}
	if err := s.expand(ctx, companies); err != nil {
		return nil, internal.NewInternalError("Failed to fetch companies", err)
	}
	return companies, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Company, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Failed to fetch company", err)
	}
	if row == nil {
		return nil, internal.ErrCompanyNotFound
	}

	company := FromDataModel(row)
	if err := s.expand(ctx, []*Company{company}); err != nil {
		return nil, internal.NewInternalError("Failed to fetch company", err)
	}
	return company, nil
}

func (s *Service) Update(ctx context.Context, id string, dto UpdateCompanyDTO) (*Company, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("Failed to update company", err)
	}
	if row == nil {
		return nil, internal.ErrCompanyNotFound
	}

	if dto.Name != nil && *dto.Name != row.Name {
		existing, err := s.repo.GetByName(ctx, *dto.Name)
		if err != nil {
			return nil, internal.NewInternalError("Failed to update company", err)
		}
		if existing != nil && existing.ID != row.ID {
			return nil, internal.ErrCompanyExists
		}
		row.Name = *dto.Name
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}

	if err := s.repo.Update(ctx, row); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, internal.ErrCompanyExists
		}
		s.logger.Error("failed to update company", "error", err, "company_id", id)
		return nil, internal.NewInternalError("Failed to update company", err)
	}

	company := FromDataModel(row)
	if err := s.expand(ctx, []*Company{company}); err != nil {
		return nil, internal.NewInternalError("Failed to fetch company", err)
	}
	return company, nil
}

// Delete leaves the company's projects in place; they keep pointing at the
// removed id.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err == nil {
		s.logger.Info("company deleted", "company_id", id)
		s.publish(ctx, events.NewCompanyDeletedEvent(id, internal.UserIDFromContext(ctx)))
		return nil
	}

	var cascadeErr *internal.CascadeError
	if errors.As(err, &cascadeErr) {
		telemetry.ObserveCascadeFailure(cascadeErr.Step)
		s.logger.Error("company delete failed", "company_id", id, "step", cascadeErr.Step, "error", cascadeErr.Err)
		return cascadeErr.AppError()
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewInternalError("Failed to delete company", err)
}

func (s *Service) expand(ctx context.Context, companies []*Company) error {
	if len(companies) == 0 {
		return nil
	}
	ids := make([]string, 0, len(companies))
	byID := make(map[string]*Company, len(companies))
	for _, c := range companies {
		ids = append(ids, c.ID)
		byID[c.ID] = c
		c.Projects = []ProjectSummary{}
		c.Users = []UserSummary{}
	}

	projects, err := s.repo.ProjectsOf(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range projects {
		if c, ok := byID[p.CompanyID]; ok {
			c.Projects = append(c.Projects, projectSummary(p))
		}
	}

	users, err := s.repo.UsersOf(ctx, ids)
	if err != nil {
		return err
	}
	for companyID, list := range users {
		if c, ok := byID[companyID]; ok {
			c.Users = list
		}
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
