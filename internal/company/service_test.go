package company_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/company"
	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	projectDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/project"
	"github.com/frahmantamala/dashboard-portal/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

// MockRepository implements company.RepositoryAPI in memory.
type MockRepository struct {
	companies  map[string]*companyDatamodel.Company
	projects   []*projectDatamodel.Project
	users      map[string][]company.UserSummary
	deleteErr  error
	createErr  error
	shouldFail bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		companies: make(map[string]*companyDatamodel.Company),
		users:     make(map[string][]company.UserSummary),
	}
}

func (m *MockRepository) GetAll(context.Context) ([]*companyDatamodel.Company, error) {
	if m.shouldFail {
		return nil, errors.New("connection refused")
	}
	var out []*companyDatamodel.Company
	for _, c := range m.companies {
		out = append(out, c)
	}
	return out, nil
}

func (m *MockRepository) GetByID(_ context.Context, id string) (*companyDatamodel.Company, error) {
	return m.companies[id], nil
}

func (m *MockRepository) GetByName(_ context.Context, name string) (*companyDatamodel.Company, error) {
	for _, c := range m.companies {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(_ context.Context, c *companyDatamodel.Company) error {
	if m.createErr != nil {
		return m.createErr
	}
	c.ID = "c-" + c.Name
	m.companies[c.ID] = c
	return nil
}

func (m *MockRepository) Update(_ context.Context, c *companyDatamodel.Company) error {
	m.companies[c.ID] = c
	return nil
}

func (m *MockRepository) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.companies[id]; !ok {
		return internal.ErrCompanyNotFound
	}
	delete(m.companies, id)
	return nil
}

func (m *MockRepository) ProjectsOf(_ context.Context, ids []string) ([]*projectDatamodel.Project, error) {
	var out []*projectDatamodel.Project
	for _, p := range m.projects {
		for _, id := range ids {
			if p.CompanyID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m *MockRepository) UsersOf(_ context.Context, ids []string) (map[string][]company.UserSummary, error) {
	return m.users, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

var _ = Describe("Company Service", func() {
	var (
		repo      *MockRepository
		publisher *recordingPublisher
		service   *company.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		publisher = &recordingPublisher{}
		service = company.NewService(repo, publisher, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("creates a company with empty projects and users", func() {
			c, err := service.Create(ctx, company.CreateCompanyDTO{Name: "  Acme  ", Description: "Widgets"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Acme"))

			resp := c.ToResponse()
			Expect(resp.Projects).To(BeEmpty())
			Expect(resp.Projects).NotTo(BeNil())
			Expect(resp.Users).NotTo(BeNil())
		})

		It("requires a name", func() {
			_, err := service.Create(ctx, company.CreateCompanyDTO{Name: "   "})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("rejects an exact duplicate name", func() {
			_, err := service.Create(ctx, company.CreateCompanyDTO{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, company.CreateCompanyDTO{Name: "Acme"})
			Expect(errors.Is(err, internal.ErrCompanyExists)).To(BeTrue())
		})

		It("treats names differing in case as distinct", func() {
			_, err := service.Create(ctx, company.CreateCompanyDTO{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, company.CreateCompanyDTO{Name: "ACME"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("maps a unique index violation to a conflict", func() {
			repo.createErr = gorm.ErrDuplicatedKey
			_, err := service.Create(ctx, company.CreateCompanyDTO{Name: "Racy"})
			Expect(errors.Is(err, internal.ErrCompanyExists)).To(BeTrue())
		})
	})

	Describe("GetByID", func() {
		It("expands projects and users", func() {
			repo.companies["c1"] = &companyDatamodel.Company{ID: "c1", Name: "Acme"}
			repo.projects = []*projectDatamodel.Project{{ID: "p1", Name: "Sales", CompanyID: "c1", DashboardURL: "https://bi/x"}}
			repo.users["c1"] = []company.UserSummary{{ID: "u1", Email: "a@acme.io"}}

			c, err := service.GetByID(ctx, "c1")
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Projects).To(HaveLen(1))
			Expect(c.Projects[0].DashboardURL).To(Equal("https://bi/x"))
			Expect(c.Users).To(HaveLen(1))
		})

		It("returns not found for unknown ids", func() {
			_, err := service.GetByID(ctx, "missing")
			Expect(errors.Is(err, internal.ErrCompanyNotFound)).To(BeTrue())
		})
	})

	Describe("GetAll", func() {
		It("wraps repository failures as internal errors", func() {
			repo.shouldFail = true
			_, err := service.GetAll(ctx)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			repo.companies["c1"] = &companyDatamodel.Company{ID: "c1", Name: "Acme", Description: "old"}
			repo.companies["c2"] = &companyDatamodel.Company{ID: "c2", Name: "Globex"}
		})

		It("changes only the fields that were sent", func() {
			desc := "new"
			c, err := service.Update(ctx, "c1", company.UpdateCompanyDTO{Description: &desc})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Acme"))
			Expect(c.Description).To(Equal("new"))
		})

		It("rejects renaming onto another company's name", func() {
			name := "Globex"
			_, err := service.Update(ctx, "c1", company.UpdateCompanyDTO{Name: &name})
			Expect(errors.Is(err, internal.ErrCompanyExists)).To(BeTrue())
		})

		It("allows keeping the same name", func() {
			name := "Acme"
			_, err := service.Update(ctx, "c1", company.UpdateCompanyDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an empty name", func() {
			name := " "
			_, err := service.Update(ctx, "c1", company.UpdateCompanyDTO{Name: &name})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("returns not found for unknown ids", func() {
			_, err := service.Update(ctx, "missing", company.UpdateCompanyDTO{})
			Expect(errors.Is(err, internal.ErrCompanyNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("publishes company.deleted", func() {
			repo.companies["c1"] = &companyDatamodel.Company{ID: "c1", Name: "Acme"}
			adminCtx := internal.ContextWithPrincipal(ctx, &internal.Principal{ID: "admin-1", IsAdmin: true})

			Expect(service.Delete(adminCtx, "c1")).To(Succeed())
			Expect(publisher.events).To(HaveLen(1))
			deleted, ok := publisher.events[0].(*events.CompanyDeletedEvent)
			Expect(ok).To(BeTrue())
			Expect(deleted.CompanyID).To(Equal("c1"))
			Expect(deleted.ActorID).To(Equal("admin-1"))
		})

		It("returns not found for unknown ids", func() {
			err := service.Delete(ctx, "missing")
			Expect(errors.Is(err, internal.ErrCompanyNotFound)).To(BeTrue())
			Expect(publisher.events).To(BeEmpty())
		})

		It("reports the failing cascade step", func() {
			repo.deleteErr = &internal.CascadeError{
				Entity: "company", ID: "c1", Step: company.StepPullCompanyFromUsers, Err: errors.New("lock timeout"),
			}
			err := service.Delete(ctx, "c1")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(appErr.Details).To(HaveKeyWithValue("step", company.StepPullCompanyFromUsers))
		})
	})
})
