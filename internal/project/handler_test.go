package project_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/dashboard-portal/internal"
	companyDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/dashboard-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/dashboard-portal/internal/project"
	projectPostgres "github.com/frahmantamala/dashboard-portal/internal/project/postgres"
	"github.com/frahmantamala/dashboard-portal/internal/testsupport"
	"github.com/frahmantamala/dashboard-portal/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Project Handler Integration", func() {
	var (
		db        *gorm.DB
		router    *chi.Mux
		acme      *companyDatamodel.Company
		principal *internal.Principal
	)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req = req.WithContext(internal.ContextWithPrincipal(req.Context(), principal))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		db = testsupport.MustSQLiteDB()

		acme = &companyDatamodel.Company{Name: "Acme", Description: "Widgets"}
		Expect(db.Create(acme).Error).To(Succeed())

		service := project.NewService(projectPostgres.NewProjectRepository(db), nil, slogger)
		handler := project.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Post("/projects", handler.CreateProject)
		router.Get("/projects", handler.GetProjects)
		router.Get("/projects/my-projects", handler.GetMyProjects)
		router.Get("/projects/{id}", handler.GetProject)
		router.Put("/projects/{id}", handler.UpdateProject)
		router.Delete("/projects/{id}", handler.DeleteProject)

		principal = &internal.Principal{ID: "admin", IsAdmin: true}
	})

	create := func(name string) project.ProjectResponse {
		w := do(http.MethodPost, "/projects", map[string]string{
			"name":         name,
			"powerbi_link": "https://app.powerbi.com/" + name,
			"company":      acme.ID,
		})
		Expect(w.Code).To(Equal(http.StatusCreated))
		var resp project.ProjectResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp
	}

	It("creates a project and expands its company", func() {
		p := create("sales")
		Expect(p.CompanyID).To(Equal(acme.ID))
		Expect(p.Company).NotTo(BeNil())
		Expect(p.Company.Name).To(Equal("Acme"))
		Expect(p.DashboardURL).To(Equal("https://app.powerbi.com/sales"))
	})

	It("rejects an unknown company with 400", func() {
		w := do(http.MethodPost, "/projects", map[string]string{
			"name": "x", "powerbi_link": "https://a.b/c", "company": "missing",
		})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("UNKNOWN_COMPANY"))
	})

	It("serves my-projects from the caller's grants", func() {
		sales := create("sales")
		create("ops")

		principal = &internal.Principal{ID: "u1", ProjectIDs: []string{sales.ID}}
		w := do(http.MethodGet, "/projects/my-projects", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var list []project.ProjectResponse
		Expect(json.NewDecoder(w.Body).Decode(&list)).To(Succeed())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Name).To(Equal("sales"))
		Expect(list[0].Company.Name).To(Equal("Acme"))
	})

	It("returns 403 to users reading a project they were not granted", func() {
		ops := create("ops")
		principal = &internal.Principal{ID: "u1"}

		w := do(http.MethodGet, "/projects/"+ops.ID, nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("includes users holding the project", func() {
		sales := create("sales")
		user := &userDatamodel.User{Email: "viewer@acme.io", PasswordHash: "x"}
		Expect(db.Create(user).Error).To(Succeed())
		Expect(db.Create(&userDatamodel.UserProject{UserID: user.ID, ProjectID: sales.ID}).Error).To(Succeed())

		w := do(http.MethodGet, "/projects/"+sales.ID, nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var got project.ProjectResponse
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got.Users).To(HaveLen(1))
		Expect(got.Users[0].Email).To(Equal("viewer@acme.io"))
		Expect(got.Company.Description).To(Equal("Widgets"))
	})

	It("updates without moving the project and deletes it once", func() {
		sales := create("sales")

		w := do(http.MethodPut, "/projects/"+sales.ID, map[string]string{"name": "revenue"})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"name":"revenue"`))

		Expect(do(http.MethodDelete, "/projects/"+sales.ID, nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodDelete, "/projects/"+sales.ID, nil).Code).To(Equal(http.StatusNotFound))
	})
})
