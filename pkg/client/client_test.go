package client_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/frahmantamala/dashboard-portal/internal/app/apptest"
	"github.com/frahmantamala/dashboard-portal/pkg/client"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Client", func() {
	var (
		ctx    context.Context
		server *apptest.Server
		admin  *client.Client
	)

	newClient := func() *client.Client {
		return client.New(client.Config{BaseURL: server.URL}, nil)
	}

	apiError := func(err error) *client.APIError {
		var apiErr *client.APIError
		ExpectWithOffset(1, errors.As(err, &apiErr)).To(BeTrue(), "expected APIError, got %v", err)
		return apiErr
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		server, err = apptest.NewServer()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(server.Close)

		_, err = server.CreateUser("admin@example.com", "secret1", true, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		admin = newClient()
		_, err = admin.Login(ctx, "admin@example.com", "secret1")
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Login", func() {
		It("stores the session returned by the server", func() {
			session := admin.Session()
			Expect(session).NotTo(BeNil())
			Expect(session.Token).NotTo(BeEmpty())
			Expect(session.User.Email).To(Equal("admin@example.com"))
			Expect(session.User.IsAdmin).To(BeTrue())
		})

		It("normalises the email before lookup", func() {
			c := newClient()
			_, err := c.Login(ctx, "  ADMIN@example.com ", "secret1")
			Expect(err).NotTo(HaveOccurred())
		})

		It("leaves the client logged out on bad credentials", func() {
			c := newClient()
			_, err := c.Login(ctx, "admin@example.com", "wrong-password")
			apiErr := apiError(err)
			Expect(apiErr.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(apiErr.Code).To(Equal("INVALID_CREDENTIALS"))
			Expect(c.Session()).To(BeNil())
		})

		It("reports unknown emails exactly like wrong passwords", func() {
			_, errWrong := newClient().Login(ctx, "admin@example.com", "wrong-password")
			_, errUnknown := newClient().Login(ctx, "nobody@example.com", "wrong-password")
			Expect(*apiError(errUnknown)).To(Equal(*apiError(errWrong)))
		})
	})

	It("refuses authenticated calls without a session", func() {
		_, err := newClient().Profile(ctx)
		Expect(err).To(MatchError(client.ErrNoSession))
		Expect(newClient().Logout(ctx)).To(MatchError(client.ErrNoSession))
	})

	Context("with a company, two projects and a viewer", func() {
		var (
			acme         *client.Company
			sales, costs *client.Project
			viewer       *client.Client
			viewerID     string
		)

		BeforeEach(func() {
			var err error
			acme, err = admin.CreateCompany(ctx, client.CompanyInput{Name: "Acme", Description: "tenant"})
			Expect(err).NotTo(HaveOccurred())
			Expect(acme.Projects).To(BeEmpty())
			Expect(acme.Users).To(BeEmpty())

			sales, err = admin.CreateProject(ctx, client.ProjectInput{
				Name: "Sales", DashboardURL: "https://app.powerbi.com/sales", Company: acme.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			costs, err = admin.CreateProject(ctx, client.ProjectInput{
				Name: "Costs", DashboardURL: "https://app.powerbi.com/costs", Company: acme.ID,
			})
			Expect(err).NotTo(HaveOccurred())

			created, err := admin.CreateUser(ctx, client.UserInput{
				Email:     "viewer@example.com",
				Password:  "viewer1",
				Companies: []string{acme.ID},
				Projects:  []string{sales.ID},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.IsAdmin).To(BeFalse())
			viewerID = created.ID

			viewer = newClient()
			_, err = viewer.Login(ctx, "viewer@example.com", "viewer1")
			Expect(err).NotTo(HaveOccurred())
		})

		It("lists only the viewer's dashboards", func() {
			projects, err := viewer.MyProjects(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(1))
			Expect(projects[0].ID).To(Equal(sales.ID))
			Expect(projects[0].DashboardURL).To(Equal("https://app.powerbi.com/sales"))
			Expect(projects[0].Company).NotTo(BeNil())
			Expect(projects[0].Company.Name).To(Equal("Acme"))
		})

		It("nests only granted projects in the profile", func() {
			profile, err := viewer.Profile(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.Email).To(Equal("viewer@example.com"))
			Expect(profile.Companies).To(HaveLen(1))
			Expect(profile.Companies[0].Projects).To(HaveLen(1))
			Expect(profile.Companies[0].Projects[0].ID).To(Equal(sales.ID))
			Expect(profile.Projects).To(HaveLen(1))
			Expect(profile.Projects[0].CompanyID).To(Equal(acme.ID))
		})

		It("opens a granted project and rejects the others", func() {
			p, err := viewer.Project(ctx, sales.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Company.Description).To(Equal("tenant"))

			_, err = viewer.Project(ctx, costs.ID)
			Expect(apiError(err).StatusCode).To(Equal(http.StatusForbidden))
		})

		It("keeps admin operations away from viewers", func() {
			_, err := viewer.ListCompanies(ctx)
			Expect(apiError(err).StatusCode).To(Equal(http.StatusForbidden))
		})

		It("rejects a grant whose project company is missing", func() {
			_, err := admin.UpdateAccess(ctx, viewerID, client.Grant{Projects: []string{costs.ID}})
			apiErr := apiError(err)
			Expect(apiErr.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(apiErr.Code).To(Equal("PROJECT_COMPANY_NOT_GRANTED"))

			projects, err := viewer.MyProjects(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(1))
		})

		It("replaces the grant on update", func() {
			account, err := admin.UpdateAccess(ctx, viewerID, client.Grant{
				Companies: []string{acme.ID},
				Projects:  []string{costs.ID},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(account.Projects).To(HaveLen(1))
			Expect(account.Projects[0].ID).To(Equal(costs.ID))

			projects, err := viewer.MyProjects(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(1))
			Expect(projects[0].ID).To(Equal(costs.ID))
		})

		It("pulls a deleted project from the viewer", func() {
			Expect(admin.DeleteProject(ctx, sales.ID)).To(Succeed())

			projects, err := viewer.MyProjects(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(BeEmpty())

			err = admin.DeleteProject(ctx, sales.ID)
			Expect(apiError(err).StatusCode).To(Equal(http.StatusNotFound))
		})

		It("pulls a deleted company from users but keeps its projects", func() {
			Expect(admin.DeleteCompany(ctx, acme.ID)).To(Succeed())

			users, err := admin.ListUsers(ctx)
			Expect(err).NotTo(HaveOccurred())
			for _, u := range users {
				Expect(u.Companies).To(BeEmpty())
			}

			projects, err := admin.ListProjects(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(2))
		})
	})

	Describe("Logout", func() {
		It("clears the session and revokes the token", func() {
			token := admin.Session().Token
			Expect(admin.Logout(ctx)).To(Succeed())
			Expect(admin.Session()).To(BeNil())

			revived := newClient()
			revived.Resume(client.Session{Token: token})
			_, err := revived.Profile(ctx)
			Expect(apiError(err).StatusCode).To(Equal(http.StatusUnauthorized))
		})
	})
})
