package access_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockResolver serves fixed companies and projects.
type MockResolver struct {
	companies  map[string]access.CompanyInfo
	projects   map[string]access.ProjectInfo
	shouldFail bool
	calls      int
}

func NewMockResolver() *MockResolver {
	return &MockResolver{
		companies: map[string]access.CompanyInfo{
			"c1": {ID: "c1", Name: "Acme"},
			"c2": {ID: "c2", Name: "Globex"},
		},
		projects: map[string]access.ProjectInfo{
			"p1": {ID: "p1", Name: "Sales", CompanyID: "c1"},
			"p2": {ID: "p2", Name: "Ops", CompanyID: "c2"},
			"p3": {ID: "p3", Name: "Orphan", CompanyID: "gone"},
		},
	}
}

func (m *MockResolver) Companies(_ context.Context, ids []string) (map[string]access.CompanyInfo, error) {
	m.calls++
	if m.shouldFail {
		return nil, errors.New("database unavailable")
	}
	out := map[string]access.CompanyInfo{}
	for _, id := range ids {
		if c, ok := m.companies[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (m *MockResolver) Projects(_ context.Context, ids []string) (map[string]access.ProjectInfo, error) {
	out := map[string]access.ProjectInfo{}
	for _, id := range ids {
		if p, ok := m.projects[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

var _ = Describe("Validator", func() {
	var (
		resolver  *MockResolver
		validator *access.Validator
		ctx       context.Context
	)

	BeforeEach(func() {
		resolver = NewMockResolver()
		validator = access.NewValidator(resolver, slog.New(slog.NewTextHandler(os.Stdout, nil)))
		ctx = context.Background()
	})

	Describe("ValidateGrant", func() {
		It("accepts projects whose companies are granted", func() {
			grant, err := validator.ValidateGrant(ctx, []string{"c1", "c2"}, []string{"p1", "p2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(grant.CompanyIDs).To(Equal([]string{"c1", "c2"}))
			Expect(grant.ProjectIDs).To(Equal([]string{"p1", "p2"}))
		})

		It("accepts a company-only grant", func() {
			grant, err := validator.ValidateGrant(ctx, []string{"c1"}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(grant.CompanyIDs).To(Equal([]string{"c1"}))
			Expect(grant.ProjectIDs).To(BeEmpty())
		})

		It("accepts an empty grant", func() {
			grant, err := validator.ValidateGrant(ctx, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(grant.CompanyIDs).To(BeEmpty())
			Expect(grant.ProjectIDs).To(BeEmpty())
		})

		It("deduplicates ids and keeps first-seen order", func() {
			grant, err := validator.ValidateGrant(ctx, []string{"c2", "c1", "c2"}, []string{"p2", "p2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(grant.CompanyIDs).To(Equal([]string{"c2", "c1"}))
			Expect(grant.ProjectIDs).To(Equal([]string{"p2"}))
		})

		It("does not add the companies of granted projects on its own", func() {
			grant, err := validator.ValidateGrant(ctx, []string{"c1", "c2"}, []string{"p1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(grant.CompanyIDs).To(Equal([]string{"c1", "c2"}))
			Expect(grant.ProjectIDs).To(Equal([]string{"p1"}))
		})

		It("rejects the whole grant when one project's company is missing", func() {
			_, err := validator.ValidateGrant(ctx, []string{"c1"}, []string{"p1", "p2"})
			Expect(err).To(HaveOccurred())

			var grantErr *access.GrantError
			Expect(errors.As(err, &grantErr)).To(BeTrue())
			Expect(grantErr.Violations).To(HaveLen(1))
			Expect(grantErr.Violations[0].ProjectID).To(Equal("p2"))
			Expect(grantErr.Violations[0].ProjectName).To(Equal("Ops"))
			Expect(grantErr.Violations[0].CompanyID).To(Equal("c2"))
			Expect(grantErr.Violations[0].CompanyName).To(Equal("Globex"))
		})

		It("rejects projects when no company is granted at all", func() {
			_, err := validator.ValidateGrant(ctx, nil, []string{"p1"})

			var grantErr *access.GrantError
			Expect(errors.As(err, &grantErr)).To(BeTrue())
			Expect(grantErr.Violations).To(HaveLen(1))
			Expect(grantErr.Violations[0].CompanyName).To(Equal("Acme"))
		})

		It("lists every offending project", func() {
			_, err := validator.ValidateGrant(ctx, nil, []string{"p1", "p2"})

			var grantErr *access.GrantError
			Expect(errors.As(err, &grantErr)).To(BeTrue())
			Expect(grantErr.Violations).To(HaveLen(2))
			Expect(grantErr.Error()).To(ContainSubstring("Sales"))
			Expect(grantErr.Error()).To(ContainSubstring("Ops"))
		})

		It("reports unknown company and project ids", func() {
			_, err := validator.ValidateGrant(ctx, []string{"c1", "nope"}, []string{"p404"})

			var grantErr *access.GrantError
			Expect(errors.As(err, &grantErr)).To(BeTrue())
			Expect(grantErr.UnknownCompanies).To(Equal([]string{"nope"}))
			Expect(grantErr.UnknownProjects).To(Equal([]string{"p404"}))
			Expect(grantErr.Violations).To(BeEmpty())
		})

		It("reports blank company and project ids as unknown", func() {
			_, err := validator.ValidateGrant(ctx, []string{"c1", "  "}, []string{" "})

			var grantErr *access.GrantError
			Expect(errors.As(err, &grantErr)).To(BeTrue())
			Expect(grantErr.UnknownCompanies).To(Equal([]string{"  "}))
			Expect(grantErr.UnknownProjects).To(Equal([]string{" "}))
			Expect(grantErr.AppError().Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("treats a project whose company was deleted as a violation", func() {
			_, err := validator.ValidateGrant(ctx, []string{"c1"}, []string{"p3"})

			var grantErr *access.GrantError
			Expect(errors.As(err, &grantErr)).To(BeTrue())
			Expect(grantErr.Violations).To(HaveLen(1))
			Expect(grantErr.Violations[0].CompanyID).To(Equal("gone"))
			Expect(grantErr.Violations[0].CompanyName).To(BeEmpty())
		})

		It("propagates resolver failures without wrapping them as a rejection", func() {
			resolver.shouldFail = true
			_, err := validator.ValidateGrant(ctx, []string{"c1"}, nil)
			Expect(err).To(HaveOccurred())

			var grantErr *access.GrantError
			Expect(errors.As(err, &grantErr)).To(BeFalse())
			Expect(err.Error()).To(ContainSubstring("database unavailable"))
		})
	})

	Describe("GrantError.AppError", func() {
		It("maps violations to a 400 with one detail each", func() {
			grantErr := &access.GrantError{
				Violations: []access.Violation{
					{ProjectID: "p2", ProjectName: "Ops", CompanyID: "c2", CompanyName: "Globex"},
				},
			}
			appErr := grantErr.AppError()
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Code).To(Equal(internal.ErrCodeCompanyNotGranted))

			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors).To(HaveLen(1))
			Expect(details.Errors[0].Message).To(ContainSubstring("Globex"))

			var unwrapped *access.GrantError
			Expect(errors.As(appErr, &unwrapped)).To(BeTrue())
		})

		It("uses the generic validation code for unknown ids", func() {
			appErr := (&access.GrantError{UnknownCompanies: []string{"x"}}).AppError()
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})
	})
})
