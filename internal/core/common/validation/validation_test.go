package validation_test

import (
	"github.com/frahmantamala/dashboard-portal/internal"
	"github.com/frahmantamala/dashboard-portal/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func codes(appErr *internal.AppError) []string {
	details, ok := appErr.Details.(internal.ValidationErrors)
	Expect(ok).To(BeTrue())
	var out []string
	for _, e := range details.Errors {
		out = append(out, e.Field+":"+e.Code)
	}
	return out
}

var _ = Describe("Validation", func() {
	Describe("ValidateCredentials", func() {
		It("accepts a well formed email and password", func() {
			Expect(validation.ValidateCredentials("ana@example.com", "secret")).To(BeNil())
		})

		It("reports every failing field at once", func() {
			appErr := validation.ValidateCredentials("", "abc")
			Expect(appErr).NotTo(BeNil())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(codes(appErr)).To(Equal([]string{
				"email:VALIDATION_FAILED",
				"password:PASSWORD_TOO_SHORT",
			}))
		})

		DescribeTable("rejects malformed emails",
			func(email string) {
				appErr := validation.ValidateCredentials(email, "secret")
				Expect(appErr).NotTo(BeNil())
				Expect(codes(appErr)).To(Equal([]string{"email:INVALID_EMAIL"}))
			},
			Entry("no at sign", "ana.example.com"),
			Entry("no domain dot", "ana@example"),
			Entry("display name form", "Ana <ana@example.com>"),
		)
	})

	Describe("AbsoluteURL", func() {
		validate := func(link string) *internal.AppError {
			v := validation.NewValidator()
			v.Field("powerbi_link", link).AbsoluteURL()
			return v.Validate()
		}

		It("accepts http and https", func() {
			Expect(validate("https://app.powerbi.com/view?r=abc")).To(BeNil())
			Expect(validate("http://reports.local/x")).To(BeNil())
		})

		It("rejects relative and non-web links", func() {
			Expect(codes(validate("/reports/1"))).To(Equal([]string{"powerbi_link:INVALID_URL"}))
			Expect(codes(validate("ftp://host/file"))).To(Equal([]string{"powerbi_link:INVALID_URL"}))
		})
	})

	Describe("NotBlank", func() {
		It("only checks values that were sent", func() {
			blank := "  "
			v := validation.NewValidator()
			v.Field("name", (*string)(nil)).NotBlank()
			Expect(v.Validate()).To(BeNil())

			v = validation.NewValidator()
			v.Field("name", &blank).NotBlank()
			Expect(codes(v.Validate())).To(Equal([]string{"name:VALIDATION_FAILED"}))
		})
	})

	It("caps company names", func() {
		long := make([]byte, validation.MaxNameLength+1)
		for i := range long {
			long[i] = 'a'
		}
		Expect(validation.ValidateCompanyName(string(long))).NotTo(BeNil())
		Expect(validation.ValidateCompanyName("Acme")).To(BeNil())
	})

	It("normalises emails", func() {
		Expect(validation.NormalizeEmail("  Ana@Example.COM ")).To(Equal("ana@example.com"))
	})

	It("dedupes ids keeping first-seen order", func() {
		Expect(validation.Dedupe([]string{"b", "a", "b", "c", "a"})).To(Equal([]string{"b", "a", "c"}))
	})

	It("keeps blank ids for resolution to reject", func() {
		Expect(validation.Dedupe([]string{"a", "  ", "", "  "})).To(Equal([]string{"a", "  ", ""}))
		Expect(validation.Dedupe(nil)).To(BeEmpty())
	})
})
