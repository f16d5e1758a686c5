package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/dashboard-portal/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("matches sentinels after WithCause without mutating them", func() {
		cause := errors.New("token expired")
		err := internal.ErrAuthentication.WithCause(cause)

		Expect(errors.Is(err, internal.ErrAuthentication)).To(BeTrue())
		Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeFalse())
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(internal.ErrAuthentication.Cause).To(BeNil())
	})

	It("is found through wrapping", func() {
		wrapped := fmt.Errorf("loading user: %w", internal.ErrUserNotFound)
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))

		_, ok = internal.IsAppError(errors.New("plain"))
		Expect(ok).To(BeFalse())
	})

	It("renders the envelope without the cause", func() {
		appErr := internal.NewInternalError("Server error", errors.New("connection refused"))
		status, body := appErr.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))

		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(MatchJSON(`{
			"error": {"type": "INTERNAL_ERROR", "code": "INTERNAL_ERROR", "message": "Server error"},
			"message": "Server error"
		}`))
	})

	It("joins validation messages into the top-level message", func() {
		appErr := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "email", Message: "email is required"},
				{Field: "password", Message: "password is required"},
			}})

		Expect(appErr.Error()).To(Equal("email is required"))
		Expect(appErr.GetDetailedMessage()).To(Equal("email is required; password is required"))
	})
})

var _ = Describe("CascadeError", func() {
	It("names the failed step and keeps the cause reachable", func() {
		cause := errors.New("deadlock")
		cascade := &internal.CascadeError{Entity: "company", Step: "pull_from_users", ID: "c1", Err: cause}

		Expect(cascade.Error()).To(Equal("delete company c1: pull_from_users: deadlock"))
		Expect(errors.Is(cascade, cause)).To(BeTrue())

		appErr := cascade.AppError()
		Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(appErr.Message).To(Equal("Failed to delete company"))
		Expect(appErr.Details).To(Equal(map[string]string{"step": "pull_from_users"}))
		Expect(errors.Is(appErr, cause)).To(BeTrue())
	})
})
