package errors

import (
	"errors"
	"net/http"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestErrors(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Structured Errors Suite")
}

var _ = Describe("Structured Errors", func() {
	Describe("AppError", func() {
		It("creates an error with correct properties", func() {
			err := New(ErrorTypeValidation, "test message")

			Expect(err.Type).To(Equal(ErrorTypeValidation))
			Expect(err.Message).To(Equal("test message"))
			Expect(err.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(err.Details).To(BeEmpty())
			Expect(err.Cause).To(BeNil())
		})

		It("implements the error interface", func() {
			err := New(ErrorTypeValidation, "test message")
			Expect(err.Error()).To(Equal("validation: test message"))
		})

		It("includes details in the error string when present", func() {
			err := New(ErrorTypeValidation, "test message").WithDetails("extra info")
			Expect(err.Error()).To(Equal("validation: test message (extra info)"))
		})

		It("wraps an underlying error", func() {
			originalErr := errors.New("original error")
			wrapped := Wrap(originalErr, ErrorTypeDatabase, "operation failed")

			Expect(wrapped.Type).To(Equal(ErrorTypeDatabase))
			Expect(wrapped.Cause).To(Equal(originalErr))
			Expect(wrapped.Unwrap()).To(Equal(originalErr))
		})

		It("formats wrapped errors with arguments", func() {
			originalErr := errors.New("connection refused")
			wrapped := Wrapf(originalErr, ErrorTypeNetwork, "failed to connect to %s:%d", "localhost", 6379)

			Expect(wrapped.Message).To(Equal("failed to connect to localhost:6379"))
			Expect(wrapped.Cause).To(Equal(originalErr))
		})
	})

	Describe("HTTP status code mapping", func() {
		It("maps scheduler-specific error types to their contract status codes", func() {
			cases := []struct {
				errType ErrorType
				status  int
			}{
				{ErrorTypeVertiportID, http.StatusBadRequest},
				{ErrorTypeTime, http.StatusBadRequest},
				{ErrorTypeTimeRangeTooLarge, http.StatusBadRequest},
				{ErrorTypeNotFound, http.StatusNotFound},
				{ErrorTypeNoPathFound, http.StatusNotFound},
				{ErrorTypeScheduleConflict, http.StatusConflict},
				{ErrorTypeAlreadyProcessed, http.StatusConflict},
				{ErrorTypeClient, http.StatusInternalServerError},
				{ErrorTypeInternal, http.StatusInternalServerError},
			}
			for _, c := range cases {
				Expect(New(c.errType, "x").StatusCode).To(Equal(c.status))
			}
		})
	})

	Describe("predefined constructors", func() {
		It("creates a not-found error", func() {
			err := NewNotFoundError("itinerary")
			Expect(err.Type).To(Equal(ErrorTypeNotFound))
			Expect(err.Message).To(Equal("itinerary not found"))
		})

		It("creates a database error wrapping the cause", func() {
			cause := errors.New("connection lost")
			err := NewDatabaseError("next_task", cause)
			Expect(err.Type).To(Equal(ErrorTypeDatabase))
			Expect(err.Message).To(ContainSubstring("database operation failed: next_task"))
			Expect(err.Cause).To(Equal(cause))
		})
	})

	Describe("IsType", func() {
		It("correctly identifies error types", func() {
			validationErr := NewValidationError("test")
			authErr := NewAuthError("test")

			Expect(IsType(validationErr, ErrorTypeValidation)).To(BeTrue())
			Expect(IsType(validationErr, ErrorTypeAuth)).To(BeFalse())
			Expect(IsType(authErr, ErrorTypeAuth)).To(BeTrue())
		})

		It("returns false for non-AppError types", func() {
			Expect(IsType(errors.New("regular error"), ErrorTypeValidation)).To(BeFalse())
		})
	})
})
