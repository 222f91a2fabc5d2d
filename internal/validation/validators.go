// Package validation holds the UUID, time-window, and string validators
// shared by the query API (spec.md §4.7) and task admission (spec.md
// §4.9.1), grounded on kubernaut's internal/validation package (validators
// returning an error whose message contains a fixed, greppable substring).
package validation

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/aetheric-oss/svc-scheduler-sub000/internal/errors"
)

// structValidator runs the `validate` struct-tag checks (required fields,
// and the like) that calling packages declare on their request types,
// ahead of the semantic checks below. A single *validator.Validate is
// safe for concurrent use and caches struct reflection, per its docs.
var structValidator = validator.New()

// Struct runs struct-tag validation over s, returning an ErrorTypeValidation
// AppError naming the first failing field.
func Struct(s any) error {
	if err := structValidator.Struct(s); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperrors.Newf(apperrors.ErrorTypeValidation, "%s failed %q validation", fe.Field(), fe.Tag())
		}
		return apperrors.Wrap(err, apperrors.ErrorTypeValidation, "struct validation failed")
	}
	return nil
}

// UUID parses s as a UUID, returning an AppError of type errType on
// failure (the caller supplies the ErrorType so the same validator serves
// vertiport, vertipad, vehicle, and user ids with the contract-specific
// error kind each call site needs).
func UUID(s string, errType apperrors.ErrorType, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperrors.Wrapf(err, errType, "%s is not a valid UUID", field)
	}
	return id, nil
}

// TimeWindow validates that start < end, that end-start does not exceed
// maxWindow, and (when minAdvanceNotice > 0) that start is at least
// minAdvanceNotice after now. Each failure returns ErrorTypeTime or
// ErrorTypeTimeRangeTooLarge per spec.md §4.7.
func TimeWindow(start, end time.Time, maxWindow, minAdvanceNotice time.Duration, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.New(apperrors.ErrorTypeTime, "both start and end times are required")
	}
	if !start.Before(end) {
		return apperrors.New(apperrors.ErrorTypeTime, "start time must be before end time")
	}
	if end.Sub(start) > maxWindow {
		return apperrors.Newf(apperrors.ErrorTypeTimeRangeTooLarge, "window of %s exceeds the maximum of %s", end.Sub(start), maxWindow)
	}
	if minAdvanceNotice > 0 && start.Before(now.Add(minAdvanceNotice)) {
		return apperrors.Newf(apperrors.ErrorTypeTime, "start time must be at least %s from now", minAdvanceNotice)
	}
	return nil
}

// NonEmpty validates that a required string field is not blank.
func NonEmpty(value, field string) error {
	if value == "" {
		return apperrors.Newf(apperrors.ErrorTypeValidation, "%s is required", field)
	}
	return nil
}
