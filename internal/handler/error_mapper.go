package handler

import (
	"context"
	"errors"

	"github.com/forgo/habitquest/internal/model"
	"github.com/forgo/habitquest/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response so
// every handler answers the same failure with the same status.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var pd *model.ProblemDetails
	if errors.As(err, &pd) {
		return pd
	}

	switch {
	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrInvalidHabit):
		return model.NewValidationError([]model.FieldError{{Field: "habit", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidStatus):
		return model.NewValidationError([]model.FieldError{{Field: "status", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidDate):
		return model.NewValidationError([]model.FieldError{{Field: "date", Message: err.Error()}})

	// ===== Owner Errors → 401 =====
	case errors.Is(err, service.ErrOwnerRequired):
		return model.NewUnauthorizedError(err.Error())

	// ===== Store Errors =====
	// The local change was reverted before this error surfaced
	case errors.Is(err, service.ErrStoreWrite):
		return model.NewStoreError("the change could not be synced and was reverted")
	case errors.Is(err, service.ErrStoreRead):
		return model.NewStoreError("the hosted store could not be read")
	case errors.Is(err, service.ErrChallengesUnavailable),
		errors.Is(err, service.ErrStoreNotConfigured):
		return model.NewStoreUnavailableError(err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return model.NewStoreError("the hosted store timed out")

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext is MapServiceError with the failed operation
// named in otherwise opaque 500 responses
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
