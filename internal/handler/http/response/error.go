package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vijaygla/HRMS-sub000/internal/pkg/apperror"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

const internalErrorMessage = "An unexpected error occurred"

// HandleError maps domain errors to HTTP responses by their apperror kind.
// Unclassified errors are logged and answered with a generic message.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Wrapped domain errors answer with their own message, never the wrap chain
	message := internalErrorMessage
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		message = appErr.Error()
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		BadRequest(w, message, nil)
	case errors.Is(err, apperror.ErrUnauthorized):
		Unauthorized(w, message)
	case errors.Is(err, apperror.ErrForbidden):
		Forbidden(w, message)
	case errors.Is(err, apperror.ErrNotFound):
		NotFound(w, message)
	case errors.Is(err, apperror.ErrConflict):
		Conflict(w, message)
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, internalErrorMessage)
	}
}
