package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidationFailed:
		return http.StatusUnprocessableEntity
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindUnauthorized, apperror.KindSelfApprovalNotAllowed:
		return http.StatusForbidden
	case apperror.KindConflict,
		apperror.KindConcurrentModification,
		apperror.KindOverlappingRequest,
		apperror.KindInvalidTransition,
		apperror.KindAlreadyCancelled,
		apperror.KindCannotCancelRejected,
		apperror.KindCannotCancelStarted,
		apperror.KindCancellationNoticeViolation:
		return http.StatusConflict
	case "":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	writeJSON(w, StatusFor(appErr.Kind), Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    string(appErr.Kind),
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}
