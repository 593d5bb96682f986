package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"
)

var (
	ErrUnknownLeaveType            = apperror.New(apperror.KindUnknownLeaveType, "leave type does not exist or is inactive")
	ErrNoWorkingDays               = apperror.New(apperror.KindNoWorkingDays, "requested range contains no working days")
	ErrDurationMismatch            = apperror.New(apperror.KindDurationMismatch, "supplied duration does not match the calculated working days")
	ErrInsufficientNotice          = apperror.New(apperror.KindInsufficientNotice, "leave does not meet the minimum notice period")
	ErrExceedsMaxConsecutiveDays   = apperror.New(apperror.KindExceedsMaxConsecutiveDays, "leave exceeds the maximum consecutive days")
	ErrInsufficientBalance         = apperror.New(apperror.KindInsufficientBalance, "insufficient leave balance")
	ErrOverlappingRequest          = apperror.New(apperror.KindOverlappingRequest, "leave overlaps an existing request")
	ErrDocumentRequired            = apperror.New(apperror.KindDocumentRequired, "a supporting document is required")
	ErrSelfApprovalNotAllowed      = apperror.New(apperror.KindSelfApprovalNotAllowed, "requester cannot approve their own leave")
	ErrInvalidTransition           = apperror.New(apperror.KindInvalidTransition, "transition not allowed from the current status")
	ErrUnauthorized                = apperror.New(apperror.KindUnauthorized, "caller is not allowed to act on this leave request")
	ErrAlreadyCancelled            = apperror.New(apperror.KindAlreadyCancelled, "leave request is already cancelled")
	ErrCannotCancelRejected        = apperror.New(apperror.KindCannotCancelRejected, "rejected leave cannot be cancelled")
	ErrCannotCancelStarted         = apperror.New(apperror.KindCannotCancelStarted, "approved leave that has started cannot be cancelled")
	ErrCancellationNoticeViolation = apperror.New(apperror.KindCancellationNoticeViolation, "cancellation is too close to the leave start date")
	ErrConcurrentModification      = apperror.New(apperror.KindConcurrentModification, "leave request was modified concurrently, reload and retry")

	ErrLeaveRequestNotFound    = apperror.New(apperror.KindNotFound, "leave request not found")
	ErrLeaveTypeNotFound       = apperror.New(apperror.KindNotFound, "leave type not found")
	ErrLeaveTypeCodeExists     = apperror.New(apperror.KindConflict, "leave type code already exists")
	ErrLeaveTypeCodeImmutable  = apperror.New(apperror.KindConflict, "leave type code cannot change once requests reference it")
	ErrRejectionReasonRequired = apperror.New(apperror.KindValidationFailed, "rejection reason is required")
)

func NewUnknownLeaveTypeError(code string) error {
	return ErrUnknownLeaveType.
		WithMessage("leave type %q does not exist or is inactive", code).
		WithDetail("leave_type_code", code)
}

func NewDurationMismatchError(supplied, calculated float64) error {
	return ErrDurationMismatch.
		WithMessage("supplied duration %v does not match %v calculated working days", supplied, calculated).
		WithDetail("supplied", supplied).
		WithDetail("calculated", calculated)
}

func NewInsufficientNoticeError(start, earliest time.Time, noticeDays int) error {
	return ErrInsufficientNotice.
		WithMessage("leave starting %s needs %d days notice, earliest allowed start is %s",
			start.Format(calendar.DateLayout), noticeDays, earliest.Format(calendar.DateLayout)).
		WithDetail("start_date", start.Format(calendar.DateLayout)).
		WithDetail("earliest_start_date", earliest.Format(calendar.DateLayout)).
		WithDetail("min_notice_days", noticeDays)
}

func NewExceedsMaxConsecutiveDaysError(requested float64, max int) error {
	return ErrExceedsMaxConsecutiveDays.
		WithMessage("requested %v working days exceeds the maximum of %d consecutive days", requested, max).
		WithDetail("requested", requested).
		WithDetail("max_consecutive_days", max)
}

func NewInsufficientBalanceError(available, requested, used, pending float64) error {
	return ErrInsufficientBalance.
		WithMessage("insufficient leave balance: available %v, requested %v, used %v, pending %v",
			available, requested, used, pending).
		WithDetail("available", available).
		WithDetail("requested", requested).
		WithDetail("used", used).
		WithDetail("pending", pending)
}

func NewOverlappingRequestError(conflict LeaveRequest) error {
	return ErrOverlappingRequest.
		WithMessage("leave overlaps request %s from %s to %s (%s)",
			conflict.ID, conflict.StartDate.Format(calendar.DateLayout), conflict.EndDate.Format(calendar.DateLayout), conflict.Status).
		WithDetail("conflicting_request_id", conflict.ID).
		WithDetail("conflicting_start_date", conflict.StartDate.Format(calendar.DateLayout)).
		WithDetail("conflicting_end_date", conflict.EndDate.Format(calendar.DateLayout)).
		WithDetail("conflicting_status", string(conflict.Status))
}

func NewDocumentRequiredError(workingDays float64, threshold int) error {
	return ErrDocumentRequired.
		WithMessage("leave of %v working days requires a supporting document (threshold %d days)", workingDays, threshold).
		WithDetail("working_days", workingDays).
		WithDetail("threshold_days", threshold)
}

func NewInvalidTransitionError(from Status, action Action) error {
	return ErrInvalidTransition.
		WithMessage("cannot %s a leave request that is %s", action, from).
		WithDetail("status", string(from)).
		WithDetail("action", string(action))
}

func NewCannotCancelStartedError(start time.Time) error {
	return ErrCannotCancelStarted.
		WithMessage("approved leave started on %s and can no longer be cancelled", start.Format(calendar.DateLayout)).
		WithDetail("start_date", start.Format(calendar.DateLayout))
}

func NewCancellationNoticeViolationError(start, deadline time.Time, noticeDays int) error {
	return ErrCancellationNoticeViolation.
		WithMessage("leave starting %s had to be cancelled by %s (%d days notice)",
			start.Format(calendar.DateLayout), deadline.Format(calendar.DateLayout), noticeDays).
		WithDetail("start_date", start.Format(calendar.DateLayout)).
		WithDetail("cancellation_deadline", deadline.Format(calendar.DateLayout)).
		WithDetail("cancellation_notice_days", noticeDays)
}

func NewConcurrentModificationError(requestID string) error {
	return ErrConcurrentModification.WithDetail("request_id", requestID)
}
