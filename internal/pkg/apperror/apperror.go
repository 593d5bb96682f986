package apperror

import (
	"errors"
	"fmt"
	"maps"
)

// Kind names a business failure the caller can act on.
type Kind string

const (
	KindInvalidRange                Kind = "InvalidRange"
	KindUnknownLeaveType            Kind = "UnknownLeaveType"
	KindNoWorkingDays               Kind = "NoWorkingDays"
	KindDurationMismatch            Kind = "DurationMismatch"
	KindInsufficientNotice          Kind = "InsufficientNotice"
	KindExceedsMaxConsecutiveDays   Kind = "ExceedsMaxConsecutiveDays"
	KindInsufficientBalance         Kind = "InsufficientBalance"
	KindOverlappingRequest          Kind = "OverlappingRequest"
	KindDocumentRequired            Kind = "DocumentRequired"
	KindSelfApprovalNotAllowed      Kind = "SelfApprovalNotAllowed"
	KindInvalidTransition           Kind = "InvalidTransition"
	KindUnauthorized                Kind = "Unauthorized"
	KindAlreadyCancelled            Kind = "AlreadyCancelled"
	KindCannotCancelRejected        Kind = "CannotCancelRejected"
	KindCannotCancelStarted         Kind = "CannotCancelStarted"
	KindCancellationNoticeViolation Kind = "CancellationNoticeViolation"
	KindConcurrentModification      Kind = "ConcurrentModification"

	KindNotFound         Kind = "NotFound"
	KindValidationFailed Kind = "ValidationFailed"
	KindInvalidTime      Kind = "InvalidTime"
	KindConflict         Kind = "Conflict"
)

// Error is a recoverable business error. Two errors match under errors.Is
// when they share a Kind, so sentinels declared with New can be compared
// against detailed errors built with Newf or WithDetail.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithDetail returns a copy carrying an extra structured detail.
func (e *Error) WithDetail(key string, value any) *Error {
	cp := *e
	cp.Details = maps.Clone(e.Details)
	if cp.Details == nil {
		cp.Details = make(map[string]any)
	}
	cp.Details[key] = value
	return &cp
}

// WithMessage returns a copy with a more specific message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	cp := *e
	cp.Details = maps.Clone(e.Details)
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// KindOf reports the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
