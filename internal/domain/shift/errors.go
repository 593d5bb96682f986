package shift

import "github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"

var (
	ErrInvalidClockTime = apperror.New(apperror.KindInvalidTime, "time must use the format HH:MM")
	ErrShiftNotFound    = apperror.New(apperror.KindNotFound, "shift not found")
	ErrShiftCodeExists  = apperror.New(apperror.KindConflict, "shift code already exists")
	ErrEmptyShift       = apperror.New(apperror.KindValidationFailed, "shift start and end must differ")
)
