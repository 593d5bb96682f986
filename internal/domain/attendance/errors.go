package attendance

import "github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"

// Attendance domain errors
var (
	ErrAlreadyClockedIn      = apperror.New(apperror.KindConflict, "you have already clocked in today")
	ErrNotClockedIn          = apperror.New(apperror.KindConflict, "you have not clocked in yet")
	ErrAlreadyClockedOut     = apperror.New(apperror.KindConflict, "you have already clocked out")
	ErrBreakInProgress       = apperror.New(apperror.KindConflict, "a break is already in progress")
	ErrNoBreakInProgress     = apperror.New(apperror.KindConflict, "no break is in progress")
	ErrClockOutBeforeClockIn = apperror.New(apperror.KindInvalidTime, "clock-out must be after clock-in")
	ErrInvalidTimestamp      = apperror.New(apperror.KindInvalidTime, "timestamp must be RFC 3339")
	ErrAttendanceNotFound    = apperror.New(apperror.KindNotFound, "attendance record not found")
	ErrUnauthorized          = apperror.New(apperror.KindUnauthorized, "unauthorized to access this attendance record")
	ErrConcurrentUpdate      = apperror.New(apperror.KindConcurrentModification, "attendance record was modified concurrently, reload and retry")
)
