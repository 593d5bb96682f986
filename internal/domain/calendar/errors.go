package calendar

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/apperror"
)

var (
	ErrInvalidRange     = apperror.New(apperror.KindInvalidRange, "start date must not be after end date")
	ErrInvalidDate      = apperror.New(apperror.KindValidationFailed, "date must use the format YYYY-MM-DD")
	ErrInvalidTimeZone  = apperror.New(apperror.KindValidationFailed, "unknown time zone")
	ErrSettingsNotFound = apperror.New(apperror.KindNotFound, "calendar settings not found")
	ErrHolidayNotFound  = apperror.New(apperror.KindNotFound, "holiday not found")
)

func NewInvalidRangeError(start, end time.Time) error {
	return ErrInvalidRange.
		WithMessage("start date %s must not be after end date %s", start.Format(DateLayout), end.Format(DateLayout)).
		WithDetail("start_date", start.Format(DateLayout)).
		WithDetail("end_date", end.Format(DateLayout))
}
