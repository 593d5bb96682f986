package attendance

import (
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

type ClockInRequest struct {
	Source string  `json:"source,omitempty" validate:"omitempty,max=50"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *ClockInRequest) Validate() error {
	return validator.Struct(r)
}

type ClockOutRequest struct {
	Source string  `json:"source,omitempty" validate:"omitempty,max=50"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

func (r *ClockOutRequest) Validate() error {
	return validator.Struct(r)
}

type StartBreakRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=255"`
}

func (r *StartBreakRequest) Validate() error {
	return validator.Struct(r)
}

// UpdateAttendanceRequest corrects a record. Timestamps are RFC 3339.
type UpdateAttendanceRequest struct {
	ID                   string  `json:"-"`
	ClockIn              *string `json:"clock_in,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ClockOut             *string `json:"clock_out,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	BreakDurationMinutes *int    `json:"break_duration_minutes,omitempty" validate:"omitempty,gte=0"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	return validator.Struct(r)
}

type AttendanceFilter struct {
	CompanyID  string
	EmployeeID *string
	DateFrom   *string
	DateTo     *string
}
