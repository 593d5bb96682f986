package shift

import (
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

type CreateShiftRequest struct {
	Code                           string  `json:"code" validate:"required,max=50"`
	Name                           string  `json:"name" validate:"required,max=255"`
	StartTime                      string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime                        string  `json:"end_time" validate:"required,datetime=15:04"`
	GracePeriodMinutes             int     `json:"grace_period_minutes" validate:"gte=0"`
	EarlyDepartureAllowanceMinutes int     `json:"early_departure_allowance_minutes" validate:"gte=0"`
	OvertimeThresholdHours         float64 `json:"overtime_threshold_hours" validate:"gte=0"`
	MinHoursForFullDay             float64 `json:"min_hours_for_full_day" validate:"gt=0"`
	HalfDayThresholdHours          float64 `json:"half_day_threshold_hours" validate:"gte=0"`
}

func (r *CreateShiftRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.StartTime == r.EndTime {
		return ErrEmptyShift
	}
	if r.HalfDayThresholdHours > r.MinHoursForFullDay {
		return validator.ValidationErrors{{
			Field:   "half_day_threshold_hours",
			Message: "half_day_threshold_hours must not exceed min_hours_for_full_day",
		}}
	}
	return nil
}

type ShiftResponse struct {
	ID                             string    `json:"id"`
	Code                           string    `json:"code"`
	Name                           string    `json:"name"`
	StartTime                      ClockTime `json:"start_time"`
	EndTime                        ClockTime `json:"end_time"`
	GracePeriodMinutes             int       `json:"grace_period_minutes"`
	EarlyDepartureAllowanceMinutes int       `json:"early_departure_allowance_minutes"`
	OvertimeThresholdHours         float64   `json:"overtime_threshold_hours"`
	MinHoursForFullDay             float64   `json:"min_hours_for_full_day"`
	HalfDayThresholdHours          float64   `json:"half_day_threshold_hours"`
	IsNightShift                   bool      `json:"is_night_shift"`
	IsActive                       bool      `json:"is_active"`
}

func NewShiftResponse(s ShiftDefinition) ShiftResponse {
	return ShiftResponse{
		ID:                             s.ID,
		Code:                           s.Code,
		Name:                           s.Name,
		StartTime:                      s.StartTime,
		EndTime:                        s.EndTime,
		GracePeriodMinutes:             s.GracePeriodMinutes,
		EarlyDepartureAllowanceMinutes: s.EarlyDepartureAllowanceMinutes,
		OvertimeThresholdHours:         s.OvertimeThresholdHours,
		MinHoursForFullDay:             s.MinHoursForFullDay,
		HalfDayThresholdHours:          s.HalfDayThresholdHours,
		IsNightShift:                   s.IsNightShift,
		IsActive:                       s.IsActive,
	}
}
