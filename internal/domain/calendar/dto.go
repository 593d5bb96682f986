package calendar

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/validator"
)

type WorkingDaysRequest struct {
	StartDate    string       `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string       `json:"end_date" validate:"required,datetime=2006-01-02"`
	Region       *string      `json:"region,omitempty"`
	DurationType DurationType `json:"duration_type" validate:"omitempty,oneof=full_day half_day"`
	HalfDayType  HalfDayType  `json:"half_day_type" validate:"omitempty,oneof=morning afternoon"`
	EndExclusive bool         `json:"end_exclusive"`
}

func (r *WorkingDaysRequest) Validate() error {
	return validator.Struct(r)
}

func (r WorkingDaysRequest) RegionCode() string {
	if r.Region == nil {
		return ""
	}
	return *r.Region
}

type CreateHolidayRequest struct {
	Date              string      `json:"date" validate:"required,datetime=2006-01-02"`
	Name              string      `json:"name" validate:"required,max=255"`
	Type              HolidayType `json:"type" validate:"required,oneof=public company optional"`
	IsRecurring       bool        `json:"is_recurring"`
	ApplicableRegions []string    `json:"applicable_regions,omitempty"`
}

func (r *CreateHolidayRequest) Validate() error {
	return validator.Struct(r)
}

type UpdateSettingsRequest struct {
	TimeZone         string   `json:"time_zone" validate:"required"`
	WeekendDays      []string `json:"weekend_days" validate:"omitempty,dive,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	DefaultShiftCode *string  `json:"default_shift_code,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if _, err := time.LoadLocation(r.TimeZone); err != nil {
		return validator.ValidationErrors{{
			Field:   "time_zone",
			Message: "time_zone must be an IANA time zone name",
		}}
	}
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Weekdays converts validated day names. Duplicates collapse.
func (r UpdateSettingsRequest) Weekdays() []time.Weekday {
	seen := make(map[time.Weekday]bool, len(r.WeekendDays))
	out := make([]time.Weekday, 0, len(r.WeekendDays))
	for _, name := range r.WeekendDays {
		d := weekdayNames[name]
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
