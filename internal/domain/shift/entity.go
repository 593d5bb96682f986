package shift

import "time"

// ShiftDefinition is a tenant's named working window. An EndTime earlier than
// StartTime means the shift crosses midnight.
type ShiftDefinition struct {
	ID                             string
	CompanyID                      string
	Code                           string
	Name                           string
	StartTime                      ClockTime
	EndTime                        ClockTime
	GracePeriodMinutes             int
	EarlyDepartureAllowanceMinutes int
	OvertimeThresholdHours         float64
	MinHoursForFullDay             float64
	HalfDayThresholdHours          float64
	IsNightShift                   bool
	IsActive                       bool
	CreatedAt                      time.Time
	UpdatedAt                      time.Time
}

const FallbackShiftCode = "__fallback__"

// FallbackShift is used when neither the employee nor the tenant names a
// shift: lateness after 09:30, early departure before 18:00, 8 regular hours.
func FallbackShift() ShiftDefinition {
	return ShiftDefinition{
		Code:                   FallbackShiftCode,
		Name:                   "Default office hours",
		StartTime:              NewClockTime(9, 30),
		EndTime:                NewClockTime(18, 0),
		OvertimeThresholdHours: 8,
		MinHoursForFullDay:     8,
		HalfDayThresholdHours:  4,
		IsActive:               true,
	}
}
