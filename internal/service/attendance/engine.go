package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/shopspring/decimal"
)

// Compute derives every attendance fact from one clock-in/clock-out pair.
// day is the local midnight of the attendance date in loc. Clock times are
// read on the wall clock of that day, so a departure after midnight stays
// after the shift end and DST changes do not shift them.
// Zero hours is a valid result.
func Compute(clockIn, clockOut time.Time, breakMinutes int, s shift.ShiftDefinition, day time.Time, loc *time.Location) attendance.Computation {
	worked := decimal.NewFromInt(int64(clockOut.Sub(clockIn) / time.Second)).Div(decimal.NewFromInt(3600)).
		Sub(decimal.NewFromInt(int64(breakMinutes)).Div(decimal.NewFromInt(60)))
	if worked.IsNegative() {
		worked = decimal.Zero
	}
	// The half-day test sees the exact duration, storage sees two decimals.
	halfDay := s.IsHalfDay(worked.InexactFloat64())
	worked = worked.Round(2)

	fullDay := decimal.NewFromFloat(s.MinHoursForFullDay)
	regular := decimal.Min(worked, fullDay)
	overtime := decimal.Max(decimal.Zero, worked.Sub(fullDay))

	arrival := shift.ClockTimeSince(day, clockIn, loc)
	departure := shift.ClockTimeSince(day, clockOut, loc)

	c := attendance.Computation{
		HoursWorked:           worked.InexactFloat64(),
		RegularHours:          regular.InexactFloat64(),
		OvertimeHours:         overtime.InexactFloat64(),
		IsLate:                s.IsLateArrival(arrival),
		LateMinutes:           s.LateMinutes(arrival),
		IsEarlyDeparture:      s.IsEarlyDeparture(departure),
		EarlyDepartureMinutes: s.EarlyDepartureMinutes(departure),
	}

	switch {
	case halfDay:
		c.Status = attendance.StatusHalfDay
	case c.IsLate:
		c.Status = attendance.StatusLate
	case c.IsEarlyDeparture:
		c.Status = attendance.StatusEarlyDeparture
	default:
		c.Status = attendance.StatusPresent
	}
	return c
}
