package shift

import "github.com/shopspring/decimal"

// CrossesMidnight reports whether the shift ends on the following day.
func (s ShiftDefinition) CrossesMidnight() bool {
	return s.EndTime < s.StartTime
}

func (s ShiftDefinition) startMinutes() int {
	return s.StartTime.Minutes()
}

func (s ShiftDefinition) endMinutes() int {
	end := s.EndTime.Minutes()
	if s.CrossesMidnight() {
		end += minutesPerDay
	}
	return end
}

// normalizeDeparture places a departure on the shift's timeline. Values of
// 24:00 and later are already on the following day. For a midnight-crossing
// shift, departures in the morning half of the off-shift gap belong to the
// next day, so 06:05 on a 22:00-06:00 shift sits just after the end.
// Arrivals are read as given: they are measured from the record's own day.
func (s ShiftDefinition) normalizeDeparture(t ClockTime) int {
	m := t.Minutes()
	if m >= minutesPerDay || !s.CrossesMidnight() {
		return m
	}
	pivot := (s.EndTime.Minutes() + s.StartTime.Minutes()) / 2
	if m < pivot {
		m += minutesPerDay
	}
	return m
}

func (s ShiftDefinition) IsLateArrival(arrival ClockTime) bool {
	return arrival.Minutes() > s.startMinutes()+s.GracePeriodMinutes
}

func (s ShiftDefinition) LateMinutes(arrival ClockTime) int {
	return max(0, arrival.Minutes()-s.startMinutes()-s.GracePeriodMinutes)
}

func (s ShiftDefinition) IsEarlyDeparture(departure ClockTime) bool {
	return s.normalizeDeparture(departure) < s.endMinutes()-s.EarlyDepartureAllowanceMinutes
}

func (s ShiftDefinition) EarlyDepartureMinutes(departure ClockTime) int {
	return max(0, s.endMinutes()-s.EarlyDepartureAllowanceMinutes-s.normalizeDeparture(departure))
}

// CalculateOvertime is the time worked beyond the overtime threshold,
// rounded to two decimals.
func (s ShiftDefinition) CalculateOvertime(hoursWorked float64) float64 {
	return RoundHours(max(0, hoursWorked-s.OvertimeThresholdHours))
}

// IsHalfDay is strict: working exactly the threshold is not a half day.
func (s ShiftDefinition) IsHalfDay(hoursWorked float64) bool {
	return hoursWorked < s.HalfDayThresholdHours
}

// ScheduledHours is the length of the shift window.
func (s ShiftDefinition) ScheduledHours() float64 {
	return RoundHours(float64(s.endMinutes()-s.startMinutes()) / 60)
}

func RoundHours(h float64) float64 {
	return decimal.NewFromFloat(h).Round(2).InexactFloat64()
}
