package calendar

import (
	"cmp"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
)

// Input is everything a working-day calculation depends on. A nil
// WeekendDays means Saturday and Sunday; an empty non-nil slice means the
// tenant has no weekend.
type Input struct {
	Start        time.Time
	End          time.Time
	Location     *time.Location
	WeekendDays  []time.Weekday
	Holidays     []calendar.HolidayEntry
	Region       string
	DurationType calendar.DurationType
	HalfDayType  calendar.HalfDayType
	EndExclusive bool
}

// Calculate walks the range one local day at a time and classifies each day
// as weekend, holiday or working, in that order of precedence. It has no side
// effects and a zero working-day result is not an error.
func Calculate(in Input) (calendar.WorkingDaysResult, error) {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	settings := calendar.Settings{WeekendDays: in.WeekendDays}
	if settings.WeekendDays == nil {
		settings.WeekendDays = calendar.DefaultWeekend()
	}

	start := calendar.StartOfDay(in.Start, loc)
	end := calendar.StartOfDay(in.End, loc)
	if in.EndExclusive {
		if !start.Before(end) {
			return calendar.WorkingDaysResult{}, calendar.NewInvalidRangeError(start, end)
		}
		end = end.AddDate(0, 0, -1)
	} else if start.After(end) {
		return calendar.WorkingDaysResult{}, calendar.NewInvalidRangeError(start, end)
	}

	holidays := applicableHolidays(in.Holidays, in.Region)

	result := calendar.WorkingDaysResult{
		StartDate: start.Format(calendar.DateLayout),
		EndDate:   end.Format(calendar.DateLayout),
		Breakdown: []calendar.DayBreakdown{},
		Holidays:  []calendar.HolidayEntry{},
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		entry := calendar.DayBreakdown{
			Date:    day.Format(calendar.DateLayout),
			Weekday: day.Weekday().String(),
		}

		switch {
		case settings.IsWeekend(day.Weekday()):
			entry.Kind = calendar.DayWeekend
			result.WeekendDays++
		default:
			if h, ok := holidayOn(holidays, day); ok {
				entry.Kind = calendar.DayHoliday
				entry.HolidayName = h.Name
				result.HolidayCount++
				h.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
				result.Holidays = append(result.Holidays, h)
			} else {
				entry.Kind = calendar.DayWorking
				entry.Credit = 1
			}
		}

		result.TotalDays++
		result.Breakdown = append(result.Breakdown, entry)
	}

	if in.DurationType == calendar.DurationHalfDay {
		applyHalfDay(&result, in.HalfDayType)
	}

	for _, d := range result.Breakdown {
		result.WorkingDays += d.Credit
	}

	return result, nil
}

// applyHalfDay halves one day's credit. An afternoon half-day starts the leave
// at midday so it lands on the first day; otherwise it lands on the last.
func applyHalfDay(result *calendar.WorkingDaysResult, halfDay calendar.HalfDayType) {
	pos := calendar.HalfDayLast
	idx := len(result.Breakdown) - 1
	switch {
	case len(result.Breakdown) == 1:
		pos = calendar.HalfDaySingle
	case halfDay == calendar.HalfDayAfternoon:
		pos = calendar.HalfDayFirst
		idx = 0
	}
	result.HalfDay = &pos

	if result.Breakdown[idx].Kind == calendar.DayWorking {
		result.Breakdown[idx].Credit = 0.5
	}
}

// applicableHolidays filters by region and sorts so that the holiday reported
// for a day does not depend on the order the store returned them in.
func applicableHolidays(all []calendar.HolidayEntry, region string) []calendar.HolidayEntry {
	out := make([]calendar.HolidayEntry, 0, len(all))
	for _, h := range all {
		if h.AppliesTo(region) {
			out = append(out, h)
		}
	}
	slices.SortFunc(out, func(a, b calendar.HolidayEntry) int {
		return cmp.Or(
			a.Date.Compare(b.Date),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out
}

func holidayOn(holidays []calendar.HolidayEntry, day time.Time) (calendar.HolidayEntry, bool) {
	for _, h := range holidays {
		if h.OccursOn(day) {
			return h, true
		}
	}
	return calendar.HolidayEntry{}, false
}

// CheckDay classifies a single day with the same rules as Calculate.
func CheckDay(day time.Time, loc *time.Location, weekend []time.Weekday, holidays []calendar.HolidayEntry, region string) calendar.WorkingDayCheck {
	res, _ := Calculate(Input{
		Start:       day,
		End:         day,
		Location:    loc,
		WeekendDays: weekend,
		Holidays:    holidays,
		Region:      region,
	})

	d := res.Breakdown[0]
	check := calendar.WorkingDayCheck{
		Date:         d.Date,
		IsWorkingDay: d.Kind == calendar.DayWorking,
		IsWeekend:    d.Kind == calendar.DayWeekend,
	}
	if len(res.Holidays) > 0 {
		h := res.Holidays[0]
		check.Holiday = &h
	}
	return check
}
