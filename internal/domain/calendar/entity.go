package calendar

import (
	"slices"
	"time"
)

const DateLayout = "2006-01-02"

type HolidayType string

const (
	HolidayTypePublic   HolidayType = "public"
	HolidayTypeCompany  HolidayType = "company"
	HolidayTypeOptional HolidayType = "optional"
)

// HolidayEntry is tenant reference data consulted by the working-day
// calculator. Date carries only a calendar day; its clock and zone are ignored.
type HolidayEntry struct {
	ID                string      `json:"id"`
	CompanyID         string      `json:"company_id"`
	Date              time.Time   `json:"date"`
	Name              string      `json:"name"`
	Type              HolidayType `json:"type"`
	IsRecurring       bool        `json:"is_recurring"`
	RecurringMonth    int         `json:"recurring_month,omitempty"`
	RecurringDay      int         `json:"recurring_day,omitempty"`
	ApplicableRegions []string    `json:"applicable_regions,omitempty"`
}

// AppliesTo reports whether the holiday is observed in region. Public and
// unrestricted holidays apply everywhere.
func (h HolidayEntry) AppliesTo(region string) bool {
	if h.Type == HolidayTypePublic || len(h.ApplicableRegions) == 0 {
		return true
	}
	return region != "" && slices.Contains(h.ApplicableRegions, region)
}

// OccursOn compares calendar fields only, so day may be in any location.
func (h HolidayEntry) OccursOn(day time.Time) bool {
	if h.IsRecurring {
		month, dom := time.Month(h.RecurringMonth), h.RecurringDay
		if month == 0 || dom == 0 {
			month, dom = h.Date.Month(), h.Date.Day()
		}
		return day.Month() == month && day.Day() == dom
	}
	return h.Date.Year() == day.Year() && h.Date.Month() == day.Month() && h.Date.Day() == day.Day()
}

// Settings is the per-tenant calendar configuration threaded into every
// calculation.
type Settings struct {
	CompanyID        string         `json:"company_id"`
	TimeZone         string         `json:"time_zone"`
	WeekendDays      []time.Weekday `json:"weekend_days"`
	DefaultShiftCode *string        `json:"default_shift_code,omitempty"`
}

func DefaultWeekend() []time.Weekday {
	return []time.Weekday{time.Saturday, time.Sunday}
}

func (s Settings) Location() (*time.Location, error) {
	if s.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return nil, ErrInvalidTimeZone.WithDetail("time_zone", s.TimeZone)
	}
	return loc, nil
}

func (s Settings) IsWeekend(d time.Weekday) bool {
	return slices.Contains(s.WeekendDays, d)
}

type DurationType string

const (
	DurationFullDay DurationType = "full_day"
	DurationHalfDay DurationType = "half_day"
)

type HalfDayType string

const (
	HalfDayMorning   HalfDayType = "morning"
	HalfDayAfternoon HalfDayType = "afternoon"
)

type DayKind string

const (
	DayWorking DayKind = "working"
	DayWeekend DayKind = "weekend"
	DayHoliday DayKind = "holiday"
)

// HalfDayPosition records which day of a range carries the half-day.
type HalfDayPosition string

const (
	HalfDayFirst  HalfDayPosition = "first"
	HalfDayLast   HalfDayPosition = "last"
	HalfDaySingle HalfDayPosition = "single"
)

type DayBreakdown struct {
	Date        string  `json:"date"`
	Weekday     string  `json:"weekday"`
	Kind        DayKind `json:"kind"`
	HolidayName string  `json:"holiday_name,omitempty"`
	Credit      float64 `json:"credit"`
}

type WorkingDaysResult struct {
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	TotalDays    int              `json:"total_days"`
	WorkingDays  float64          `json:"working_days"`
	WeekendDays  int              `json:"weekend_days"`
	HolidayCount int              `json:"holiday_count"`
	HalfDay      *HalfDayPosition `json:"half_day,omitempty"`
	Breakdown    []DayBreakdown   `json:"breakdown"`
	Holidays     []HolidayEntry   `json:"holidays"`
}

type WorkingDayCheck struct {
	Date         string        `json:"date"`
	IsWorkingDay bool          `json:"is_working_day"`
	IsWeekend    bool          `json:"is_weekend"`
	Holiday      *HolidayEntry `json:"holiday,omitempty"`
}
